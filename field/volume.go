package field

import (
	"fmt"
	"image"
	"os"

	"github.com/chewxy/math32"

	// Slice decoders. TIFF and BMP are the formats scanner exports
	// typically arrive in; PNG and JPEG cover the rest.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/gogpu/isomesh"
)

// Volume is a dense voxel grid sampled with trilinear interpolation.
// Data is ordered x fastest, then y, then z. Spacing is the world
// distance between neighboring voxels per axis.
//
// Points outside the volume sample the nearest boundary voxel. A volume
// whose interesting region touches its boundary should be padded by the
// producer; the field cannot guess what lies beyond the data.
type Volume struct {
	Data       []float32
	Nx, Ny, Nz int
	Origin     isomesh.Vec3
	Spacing    isomesh.Vec3
}

// NewVolume returns a zero-filled volume.
func NewVolume(nx, ny, nz int) *Volume {
	return &Volume{
		Data:    make([]float32, nx*ny*nz),
		Nx:      nx,
		Ny:      ny,
		Nz:      nz,
		Spacing: isomesh.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// At returns the voxel value at integer coordinates, clamped to the
// volume bounds.
func (v *Volume) At(x, y, z int) float32 {
	x = clampInt(x, 0, v.Nx-1)
	y = clampInt(y, 0, v.Ny-1)
	z = clampInt(z, 0, v.Nz-1)
	return v.Data[(z*v.Ny+y)*v.Nx+x]
}

// Set stores a voxel value. Out-of-range coordinates panic, same as a
// slice index would.
func (v *Volume) Set(x, y, z int, value float32) {
	v.Data[(z*v.Ny+y)*v.Nx+x] = value
}

// Sample returns the trilinearly interpolated value at world point p.
func (v *Volume) Sample(p isomesh.Vec3) float32 {
	fx := (p.X - v.Origin.X) / v.Spacing.X
	fy := (p.Y - v.Origin.Y) / v.Spacing.Y
	fz := (p.Z - v.Origin.Z) / v.Spacing.Z

	x0 := int(math32.Floor(fx))
	y0 := int(math32.Floor(fy))
	z0 := int(math32.Floor(fz))
	tx := fx - float32(x0)
	ty := fy - float32(y0)
	tz := fz - float32(z0)

	c000 := v.At(x0, y0, z0)
	c100 := v.At(x0+1, y0, z0)
	c010 := v.At(x0, y0+1, z0)
	c110 := v.At(x0+1, y0+1, z0)
	c001 := v.At(x0, y0, z0+1)
	c101 := v.At(x0+1, y0, z0+1)
	c011 := v.At(x0, y0+1, z0+1)
	c111 := v.At(x0+1, y0+1, z0+1)

	c00 := c000 + (c100-c000)*tx
	c10 := c010 + (c110-c010)*tx
	c01 := c001 + (c101-c001)*tx
	c11 := c011 + (c111-c011)*tx
	c0 := c00 + (c10-c00)*ty
	c1 := c01 + (c11-c01)*ty
	return c0 + (c1-c0)*tz
}

// Grid returns the natural extraction grid for the volume: one cell
// between each pair of neighboring voxels.
func (v *Volume) Grid() isomesh.Grid {
	return isomesh.Grid{
		Size:     [3]int{v.Nx - 1, v.Ny - 1, v.Nz - 1},
		Origin:   v.Origin,
		CellSize: v.Spacing.X,
	}
}

// LoadSlices builds a volume from a stack of grayscale image files, one
// file per z slice in the given order. Pixel luminance maps to [0, 1].
// All slices must share the same dimensions.
func LoadSlices(paths []string) (*Volume, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("field: no slice files given")
	}

	var vol *Volume
	for z, path := range paths {
		img, err := decodeImage(path)
		if err != nil {
			return nil, fmt.Errorf("field: slice %d: %w", z, err)
		}
		b := img.Bounds()
		if vol == nil {
			vol = NewVolume(b.Dx(), b.Dy(), len(paths))
		} else if b.Dx() != vol.Nx || b.Dy() != vol.Ny {
			return nil, fmt.Errorf("field: slice %d is %dx%d, want %dx%d",
				z, b.Dx(), b.Dy(), vol.Nx, vol.Ny)
		}
		for y := 0; y < vol.Ny; y++ {
			for x := 0; x < vol.Nx; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				// Rec. 601 luma over the 16-bit channel values.
				luma := 0.299*float32(r) + 0.587*float32(g) + 0.114*float32(bl)
				vol.Set(x, y, z, luma/0xffff)
			}
		}
	}

	isomesh.Logger().Debug("field: slice stack loaded",
		"slices", vol.Nz, "width", vol.Nx, "height", vol.Ny)
	return vol, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
