package field

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/gogpu/isomesh"
)

// SDF3 adapts an sdfx CAD model to the Sampler interface, so solids
// built with sdfx's constructive geometry can be meshed directly.
// sdfx evaluates in float64; the adapter narrows to float32 at the
// boundary.
type SDF3 struct {
	s sdf.SDF3
}

// FromSDF3 wraps an sdfx solid as a scalar field.
func FromSDF3(s sdf.SDF3) SDF3 {
	return SDF3{s: s}
}

// Sample evaluates the wrapped solid's signed distance at p.
func (f SDF3) Sample(p isomesh.Vec3) float32 {
	return float32(f.s.Evaluate(v3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}))
}

// GridFor returns a grid that covers the solid's bounding box, padded by
// one cell on every side so the surface never touches the grid boundary,
// with cells per axis chosen so the longest axis gets n cells.
func (f SDF3) GridFor(n int) isomesh.Grid {
	bb := f.s.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	longest := size.X
	if size.Y > longest {
		longest = size.Y
	}
	if size.Z > longest {
		longest = size.Z
	}
	if n < 1 {
		n = 1
	}
	cell := float32(longest) / float32(n)
	pad := cell
	min := isomesh.Vec3{
		X: float32(bb.Min.X) - pad,
		Y: float32(bb.Min.Y) - pad,
		Z: float32(bb.Min.Z) - pad,
	}
	cells := func(extent float64) int {
		c := int(float32(extent)/cell) + 3
		return c
	}
	return isomesh.Grid{
		Size:     [3]int{cells(size.X), cells(size.Y), cells(size.Z)},
		Origin:   min,
		CellSize: cell,
	}
}
