package isomesh

import (
	"fmt"

	"github.com/gogpu/isomesh/internal/parallel"
)

// mcCornerOffsets maps a corner index to its lattice offset within a
// cell, in the canonical numbering shared with the edge and triangle
// tables: corners 0-3 counterclockwise on the bottom face starting at
// the cell origin, corners 4-7 directly above them.
var mcCornerOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// Sampler is a scalar field evaluated at arbitrary points. Samplers must
// be safe for concurrent use; the parallel meshers call Sample from many
// goroutines at once.
type Sampler interface {
	Sample(p Vec3) float32
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func(p Vec3) float32

// Sample calls f(p).
func (f SamplerFunc) Sample(p Vec3) float32 { return f(p) }

// Grid describes the uniform cell lattice the surface is extracted over.
// Size counts cells per axis, so the lattice has Size[i]+1 sample points
// along axis i. Origin is the world position of corner (0,0,0) and
// CellSize the world edge length of one cubic cell.
type Grid struct {
	Size     [3]int
	Origin   Vec3
	CellSize float32
}

// NewGrid returns a cubic grid of n cells per axis centered on the world
// origin, the layout the terrain chunker uses.
func NewGrid(n int, cellSize float32) Grid {
	half := float32(n) * cellSize / 2
	return Grid{
		Size:     [3]int{n, n, n},
		Origin:   Vec3{-half, -half, -half},
		CellSize: cellSize,
	}
}

// Validate reports whether the grid can be marched.
func (g Grid) Validate() error {
	if g.Size[0] < 1 || g.Size[1] < 1 || g.Size[2] < 1 {
		return fmt.Errorf("isomesh: grid size %v must be at least 1 cell per axis", g.Size)
	}
	if g.CellSize <= 0 {
		return fmt.Errorf("isomesh: cell size %g must be positive", g.CellSize)
	}
	return nil
}

// CellCount returns the number of cells in the grid.
func (g Grid) CellCount() int {
	return g.Size[0] * g.Size[1] * g.Size[2]
}

// cellCoord recovers the (x, y, z) cell coordinate from a linear cell
// index. The linear order is x fastest, then y, then z, matching the
// invocation order of the GPU kernel.
func (g Grid) cellCoord(index int) (x, y, z int) {
	x = index % g.Size[0]
	index /= g.Size[0]
	y = index % g.Size[1]
	z = index / g.Size[1]
	return x, y, z
}

// CornerPos returns the world position of lattice point (x, y, z).
func (g Grid) CornerPos(x, y, z int) Vec3 {
	return Vec3{
		X: g.Origin.X + float32(x)*g.CellSize,
		Y: g.Origin.Y + float32(y)*g.CellSize,
		Z: g.Origin.Z + float32(z)*g.CellSize,
	}
}

// cell gathers the 8 corner samples of cell (x, y, z) in canonical
// corner order.
func (g Grid) cell(s Sampler, x, y, z int) Cell {
	var c Cell
	for i, off := range mcCornerOffsets {
		p := g.CornerPos(x+off[0], y+off[1], z+off[2])
		c[i] = Corner{Pos: p, Value: s.Sample(p)}
	}
	return c
}

// March extracts the isosurface sequentially and returns the triangle
// soup in cell index order.
func (g Grid) March(s Sampler, isoLevel float32) ([]Triangle, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	var tris []Triangle
	for z := 0; z < g.Size[2]; z++ {
		for y := 0; y < g.Size[1]; y++ {
			for x := 0; x < g.Size[0]; x++ {
				c := g.cell(s, x, y, z)
				tris = c.AppendTriangles(tris, isoLevel)
			}
		}
	}
	return tris, nil
}

// MarchTo extracts the isosurface sequentially, emitting each
// geometry-producing cell's triangles to the sink.
func (g Grid) MarchTo(s Sampler, isoLevel float32, sink TriangleSink) error {
	if err := g.Validate(); err != nil {
		return err
	}
	var scratch [MaxTrianglesPerCell]Triangle
	index := 0
	for z := 0; z < g.Size[2]; z++ {
		for y := 0; y < g.Size[1]; y++ {
			for x := 0; x < g.Size[0]; x++ {
				c := g.cell(s, x, y, z)
				if tris := c.AppendTriangles(scratch[:0], isoLevel); len(tris) > 0 {
					sink.Emit(index, tris)
				}
				index++
			}
		}
	}
	return nil
}

// MarchParallel extracts the isosurface using a worker pool and returns
// the triangle soup. Triangle order is unspecified; the triangle set is
// identical to March's. Options control worker count and batch grain.
func (g Grid) MarchParallel(s Sampler, isoLevel float32, opts ...Option) ([]Triangle, error) {
	buf := NewCountedBuffer(g.CellCount())
	if err := g.MarchParallelTo(s, isoLevel, buf, opts...); err != nil {
		return nil, err
	}
	return buf.Triangles(), nil
}

// MarchParallelTo extracts the isosurface using a worker pool, emitting
// each geometry-producing cell's triangles to the sink. The sink's Emit
// is called concurrently, at most once per cell.
func (g Grid) MarchParallelTo(s Sampler, isoLevel float32, sink TriangleSink, opts ...Option) error {
	if err := g.Validate(); err != nil {
		return err
	}
	o := defaultMarchOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pool := o.pool
	if pool == nil {
		pool = parallel.NewWorkerPool(o.workers)
		defer pool.Close()
	}

	n := g.CellCount()
	Logger().Debug("isomesh: parallel march",
		"cells", n, "workers", pool.Workers(), "iso", isoLevel)

	pool.For(n, o.grain, func(start, end int) {
		var scratch [MaxTrianglesPerCell]Triangle
		for i := start; i < end; i++ {
			x, y, z := g.cellCoord(i)
			c := g.cell(s, x, y, z)
			if tris := c.AppendTriangles(scratch[:0], isoLevel); len(tris) > 0 {
				sink.Emit(i, tris)
			}
		}
	})
	return nil
}

// SampleField evaluates the sampler at every lattice point and returns
// the values with x fastest, then y, then z. The slice has
// (Size[0]+1)*(Size[1]+1)*(Size[2]+1) entries. The GPU path uploads this
// lattice instead of calling the sampler per cell.
func (g Grid) SampleField(s Sampler) []float32 {
	nx, ny, nz := g.Size[0]+1, g.Size[1]+1, g.Size[2]+1
	out := make([]float32, nx*ny*nz)
	i := 0
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				out[i] = s.Sample(g.CornerPos(x, y, z))
				i++
			}
		}
	}
	return out
}
