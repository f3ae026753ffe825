package isomesh

import (
	"sort"
	"testing"

	"github.com/chewxy/math32"
)

// sphereField is the signed distance to a radius-1 sphere at the origin.
var sphereField = SamplerFunc(func(p Vec3) float32 {
	return p.Length() - 1
})

func testGrid() Grid {
	return NewGrid(16, 0.2) // spans [-1.6, 1.6] per axis
}

func TestMarchSphere(t *testing.T) {
	g := testGrid()
	tris, err := g.March(sphereField, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) == 0 {
		t.Fatal("no triangles for a sphere crossing the grid")
	}

	// Every vertex must sit near the sphere surface. Linear
	// interpolation along a cell edge cannot miss by more than the
	// field's variation across one cell.
	for _, tri := range tris {
		for _, v := range []Vec3{tri.A, tri.B, tri.C} {
			if d := math32.Abs(v.Length() - 1); d > g.CellSize {
				t.Fatalf("vertex %v is %g from the surface, cell size %g", v, d, g.CellSize)
			}
		}
	}
}

func TestMarchValidates(t *testing.T) {
	bad := Grid{Size: [3]int{0, 4, 4}, CellSize: 1}
	if _, err := bad.March(sphereField, 0); err == nil {
		t.Error("zero-size grid accepted")
	}
	bad = Grid{Size: [3]int{4, 4, 4}, CellSize: 0}
	if _, err := bad.March(sphereField, 0); err == nil {
		t.Error("zero cell size accepted")
	}
}

func TestMarchSurfaceOutsideGrid(t *testing.T) {
	g := Grid{Size: [3]int{4, 4, 4}, Origin: V3(10, 10, 10), CellSize: 0.1}
	tris, err := g.March(sphereField, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 0 {
		t.Errorf("grid far from the surface produced %d triangles", len(tris))
	}
}

// triKey flattens a triangle for order-independent comparison.
func triKey(t Triangle) [9]float32 {
	return [9]float32{t.A.X, t.A.Y, t.A.Z, t.B.X, t.B.Y, t.B.Z, t.C.X, t.C.Y, t.C.Z}
}

func sortTris(tris []Triangle) [][9]float32 {
	keys := make([][9]float32, len(tris))
	for i, tr := range tris {
		keys[i] = triKey(tr)
	}
	sort.Slice(keys, func(i, j int) bool {
		for k := 0; k < 9; k++ {
			if keys[i][k] != keys[j][k] {
				return keys[i][k] < keys[j][k]
			}
		}
		return false
	})
	return keys
}

// TestMarchParallelMatchesSequential checks that the parallel mesher
// produces exactly the sequential mesher's triangles, as a multiset.
func TestMarchParallelMatchesSequential(t *testing.T) {
	g := testGrid()
	seq, err := g.March(sphereField, 0)
	if err != nil {
		t.Fatal(err)
	}
	par, err := g.MarchParallel(sphereField, 0, WithWorkers(4), WithGrain(17))
	if err != nil {
		t.Fatal(err)
	}

	if len(seq) != len(par) {
		t.Fatalf("sequential %d triangles, parallel %d", len(seq), len(par))
	}
	sk, pk := sortTris(seq), sortTris(par)
	for i := range sk {
		if sk[i] != pk[i] {
			t.Fatalf("triangle multiset mismatch at %d: %v vs %v", i, sk[i], pk[i])
		}
	}
}

// TestMarchToCellBuffer checks that the fixed-slot sink reproduces the
// sequential triangle order exactly, since slots are gathered in cell
// index order.
func TestMarchToCellBuffer(t *testing.T) {
	g := testGrid()
	seq, err := g.March(sphereField, 0)
	if err != nil {
		t.Fatal(err)
	}

	buf := NewCellBuffer(g.CellCount())
	if err := g.MarchParallelTo(sphereField, 0, buf, WithWorkers(3)); err != nil {
		t.Fatal(err)
	}
	got := buf.Triangles()
	if len(got) != len(seq) {
		t.Fatalf("cell buffer holds %d triangles, want %d", len(got), len(seq))
	}
	for i := range got {
		if got[i] != seq[i] {
			t.Fatalf("triangle %d out of cell order", i)
		}
	}
}

func TestSampleFieldLattice(t *testing.T) {
	g := Grid{Size: [3]int{2, 3, 4}, Origin: V3(1, 2, 3), CellSize: 0.5}
	vals := g.SampleField(SamplerFunc(func(p Vec3) float32 { return p.X + 10*p.Y + 100*p.Z }))
	want := (g.Size[0] + 1) * (g.Size[1] + 1) * (g.Size[2] + 1)
	if len(vals) != want {
		t.Fatalf("lattice has %d samples, want %d", len(vals), want)
	}
	// x runs fastest: the second sample is one cell along x.
	p0 := g.CornerPos(0, 0, 0)
	p1 := g.CornerPos(1, 0, 0)
	if vals[0] != p0.X+10*p0.Y+100*p0.Z || vals[1] != p1.X+10*p1.Y+100*p1.Z {
		t.Error("lattice order is not x-fastest")
	}
}

func BenchmarkMarchSequential(b *testing.B) {
	g := NewGrid(32, 0.1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := g.March(sphereField, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarchParallel(b *testing.B) {
	g := NewGrid(32, 0.1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := g.MarchParallel(sphereField, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPolygonise(b *testing.B) {
	c := unitCell(1)
	c[0].Value = -1
	var buf [MaxTrianglesPerCell]Triangle
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = c.AppendTriangles(buf[:0], 0)
	}
}

func TestCellCoordRoundTrip(t *testing.T) {
	g := Grid{Size: [3]int{3, 4, 5}, CellSize: 1}
	idx := 0
	for z := 0; z < g.Size[2]; z++ {
		for y := 0; y < g.Size[1]; y++ {
			for x := 0; x < g.Size[0]; x++ {
				gx, gy, gz := g.cellCoord(idx)
				if gx != x || gy != y || gz != z {
					t.Fatalf("cellCoord(%d) = (%d,%d,%d), want (%d,%d,%d)",
						idx, gx, gy, gz, x, y, z)
				}
				idx++
			}
		}
	}
}
