package isomesh

import "testing"

func TestMeshAddTriangle(t *testing.T) {
	m := NewMesh()
	tri := Triangle{A: V3(0, 0, 0), B: V3(1, 0, 0), C: V3(0, 1, 0)}
	m.AddTriangle(tri)

	if m.TriangleCount() != 1 {
		t.Fatalf("TriangleCount = %d, want 1", m.TriangleCount())
	}
	if len(m.Positions) != 3 || len(m.Normals) != 3 || len(m.UVs) != 3 {
		t.Fatalf("attribute lengths %d/%d/%d, want 3 each",
			len(m.Positions), len(m.Normals), len(m.UVs))
	}

	// Flat shading: all three vertices carry the face normal.
	want := tri.Normal()
	for i, n := range m.Normals {
		if n != want {
			t.Errorf("normal %d = %v, want %v", i, n, want)
		}
	}
	for i, uv := range m.UVs {
		if uv != [2]float32{} {
			t.Errorf("UV %d = %v, want zero", i, uv)
		}
	}
	if m.Triangle(0) != tri {
		t.Errorf("Triangle(0) = %+v, want %+v", m.Triangle(0), tri)
	}
}

func TestMeshSequentialIndices(t *testing.T) {
	m := NewMesh()
	m.AddTriangles([]Triangle{
		{A: V3(0, 0, 0), B: V3(1, 0, 0), C: V3(0, 1, 0)},
		{A: V3(0, 0, 1), B: V3(1, 0, 1), C: V3(0, 1, 1)},
	})
	for i, idx := range m.Indices {
		if idx != uint32(i) {
			t.Fatalf("Indices[%d] = %d; vertices are unshared, indices must be sequential", i, idx)
		}
	}
}

func TestMeshBounds(t *testing.T) {
	m := NewMesh()
	min, max := m.Bounds()
	if min != (Vec3{}) || max != (Vec3{}) {
		t.Error("empty mesh bounds not zero")
	}

	m.AddTriangle(Triangle{A: V3(-1, 2, 0), B: V3(3, -4, 1), C: V3(0, 0, 5)})
	min, max = m.Bounds()
	if min != V3(-1, -4, 0) || max != V3(3, 2, 5) {
		t.Errorf("bounds %v..%v", min, max)
	}
}
