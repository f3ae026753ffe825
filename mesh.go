package isomesh

// Mesh is triangle geometry in render-ready form: flat vertex attribute
// arrays plus an index list. Vertices are not shared between triangles;
// each triangle contributes 3 fresh vertices carrying the triangle's face
// normal, which gives the faceted look expected of an unsmoothed
// isosurface.
type Mesh struct {
	Positions []Vec3
	Normals   []Vec3
	UVs       [][2]float32
	Indices   []uint32
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{}
}

// AddTriangle appends one triangle as 3 unshared vertices. All three
// vertices receive the face normal and a zero UV.
func (m *Mesh) AddTriangle(t Triangle) {
	n := t.Normal()
	base := uint32(len(m.Positions))
	m.Positions = append(m.Positions, t.A, t.B, t.C)
	m.Normals = append(m.Normals, n, n, n)
	m.UVs = append(m.UVs, [2]float32{}, [2]float32{}, [2]float32{})
	m.Indices = append(m.Indices, base, base+1, base+2)
}

// AddTriangles appends triangles in order.
func (m *Mesh) AddTriangles(tris []Triangle) {
	for _, t := range tris {
		m.AddTriangle(t)
	}
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the i-th triangle.
func (m *Mesh) Triangle(i int) Triangle {
	return Triangle{
		A: m.Positions[m.Indices[i*3]],
		B: m.Positions[m.Indices[i*3+1]],
		C: m.Positions[m.Indices[i*3+2]],
	}
}

// Bounds returns the axis-aligned bounding box of the mesh vertices.
// Both corners are zero for an empty mesh.
func (m *Mesh) Bounds() (min, max Vec3) {
	if len(m.Positions) == 0 {
		return Vec3{}, Vec3{}
	}
	min, max = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Z < min.Z {
			min.Z = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
		if p.Z > max.Z {
			max.Z = p.Z
		}
	}
	return min, max
}
