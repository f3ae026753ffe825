package isomesh

// Triangle is a single surface triangle with vertices in table winding
// order. The winding is inherited from the case tables and must not be
// reordered: it determines which side of the triangle the face normal
// points to.
type Triangle struct {
	A, B, C Vec3
}

// Normal returns the unit face normal (B-A) x (C-A).
// Returns the zero vector for a degenerate triangle.
func (t Triangle) Normal() Vec3 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Normalize()
}

// Centroid returns the arithmetic mean of the three vertices.
func (t Triangle) Centroid() Vec3 {
	return t.A.Add(t.B).Add(t.C).Div(3)
}
