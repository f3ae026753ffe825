package isomesh

import "github.com/chewxy/math32"

// interpEpsilon is the minimum corner value difference considered safe to
// divide by during edge interpolation. Below it the crossing point is
// placed at the edge midpoint. This clamp is a numerical-robustness
// policy on top of the naive algorithm: two corners straddling the iso
// level with near-equal values would otherwise blow up the division.
const interpEpsilon = 1e-5

// interpVertex returns the point along the edge c1-c2 where the field
// crosses the iso level, by linear interpolation of the corner values.
func interpVertex(isoLevel float32, c1, c2 Corner) Vec3 {
	t := float32(0.5)
	if d := c2.Value - c1.Value; math32.Abs(d) >= interpEpsilon {
		t = (isoLevel - c1.Value) / d
	}
	return c1.Pos.Lerp(c2.Pos, t)
}

// Polygonise returns the triangles of the isosurface crossing the cell,
// at most 5 and none for a fully inside or fully outside cell.
//
// The function is pure: it reads only the cell's 8 corner samples and has
// no state across calls, so any number of cells may be polygonised
// concurrently.
func (c *Cell) Polygonise(isoLevel float32) []Triangle {
	return c.AppendTriangles(nil, isoLevel)
}

// AppendTriangles appends the cell's isosurface triangles to dst and
// returns the extended slice. It is the allocation-conscious form of
// Polygonise for callers that process many cells into one buffer.
func (c *Cell) AppendTriangles(dst []Triangle, isoLevel float32) []Triangle {
	index := c.Classify(isoLevel)
	mask := EdgeMask(index)
	if mask == 0 {
		// Fast reject: no crossed edges, no geometry. Walking the
		// triangle table would emit nothing either; skipping it does
		// not change the result.
		return dst
	}

	// Interpolate a crossing point for every crossed edge.
	var verts [12]Vec3
	for e := 0; e < 12; e++ {
		if mask&(1<<e) != 0 {
			pair := mcEdgeCorners[e]
			verts[e] = interpVertex(isoLevel, c[pair[0]], c[pair[1]])
		}
	}

	// Assemble triangles per the case table, preserving its vertex order.
	tri := &mcTriTable[index]
	for i := 0; i < len(tri) && tri[i] >= 0; i += 3 {
		dst = append(dst, Triangle{
			A: verts[tri[i]],
			B: verts[tri[i+1]],
			C: verts[tri[i+2]],
		})
	}
	return dst
}
