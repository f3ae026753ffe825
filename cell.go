package isomesh

// Corner is one sampled corner of a grid cell: a position in space paired
// with the scalar field value at that position.
type Corner struct {
	Pos   Vec3
	Value float32
}

// Cell holds the 8 corner samples of one grid cube in the canonical
// marching cubes numbering: corners 0-3 on the bottom face, 4-7 on the
// top face, with corner i+4 directly above corner i. Edge indices in the
// case tables are only meaningful under this ordering.
type Cell [8]Corner

// CaseIndex classifies a cell's corners against an iso level. Bit i is
// set when corner i's value is below the iso level ("inside"). Cases 0
// and 255 are the fully-outside/fully-inside cells and produce no
// geometry.
type CaseIndex uint8

// Classify computes the cell's case index for the given iso level.
//
// A corner whose value equals the iso level exactly is classified as
// outside (strict <). The tie-break matters: two cells sharing a corner
// must agree on its classification or their surface pieces will not line
// up along the shared face.
func (c *Cell) Classify(isoLevel float32) CaseIndex {
	var index CaseIndex
	for i := 0; i < 8; i++ {
		if c[i].Value < isoLevel {
			index |= 1 << i
		}
	}
	return index
}

// EdgeMask returns the 12-bit mask of cube edges crossed by the surface
// for a given case index. A zero mask means the cell contributes no
// geometry. The mask is symmetric under corner inversion:
// EdgeMask(i) == EdgeMask(255-i).
func EdgeMask(index CaseIndex) uint16 {
	return mcEdgeTable[index]
}

// TriangleCount returns the number of triangles the given case emits,
// always in [0, 5].
func TriangleCount(index CaseIndex) int {
	n := 0
	tri := &mcTriTable[index]
	for n < 5 && tri[n*3] >= 0 {
		n++
	}
	return n
}
