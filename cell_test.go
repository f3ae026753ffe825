package isomesh

import "testing"

// unitCell returns a cell spanning the unit cube with all corner values
// set to v.
func unitCell(v float32) Cell {
	var c Cell
	for i, off := range mcCornerOffsets {
		c[i] = Corner{
			Pos:   V3(float32(off[0]), float32(off[1]), float32(off[2])),
			Value: v,
		}
	}
	return c
}

func TestClassifyAllOutside(t *testing.T) {
	c := unitCell(1)
	if got := c.Classify(0); got != 0 {
		t.Errorf("Classify = %d, want 0", got)
	}
}

func TestClassifyAllInside(t *testing.T) {
	c := unitCell(-1)
	if got := c.Classify(0); got != 255 {
		t.Errorf("Classify = %d, want 255", got)
	}
}

func TestClassifySetsBitPerCorner(t *testing.T) {
	for i := 0; i < 8; i++ {
		c := unitCell(1)
		c[i].Value = -1
		if got := c.Classify(0); got != CaseIndex(1<<i) {
			t.Errorf("corner %d inside: Classify = %d, want %d", i, got, 1<<i)
		}
	}
}

// TestClassifyTieIsOutside pins the tie-break: a corner exactly at the
// iso level counts as outside. Neighboring cells sharing that corner
// then agree on its classification.
func TestClassifyTieIsOutside(t *testing.T) {
	c := unitCell(1)
	c[3].Value = 0
	if got := c.Classify(0); got != 0 {
		t.Errorf("corner at iso level classified inside: case %d", got)
	}
}

func TestEdgeMaskEmptyCases(t *testing.T) {
	if EdgeMask(0) != 0 {
		t.Error("case 0 has crossed edges")
	}
	if EdgeMask(255) != 0 {
		t.Error("case 255 has crossed edges")
	}
}
