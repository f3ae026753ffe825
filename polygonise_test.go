package isomesh

import "testing"

func TestPolygoniseEmptyCells(t *testing.T) {
	outside := unitCell(1)
	if tris := outside.Polygonise(0); len(tris) != 0 {
		t.Errorf("fully outside cell produced %d triangles", len(tris))
	}
	inside := unitCell(-1)
	if tris := inside.Polygonise(0); len(tris) != 0 {
		t.Errorf("fully inside cell produced %d triangles", len(tris))
	}
}

// TestPolygoniseSingleCorner works case 1 by hand: corner 0 at -1, the
// rest at +1, iso level 0. The crossing sits at the midpoint of each of
// the three edges meeting at corner 0.
func TestPolygoniseSingleCorner(t *testing.T) {
	c := unitCell(1)
	c[0].Value = -1

	tris := c.Polygonise(0)
	if len(tris) != 1 {
		t.Fatalf("got %d triangles, want 1", len(tris))
	}

	// Table order for case 1 is edges 0, 8, 3.
	tri := tris[0]
	wantA := V3(0.5, 0, 0) // midpoint of edge 0 (corners 0-1)
	wantB := V3(0, 0, 0.5) // midpoint of edge 8 (corners 0-4)
	wantC := V3(0, 0.5, 0) // midpoint of edge 3 (corners 3-0)
	const eps = 1e-6
	if !tri.A.Approx(wantA, eps) || !tri.B.Approx(wantB, eps) || !tri.C.Approx(wantC, eps) {
		t.Errorf("triangle %+v, want A=%v B=%v C=%v", tri, wantA, wantB, wantC)
	}
}

// TestPolygoniseWindingPreserved checks that vertices come out in table
// order: for case 1 the face normal must point toward the inside corner.
func TestPolygoniseWindingPreserved(t *testing.T) {
	c := unitCell(1)
	c[0].Value = -1

	tris := c.Polygonise(0)
	if len(tris) != 1 {
		t.Fatalf("got %d triangles, want 1", len(tris))
	}
	n := tris[0].Normal()
	if n.IsZero() {
		t.Fatal("degenerate normal")
	}
	toInside := c[0].Pos.Sub(tris[0].Centroid())
	if n.Dot(toInside) <= 0 {
		t.Errorf("normal %v does not face the inside corner", n)
	}
}

func TestInterpVertexOffsetCrossing(t *testing.T) {
	c1 := Corner{Pos: V3(0, 0, 0), Value: -1}
	c2 := Corner{Pos: V3(1, 0, 0), Value: 3}
	// iso 0 crosses a quarter of the way along the edge
	got := interpVertex(0, c1, c2)
	if !got.Approx(V3(0.25, 0, 0), 1e-6) {
		t.Errorf("crossing at %v, want (0.25, 0, 0)", got)
	}
}

// TestInterpVertexDegenerate checks the midpoint clamp: near-equal corner
// values must not blow up the division.
func TestInterpVertexDegenerate(t *testing.T) {
	c1 := Corner{Pos: V3(0, 0, 0), Value: 1e-7}
	c2 := Corner{Pos: V3(1, 0, 0), Value: -1e-7}
	got := interpVertex(0, c1, c2)
	if !got.Approx(V3(0.5, 0, 0), 1e-6) {
		t.Errorf("degenerate crossing at %v, want midpoint", got)
	}
}

func TestAppendTrianglesReusesBuffer(t *testing.T) {
	c := unitCell(1)
	c[0].Value = -1

	buf := make([]Triangle, 0, 8)
	out := c.AppendTriangles(buf, 0)
	if len(out) != 1 {
		t.Fatalf("got %d triangles, want 1", len(out))
	}
	out2 := c.AppendTriangles(out, 0)
	if len(out2) != 2 {
		t.Fatalf("second append: got %d triangles, want 2", len(out2))
	}
	if out2[0] != out2[1] {
		t.Error("appended triangles differ for identical cells")
	}
}

// TestPolygoniseAllCases drives every case index through extraction and
// checks the emitted triangle count against the table.
func TestPolygoniseAllCases(t *testing.T) {
	for index := 0; index < 256; index++ {
		c := unitCell(1)
		for i := 0; i < 8; i++ {
			if index&(1<<i) != 0 {
				c[i].Value = -1
			}
		}
		if got := c.Classify(0); got != CaseIndex(index) {
			t.Fatalf("case %d misclassified as %d", index, got)
		}
		tris := c.Polygonise(0)
		if want := TriangleCount(CaseIndex(index)); len(tris) != want {
			t.Errorf("case %d: %d triangles, want %d", index, len(tris), want)
		}
		for ti, tri := range tris {
			if tri.Normal().IsZero() {
				t.Errorf("case %d: triangle %d is degenerate", index, ti)
			}
		}
	}
}
