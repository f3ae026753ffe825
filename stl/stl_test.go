package stl

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/isomesh"
)

func testTris() []isomesh.Triangle {
	return []isomesh.Triangle{
		{A: isomesh.V3(0, 0, 0), B: isomesh.V3(1, 0, 0), C: isomesh.V3(0, 1, 0)},
		{A: isomesh.V3(0, 0, 1), B: isomesh.V3(1, 0, 1), C: isomesh.V3(0, 1, 1)},
	}
}

func TestWriteBinary(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "test", testTris()); err != nil {
		t.Fatal(err)
	}

	data := buf.Bytes()
	wantLen := 80 + 4 + 2*triangleRecordSize
	if len(data) != wantLen {
		t.Fatalf("wrote %d bytes, want %d", len(data), wantLen)
	}
	if !bytes.HasPrefix(data, []byte("test")) {
		t.Error("header does not carry the solid name")
	}
	if count := binary.LittleEndian.Uint32(data[80:]); count != 2 {
		t.Errorf("triangle count = %d, want 2", count)
	}

	// First record: normal then vertex A.
	rec := data[84:]
	nz := math.Float32frombits(binary.LittleEndian.Uint32(rec[8:]))
	if nz != 1 {
		t.Errorf("first normal z = %g, want 1", nz)
	}
	ax := math.Float32frombits(binary.LittleEndian.Uint32(rec[12:]))
	bx := math.Float32frombits(binary.LittleEndian.Uint32(rec[24:]))
	if ax != 0 || bx != 1 {
		t.Errorf("vertex layout wrong: A.x=%g B.x=%g", ax, bx)
	}
	// Attribute bytes are zero.
	if rec[48] != 0 || rec[49] != 0 {
		t.Error("attribute bytes not zero")
	}
}

func TestWriteBinaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "empty", nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 84 {
		t.Errorf("empty solid wrote %d bytes, want 84", buf.Len())
	}
}

func TestWriteASCII(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteASCII(&buf, "cube", testTris()[:1]); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"solid cube",
		"facet normal 0 0 1",
		"vertex 1 0 0",
		"endsolid cube",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ASCII output missing %q", want)
		}
	}
	if got := strings.Count(out, "vertex"); got != 3 {
		t.Errorf("%d vertex lines, want 3", got)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.stl")
	if err := Save(path, "sphere", testTris()); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 80+4+2*triangleRecordSize {
		t.Errorf("file is %d bytes", info.Size())
	}
}
