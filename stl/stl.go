// Package stl writes triangle soup to STL files, the exchange format
// most slicers and mesh viewers accept.
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gogpu/isomesh"
)

// binary STL layout: 80-byte header, uint32 triangle count, then per
// triangle a float32 normal, three float32 vertices and a uint16
// attribute, 50 bytes total, all little endian.
const triangleRecordSize = 50

// Write writes the triangles as binary STL. The header carries the given
// name, truncated to 80 bytes.
func Write(w io.Writer, name string, tris []isomesh.Triangle) error {
	bw := bufio.NewWriter(w)

	var header [80]byte
	copy(header[:], name)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("stl: write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(tris))); err != nil {
		return fmt.Errorf("stl: write count: %w", err)
	}

	var rec [triangleRecordSize]byte
	for i, t := range tris {
		n := t.Normal()
		putVec(rec[0:], n)
		putVec(rec[12:], t.A)
		putVec(rec[24:], t.B)
		putVec(rec[36:], t.C)
		rec[48], rec[49] = 0, 0
		if _, err := bw.Write(rec[:]); err != nil {
			return fmt.Errorf("stl: write triangle %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func putVec(b []byte, v isomesh.Vec3) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}

// WriteASCII writes the triangles as ASCII STL. Roughly 5x larger than
// binary but diffable and human-readable.
func WriteASCII(w io.Writer, name string, tris []isomesh.Triangle) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "solid %s\n", name); err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	for _, t := range tris {
		n := t.Normal()
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
		fmt.Fprintf(bw, "    outer loop\n")
		fmt.Fprintf(bw, "      vertex %g %g %g\n", t.A.X, t.A.Y, t.A.Z)
		fmt.Fprintf(bw, "      vertex %g %g %g\n", t.B.X, t.B.Y, t.B.Z)
		fmt.Fprintf(bw, "      vertex %g %g %g\n", t.C.X, t.C.Y, t.C.Z)
		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}
	if _, err := fmt.Fprintf(bw, "endsolid %s\n", name); err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	return bw.Flush()
}

// Save writes the triangles to a binary STL file.
func Save(path, name string, tris []isomesh.Triangle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	if err := Write(f, name, tris); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("stl: close %s: %w", path, err)
	}
	isomesh.Logger().Info("stl: file written", "path", path, "triangles", len(tris))
	return nil
}
