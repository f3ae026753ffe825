// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/isomesh"
)

// The shader source tests pin down the kernel's interface contract
// without needing a GPU: bindings, workgroup shape and table data must
// match what the Go side encodes and decodes.

func TestShaderBindings(t *testing.T) {
	want := []string{
		"@group(0) @binding(0) var<uniform> config: Config;",
		"@group(0) @binding(1) var<storage, read> field: array<f32>;",
		"@group(0) @binding(2) var<storage, read_write> cubes: array<Cube>;",
	}
	for _, decl := range want {
		if !strings.Contains(mcubesShaderSource, decl) {
			t.Errorf("shader missing declaration %q", decl)
		}
	}
}

func TestShaderWorkgroupSize(t *testing.T) {
	if !strings.Contains(mcubesShaderSource, "@workgroup_size(8, 8, 8)") {
		t.Error("shader must dispatch 8x8x8 workgroups; the Go side divides the grid by 8")
	}
}

func TestShaderTables(t *testing.T) {
	// Spot-check entries of both tables. 0x109 is case 1 (corner 0
	// inside), whose single triangle spans edges 0, 8, 3.
	for _, frag := range []string{
		"EDGE_TABLE: array<u32, 256u>",
		"TRI_TABLE: array<i32, 4096u>",
		"0x109u",
		"0xfffu",
	} {
		if !strings.Contains(mcubesShaderSource, frag) {
			t.Errorf("shader missing table fragment %q", frag)
		}
	}
}

func TestShaderHasNoLoops(t *testing.T) {
	// The kernel is deliberately loop-free; a reintroduced loop would
	// hit the known naga SPIR-V loop miscompile.
	for _, kw := range []string{"for (", "for(", "loop {", "while"} {
		if strings.Contains(mcubesShaderSource, kw) {
			t.Errorf("shader contains loop construct %q", kw)
		}
	}
}

func TestShaderOutputStruct(t *testing.T) {
	if cubeStride != 256 {
		t.Errorf("cubeStride = %d, want 256", cubeStride)
	}
	if !strings.Contains(mcubesShaderSource, "triangles: array<Tri, 5u>") {
		t.Error("shader Cube struct must hold 5 triangle slots")
	}
}

func TestConfigBytesLayout(t *testing.T) {
	buf := configBytes(64, 0.5, 0.25, isomesh.Vec3{X: 1, Y: 2, Z: 3})
	if len(buf) != configSize {
		t.Fatalf("config is %d bytes, want %d", len(buf), configSize)
	}
	le := binary.LittleEndian
	if got := le.Uint32(buf[0:]); got != 64 {
		t.Errorf("size = %d, want 64", got)
	}
	if got := math.Float32frombits(le.Uint32(buf[4:])); got != 0.5 {
		t.Errorf("iso = %g, want 0.5", got)
	}
	if got := math.Float32frombits(le.Uint32(buf[8:])); got != 0.25 {
		t.Errorf("cell size = %g, want 0.25", got)
	}
	// origin sits at offset 16 per vec3 uniform alignment
	if got := math.Float32frombits(le.Uint32(buf[16:])); got != 1 {
		t.Errorf("origin.x = %g, want 1", got)
	}
	if got := math.Float32frombits(le.Uint32(buf[24:])); got != 3 {
		t.Errorf("origin.z = %g, want 3", got)
	}
}

func TestDecodeCells(t *testing.T) {
	// Two cells: the first holds one triangle, the second is empty.
	data := make([]byte, 2*cubeStride)
	le := binary.LittleEndian
	le.PutUint32(data[0:], 1)
	tri := []isomesh.Vec3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: 7, Y: 8, Z: 9}}
	for v, vec := range tri {
		off := cubeTriOffset + v*vertexStride
		putFloat(data[off:], vec.X)
		putFloat(data[off+4:], vec.Y)
		putFloat(data[off+8:], vec.Z)
	}

	tris := decodeCells(data, 2)
	if len(tris) != 1 {
		t.Fatalf("decoded %d triangles, want 1", len(tris))
	}
	got := tris[0]
	if got.A != tri[0] || got.B != tri[1] || got.C != tri[2] {
		t.Errorf("decoded triangle %+v, want vertices %v", got, tri)
	}
}

func TestDecodeCellsClampsCount(t *testing.T) {
	// A corrupt count beyond 5 must not read past the slot.
	data := make([]byte, cubeStride)
	binary.LittleEndian.PutUint32(data[0:], 99)
	tris := decodeCells(data, 1)
	if len(tris) != 5 {
		t.Errorf("decoded %d triangles from corrupt count, want clamp to 5", len(tris))
	}
}
