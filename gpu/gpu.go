// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu extracts isosurfaces on the GPU with a wgpu/hal compute
// pipeline. The kernel runs one invocation per grid cell and writes into
// a fixed per-cell output slot, the GPU rendition of the fixed-slot
// write policy; the CPU side decodes the slots back into triangles.
//
// The package requires a Vulkan-capable device. Build with the nogpu tag
// to compile without the hal backend; NewMesher then reports
// ErrGPUUnavailable and callers fall back to the CPU meshers.
package gpu

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"math"

	"github.com/gogpu/isomesh"
)

//go:embed shaders/mcubes.wgsl
var mcubesShaderSource string

// ErrGPUUnavailable is returned by NewMesher when no usable GPU backend
// exists: no Vulkan adapter, or the package was built with the nogpu tag.
var ErrGPUUnavailable = errors.New("gpu: no usable GPU backend")

// Shader output layout. The WGSL Cube struct is a u32 count followed by
// 5 triangles of 3 vec3<f32> each; vec3 aligns to 16 bytes in storage
// buffers, which fixes every offset below.
const (
	vertexStride   = 16
	triangleStride = 3 * vertexStride
	cubeTriOffset  = 16
	cubeStride     = cubeTriOffset + 5*triangleStride // 256

	configSize = 32
)

// configBytes encodes the kernel's uniform block: cells per axis, iso
// level, cell edge length, then the grid origin at offset 16 per vec3
// alignment.
func configBytes(size uint32, isoLevel, cellSize float32, origin isomesh.Vec3) []byte {
	buf := make([]byte, configSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:], size)
	le.PutUint32(buf[4:], math.Float32bits(isoLevel))
	le.PutUint32(buf[8:], math.Float32bits(cellSize))
	le.PutUint32(buf[16:], math.Float32bits(origin.X))
	le.PutUint32(buf[20:], math.Float32bits(origin.Y))
	le.PutUint32(buf[24:], math.Float32bits(origin.Z))
	return buf
}

// decodeCells unpacks the kernel's output buffer into a triangle slice,
// reading each cell's count and that many triangles from its slot.
func decodeCells(data []byte, cellCount int) []isomesh.Triangle {
	le := binary.LittleEndian
	var tris []isomesh.Triangle
	for cell := 0; cell < cellCount; cell++ {
		slot := data[cell*cubeStride:]
		count := le.Uint32(slot)
		if count > 5 {
			count = 5
		}
		for t := uint32(0); t < count; t++ {
			rec := slot[cubeTriOffset+int(t)*triangleStride:]
			tris = append(tris, isomesh.Triangle{
				A: decodeVec(rec[0:]),
				B: decodeVec(rec[vertexStride:]),
				C: decodeVec(rec[2*vertexStride:]),
			})
		}
	}
	return tris
}

func putFloat(b []byte, f float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
}

func decodeVec(b []byte) isomesh.Vec3 {
	le := binary.LittleEndian
	return isomesh.Vec3{
		X: math.Float32frombits(le.Uint32(b[0:])),
		Y: math.Float32frombits(le.Uint32(b[4:])),
		Z: math.Float32frombits(le.Uint32(b[8:])),
	}
}
