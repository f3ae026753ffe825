// Package isomesh extracts triangle meshes from sampled scalar fields using
// the classical marching cubes algorithm.
//
// # Overview
//
// isomesh is a Pure Go isosurface extraction library designed to integrate
// with the GoGPU ecosystem. Given a scalar field sampled on a regular grid
// and an iso level, it produces the triangulated surface where the field
// crosses that level. Extraction runs per cell with no dependencies between
// cells, on the CPU (optionally across a worker pool) or on the GPU via a
// WGSL compute kernel (see the gpu subpackage).
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/isomesh"
//	    "github.com/gogpu/isomesh/field"
//	)
//
//	grid := isomesh.NewGrid(64, 0.05)
//	tris, err := grid.MarchParallel(field.Sphere{Radius: 1}, 0)
//
// # Architecture
//
// The library is organized into:
//   - Public API: Cell, Polygonise, Grid, Triangle, Mesh, sinks
//   - field: scalar field sources (analytic SDFs, sdfx solids, image volumes)
//   - stl: STL export for extracted triangle soup
//   - gpu: compute-shader extraction via gogpu/wgpu
//   - internal/parallel: the worker pool backing MarchParallel
//
// # Algorithm
//
// Each grid cell's 8 corner samples are classified against the iso level
// into one of 256 cases; two static lookup tables then give the crossed
// cube edges and how their interpolated crossing points assemble into up
// to 5 triangles. Cells are independent: the surface is well-defined
// regardless of the order in which cells are processed. Shared vertices
// between neighboring cells are not deduplicated; the output is a
// triangle soup.
package isomesh

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
