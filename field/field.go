// Package field provides scalar field sources for isosurface extraction:
// analytic signed distance primitives, an adapter for sdfx CAD models,
// and volumes loaded from image slice stacks.
//
// All sources follow the signed distance convention: negative inside the
// shape, positive outside, so extracting at iso level 0 produces the
// shape's boundary surface.
package field

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/isomesh"
)

// Sphere is the signed distance field of a sphere.
type Sphere struct {
	Center isomesh.Vec3
	Radius float32
}

// Sample returns the signed distance from p to the sphere surface.
func (s Sphere) Sample(p isomesh.Vec3) float32 {
	return p.Sub(s.Center).Length() - s.Radius
}

// Box is the signed distance field of an axis-aligned box.
type Box struct {
	Center isomesh.Vec3
	Half   isomesh.Vec3
}

// Sample returns the signed distance from p to the box surface.
func (b Box) Sample(p isomesh.Vec3) float32 {
	q := p.Sub(b.Center)
	d := isomesh.Vec3{
		X: math32.Abs(q.X) - b.Half.X,
		Y: math32.Abs(q.Y) - b.Half.Y,
		Z: math32.Abs(q.Z) - b.Half.Z,
	}
	outside := isomesh.Vec3{
		X: math32.Max(d.X, 0),
		Y: math32.Max(d.Y, 0),
		Z: math32.Max(d.Z, 0),
	}.Length()
	inside := math32.Min(math32.Max(d.X, math32.Max(d.Y, d.Z)), 0)
	return outside + inside
}

// Plane is the signed distance field of a half-space. Points on the side
// the normal points away from are inside.
type Plane struct {
	Normal isomesh.Vec3
	Offset float32
}

// Sample returns the signed distance from p to the plane.
func (pl Plane) Sample(p isomesh.Vec3) float32 {
	return p.Dot(pl.Normal.Normalize()) - pl.Offset
}

// Torus is the signed distance field of a torus around the Y axis.
type Torus struct {
	Center isomesh.Vec3
	Major  float32
	Minor  float32
}

// Sample returns the signed distance from p to the torus surface.
func (t Torus) Sample(p isomesh.Vec3) float32 {
	q := p.Sub(t.Center)
	ring := math32.Sqrt(q.X*q.X+q.Z*q.Z) - t.Major
	return math32.Sqrt(ring*ring+q.Y*q.Y) - t.Minor
}

// Union combines fields with the minimum distance: a point is inside the
// union when it is inside any member.
func Union(fields ...isomesh.Sampler) isomesh.Sampler {
	return isomesh.SamplerFunc(func(p isomesh.Vec3) float32 {
		d := float32(math32.MaxFloat32)
		for _, f := range fields {
			d = math32.Min(d, f.Sample(p))
		}
		return d
	})
}

// Intersect combines fields with the maximum distance: a point is inside
// the intersection only when it is inside every member.
func Intersect(fields ...isomesh.Sampler) isomesh.Sampler {
	return isomesh.SamplerFunc(func(p isomesh.Vec3) float32 {
		d := float32(-math32.MaxFloat32)
		for _, f := range fields {
			d = math32.Max(d, f.Sample(p))
		}
		return d
	})
}

// Subtract removes b from a: inside a but not inside b.
func Subtract(a, b isomesh.Sampler) isomesh.Sampler {
	return isomesh.SamplerFunc(func(p isomesh.Vec3) float32 {
		return math32.Max(a.Sample(p), -b.Sample(p))
	})
}
