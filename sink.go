package isomesh

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// MaxTrianglesPerCell is the documented worst case of the triangle table:
// no cell ever emits more than 5 triangles. Output buffers sized for
// concurrent extraction must hold cellCount * MaxTrianglesPerCell
// triangles.
const MaxTrianglesPerCell = 5

// floatsPerTriangle is the flat encoding width: 3 vertices x 3 floats.
const floatsPerTriangle = 9

// ErrBufferTooSmall is returned when a caller-supplied output buffer
// cannot hold the worst-case triangle count for the grid being extracted.
// An undersized buffer is a contract violation caught before dispatch,
// not a runtime condition the core recovers from.
var ErrBufferTooSmall = errors.New("isomesh: output buffer smaller than worst case")

// TriangleSink receives the triangles produced for individual cells.
//
// MarchParallelTo calls Emit from multiple goroutines concurrently, once
// per cell that produced geometry; implementations must be safe for
// concurrent use. cellIndex identifies the producing cell in the grid's
// linear ordering; tris holds 1 to 5 triangles and is only valid for the
// duration of the call.
type TriangleSink interface {
	Emit(cellIndex int, tris []Triangle)
}

// CountedBuffer is a triangle sink implementing the atomic-counter write
// policy: a shared counter is incremented with fetch-and-add to claim a
// contiguous range of the output buffer before writing. No capacity is
// wasted on cells that produced no geometry, at the cost of one atomic
// add per emitting cell. Triangle order across cells follows claim order
// and is therefore unspecified.
//
// Triangles are stored flat, 9 floats each (vertices A, B, C as x, y, z),
// so the buffer can be handed to GPU or file writers without conversion.
type CountedBuffer struct {
	buf   []float32
	count atomic.Uint32
}

// NewCountedBuffer returns a counted buffer pre-sized for the worst case
// of cellCount cells (5 triangles each).
func NewCountedBuffer(cellCount int) *CountedBuffer {
	return &CountedBuffer{
		buf: make([]float32, cellCount*MaxTrianglesPerCell*floatsPerTriangle),
	}
}

// WrapCountedBuffer uses a caller-owned float buffer as the output
// region. It returns ErrBufferTooSmall if buf cannot hold the worst case
// for cellCount cells.
func WrapCountedBuffer(buf []float32, cellCount int) (*CountedBuffer, error) {
	need := cellCount * MaxTrianglesPerCell * floatsPerTriangle
	if len(buf) < need {
		return nil, fmt.Errorf("%w: have %d floats, need %d", ErrBufferTooSmall, len(buf), need)
	}
	return &CountedBuffer{buf: buf}, nil
}

// Emit claims a range with an atomic fetch-and-add and writes the
// triangles into it. Safe for concurrent use.
func (b *CountedBuffer) Emit(_ int, tris []Triangle) {
	n := uint32(len(tris))
	if n == 0 {
		return
	}
	base := b.count.Add(n) - n
	off := int(base) * floatsPerTriangle
	for _, t := range tris {
		b.buf[off+0], b.buf[off+1], b.buf[off+2] = t.A.X, t.A.Y, t.A.Z
		b.buf[off+3], b.buf[off+4], b.buf[off+5] = t.B.X, t.B.Y, t.B.Z
		b.buf[off+6], b.buf[off+7], b.buf[off+8] = t.C.X, t.C.Y, t.C.Z
		off += floatsPerTriangle
	}
}

// Count returns the number of triangles written so far. After all
// extraction goroutines have finished, this is the authoritative
// triangle count for the buffer.
func (b *CountedBuffer) Count() int {
	return int(b.count.Load())
}

// Floats exposes the valid region of the flat buffer:
// Count()*9 floats, 9 per triangle.
func (b *CountedBuffer) Floats() []float32 {
	return b.buf[:b.Count()*floatsPerTriangle]
}

// Triangles decodes the valid region into a triangle slice.
func (b *CountedBuffer) Triangles() []Triangle {
	n := b.Count()
	tris := make([]Triangle, n)
	for i := range tris {
		f := b.buf[i*floatsPerTriangle:]
		tris[i] = Triangle{
			A: Vec3{f[0], f[1], f[2]},
			B: Vec3{f[3], f[4], f[5]},
			C: Vec3{f[6], f[7], f[8]},
		}
	}
	return tris
}

// CellBuffer is a triangle sink implementing the fixed-slot write policy:
// every cell owns a pre-allocated slot of 5 triangles plus a count, and
// unused slots stay at count zero. Workers never contend because slots
// are disjoint, at the cost of worst-case memory up front. This mirrors
// the output layout of the GPU compute kernel, which has no other way to
// hand variable-length results back per invocation.
type CellBuffer struct {
	slots []CellSlot
}

// CellSlot is one cell's fixed output region: up to 5 triangles and the
// number actually written.
type CellSlot struct {
	Count uint32
	Tris  [MaxTrianglesPerCell]Triangle
}

// NewCellBuffer returns a cell buffer with one slot per cell.
func NewCellBuffer(cellCount int) *CellBuffer {
	return &CellBuffer{slots: make([]CellSlot, cellCount)}
}

// Emit writes the triangles into the producing cell's slot. Safe for
// concurrent use as long as each cell index is emitted at most once,
// which the grid meshers guarantee.
func (b *CellBuffer) Emit(cellIndex int, tris []Triangle) {
	slot := &b.slots[cellIndex]
	slot.Count = uint32(copy(slot.Tris[:], tris))
}

// Slot returns the slot for a cell index.
func (b *CellBuffer) Slot(cellIndex int) *CellSlot {
	return &b.slots[cellIndex]
}

// Count returns the total number of triangles across all slots.
func (b *CellBuffer) Count() int {
	n := 0
	for i := range b.slots {
		n += int(b.slots[i].Count)
	}
	return n
}

// Triangles gathers all written triangles in cell index order.
func (b *CellBuffer) Triangles() []Triangle {
	tris := make([]Triangle, 0, b.Count())
	for i := range b.slots {
		slot := &b.slots[i]
		tris = append(tris, slot.Tris[:slot.Count]...)
	}
	return tris
}

// MeshSink is a triangle sink that accumulates triangles into a Mesh
// under a mutex. Convenient when the consumer wants render-ready vertex
// attributes rather than raw triangle soup; for large grids the buffer
// sinks are cheaper.
type MeshSink struct {
	mu   sync.Mutex
	mesh *Mesh
}

// NewMeshSink returns a sink appending into the given mesh, or into a
// fresh mesh if m is nil.
func NewMeshSink(m *Mesh) *MeshSink {
	if m == nil {
		m = NewMesh()
	}
	return &MeshSink{mesh: m}
}

// Emit appends the triangles to the mesh. Safe for concurrent use.
func (s *MeshSink) Emit(_ int, tris []Triangle) {
	s.mu.Lock()
	s.mesh.AddTriangles(tris)
	s.mu.Unlock()
}

// Mesh returns the accumulated mesh. Call only after extraction has
// completed.
func (s *MeshSink) Mesh() *Mesh {
	return s.mesh
}
