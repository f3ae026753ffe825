package isomesh

import (
	"context"
	"sort"

	"github.com/gogpu/isomesh/internal/parallel"
)

// DefaultChunkSize is the edge length of a terrain chunk in cells.
const DefaultChunkSize = 64

// ChunkCoord identifies a terrain chunk on the horizontal plane. Chunks
// tile the X and Z axes; each chunk spans the full vertical extent of
// its grid.
type ChunkCoord struct {
	X, Z int
}

// ChunkGrid returns the extraction grid for a chunk: chunkSize cells per
// axis, positioned so that chunk (0,0) is centered on the world origin
// and neighboring chunks abut exactly.
func (c ChunkCoord) ChunkGrid(chunkSize int, cellSize float32) Grid {
	extent := float32(chunkSize) * cellSize
	half := extent / 2
	return Grid{
		Size: [3]int{chunkSize, chunkSize, chunkSize},
		Origin: Vec3{
			X: float32(c.X)*extent - half,
			Y: -half,
			Z: float32(c.Z)*extent - half,
		},
		CellSize: cellSize,
	}
}

// VisibleChunks returns the chunk coordinates within viewDistance chunks
// of center, using a circular cutoff rather than a square one so the
// loaded set hugs the horizon evenly. The result is sorted by distance
// from center, nearest first, which is the order a streamer wants to
// load them in.
func VisibleChunks(center ChunkCoord, viewDistance int) []ChunkCoord {
	if viewDistance < 0 {
		return nil
	}
	var out []ChunkCoord
	r2 := viewDistance * viewDistance
	for dz := -viewDistance; dz <= viewDistance; dz++ {
		for dx := -viewDistance; dx <= viewDistance; dx++ {
			if dx*dx+dz*dz <= r2 {
				out = append(out, ChunkCoord{X: center.X + dx, Z: center.Z + dz})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di := sq(out[i].X-center.X) + sq(out[i].Z-center.Z)
		dj := sq(out[j].X-center.X) + sq(out[j].Z-center.Z)
		return di < dj
	})
	return out
}

func sq(n int) int { return n * n }

// ChunkTracker maintains the set of loaded chunks as the viewer moves.
// It only tracks membership; meshing and rendering are the caller's.
// ChunkTracker is not safe for concurrent use.
type ChunkTracker struct {
	viewDistance int
	loaded       map[ChunkCoord]struct{}
}

// NewChunkTracker returns a tracker with nothing loaded.
func NewChunkTracker(viewDistance int) *ChunkTracker {
	return &ChunkTracker{
		viewDistance: viewDistance,
		loaded:       make(map[ChunkCoord]struct{}),
	}
}

// Update diffs the visible set around center against the loaded set. It
// marks the returned load coordinates as loaded and removes the unload
// coordinates, so each coordinate appears in at most one load result
// until it scrolls out of view. Load is ordered nearest first; unload
// order is unspecified.
func (t *ChunkTracker) Update(center ChunkCoord) (load, unload []ChunkCoord) {
	visible := make(map[ChunkCoord]struct{})
	for _, c := range VisibleChunks(center, t.viewDistance) {
		visible[c] = struct{}{}
		if _, ok := t.loaded[c]; !ok {
			load = append(load, c)
			t.loaded[c] = struct{}{}
		}
	}
	for c := range t.loaded {
		if _, ok := visible[c]; !ok {
			unload = append(unload, c)
			delete(t.loaded, c)
		}
	}
	if len(load) > 0 || len(unload) > 0 {
		Logger().Info("isomesh: chunk set changed",
			"center", center, "load", len(load), "unload", len(unload),
			"loaded", len(t.loaded))
	}
	return load, unload
}

// Loaded returns the number of chunks currently tracked as loaded.
func (t *ChunkTracker) Loaded() int {
	return len(t.loaded)
}

// ChunkMesher extracts terrain chunk meshes from a scalar field, reusing
// one worker pool across chunks. Close releases the pool. MeshChunk may
// be called from multiple goroutines; the pool is shared between them.
type ChunkMesher struct {
	sampler   Sampler
	isoLevel  float32
	chunkSize int
	cellSize  float32
	pool      *parallel.WorkerPool
}

// NewChunkMesher returns a mesher over the sampler. chunkSize of 0 or
// less selects DefaultChunkSize; cellSize of 0 or less selects 1.
// workers of 0 selects GOMAXPROCS.
func NewChunkMesher(s Sampler, isoLevel float32, chunkSize int, cellSize float32, workers int) *ChunkMesher {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if cellSize <= 0 {
		cellSize = 1
	}
	return &ChunkMesher{
		sampler:   s,
		isoLevel:  isoLevel,
		chunkSize: chunkSize,
		cellSize:  cellSize,
		pool:      parallel.NewWorkerPool(workers),
	}
}

// MeshChunk extracts the chunk's isosurface and returns it as a
// render-ready mesh with per-face normals. Returns the context error if
// ctx is done before extraction starts.
func (m *ChunkMesher) MeshChunk(ctx context.Context, coord ChunkCoord) (*Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grid := coord.ChunkGrid(m.chunkSize, m.cellSize)
	tris, err := grid.MarchParallel(m.sampler, m.isoLevel, withPool(m.pool))
	if err != nil {
		return nil, err
	}
	mesh := NewMesh()
	mesh.AddTriangles(tris)
	Logger().Debug("isomesh: chunk meshed",
		"chunk", coord, "triangles", len(tris))
	return mesh, nil
}

// Close shuts down the mesher's worker pool.
func (m *ChunkMesher) Close() {
	m.pool.Close()
}
