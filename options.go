package isomesh

import "github.com/gogpu/isomesh/internal/parallel"

// Option configures a parallel march.
//
// Example:
//
//	// Default: one worker per CPU, automatic batch size
//	tris, err := grid.MarchParallel(field, 0)
//
//	// Pin the worker count
//	tris, err := grid.MarchParallel(field, 0, isomesh.WithWorkers(4))
type Option func(*marchOptions)

// marchOptions holds optional configuration for parallel extraction.
type marchOptions struct {
	workers int
	grain   int
	pool    *parallel.WorkerPool
}

// defaultMarchOptions returns the default march options.
func defaultMarchOptions() marchOptions {
	return marchOptions{
		workers: 0, // GOMAXPROCS
		grain:   0, // pool picks a batch size
	}
}

// WithWorkers sets the number of worker goroutines for a parallel march.
// Zero or negative selects GOMAXPROCS. Ignored when WithPool is given.
func WithWorkers(n int) Option {
	return func(o *marchOptions) {
		o.workers = n
	}
}

// WithGrain sets the number of cells per work batch. Smaller grains
// balance better on irregular surfaces at the cost of more scheduling
// overhead. Zero or negative lets the pool choose.
func WithGrain(n int) Option {
	return func(o *marchOptions) {
		o.grain = n
	}
}

// withPool runs the march on an existing worker pool instead of a
// temporary one. The pool stays open after the march. Used by the chunk
// mesher, which meshes many chunks in sequence and keeps one pool alive
// across them.
func withPool(p *parallel.WorkerPool) Option {
	return func(o *marchOptions) {
		o.pool = p
	}
}
