package parallel

import (
	"sync/atomic"
	"testing"
)

func TestExecuteAllRunsEverything(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	var ran atomic.Int32
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { ran.Add(1) }
	}

	p.ExecuteAll(work)

	if got := ran.Load(); got != 100 {
		t.Errorf("ran %d work items, want 100", got)
	}
}

func TestForCoversRangeExactlyOnce(t *testing.T) {
	p := NewWorkerPool(3)
	defer p.Close()

	const n = 1000
	var hits [n]atomic.Int32
	p.For(n, 7, func(start, end int) {
		if start < 0 || end > n || start >= end {
			t.Errorf("bad batch [%d, %d)", start, end)
		}
		for i := start; i < end; i++ {
			hits[i].Add(1)
		}
	})

	for i := range hits {
		if got := hits[i].Load(); got != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, got)
		}
	}
}

func TestForDefaultGrain(t *testing.T) {
	p := NewWorkerPool(2)
	defer p.Close()

	var total atomic.Int64
	p.For(523, 0, func(start, end int) {
		total.Add(int64(end - start))
	})

	if got := total.Load(); got != 523 {
		t.Errorf("covered %d indexes, want 523", got)
	}
}

func TestForEmptyRange(t *testing.T) {
	p := NewWorkerPool(2)
	defer p.Close()

	called := false
	p.For(0, 10, func(start, end int) { called = true })
	if called {
		t.Error("fn called for empty range")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()
	p.Close()
	if p.IsRunning() {
		t.Error("pool still running after Close")
	}
}

func TestDefaultWorkerCount(t *testing.T) {
	p := NewWorkerPool(0)
	defer p.Close()
	if p.Workers() < 1 {
		t.Errorf("Workers() = %d, want >= 1", p.Workers())
	}
}
