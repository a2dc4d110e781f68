package ingest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestPoolRunsAllJobs(t *testing.T) {
	p := NewPool(4, 8)
	p.Start(context.Background())

	var ran int64
	for i := 0; i < 50; i++ {
		err := p.Submit(func(ctx context.Context) error {
			atomic.AddInt64(&ran, 1)
			return nil
		})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	p.Close()

	if ran != 50 {
		t.Errorf("ran %d jobs, want 50", ran)
	}
}

func TestPoolSubmitAfterClose(t *testing.T) {
	p := NewPool(1, 1)
	p.Start(context.Background())
	p.Close()

	err := p.Submit(func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Submit after Close = %v, want ErrPoolClosed", err)
	}
}

func TestPoolCloseIdempotent(t *testing.T) {
	p := NewPool(2, 2)
	p.Start(context.Background())
	p.Close()
	p.Close()
}

func TestPoolDefaults(t *testing.T) {
	p := NewPool(0, 0)
	if p.workers != 1 {
		t.Errorf("workers = %d, want fallback 1", p.workers)
	}
	p.Start(context.Background())

	var mu sync.Mutex
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		if err := p.Submit(func(ctx context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}); err != nil {
			t.Fatal(err)
		}
	}
	p.Close()
	if len(order) != 3 {
		t.Errorf("ran %d jobs, want 3", len(order))
	}
}
