// Package pool provides a bounded concurrency limiter.
package pool

import (
	"context"

	"golang.org/x/sync/semaphore"
)

const maxSize = 128

// Pool limits concurrent resource assignments.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// New creates a pool with at least one slot and at most 128 slots.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	if size > maxSize {
		size = maxSize
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

// Size returns the number of slots.
func (p *Pool) Size() int { return p.size }

// Acquire reserves one slot, blocking until one is free or ctx is done.
// It returns ctx.Err() if acquisition is aborted.
func (p *Pool) Acquire(ctx context.Context) error {
	return p.sem.Acquire(ctx, 1)
}

// Release frees a previously acquired slot.
func (p *Pool) Release() {
	p.sem.Release(1)
}
