// Package tracker counts running steps and notifies when none are left.
package tracker

import (
	"context"

	"github.com/iliamunaev/barrier-pipeline/internal/barrier"
)

// Tracker counts running steps on top of a [barrier.Barrier].
// The zero value is ready to use.
type Tracker struct {
	b barrier.Barrier
}

// Inc marks one more step as running.
func (t *Tracker) Inc() { t.b.Acquire() }

// Dec marks a running step as finished. It returns an error wrapping
// [barrier.ErrNotSet] when nothing is running.
func (t *Tracker) Dec() error { return t.b.Release() }

// Running returns the current running count.
func (t *Tracker) Running() int64 { return int64(t.b.Value()) }

// Waiting returns the number of idle callbacks not yet run.
func (t *Tracker) Waiting() int { return t.b.Pending() }

// Idle calls fn once no steps are running. If nothing runs now,
// fn is called before Idle returns.
func (t *Tracker) Idle(fn func()) {
	t.b.Wait(func(...any) { fn() })
}

// Drain blocks until no steps are running or ctx is done.
// On ctx expiry the idle callback stays registered and is dropped silently
// when it eventually fires.
func (t *Tracker) Drain(ctx context.Context) error {
	done := make(chan struct{})
	t.Idle(func() { close(done) })

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
