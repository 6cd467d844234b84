package barrier

import (
	"fmt"
	"math"
	"sync"
)

// Continuation is a deferred callback registered with [Barrier.Wait].
type Continuation func(args ...any)

type waiter struct {
	fn   Continuation
	args []any
}

// Barrier counts outstanding work and runs queued continuations once the
// count drops back to zero. The zero value is a clear barrier that drains
// in [LIFO] order.
//
// A Barrier is safe for use by multiple goroutines. Its lock is never held
// while a continuation runs, so continuations may call back into the barrier.
type Barrier struct {
	mu      sync.Mutex
	value   int
	waiting []waiter
	order   DrainOrder
}

// New returns a barrier holding n outstanding units.
// It returns an error wrapping [ErrInvalidArgument] if n is negative.
func New(n int, opts ...Option) (*Barrier, error) {
	if n < 0 {
		return nil, fmt.Errorf("new barrier with count %d: %w", n, ErrInvalidArgument)
	}

	b := &Barrier{value: n}
	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// IsSet reports whether any units are outstanding.
func (b *Barrier) IsSet() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.value > 0
}

// Value returns the number of outstanding units.
func (b *Barrier) Value() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.value
}

// Pending returns the number of queued continuations.
func (b *Barrier) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.waiting)
}

// Acquire adds one outstanding unit and returns the new count.
// Like a negative [sync.WaitGroup] counter, overflowing the count is a
// programmer error and panics.
func (b *Barrier) Acquire() int {
	v, err := b.AcquireN(1)
	if err != nil {
		panic("barrier: " + err.Error())
	}

	return v
}

// AcquireN adds n outstanding units and returns the new count.
// Zero is accepted and leaves the count unchanged. A negative n, or one
// that would overflow the count, is rejected without changing it.
func (b *Barrier) AcquireN(n int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n < 0 || n > math.MaxInt-b.value {
		return b.value, fmt.Errorf("acquire %d with count %d: %w", n, b.value, ErrInvalidArgument)
	}

	b.value += n

	return b.value, nil
}

// Release removes one outstanding unit. If the barrier clears, queued
// continuations are drained on the calling goroutine before Release returns.
// It returns an error wrapping [ErrNotSet] if the barrier is already clear.
func (b *Barrier) Release() error {
	b.mu.Lock()
	if b.value == 0 {
		b.mu.Unlock()
		return fmt.Errorf("release: %w", ErrNotSet)
	}
	b.value--
	b.mu.Unlock()

	b.drain()

	return nil
}

// ReleaseN removes n outstanding units, where 0 < n <= [Barrier.Value].
// Like [Barrier.Release] it drains queued continuations once the count is zero.
func (b *Barrier) ReleaseN(n int) error {
	b.mu.Lock()
	if b.value == 0 {
		b.mu.Unlock()
		return fmt.Errorf("release %d: %w", n, ErrNotSet)
	}
	if n <= 0 || n > b.value {
		v := b.value
		b.mu.Unlock()
		return fmt.Errorf("release %d with count %d: %w", n, v, ErrInvalidArgument)
	}
	b.value -= n
	b.mu.Unlock()

	b.drain()

	return nil
}

// Wait registers fn to be called with args once the barrier is clear.
// If the barrier is already clear, fn runs before Wait returns and is
// never queued. Wait panics if fn is nil.
func (b *Barrier) Wait(fn Continuation, args ...any) {
	if fn == nil {
		panic("barrier: nil continuation")
	}

	b.mu.Lock()
	if b.value == 0 {
		b.mu.Unlock()
		fn(args...)

		return
	}
	b.waiting = append(b.waiting, waiter{fn: fn, args: args})
	b.mu.Unlock()
}

// drain pops and runs one continuation at a time while the barrier stays
// clear. The queue is re-read after every call because continuations may
// acquire, release or wait re-entrantly.
func (b *Barrier) drain() {
	for {
		b.mu.Lock()
		if b.value > 0 || len(b.waiting) == 0 {
			b.mu.Unlock()
			return
		}
		w := b.pop()
		b.mu.Unlock()

		w.fn(w.args...)
	}
}

// pop removes the next continuation to run. b.mu must be held.
func (b *Barrier) pop() waiter {
	var w waiter

	switch b.order {
	case FIFO:
		w = b.waiting[0]
		b.waiting[0] = waiter{}
		b.waiting = b.waiting[1:]
	default:
		last := len(b.waiting) - 1
		w = b.waiting[last]
		b.waiting[last] = waiter{}
		b.waiting = b.waiting[:last]
	}

	if len(b.waiting) == 0 {
		b.waiting = nil
	}

	return w
}
