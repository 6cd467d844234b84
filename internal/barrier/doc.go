// Package barrier provides a counting barrier for callback-driven code.
//
// A [Barrier] counts outstanding units of asynchronous work. Callers
// [Barrier.Acquire] before starting work and [Barrier.Release] from the
// completion callback. Continuations registered with [Barrier.Wait] run once
// the count returns to zero, or immediately when it already is zero.
//
// Nothing blocks: a continuation is deferred to the Release that clears the
// barrier and runs synchronously on that goroutine. Queued continuations are
// drained most recently registered first unless the barrier is built with
// [WithDrainOrder]. A continuation that re-acquires the barrier halts the drain
// and the remaining continuations stay queued for a later Release.
package barrier
