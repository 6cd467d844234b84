// Package order runs order steps concurrently and joins them on a barrier.
package order

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iliamunaev/barrier-pipeline/internal/apperr"
	"github.com/iliamunaev/barrier-pipeline/internal/barrier"
	"github.com/iliamunaev/barrier-pipeline/internal/model"
)

// Step is a named unit of order processing.
type Step struct {
	Name string
	Run  func(ctx context.Context, req model.OrderRequest) error
}

// DoneFunc receives per-step results in registration order and the first
// step error, if any.
type DoneFunc func(results []model.StepResult, err error)

// Service orchestrates the order workflow.
type Service struct {
	steps []Step
}

// New creates a Service running steps in parallel. It panics if steps is empty.
func New(steps []Step) *Service {
	if len(steps) == 0 {
		panic("order.New: no steps")
	}
	return &Service{steps: steps}
}

// Submit starts every step in its own goroutine and returns immediately.
// done is called exactly once, on the goroutine of the last step to finish.
// The first failing step cancels the context seen by its siblings.
func (s *Service) Submit(ctx context.Context, req model.OrderRequest, done DoneFunc) {
	// Every step is counted before any starts, so a fast step cannot
	// clear the barrier while others are still being launched.
	var b barrier.Barrier
	for range s.steps {
		b.Acquire()
	}

	ctx, cancel := context.WithCancelCause(ctx)

	results := make([]model.StepResult, len(s.steps))
	var (
		mu       sync.Mutex
		firstErr error
	)

	b.Wait(func(...any) {
		cancel(nil)

		mu.Lock()
		err := firstErr
		mu.Unlock()

		done(results, err)
	})

	for i, st := range s.steps {
		go func() {
			res, err := run(ctx, st, req)

			mu.Lock()
			results[i] = res
			if err != nil && firstErr == nil {
				firstErr = err
			}
			mu.Unlock()

			if err != nil {
				cancel(err)
			}
			_ = b.Release()
		}()
	}
}

// Process runs all steps and blocks until every one has finished.
func (s *Service) Process(ctx context.Context, req model.OrderRequest) ([]model.StepResult, error) {
	type outcome struct {
		results []model.StepResult
		err     error
	}

	ch := make(chan outcome, 1)
	s.Submit(ctx, req, func(results []model.StepResult, err error) {
		ch <- outcome{results: results, err: err}
	})

	o := <-ch
	return o.results, o.err
}

func run(ctx context.Context, st Step, req model.OrderRequest) (model.StepResult, error) {
	start := time.Now()
	err := st.Run(ctx, req)

	res := model.StepResult{
		Name:       st.Name,
		Status:     "ok",
		DurationMS: time.Since(start).Milliseconds(),
	}
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		res.Status = "canceled"
	default:
		res.Status = "error"
		if k := apperr.Kind(err); k != "internal" {
			res.Detail = k
		}
	}

	return res, err
}
