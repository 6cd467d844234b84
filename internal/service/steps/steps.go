// Package steps implements the simulated order steps: payment, vendor
// notification and courier assignment.
//
// Each step counts itself in a [tracker.Tracker] while running, honors
// per-request delay overrides and forced failures, and respects context
// cancellation.
package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/iliamunaev/barrier-pipeline/internal/model"
	"github.com/iliamunaev/barrier-pipeline/internal/service/tracker"
)

const (
	Payment = "payment"
	Vendor  = "vendor"
	Courier = "courier"
)

type stepError struct {
	msg  string
	kind string
}

func (e stepError) Error() string { return e.msg }
func (e stepError) Kind() string  { return e.kind }

var (
	ErrPaymentDeclined    = stepError{msg: "payment declined", kind: "payment_declined"}
	ErrVendorUnavailable  = stepError{msg: "vendor unavailable", kind: "vendor_unavailable"}
	ErrNoCourierAvailable = stepError{msg: "no courier available", kind: "no_courier"}
)

// Limiter bounds concurrent courier assignments.
type Limiter interface {
	Acquire(context.Context) error
	Release()
}

// ProcessPayment charges the order. Non-positive amounts are declined.
func ProcessPayment(ctx context.Context, req model.OrderRequest, tr *tracker.Tracker) error {
	defer track(tr)()

	if err := SleepOrDone(ctx, DelayForStep(req.DelayMS, Payment, 150*time.Millisecond)); err != nil {
		return err
	}
	if req.FailStep == Payment || req.Amount <= 0 {
		return fmt.Errorf("payment: %w", ErrPaymentDeclined)
	}

	return nil
}

// NotifyVendor tells the vendor about the order.
func NotifyVendor(ctx context.Context, req model.OrderRequest, tr *tracker.Tracker) error {
	defer track(tr)()

	if err := SleepOrDone(ctx, DelayForStep(req.DelayMS, Vendor, 200*time.Millisecond)); err != nil {
		return err
	}
	if req.FailStep == Vendor {
		return fmt.Errorf("vendor notify: %w", ErrVendorUnavailable)
	}

	return nil
}

// AssignCourier holds a slot in l for the duration of the assignment.
func AssignCourier(ctx context.Context, req model.OrderRequest, l Limiter, tr *tracker.Tracker) error {
	defer track(tr)()

	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()

	if err := SleepOrDone(ctx, DelayForStep(req.DelayMS, Courier, 100*time.Millisecond)); err != nil {
		return err
	}
	if req.FailStep == Courier {
		return fmt.Errorf("courier assign: %w", ErrNoCourierAvailable)
	}

	return nil
}

// track counts a running step in tr and returns the matching decrement.
// A nil tracker is allowed.
func track(tr *tracker.Tracker) func() {
	if tr == nil {
		return func() {}
	}
	tr.Inc()

	return func() { _ = tr.Dec() }
}

// DelayForStep returns the positive override for step from delayMS,
// otherwise defaultDelay.
func DelayForStep(delayMS map[string]int64, step string, defaultDelay time.Duration) time.Duration {
	if ms, ok := delayMS[step]; ok && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultDelay
}

// SleepOrDone waits for d or returns ctx.Err() if ctx ends first.
func SleepOrDone(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
