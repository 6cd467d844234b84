package steps

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliamunaev/barrier-pipeline/internal/model"
	"github.com/iliamunaev/barrier-pipeline/internal/service/pool"
	"github.com/iliamunaev/barrier-pipeline/internal/service/tracker"
)

func fast(step string) map[string]int64 { return map[string]int64{step: 1} }

func TestProcessPayment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     model.OrderRequest
		tr      *tracker.Tracker
		wantErr error
	}{
		{name: "success", req: model.OrderRequest{OrderID: "o-1", Amount: 1200, DelayMS: fast(Payment)}, tr: &tracker.Tracker{}},
		{name: "fail_step", req: model.OrderRequest{OrderID: "o-2", Amount: 1200, FailStep: Payment, DelayMS: fast(Payment)}, tr: &tracker.Tracker{}, wantErr: ErrPaymentDeclined},
		{name: "invalid_amount", req: model.OrderRequest{OrderID: "o-3", DelayMS: fast(Payment)}, tr: &tracker.Tracker{}, wantErr: ErrPaymentDeclined},
		{name: "nil_tracker", req: model.OrderRequest{OrderID: "o-4", Amount: 500, DelayMS: fast(Payment)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ProcessPayment(context.Background(), tt.req, tt.tr)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.tr != nil {
				assert.Zero(t, tt.tr.Running())
			}
		})
	}
}

func TestNotifyVendor(t *testing.T) {
	t.Parallel()

	tr := &tracker.Tracker{}

	require.NoError(t, NotifyVendor(context.Background(), model.OrderRequest{OrderID: "o-1", DelayMS: fast(Vendor)}, tr))

	err := NotifyVendor(context.Background(), model.OrderRequest{OrderID: "o-2", FailStep: Vendor, DelayMS: fast(Vendor)}, tr)
	require.ErrorIs(t, err, ErrVendorUnavailable)
	assert.Equal(t, "vendor_unavailable", ErrVendorUnavailable.Kind())
	assert.Zero(t, tr.Running())
}

func TestAssignCourier(t *testing.T) {
	t.Parallel()

	t.Run("success and failure", func(t *testing.T) {
		t.Parallel()

		tr := &tracker.Tracker{}
		p := pool.New(1)

		require.NoError(t, AssignCourier(context.Background(), model.OrderRequest{OrderID: "o-3", DelayMS: fast(Courier)}, p, tr))

		err := AssignCourier(context.Background(), model.OrderRequest{OrderID: "o-4", FailStep: Courier, DelayMS: fast(Courier)}, p, tr)
		require.ErrorIs(t, err, ErrNoCourierAvailable)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		require.NoError(t, p.Acquire(ctx), "slot must be released after the step")
		p.Release()
	})

	t.Run("pool saturated until deadline", func(t *testing.T) {
		t.Parallel()

		tr := &tracker.Tracker{}
		p := pool.New(1)
		require.NoError(t, p.Acquire(context.Background()))
		defer p.Release()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		defer cancel()

		err := AssignCourier(ctx, model.OrderRequest{OrderID: "o-5", DelayMS: fast(Courier)}, p, tr)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Zero(t, tr.Running())
	})
}

func TestStepTracksRunning(t *testing.T) {
	t.Parallel()

	tr := &tracker.Tracker{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NotifyVendor(ctx, model.OrderRequest{OrderID: "o-6", DelayMS: map[string]int64{Vendor: 5000}}, tr)
	}()

	require.Eventually(t, func() bool { return tr.Running() == 1 }, time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Zero(t, tr.Running())
}

func TestDelayForStep(t *testing.T) {
	t.Parallel()

	def := 10 * time.Millisecond

	tests := []struct {
		name    string
		delayMS map[string]int64
		want    time.Duration
	}{
		{name: "nil_map", delayMS: nil, want: def},
		{name: "override", delayMS: map[string]int64{Payment: 3}, want: 3 * time.Millisecond},
		{name: "zero_override", delayMS: map[string]int64{Payment: 0}, want: def},
		{name: "other_step", delayMS: map[string]int64{Vendor: 3}, want: def},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, DelayForStep(tt.delayMS, Payment, def))
		})
	}
}

func TestSleepOrDone(t *testing.T) {
	t.Parallel()

	require.NoError(t, SleepOrDone(context.Background(), 0))
	require.NoError(t, SleepOrDone(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, SleepOrDone(ctx, time.Hour), context.Canceled)
	require.ErrorIs(t, SleepOrDone(ctx, 0), context.Canceled)
}
