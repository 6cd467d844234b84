// Package app wires the order service, its steps and the HTTP transport.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iliamunaev/barrier-pipeline/internal/middleware"
	"github.com/iliamunaev/barrier-pipeline/internal/model"
	"github.com/iliamunaev/barrier-pipeline/internal/order"
	"github.com/iliamunaev/barrier-pipeline/internal/service/pool"
	"github.com/iliamunaev/barrier-pipeline/internal/service/steps"
	"github.com/iliamunaev/barrier-pipeline/internal/service/tracker"
	httptransport "github.com/iliamunaev/barrier-pipeline/internal/transport/http"
)

type Config struct {
	Couriers        int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type App struct {
	OrderService    *order.Service
	Tracker         *tracker.Tracker
	Handler         http.Handler
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func New(cfg Config, logger *slog.Logger) *App {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 2 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := pool.New(cfg.Couriers)
	tr := &tracker.Tracker{}

	svc := order.New([]order.Step{
		{Name: steps.Payment, Run: func(ctx context.Context, req model.OrderRequest) error {
			return steps.ProcessPayment(ctx, req, tr)
		}},
		{Name: steps.Vendor, Run: func(ctx context.Context, req model.OrderRequest) error {
			return steps.NotifyVendor(ctx, req, tr)
		}},
		{Name: steps.Courier, Run: func(ctx context.Context, req model.OrderRequest) error {
			return steps.AssignCourier(ctx, req, p, tr)
		}},
	})

	h := httptransport.New(svc, tr, p, cfg.RequestTimeout)

	return &App{
		OrderService:    svc,
		Tracker:         tr,
		Handler:         middleware.Logging(logger, h.Routes()),
		RequestTimeout:  cfg.RequestTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}
}
