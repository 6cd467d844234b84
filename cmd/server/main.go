package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iliamunaev/barrier-pipeline/internal/app"
	"github.com/iliamunaev/barrier-pipeline/internal/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Serve the order pipeline over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "Address to listen on")
	flags.Int("couriers", 5, "Number of concurrent courier assignments")
	flags.Duration("request-timeout", 10*time.Second, "Deadline for processing one order")
	flags.Duration("shutdown-timeout", 5*time.Second, "Time allowed for in-flight steps to finish on shutdown")
	flags.String("log-level", "info", "Set the log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Set the log format (text, logfmt, json)")

	cmd.RunE = func(cc *cobra.Command, _ []string) error {
		opts, err := readOptions(cc)
		if err != nil {
			return fmt.Errorf("invalid argument: %w", err)
		}

		h, err := log.CreateHandler(cc.ErrOrStderr(), opts.logLevel, opts.logFormat)
		if err != nil {
			return fmt.Errorf("failed creating log handler: %w", err)
		}
		logger := slog.New(h)
		slog.SetDefault(logger)

		return run(cc.Context(), opts, logger)
	}

	return cmd
}

type options struct {
	addr      string
	logLevel  string
	logFormat string
	cfg       app.Config
}

func readOptions(cc *cobra.Command) (options, error) {
	flags := cc.Flags()

	var (
		opts options
		merr error
		err  error
	)

	if opts.addr, err = flags.GetString("addr"); err != nil {
		merr = multierror.Append(merr, err)
	}
	if opts.cfg.Couriers, err = flags.GetInt("couriers"); err != nil {
		merr = multierror.Append(merr, err)
	}
	if opts.cfg.RequestTimeout, err = flags.GetDuration("request-timeout"); err != nil {
		merr = multierror.Append(merr, err)
	}
	if opts.cfg.ShutdownTimeout, err = flags.GetDuration("shutdown-timeout"); err != nil {
		merr = multierror.Append(merr, err)
	}
	if opts.logLevel, err = flags.GetString("log-level"); err != nil {
		merr = multierror.Append(merr, err)
	}
	if opts.logFormat, err = flags.GetString("log-format"); err != nil {
		merr = multierror.Append(merr, err)
	}

	return opts, merr
}

// run serves until ctx is canceled, then stops accepting requests and waits
// for in-flight steps to drain within the shutdown timeout.
func run(ctx context.Context, opts options, logger *slog.Logger) error {
	a := app.New(opts.cfg, logger)

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           a.Handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      a.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
		defer cancel()

		var merr error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("shutdown server: %w", err))
		}
		if err := a.Tracker.Drain(shutdownCtx); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("drain steps (%d running): %w", a.Tracker.Running(), err))
		}
		if merr == nil {
			logger.Info("stopped")
		}
		return merr
	})

	return g.Wait()
}
