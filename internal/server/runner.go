// Package server runs the HTTP API and background cache maintenance.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/costar/internal/cache"
)

const defaultShutdownTimeout = 30 * time.Second

// Config for the server runner.
type Config struct {
	Addr            string
	SweepInterval   time.Duration // zero disables sweeping
	SweepLimit      int
	ShutdownTimeout time.Duration
}

// Runner serves HTTP and sweeps the cache until its context ends.
type Runner struct {
	handler http.Handler
	store   cache.Store
	config  Config
	logger  *slog.Logger
}

// NewRunner creates a new runner. store may be nil.
func NewRunner(handler http.Handler, store cache.Store, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	return &Runner{
		handler: handler,
		store:   store,
		config:  cfg,
		logger:  logger,
	}
}

// Run listens on the configured address and serves until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
// A canceled context is a clean stop and returns nil.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		r.logger.Info("http server stopped")
		return nil
	})

	if sw, ok := r.store.(cache.Sweeper); ok && r.config.SweepInterval > 0 {
		g.Go(func() error {
			cache.RunSweeper(gctx, sw, r.config.SweepInterval, r.config.SweepLimit, r.logger.With("component", "sweeper"))
			return nil
		})
	}

	return g.Wait()
}
