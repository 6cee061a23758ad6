// Package server owns the application lifecycle: warm-up, serving and
// ordered shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SteelDash/internal/service/ratelimit"
	"SteelDash/internal/usecase"
	"SteelDash/pkg/config"
	xhttp "SteelDash/pkg/http"
	applogger "SteelDash/pkg/logger"
)

const limiterIdle = 10 * time.Minute

type namedCloser struct {
	name string
	c    io.Closer
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg     *config.Config
	l       *applogger.Logger
	http    *xhttp.Server
	loader  *usecase.DatasetLoader
	limiter *ratelimit.Limiter
	closers []namedCloser
}

type Option func(*App)

// WithCloser registers a resource closed on shutdown, in registration order.
func WithCloser(name string, c io.Closer) Option {
	return func(a *App) {
		if c != nil {
			a.closers = append(a.closers, namedCloser{name: name, c: c})
		}
	}
}

// WithLimiter prunes idle rate-limit buckets while the app runs.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(a *App) {
		a.limiter = l
	}
}

func New(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, loader *usecase.DatasetLoader, opts ...Option) *App {
	a := &App{cfg: cfg, l: l, http: srv, loader: loader}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Logger exposes the application logger to main.
func (a *App) Logger() *applogger.Logger { return a.l }

// Warm loads every dataset before serving. A format error here must stop
// the process.
func (a *App) Warm(ctx context.Context) error {
	start := time.Now()
	if err := a.loader.Warm(ctx); err != nil {
		return err
	}
	a.l.Info("datasets ready", applogger.Duration("duration_ms", time.Since(start)))
	return nil
}

// Run serves until SIGINT/SIGTERM or a listener failure, then shuts down.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Warm(ctx); err != nil {
		a.Close()
		return fmt.Errorf("warm datasets: %w", err)
	}
	if err := a.http.Start(); err != nil {
		a.Close()
		return fmt.Errorf("start http: %w", err)
	}
	if a.limiter != nil {
		go a.pruneLimiter(ctx)
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.l.Info("shutdown signal received")
	case err := <-a.http.Errors():
		runErr = fmt.Errorf("http server: %w", err)
	}
	return a.shutdown(runErr)
}

func (a *App) pruneLimiter(ctx context.Context) {
	t := time.NewTicker(limiterIdle)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Prune(limiterIdle); n > 0 {
				a.l.Debug("rate limiter pruned", applogger.Int("buckets", n))
			}
		}
	}
}

func (a *App) shutdown(runErr error) error {
	a.l.Info("shutting down")
	if err := a.http.Stop(context.Background()); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}
	a.Close()
	a.l.Info("shutdown complete")
	return runErr
}

// Close releases registered resources. Errors are logged, not returned.
func (a *App) Close() {
	for _, nc := range a.closers {
		if err := nc.c.Close(); err != nil {
			a.l.Warn("close error", applogger.String("resource", nc.name), applogger.Error(err))
		}
	}
	a.closers = nil
}
