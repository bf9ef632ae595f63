// Package app wires the unitconv components together and manages their
// lifecycle: the HTTP server and the periodic stats job run under one
// errgroup and shut down together on context cancellation.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"

	"github.com/kvolkova/unitconv/internal/config"
	"github.com/kvolkova/unitconv/internal/history"
	"github.com/kvolkova/unitconv/internal/server"
	"github.com/kvolkova/unitconv/internal/template"
)

// App owns the service components.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	hist      *history.Log
	pages     *template.Cache
	srv       *server.Server
	httpSrv   *http.Server
	scheduler gocron.Scheduler
	accessLog *os.File
	startedAt time.Time
}

// New builds the application from configuration: opens the access log,
// prepares the template cache and history log, and constructs the HTTP
// server and the stats scheduler.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	accessLog, err := os.OpenFile(cfg.Log.AccessPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open access log %s: %w", cfg.Log.AccessPath, err)
	}

	pages := template.NewCache(cfg.Template.Path, logger)
	hist := history.New(cfg.History.Size)
	srv := server.New(cfg, logger, pages, hist, accessLog)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		accessLog.Close()
		pages.Close()
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &App{
		cfg:    cfg,
		logger: logger.With("component", "app"),
		hist:   hist,
		pages:  pages,
		srv:    srv,
		httpSrv: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      srv.Handler(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		scheduler: scheduler,
		accessLog: accessLog,
		startedAt: time.Now(),
	}, nil
}

// Run starts the HTTP server and the stats job and blocks until the context
// is cancelled or a component fails. Shutdown is graceful within the
// configured timeout.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	if _, err := a.scheduler.NewJob(
		gocron.DurationJob(a.cfg.Stats.Interval),
		gocron.NewTask(a.logStats),
		gocron.WithName("service_stats"),
	); err != nil {
		return fmt.Errorf("failed to schedule stats job: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Addr)
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.scheduler.Start()
		a.logger.Info("stats scheduler started", "interval", a.cfg.Stats.Interval)

		<-gCtx.Done()

		a.logger.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("HTTP server shutdown failed", "error", err)
			return fmt.Errorf("http shutdown: %w", err)
		}

		if err := a.scheduler.Shutdown(); err != nil {
			a.logger.Error("scheduler shutdown failed", "error", err)
		}
		return nil
	})

	return g.Wait()
}

// logStats emits the periodic service heartbeat read by operators from the
// structured log stream.
func (a *App) logStats() {
	a.logger.Info("service stats",
		"requests_served", a.srv.Requests(),
		"history_entries", a.hist.Len(),
		"uptime", time.Since(a.startedAt).Round(time.Second))
}

func (a *App) close() {
	if err := a.pages.Close(); err != nil {
		a.logger.Warn("failed to close template cache", "error", err)
	}
	if err := a.accessLog.Close(); err != nil {
		a.logger.Warn("failed to close access log", "error", err)
	}
}
