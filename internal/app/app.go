// Package app initializes and holds the services a scrape run depends on,
// acting as a dependency injection container for the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bookscrape/bookscrape/internal/archive"
	"github.com/bookscrape/bookscrape/internal/catalog"
	"github.com/bookscrape/bookscrape/internal/clock/system"
	"github.com/bookscrape/bookscrape/internal/config"
	collyfetcher "github.com/bookscrape/bookscrape/internal/fetcher/colly"
	"github.com/bookscrape/bookscrape/internal/id/uuid"
	"github.com/bookscrape/bookscrape/internal/logging"
	"github.com/bookscrape/bookscrape/internal/metrics"
	"github.com/bookscrape/bookscrape/internal/progress"
	"github.com/bookscrape/bookscrape/internal/progress/sinks"
	"github.com/bookscrape/bookscrape/internal/scraper"
	"github.com/bookscrape/bookscrape/internal/storage"
)

// App wires the fetcher, parser, writers, and observability services for one
// scrape run. It is initialized once by the command layer and closed after
// the run finishes.
type App struct {
	cfg    config.Config
	logger *zap.Logger

	fetcher  scraper.Fetcher
	parser   scraper.Parser
	writers  []scraper.Writer
	archiver scraper.Archiver
	hub      *progress.Hub
	clock    scraper.Clock
	ids      scraper.IDGenerator

	pgWriter   *storage.PostgresWriter
	metricsSrv *metrics.Server
}

// New builds every service cfg enables, failing fast when any of them cannot
// be initialized. Optional services (Postgres mirror, page archive, metrics
// endpoint) are only constructed when their config keys are set.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		clock:  system.New(),
		ids:    uuid.New(),
	}

	a.fetcher = collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.Site.UserAgent,
		Timeout:   cfg.Timeout(),
	})
	a.parser = catalog.New(logger)

	csvWriter := storage.NewCSVWriter(cfg.Output.Path)
	a.writers = []scraper.Writer{csvWriter}

	if cfg.Database.DSN != "" {
		logger.Info("mirroring results to postgres", zap.String("table", cfg.Database.Table))
		pg, err := storage.NewPostgresWriter(ctx, storage.PostgresConfig{
			DSN:   cfg.Database.DSN,
			Table: cfg.Database.Table,
		}, a.clock)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init postgres writer: %w", err)
		}
		a.pgWriter = pg
		a.writers = append(a.writers, pg)
	}

	if cfg.Archive.Dir != "" {
		store, err := archive.New(cfg.Archive.Dir)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init page archive: %w", err)
		}
		a.archiver = store
	}

	registry := prometheus.NewRegistry()
	promSink, err := sinks.NewPrometheusSink(registry)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init prometheus sink: %w", err)
	}
	a.hub = progress.NewHub(logger, sinks.NewLogSink(logger.Named("progress")), promSink)

	if cfg.Metrics.Addr != "" {
		srv, err := metrics.NewServer(cfg.Metrics.Addr, registry, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init metrics server: %w", err)
		}
		a.metricsSrv = srv
		srv.Start()
	}

	return a, nil
}

// Logger returns the run logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// CSVPath returns the configured CSV output location.
func (a *App) CSVPath() string {
	return a.cfg.Output.Path
}

// Run executes the scrape pipeline and returns its report.
func (a *App) Run(ctx context.Context) (*scraper.RunReport, error) {
	runner, err := scraper.NewRunner(
		scraper.Config{
			BaseURL: a.cfg.Site.BaseURL,
			Pages:   a.cfg.Scrape.Pages,
			Delay:   a.cfg.Delay(),
		},
		a.fetcher,
		a.parser,
		a.writers,
		a.archiver,
		a.hub,
		a.clock,
		a.ids,
		a.logger,
	)
	if err != nil {
		return nil, fmt.Errorf("build runner: %w", err)
	}
	return runner.Run(ctx)
}

// Close shuts down the optional services and flushes the logger. It is safe
// to call on a partially initialized App.
func (a *App) Close() {
	if a.metricsSrv != nil {
		if err := a.metricsSrv.Shutdown(context.Background()); err != nil {
			a.logger.Warn("metrics server shutdown failed", zap.Error(err))
		}
	}
	if a.hub != nil {
		if err := a.hub.Close(context.Background()); err != nil {
			a.logger.Warn("progress hub close failed", zap.Error(err))
		}
	}
	if a.pgWriter != nil {
		a.pgWriter.Close()
	}
	// Best effort; stderr sync failures are expected on some platforms.
	_ = a.logger.Sync()
}
