package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookscrape/bookscrape/internal/progress"
)

// Config holds the settings for one scrape run.
type Config struct {
	// BaseURL is the catalogue root, normally https://books.toscrape.com/.
	BaseURL string
	// Pages is the number of listing pages to fetch, starting at page 1.
	Pages int
	// Delay is the pause inserted between consecutive page requests.
	Delay time.Duration
}

// Runner drives the fetch, parse, and aggregate pipeline page by page and
// hands the final result set to the configured writers. Pages are processed
// strictly in order; the first fetch, parse, or write failure aborts the run.
type Runner struct {
	cfg      Config
	fetcher  Fetcher
	parser   Parser
	writers  []Writer
	archiver Archiver
	events   progress.Emitter
	clock    Clock
	ids      IDGenerator
	logger   *zap.Logger
}

// NewRunner validates the wiring and constructs a Runner. The archiver and
// emitter are optional and may be nil.
func NewRunner(
	cfg Config,
	fetcher Fetcher,
	parser Parser,
	writers []Writer,
	archiver Archiver,
	events progress.Emitter,
	clock Clock,
	ids IDGenerator,
	logger *zap.Logger,
) (*Runner, error) {
	if cfg.Pages < 1 {
		return nil, fmt.Errorf("pages must be >= 1, got %d", cfg.Pages)
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if parser == nil {
		return nil, errors.New("parser is required")
	}
	if len(writers) == 0 {
		return nil, errors.New("at least one writer is required")
	}
	if clock == nil {
		return nil, errors.New("clock is required")
	}
	if ids == nil {
		return nil, errors.New("id generator is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		fetcher:  fetcher,
		parser:   parser,
		writers:  append([]Writer(nil), writers...),
		archiver: archiver,
		events:   events,
		clock:    clock,
		ids:      ids,
		logger:   logger,
	}, nil
}

// Run executes the pipeline: fetch and parse pages 1 through cfg.Pages in
// increasing order, aggregate their records, then invoke every writer once
// with the full set.
func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	runID, err := r.ids.NewRunID()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	started := r.clock.Now()
	results := NewResultSet()

	r.logger.Info("run started",
		zap.String("run_id", runID.String()),
		zap.String("base_url", r.cfg.BaseURL),
		zap.Int("pages", r.cfg.Pages),
	)
	r.emit(ctx, progress.Event{
		RunID: progress.UUIDToBytes(runID),
		TS:    started,
		Stage: progress.StageRunStart,
	})

	for page := 1; page <= r.cfg.Pages; page++ {
		if page > 1 {
			if err := r.pause(ctx); err != nil {
				return nil, r.fail(ctx, runID, started, err)
			}
		}
		if err := r.scrapePage(ctx, runID, page, results); err != nil {
			return nil, r.fail(ctx, runID, started, err)
		}
	}

	records := results.Records()
	for _, w := range r.writers {
		if err := w.Write(ctx, records); err != nil {
			return nil, r.fail(ctx, runID, started, err)
		}
	}

	finished := r.clock.Now()
	r.emit(ctx, progress.Event{
		RunID: progress.UUIDToBytes(runID),
		TS:    finished,
		Stage: progress.StageRunDone,
		Items: len(records),
		Dur:   finished.Sub(started),
	})
	r.logger.Info("run finished",
		zap.String("run_id", runID.String()),
		zap.Int("pages", r.cfg.Pages),
		zap.Int("items", len(records)),
		zap.Duration("dur", finished.Sub(started)),
	)
	return &RunReport{
		RunID:      runID.String(),
		StartedAt:  started,
		FinishedAt: finished,
		Pages:      r.cfg.Pages,
		Records:    records,
	}, nil
}

// scrapePage fetches, optionally archives, and parses a single listing page,
// appending its records to results.
func (r *Runner) scrapePage(ctx context.Context, runID uuid.UUID, page int, results *ResultSet) error {
	pageURL, err := PageURL(r.cfg.BaseURL, page)
	if err != nil {
		return fmt.Errorf("page %d: %w", page, err)
	}
	r.logger.Debug("fetching page", zap.Int("page", page), zap.String("url", pageURL))

	resp, err := r.fetcher.Fetch(ctx, FetchRequest{URL: pageURL, Page: page})
	if err != nil {
		return fmt.Errorf("page %d: %w", page, err)
	}
	r.emit(ctx, progress.Event{
		RunID:      progress.UUIDToBytes(runID),
		TS:         r.clock.Now(),
		Stage:      progress.StagePageFetched,
		Page:       page,
		URL:        resp.URL,
		StatusCode: resp.StatusCode,
		Bytes:      int64(len(resp.Body)),
		Dur:        resp.Duration,
	})

	if r.archiver != nil {
		if path, aerr := r.archiver.SavePage(page, resp.Body); aerr != nil {
			r.logger.Warn("page archive failed", zap.Int("page", page), zap.Error(aerr))
		} else {
			r.logger.Debug("page archived", zap.Int("page", page), zap.String("path", path))
		}
	}

	items, err := r.parser.ParsePage(resp.URL, resp.Body)
	if err != nil {
		return fmt.Errorf("page %d: %w", page, err)
	}
	results.Append(items...)
	r.emit(ctx, progress.Event{
		RunID: progress.UUIDToBytes(runID),
		TS:    r.clock.Now(),
		Stage: progress.StagePageParsed,
		Page:  page,
		URL:   resp.URL,
		Items: len(items),
	})
	r.logger.Info("page scraped",
		zap.Int("page", page),
		zap.Int("items", len(items)),
		zap.Int("total", results.Len()),
	)
	return nil
}

// pause waits the configured inter-page delay, returning early when the
// context is canceled.
func (r *Runner) pause(ctx context.Context) error {
	if r.cfg.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(r.cfg.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// fail emits the terminal error event and logs before handing err back.
func (r *Runner) fail(ctx context.Context, runID uuid.UUID, started time.Time, err error) error {
	now := r.clock.Now()
	r.emit(ctx, progress.Event{
		RunID: progress.UUIDToBytes(runID),
		TS:    now,
		Stage: progress.StageRunError,
		Dur:   now.Sub(started),
		Note:  err.Error(),
	})
	r.logger.Error("run aborted", zap.String("run_id", runID.String()), zap.Error(err))
	return err
}

func (r *Runner) emit(ctx context.Context, evt progress.Event) {
	if r.events == nil {
		return
	}
	r.events.Emit(ctx, evt)
}
