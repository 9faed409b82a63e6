package storage

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookscrape/bookscrape/internal/scraper"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresConfig controls the Postgres connection pool used by the mirror
// writer.
type PostgresConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresWriter mirrors the result set into a Postgres table. Each Write
// replaces the previous table contents so reruns converge on the same rows.
type PostgresWriter struct {
	pool  execCloser
	table string
	clock scraper.Clock
}

// NewPostgresWriter connects a pool using the provided config and ensures
// the target table exists.
func NewPostgresWriter(ctx context.Context, cfg PostgresConfig, clock scraper.Clock) (*PostgresWriter, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "products"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	w := &PostgresWriter{pool: pool, table: table, clock: clock}
	if err := w.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return w, nil
}

// NewPostgresWriterWithPool constructs a writer from an existing pool
// (primarily for testing). No migration is run.
func NewPostgresWriterWithPool(pool execCloser, table string, clock scraper.Clock) (*PostgresWriter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "products"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresWriter{pool: pool, table: table, clock: clock}, nil
}

// Close releases the underlying pool resources.
func (w *PostgresWriter) Close() {
	if w == nil || w.pool == nil {
		return
	}
	w.pool.Close()
}

// migrate creates the target table when absent.
func (w *PostgresWriter) migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id           BIGSERIAL PRIMARY KEY,
	title        TEXT NOT NULL,
	price        TEXT NOT NULL,
	availability TEXT NOT NULL,
	rating       TEXT NOT NULL,
	product_page TEXT NOT NULL UNIQUE,
	scraped_at   TIMESTAMPTZ NOT NULL
)`, w.table)
	if _, err := w.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("migrate %s: %w", w.table, err)
	}
	return nil
}

// Write clears previous rows and inserts one row per item. Duplicate product
// pages within a run are collapsed by the unique constraint.
func (w *PostgresWriter) Write(ctx context.Context, items []scraper.Item) error {
	if w == nil || w.pool == nil {
		return fmt.Errorf("postgres writer is not configured")
	}
	if _, err := w.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", w.table)); err != nil {
		return &scraper.WriteError{Target: w.table, Err: fmt.Errorf("clear table: %w", err)}
	}

	now := time.Now().UTC()
	if w.clock != nil {
		now = w.clock.Now()
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	title,
	price,
	availability,
	rating,
	product_page,
	scraped_at
) VALUES (
	$1,$2,$3,$4,$5,$6
) ON CONFLICT (product_page) DO NOTHING`, w.table)

	for _, item := range items {
		args := []any{
			item.Title,
			item.Price,
			item.Availability,
			item.Rating,
			item.ProductPage,
			now,
		}
		if _, err := w.pool.Exec(ctx, query, args...); err != nil {
			return &scraper.WriteError{Target: w.table, Err: fmt.Errorf("insert product: %w", err)}
		}
	}
	return nil
}
