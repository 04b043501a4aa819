// Package store implements optional persistence for run metadata, equity
// samples, and the event log, via Postgres. It is an advisory report
// artifact per the specification, not part of the core replay contract:
// a simulation runs identically whether or not a Store is attached.
package store

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"jax-backtest/internal/brokerage"
	"jax-backtest/internal/clock"
	"jax-backtest/internal/stats"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store persists run metadata and statistics to Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool to dsn and verifies connectivity. A
// pgx5:// DSN (the form Migrate takes) is opened as postgres://.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	if strings.HasPrefix(dsn, "pgx5://") {
		dsn = "postgres://" + strings.TrimPrefix(dsn, "pgx5://")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Migrate applies every pending migration under migrations/. dsn must use
// the pgx5:// scheme so golang-migrate's pgx/v5 driver handles it.
func (s *Store) Migrate(dsn string) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("store: load migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("store: build migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("store: apply migrations: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// CreateRun records a new run's configuration and returns its ID.
func (s *Store) CreateRun(ctx context.Context, tickers []string, start, end time.Time, resolution clock.Resolution) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, tickers, start_date, end_date, resolution) VALUES ($1, $2, $3, $4, $5)`,
		id, tickers, start, end, resolution.String(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: create run: %w", err)
	}
	return id, nil
}

// SaveReport persists a run's equity curve and full event log.
func (s *Store) SaveReport(ctx context.Context, runID uuid.UUID, report stats.Report) error {
	rows := make([][]any, 0, len(report.Equity))
	for _, sample := range report.Equity {
		rows = append(rows, []any{runID, sample.Datetime, sample.Equity})
	}
	if len(rows) > 0 {
		if _, err := s.pool.CopyFrom(ctx,
			pgx.Identifier{"equity_samples"},
			[]string{"run_id", "datetime", "equity"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("store: save equity curve: %w", err)
		}
	}

	for _, event := range report.Events {
		if err := s.saveEvent(ctx, runID, event); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) saveEvent(ctx context.Context, runID uuid.UUID, event brokerage.Event) error {
	var (
		kind   string
		status string
		amount *decimal.Decimal
		ticker string
	)
	switch event.Kind {
	case brokerage.EventCommission:
		kind = "commission"
		amount = &event.Amount
	case brokerage.EventOrderUpdate:
		kind = "order_update"
		status = statusName(event.Status.Kind)
		ticker = event.Order.Ticker
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO events (run_id, kind, datetime, ticker, status, amount) VALUES ($1, $2, $3, $4, $5, $6)`,
		runID, kind, event.Time, ticker, status, amount,
	)
	if err != nil {
		return fmt.Errorf("store: save event: %w", err)
	}
	return nil
}

func statusName(k brokerage.StatusKind) string {
	switch k {
	case brokerage.Submitted:
		return "submitted"
	case brokerage.Cancelled:
		return "cancelled"
	case brokerage.Filled:
		return "filled"
	case brokerage.PartiallyFilled:
		return "partially_filled"
	case brokerage.Rejected:
		return "rejected"
	case brokerage.Expired:
		return "expired"
	default:
		return "unknown"
	}
}
