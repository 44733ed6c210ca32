package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrRunNotFound is returned when a fit run id is not in the store.
var ErrRunNotFound = errors.New("fit run not found")

// FitStore persists fit runs and their minimizer steps in SQLite.
type FitStore struct {
	db  *sql.DB
	cfg Config
}

// Config holds fit store configuration.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewFitStore creates a new fit store instance.
func NewFitStore(cfg Config) (*FitStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}
	return &FitStore{cfg: cfg}, nil
}

// Init initializes the database connection and enables WAL mode.
func (s *FitStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", s.cfg.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(s.cfg.MaxOpenConns)
	db.SetMaxIdleConns(s.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *FitStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations.
func (s *FitStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// CreateRun inserts a new fit run. An empty ID is assigned a fresh UUID;
// empty timestamps default to now.
func (s *FitStore) CreateRun(ctx context.Context, run *FitRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}

	query := `
		INSERT INTO fit_runs (id, settings_source, hierarchy, free_params, started_at, completed_at, best_llh, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.SettingsSource,
		run.Hierarchy,
		run.FreeParams,
		run.StartedAt,
		run.CompletedAt,
		run.BestLLH,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create fit run: %w", err)
	}
	return nil
}

// GetRun retrieves a fit run by ID.
func (s *FitStore) GetRun(ctx context.Context, id string) (*FitRun, error) {
	query := `
		SELECT id, settings_source, hierarchy, free_params, started_at, completed_at, best_llh, created_at
		FROM fit_runs
		WHERE id = ?
	`
	run := &FitRun{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.SettingsSource,
		&run.Hierarchy,
		&run.FreeParams,
		&run.StartedAt,
		&run.CompletedAt,
		&run.BestLLH,
		&run.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fit run: %w", err)
	}
	return run, nil
}

// CompleteRun records the best likelihood and marks the run finished.
func (s *FitStore) CompleteRun(ctx context.Context, id string, bestLLH float64) error {
	query := `
		UPDATE fit_runs
		SET completed_at = ?, best_llh = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), bestLLH, id)
	if err != nil {
		return fmt.Errorf("failed to complete fit run: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	return nil
}

// ListRuns lists fit runs, newest first.
func (s *FitStore) ListRuns(ctx context.Context, limit, offset int) ([]*FitRun, error) {
	query := `
		SELECT id, settings_source, hierarchy, free_params, started_at, completed_at, best_llh, created_at
		FROM fit_runs
		ORDER BY started_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list fit runs: %w", err)
	}
	defer rows.Close()

	runs := []*FitRun{}
	for rows.Next() {
		run := &FitRun{}
		if err := rows.Scan(
			&run.ID,
			&run.SettingsSource,
			&run.Hierarchy,
			&run.FreeParams,
			&run.StartedAt,
			&run.CompletedAt,
			&run.BestLLH,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fit run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fit runs: %w", err)
	}
	return runs, nil
}

// RecordStep appends one minimizer iteration to a run.
func (s *FitStore) RecordStep(ctx context.Context, step *FitStep) error {
	if step.CreatedAt.IsZero() {
		step.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO fit_steps (run_id, iteration, llh, param_values, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		step.RunID,
		step.Iteration,
		step.LLH,
		step.ParamValues,
		step.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record fit step: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		step.ID = id
	}
	return nil
}

// ListSteps returns a run's recorded iterations in order.
func (s *FitStore) ListSteps(ctx context.Context, runID string) ([]*FitStep, error) {
	query := `
		SELECT id, run_id, iteration, llh, param_values, created_at
		FROM fit_steps
		WHERE run_id = ?
		ORDER BY iteration ASC
	`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fit steps: %w", err)
	}
	defer rows.Close()

	steps := []*FitStep{}
	for rows.Next() {
		step := &FitStep{}
		if err := rows.Scan(
			&step.ID,
			&step.RunID,
			&step.Iteration,
			&step.LLH,
			&step.ParamValues,
			&step.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fit step: %w", err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fit steps: %w", err)
	}
	return steps, nil
}
