package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trendscope/analyzer/internal/domain"
)

// RunsRepository handles database operations for analysis run history.
type RunsRepository struct {
	db *sqlx.DB
}

// NewRunsRepository creates a new runs repository.
func NewRunsRepository(db *sqlx.DB) *RunsRepository {
	return &RunsRepository{db: db}
}

// Create inserts the audit record of a completed run.
func (r *RunsRepository) Create(ctx context.Context, run *domain.AnalysisRun) error {
	query := `
		INSERT INTO analysis_runs (
			id, query, mode, min_views, min_likes, window_days,
			request_limit, fetched_count, returned_count, duration_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		run.ID,
		run.Query,
		run.Mode,
		run.MinViews,
		run.MinLikes,
		run.WindowDays,
		run.RequestLimit,
		run.FetchedCount,
		run.ReturnedCount,
		run.DurationMs,
	).Scan(&run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// GetByID retrieves a run by its ID.
func (r *RunsRepository) GetByID(ctx context.Context, id string) (*domain.AnalysisRun, error) {
	var run domain.AnalysisRun
	query := `
		SELECT id, query, mode, min_views, min_likes, window_days,
		       request_limit, fetched_count, returned_count, duration_ms, created_at
		FROM analysis_runs
		WHERE id = $1
	`

	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: run %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &run, nil
}

// List retrieves the most recent runs, newest first.
func (r *RunsRepository) List(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	if limit <= 0 {
		limit = 50
	}

	var runs []domain.AnalysisRun
	query := `
		SELECT id, query, mode, min_views, min_likes, window_days,
		       request_limit, fetched_count, returned_count, duration_ms, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

// UsageStats summarizes run history for the stats endpoint.
type UsageStats struct {
	TotalRuns     int     `db:"total_runs"      json:"total_runs"`
	RunsLastDay   int     `db:"runs_last_day"   json:"runs_last_day"`
	AvgDurationMs float64 `db:"avg_duration_ms" json:"avg_duration_ms"`
	AvgReturned   float64 `db:"avg_returned"    json:"avg_returned"`
}

// Stats aggregates usage over the run history.
func (r *RunsRepository) Stats(ctx context.Context) (*UsageStats, error) {
	var stats UsageStats
	query := `
		SELECT COUNT(*) AS total_runs,
		       COUNT(*) FILTER (WHERE created_at > $1) AS runs_last_day,
		       COALESCE(AVG(duration_ms), 0) AS avg_duration_ms,
		       COALESCE(AVG(returned_count), 0) AS avg_returned
		FROM analysis_runs
	`

	dayAgo := time.Now().Add(-24 * time.Hour)
	if err := r.db.GetContext(ctx, &stats, query, dayAgo); err != nil {
		return nil, fmt.Errorf("failed to aggregate run stats: %w", err)
	}

	return &stats, nil
}
