package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/trendscope/analyzer/internal/database"
	"github.com/trendscope/analyzer/internal/domain"
)

func runColumns() []string {
	return []string{
		"id", "query", "mode", "min_views", "min_likes", "window_days",
		"request_limit", "fetched_count", "returned_count", "duration_ms", "created_at",
	}
}

func TestRunsRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewRunsRepository(db)
	ctx := context.Background()

	run := &domain.AnalysisRun{
		ID:            "run-123",
		Query:         "cilt bakımı sipariş fiyat link kargo",
		Mode:          domain.ModeProduct,
		MinViews:      1000,
		MinLikes:      10,
		WindowDays:    7,
		RequestLimit:  50,
		FetchedCount:  48,
		ReturnedCount: 12,
		DurationMs:    3150,
	}

	mock.ExpectQuery("INSERT INTO analysis_runs").
		WithArgs(
			run.ID, run.Query, run.Mode, run.MinViews, run.MinLikes, run.WindowDays,
			run.RequestLimit, run.FetchedCount, run.ReturnedCount, run.DurationMs,
		).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	if err := repo.Create(ctx, run); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if run.CreatedAt.IsZero() {
		t.Error("run.CreatedAt not populated")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRunsRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewRunsRepository(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM analysis_runs").
			WithArgs("run-123").
			WillReturnRows(sqlmock.NewRows(runColumns()).
				AddRow("run-123", "krem", "general", 1000, 10, 0, 50, 40, 20, 2000, time.Now()))

		run, err := repo.GetByID(ctx, "run-123")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if run.Query != "krem" || run.ReturnedCount != 20 {
			t.Errorf("GetByID() = %+v", run)
		}
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM analysis_runs").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, "missing")
		if !errors.Is(err, database.ErrNotFound) {
			t.Errorf("GetByID() error = %v, want ErrNotFound", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRunsRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewRunsRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM analysis_runs").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(runColumns()).
			AddRow("b", "serum", "ad", 0, 0, 0, 50, 30, 30, 1500, time.Now()).
			AddRow("a", "krem", "general", 0, 0, 0, 50, 45, 45, 1200, time.Now().Add(-time.Hour)))

	runs, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "b" {
		t.Errorf("List() = %v", runs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRunsRepository_Stats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewRunsRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"total_runs", "runs_last_day", "avg_duration_ms", "avg_returned"}).
			AddRow(120, 15, 2750.5, 22.3))

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalRuns != 120 || stats.RunsLastDay != 15 {
		t.Errorf("Stats() = %+v", stats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
