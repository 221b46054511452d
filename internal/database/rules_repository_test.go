package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/trendscope/analyzer/internal/database"
	"github.com/trendscope/analyzer/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func ruleColumns() []string {
	return []string{"id", "rule_name", "tier", "keywords", "weight", "enabled", "created_at", "updated_at"}
}

func TestRulesRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewRulesRepository(db)
	ctx := context.Background()

	rule := &domain.ScoringRule{
		RuleName: "critical_commerce",
		Tier:     domain.KeywordCritical,
		Keywords: []string{"sipariş", "kargo"},
		Enabled:  true,
	}

	now := time.Now()
	mock.ExpectQuery("INSERT INTO scoring_rules").
		WithArgs(rule.RuleName, rule.Tier, pq.Array(rule.Keywords), rule.Weight, rule.Enabled).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(7, now, now))

	if err := repo.Create(ctx, rule); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rule.ID != 7 {
		t.Errorf("rule.ID = %d, want 7", rule.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRulesRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewRulesRepository(db)
	ctx := context.Background()
	now := time.Now()

	testCases := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantNF    bool
	}{
		{
			name: "found",
			setupMock: func() {
				mock.ExpectQuery("SELECT (.+) FROM scoring_rules").
					WithArgs(7).
					WillReturnRows(sqlmock.NewRows(ruleColumns()).
						AddRow(7, "critical_commerce", "critical", "{sipariş,kargo}", 0, true, now, now))
			},
		},
		{
			name: "not found",
			setupMock: func() {
				mock.ExpectQuery("SELECT (.+) FROM scoring_rules").
					WithArgs(7).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
			wantNF:  true,
		},
		{
			name: "database error",
			setupMock: func() {
				mock.ExpectQuery("SELECT (.+) FROM scoring_rules").
					WithArgs(7).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			rule, err := repo.GetByID(ctx, 7)
			if (err != nil) != tc.wantErr {
				t.Fatalf("GetByID() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantNF && !errors.Is(err, database.ErrNotFound) {
				t.Errorf("GetByID() error = %v, want ErrNotFound", err)
			}
			if !tc.wantErr {
				if rule.RuleName != "critical_commerce" {
					t.Errorf("rule.RuleName = %q", rule.RuleName)
				}
				if len(rule.Keywords) != 2 {
					t.Errorf("rule.Keywords = %v, want 2 entries", rule.Keywords)
				}
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestRulesRepository_ListEnabled(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewRulesRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM scoring_rules").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(ruleColumns()).
			AddRow(1, "critical", "critical", "{sipariş}", 0, true, now, now).
			AddRow(2, "supportive", "supportive", "{ürün,indirim}", 0, true, now, now))

	rules, err := repo.ListEnabled(ctx)
	if err != nil {
		t.Fatalf("ListEnabled() error = %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("ListEnabled() returned %d rules, want 2", len(rules))
	}
	if rules[1].Keywords[1] != "indirim" {
		t.Errorf("rules[1].Keywords = %v", rules[1].Keywords)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRulesRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewRulesRepository(db)
	ctx := context.Background()

	testCases := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successfully deletes rule",
			setupMock: func() {
				mock.ExpectExec("DELETE FROM scoring_rules").
					WithArgs(3).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "rule not found returns error",
			setupMock: func() {
				mock.ExpectExec("DELETE FROM scoring_rules").
					WithArgs(3).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			err := repo.Delete(ctx, 3)
			if (err != nil) != tc.wantErr {
				t.Errorf("Delete() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestRulesRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewRulesRepository(db)
	ctx := context.Background()

	rule := &domain.ScoringRule{
		ID:       4,
		RuleName: "supportive_commerce",
		Tier:     domain.KeywordSupportive,
		Keywords: []string{"stok"},
		Weight:   2,
		Enabled:  false,
	}

	mock.ExpectQuery("UPDATE scoring_rules").
		WithArgs(rule.RuleName, rule.Tier, pq.Array(rule.Keywords), rule.Weight, rule.Enabled, rule.ID).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	if err := repo.Update(ctx, rule); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
