package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/trendscope/analyzer/internal/domain"
)

// RulesRepository handles database operations for scoring rules.
type RulesRepository struct {
	db *sqlx.DB
}

// NewRulesRepository creates a new rules repository.
func NewRulesRepository(db *sqlx.DB) *RulesRepository {
	return &RulesRepository{db: db}
}

// Create inserts a new rule into the database.
func (r *RulesRepository) Create(ctx context.Context, rule *domain.ScoringRule) error {
	query := `
		INSERT INTO scoring_rules (rule_name, tier, keywords, weight, enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		rule.RuleName,
		rule.Tier,
		pq.Array(rule.Keywords),
		rule.Weight,
		rule.Enabled,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	return nil
}

// GetByID retrieves a rule by its ID.
func (r *RulesRepository) GetByID(ctx context.Context, id int) (*domain.ScoringRule, error) {
	var rule domain.ScoringRule
	query := `
		SELECT id, rule_name, tier, keywords, weight, enabled, created_at, updated_at
		FROM scoring_rules
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rule.ID,
		&rule.RuleName,
		&rule.Tier,
		pq.Array(&rule.Keywords),
		&rule.Weight,
		&rule.Enabled,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: rule %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	return &rule, nil
}

// List retrieves rules with optional filtering by tier and enabled state.
func (r *RulesRepository) List(ctx context.Context, tier domain.KeywordTier, enabled *bool) ([]*domain.ScoringRule, error) {
	query := `
		SELECT id, rule_name, tier, keywords, weight, enabled, created_at, updated_at
		FROM scoring_rules
	`

	var whereClauses []string
	var args []any

	if tier != "" {
		args = append(args, tier)
		whereClauses = append(whereClauses, fmt.Sprintf("tier = $%d", len(args)))
	}
	if enabled != nil {
		args = append(args, *enabled)
		whereClauses = append(whereClauses, fmt.Sprintf("enabled = $%d", len(args)))
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY tier ASC, created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var rules []*domain.ScoringRule
	for rows.Next() {
		var rule domain.ScoringRule
		if err = rows.Scan(
			&rule.ID,
			&rule.RuleName,
			&rule.Tier,
			pq.Array(&rule.Keywords),
			&rule.Weight,
			&rule.Enabled,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, &rule)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, nil
}

// ListEnabled returns the enabled rules as values, ready to load into the
// classifier.
func (r *RulesRepository) ListEnabled(ctx context.Context) ([]domain.ScoringRule, error) {
	enabled := true
	ptrs, err := r.List(ctx, "", &enabled)
	if err != nil {
		return nil, err
	}
	rules := make([]domain.ScoringRule, len(ptrs))
	for i := range ptrs {
		rules[i] = *ptrs[i]
	}
	return rules, nil
}

// Update updates an existing rule.
func (r *RulesRepository) Update(ctx context.Context, rule *domain.ScoringRule) error {
	query := `
		UPDATE scoring_rules
		SET rule_name = $1, tier = $2, keywords = $3, weight = $4, enabled = $5,
		    updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		rule.RuleName,
		rule.Tier,
		pq.Array(rule.Keywords),
		rule.Weight,
		rule.Enabled,
		rule.ID,
	).Scan(&rule.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: rule %d", ErrNotFound, rule.ID)
		}
		return fmt.Errorf("failed to update rule: %w", err)
	}

	return nil
}

// Delete removes a rule from the database.
func (r *RulesRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scoring_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: rule %d", ErrNotFound, id)
	}

	return nil
}

// Count returns the total number of rules.
func (r *RulesRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scoring_rules`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", err)
	}
	return count, nil
}
