package domain

import "time"

// KeywordTier distinguishes high-weight commerce terms from supporting ones.
type KeywordTier string

// Keyword tier constants.
const (
	KeywordCritical   KeywordTier = "critical"
	KeywordSupportive KeywordTier = "supportive"
	KeywordNegative   KeywordTier = "negative"
)

// Default keyword weights per tier.
const (
	WeightCritical   = 5
	WeightSupportive = 1
)

// ScoringRule is one configurable keyword rule for the commercial-intent
// classifier. Rules are configuration, not code: they live in the rules table
// and hot-reload into the running classifier.
type ScoringRule struct {
	ID        int         `db:"id"         json:"id"`
	RuleName  string      `db:"rule_name"  json:"rule_name"`
	Tier      KeywordTier `db:"tier"       json:"tier"`
	Keywords  []string    `db:"keywords"   json:"keywords"`
	Weight    int         `db:"weight"     json:"weight"`
	Enabled   bool        `db:"enabled"    json:"enabled"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// EffectiveWeight returns the rule's weight, falling back to the tier default
// when the stored weight is zero.
func (r *ScoringRule) EffectiveWeight() int {
	if r.Weight > 0 {
		return r.Weight
	}
	switch r.Tier {
	case KeywordCritical:
		return WeightCritical
	case KeywordSupportive:
		return WeightSupportive
	default:
		return 0
	}
}

// Analysis modes mirror the dashboard tabs the service replaced.
const (
	ModeGeneral = "general"
	ModeAd      = "ad"
	ModeProduct = "product"
)

// AnalysisRun is the audit record of one pipeline execution.
type AnalysisRun struct {
	ID            string    `db:"id"             json:"id"`
	Query         string    `db:"query"          json:"query"`
	Mode          string    `db:"mode"           json:"mode"`
	MinViews      int64     `db:"min_views"      json:"min_views"`
	MinLikes      int64     `db:"min_likes"      json:"min_likes"`
	WindowDays    int       `db:"window_days"    json:"window_days"`
	RequestLimit  int       `db:"request_limit"  json:"request_limit"`
	FetchedCount  int       `db:"fetched_count"  json:"fetched_count"`
	ReturnedCount int       `db:"returned_count" json:"returned_count"`
	DurationMs    int64     `db:"duration_ms"    json:"duration_ms"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
}
