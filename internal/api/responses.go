package api

import (
	"github.com/trendscope/analyzer/internal/database"
	"github.com/trendscope/analyzer/internal/domain"
)

// AnalyzeRequest is the dashboard's analysis request body.
type AnalyzeRequest struct {
	Search     string `json:"search"`
	Category   string `json:"category"`
	Mode       string `json:"mode"`
	Hashtag    string `json:"hashtag"`
	MinViews   int64  `json:"min_views"`
	MinLikes   int64  `json:"min_likes"`
	WindowDays int    `json:"window_days"`
	Limit      int    `json:"limit"`
	SkipCache  bool   `json:"skip_cache"`
}

// RuleResponse represents a scoring rule for the dashboard.
type RuleResponse struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Tier     string   `json:"tier"`
	Keywords []string `json:"keywords"`
	Weight   int      `json:"weight"`
	Enabled  bool     `json:"enabled"`
}

// RulesListResponse represents a list of rules with metadata.
type RulesListResponse struct {
	Rules []RuleResponse `json:"rules"`
	Total int            `json:"total"`
}

// CreateRuleRequest represents a request to create a rule.
type CreateRuleRequest struct {
	Name     string   `json:"name"     binding:"required"`
	Tier     string   `json:"tier"     binding:"required,oneof=critical supportive negative"`
	Keywords []string `json:"keywords" binding:"required,min=1"`
	Weight   int      `json:"weight"`
	Enabled  bool     `json:"enabled"`
}

// UpdateRuleRequest represents a request to update a rule. Absent fields keep
// their stored values.
type UpdateRuleRequest struct {
	Name     *string  `json:"name"`
	Tier     *string  `json:"tier" binding:"omitempty,oneof=critical supportive negative"`
	Keywords []string `json:"keywords"`
	Weight   *int     `json:"weight"`
	Enabled  *bool    `json:"enabled"`
}

// RunsListResponse represents the run history listing.
type RunsListResponse struct {
	Runs  []domain.AnalysisRun `json:"runs"`
	Total int                  `json:"total"`
}

// StatsResponse represents the aggregate usage statistics.
type StatsResponse struct {
	Usage      *database.UsageStats `json:"usage"`
	RulesTotal int                  `json:"rules_total"`
}

// toRuleResponse converts a domain rule to an API response.
func toRuleResponse(rule *domain.ScoringRule) RuleResponse {
	return RuleResponse{
		ID:       rule.ID,
		Name:     rule.RuleName,
		Tier:     string(rule.Tier),
		Keywords: rule.Keywords,
		Weight:   rule.EffectiveWeight(),
		Enabled:  rule.Enabled,
	}
}

// applyRuleUpdate merges an update request into a stored rule.
func applyRuleUpdate(rule *domain.ScoringRule, req *UpdateRuleRequest) {
	if req.Name != nil {
		rule.RuleName = *req.Name
	}
	if req.Tier != nil {
		rule.Tier = domain.KeywordTier(*req.Tier)
	}
	if req.Keywords != nil {
		rule.Keywords = req.Keywords
	}
	if req.Weight != nil {
		rule.Weight = *req.Weight
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}
}
