package bootstrap

import (
	"context"

	"github.com/trendscope/analyzer/internal/database"
	"github.com/trendscope/analyzer/internal/domain"
	"github.com/trendscope/analyzer/internal/logger"
)

// defaultScoringRules is the built-in rule set used when the rules table is
// empty or unreachable, so a fresh install scores sensibly before anyone
// has managed rules through the API.
func defaultScoringRules() []domain.ScoringRule {
	return []domain.ScoringRule{
		{
			RuleName: "purchase_intent",
			Tier:     domain.KeywordCritical,
			Keywords: []string{"sipariş", "satın al", "kapıda ödeme", "kargo", "fiyat", "link", "sepet"},
			Enabled:  true,
		},
		{
			RuleName: "commerce_context",
			Tier:     domain.KeywordSupportive,
			Keywords: []string{"ürün", "indirim", "stok", "kampanya", "kupon", "tükenmeden"},
			Enabled:  true,
		},
		{
			RuleName: "foreign_spam",
			Tier:     domain.KeywordNegative,
			Keywords: []string{"shipping", "order now", "free delivery", "dm for price"},
			Enabled:  true,
		},
	}
}

// loadScoringRules reads the enabled rules from the database, falling back
// to the built-in defaults when the table is empty or the query fails.
func loadScoringRules(ctx context.Context, repo *database.RulesRepository, log logger.Logger) []domain.ScoringRule {
	rules, err := repo.ListEnabled(ctx)
	if err != nil {
		log.Warn("loading rules from database failed, using built-in defaults", logger.Error(err))
		return defaultScoringRules()
	}
	if len(rules) == 0 {
		log.Warn("rules table is empty, using built-in defaults")
		return defaultScoringRules()
	}
	log.Info("Rules loaded from database", logger.Int("count", len(rules)))
	return rules
}
