package pipeline

import "github.com/trendscope/analyzer/internal/domain"

// Composite cutoffs for bucketing the additive tier score.
const (
	winnerCutoff = 60
	watchCutoff  = 40
)

// tierRule contributes a fixed point value when its predicate holds.
// The table is explicit so each weight is independently testable.
type tierRule struct {
	name    string
	points  int
	applies func(*domain.ScoredPost) bool
}

// tierRules is the additive rubric behind the WINNER/WATCH/REJECT verdict.
// Points sum to 100 when every signal fires.
var tierRules = []tierRule{
	{
		name:   "high_virality",
		points: 30,
		applies: func(p *domain.ScoredPost) bool {
			return p.ViralityScore >= 50
		},
	},
	{
		name:   "mass_reach",
		points: 25,
		applies: func(p *domain.ScoredPost) bool {
			return p.PlayCount.Int64() >= 100_000
		},
	},
	{
		name:   "strong_engagement",
		points: 25,
		applies: func(p *domain.ScoredPost) bool {
			return p.EngagementRate >= 5
		},
	},
	{
		name:   "share_volume",
		points: 20,
		applies: func(p *domain.ScoredPost) bool {
			return p.ShareCount.Int64() >= 1000
		},
	},
}

// CompositeScore sums the tier rule contributions for a post.
func CompositeScore(p *domain.ScoredPost) int {
	score := 0
	for i := range tierRules {
		if tierRules[i].applies(p) {
			score += tierRules[i].points
		}
	}
	return score
}

// DecideTier buckets the composite score into a verdict.
func DecideTier(p *domain.ScoredPost) domain.DecisionTier {
	score := CompositeScore(p)
	switch {
	case score >= winnerCutoff:
		return domain.TierWinner
	case score >= watchCutoff:
		return domain.TierWatch
	default:
		return domain.TierReject
	}
}
