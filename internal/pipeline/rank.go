package pipeline

import (
	"sort"

	"github.com/trendscope/analyzer/internal/domain"
)

// Rank sorts posts by virality score descending and truncates to limit.
// The sort is stable: posts with equal scores keep their original relative
// order, which callers rely on for reproducible output. A non-positive limit
// means no truncation. If fewer posts survive than the limit, all of them
// are returned; there is no padding and no error.
func Rank(posts []domain.ScoredPost, limit int) []domain.ScoredPost {
	ranked := make([]domain.ScoredPost, len(posts))
	copy(ranked, posts)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ViralityScore > ranked[j].ViralityScore
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Summarize computes the dashboard metric row over a ranked result.
func Summarize(posts []domain.ScoredPost) domain.SummaryStats {
	stats := domain.SummaryStats{TotalPosts: len(posts)}
	if len(posts) == 0 {
		return stats
	}

	var playSum, viralitySum float64
	for i := range posts {
		playSum += float64(posts[i].PlayCount.Int64())
		viralitySum += posts[i].ViralityScore
		if likes := posts[i].LikeCount.Int64(); likes > stats.MaxLikeCount {
			stats.MaxLikeCount = likes
		}
	}
	stats.MeanPlayCount = round2(playSum / float64(len(posts)))
	stats.MeanVirality = round2(viralitySum / float64(len(posts)))
	return stats
}
