package pipeline

import (
	"math"
	"time"

	"github.com/trendscope/analyzer/internal/domain"
	"github.com/trendscope/analyzer/internal/logger"
)

const percentScale = 100.0

// Thresholds are the per-run numeric filters taken from the caller.
type Thresholds struct {
	// MinViews and MinLikes are inclusive lower bounds.
	MinViews int64 `json:"min_views"`
	MinLikes int64 `json:"min_likes"`
	// WindowDays limits results to posts created in the last N days.
	// Zero disables the date window.
	WindowDays int `json:"window_days"`
}

// MetricNormalizer coerces count fields into canonical numeric form, applies
// the numeric and date-window filters, and computes the two derived ratios.
type MetricNormalizer struct {
	logger logger.Logger
	now    func() time.Time
}

// NewMetricNormalizer builds the normalizer. The clock is injectable for
// date-window tests.
func NewMetricNormalizer(log logger.Logger, now func() time.Time) *MetricNormalizer {
	if log == nil {
		log = logger.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &MetricNormalizer{logger: log, now: now}
}

// Apply computes the derived ratios for surviving posts and drops posts that
// miss the numeric or date-window filters. Count coercion never fails
// (missing and malformed fields are already zero by the time records reach
// this stage); records fall out only on the explicit filters.
//
// Date-window policy: posts with an unknown creation time are excluded only
// while a date window is active, and pass through otherwise. Filtering on a
// window is a claim about recency which an unknown timestamp cannot support.
func (m *MetricNormalizer) Apply(posts []domain.ScoredPost, th Thresholds) []domain.ScoredPost {
	var cutoff time.Time
	if th.WindowDays > 0 {
		cutoff = m.now().AddDate(0, 0, -th.WindowDays)
	}

	scored := make([]domain.ScoredPost, 0, len(posts))
	for i := range posts {
		post := posts[i]

		if th.WindowDays > 0 {
			if !post.CreatedAt.Valid || post.CreatedAt.Before(cutoff) {
				continue
			}
		}
		if post.PlayCount.Int64() < th.MinViews || post.LikeCount.Int64() < th.MinLikes {
			continue
		}

		post.EngagementRate = EngagementRate(
			post.LikeCount.Int64(),
			post.CommentCount.Int64(),
			post.ShareCount.Int64(),
			post.PlayCount.Int64(),
		)
		post.ViralityScore = ViralityScore(
			post.ShareCount.Int64(),
			post.CollectCount.Int64(),
			post.LikeCount.Int64(),
		)
		scored = append(scored, post)
	}

	m.logger.Debug("metrics normalized",
		logger.Int("in", len(posts)),
		logger.Int("out", len(scored)),
		logger.Int64("min_views", th.MinViews),
		logger.Int64("min_likes", th.MinLikes),
		logger.Int("window_days", th.WindowDays))

	return scored
}

// EngagementRate is (likes + comments + shares) / views as a percentage,
// rounded to 2 decimal places. The denominator floors at 1 so zero-view
// content yields the raw interaction sum instead of a division by zero.
func EngagementRate(likes, comments, shares, plays int64) float64 {
	denom := plays
	if denom < 1 {
		denom = 1
	}
	return round2(float64(likes+comments+shares) / float64(denom) * percentScale)
}

// ViralityScore is (shares + saves) / likes as a percentage, rounded to
// 2 decimal places: propagation relative to approval. A post shared and
// saved more than it is liked is disproportionately viral, so the score is
// unbounded above. The denominator floors at 1 for zero-like content.
func ViralityScore(shares, collects, likes int64) float64 {
	denom := likes
	if denom < 1 {
		denom = 1
	}
	return round2(float64(shares+collects) / float64(denom) * percentScale)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
