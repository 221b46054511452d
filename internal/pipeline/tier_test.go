package pipeline

import (
	"testing"

	"github.com/trendscope/analyzer/internal/domain"
)

func tierPost(virality, engagement float64, plays, shares int64) domain.ScoredPost {
	return domain.ScoredPost{
		RawPost: domain.RawPost{
			PlayCount:  domain.Count(plays),
			ShareCount: domain.Count(shares),
		},
		ViralityScore:  virality,
		EngagementRate: engagement,
	}
}

func TestCompositeScore(t *testing.T) {
	tests := []struct {
		name string
		post domain.ScoredPost
		want int
	}{
		{
			name: "no signals",
			post: tierPost(0, 0, 0, 0),
			want: 0,
		},
		{
			name: "all signals",
			post: tierPost(50, 5, 100_000, 1000),
			want: 100,
		},
		{
			name: "high virality only",
			post: tierPost(50, 0, 0, 0),
			want: 30,
		},
		{
			name: "mass reach only",
			post: tierPost(0, 0, 100_000, 0),
			want: 25,
		},
		{
			name: "strong engagement only",
			post: tierPost(0, 5, 0, 0),
			want: 25,
		},
		{
			name: "share volume only",
			post: tierPost(0, 0, 0, 1000),
			want: 20,
		},
		{
			name: "just below every cutoff",
			post: tierPost(49.99, 4.99, 99_999, 999),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompositeScore(&tt.post); got != tt.want {
				t.Errorf("CompositeScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecideTier(t *testing.T) {
	tests := []struct {
		name string
		post domain.ScoredPost
		want domain.DecisionTier
	}{
		{
			// 30 + 25 + 25 + 20 = 100
			name: "everything fires",
			post: tierPost(60, 8, 500_000, 5000),
			want: domain.TierWinner,
		},
		{
			// 30 + 25 = 55
			name: "virality and reach",
			post: tierPost(55, 0, 200_000, 0),
			want: domain.TierWatch,
		},
		{
			// 25 + 25 = 50
			name: "reach and engagement",
			post: tierPost(0, 6, 150_000, 0),
			want: domain.TierWatch,
		},
		{
			// 30 + 25 + 20 = 75
			name: "three signals clear winner cutoff",
			post: tierPost(70, 2, 300_000, 2000),
			want: domain.TierWinner,
		},
		{
			// 30
			name: "single signal rejects",
			post: tierPost(80, 0, 0, 0),
			want: domain.TierReject,
		},
		{
			name: "nothing fires",
			post: tierPost(1, 1, 100, 1),
			want: domain.TierReject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideTier(&tt.post); got != tt.want {
				t.Errorf("DecideTier() = %q, want %q", got, tt.want)
			}
		})
	}
}
