package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/trendscope/analyzer/internal/domain"
)

func TestCount_UnmarshalJSON_Coercion(t *testing.T) {
	testCases := []struct {
		name     string
		payload  string
		expected int64
	}{
		{name: "plain number", payload: `12500`, expected: 12500},
		{name: "quoted number", payload: `"980"`, expected: 980},
		{name: "float from scraper", payload: `1200.0`, expected: 1200},
		{name: "quoted float", payload: `"64.0"`, expected: 64},
		{name: "null", payload: `null`, expected: 0},
		{name: "empty string", payload: `""`, expected: 0},
		{name: "garbage", payload: `"12k"`, expected: 0},
		{name: "negative clamps to zero", payload: `-5`, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var c domain.Count
			if err := json.Unmarshal([]byte(tc.payload), &c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Int64() != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, c.Int64())
			}
		})
	}
}

func TestCount_Coercion_Idempotent(t *testing.T) {
	// Re-encoding and re-decoding a canonical count must not change it.
	original := domain.Count(4242)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded domain.Count
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded != original {
		t.Errorf("expected %d after round trip, got %d", original, decoded)
	}
}

func TestRawPost_DecodesNestedMetadata(t *testing.T) {
	payload := `{
		"id": "7301",
		"text": "Mutfak düzenleyici sipariş için linke tıkla",
		"playCount": "150000",
		"diggCount": 3200,
		"shareCount": 410,
		"collectCount": 280,
		"commentCount": "55",
		"webVideoUrl": "https://example.com/v/7301",
		"authorMeta": {"name": "evdekorcu", "region": "TR"},
		"videoMeta": {"coverUrl": "https://example.com/c/7301.jpg"}
	}`

	var post domain.RawPost
	if err := json.Unmarshal([]byte(payload), &post); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if post.PlayCount != 150000 {
		t.Errorf("expected playCount 150000, got %d", post.PlayCount)
	}
	if post.CommentCount != 55 {
		t.Errorf("expected commentCount 55, got %d", post.CommentCount)
	}
	if post.Author.DisplayName != "evdekorcu" {
		t.Errorf("expected author evdekorcu, got %q", post.Author.DisplayName)
	}
	if post.RegionCode() != "TR" {
		t.Errorf("expected region TR, got %q", post.RegionCode())
	}
	if post.Video.CoverURL == "" {
		t.Error("expected cover URL to be populated")
	}
	if post.CreatedAt.Valid {
		t.Error("expected missing timestamp to decode as invalid")
	}
}

func TestRawPost_MissingMetadataIsZeroValue(t *testing.T) {
	var post domain.RawPost
	if err := json.Unmarshal([]byte(`{"id": "1"}`), &post); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if post.RegionCode() != "" {
		t.Errorf("expected empty region, got %q", post.RegionCode())
	}
	if post.PlayCount != 0 || post.LikeCount != 0 {
		t.Error("expected absent counts to default to zero")
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		valid   bool
	}{
		{name: "rfc3339", payload: `"2025-12-07T10:30:00Z"`, valid: true},
		{name: "rfc3339 with offset", payload: `"2025-12-07T10:30:00+03:00"`, valid: true},
		{name: "date only", payload: `"2025-12-07"`, valid: true},
		{name: "null", payload: `null`, valid: false},
		{name: "empty", payload: `""`, valid: false},
		{name: "garbage", payload: `"yesterday"`, valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var ts domain.Timestamp
			if err := json.Unmarshal([]byte(tc.payload), &ts); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ts.Valid != tc.valid {
				t.Errorf("expected valid=%v, got %v", tc.valid, ts.Valid)
			}
		})
	}
}

func TestScoringRule_EffectiveWeight(t *testing.T) {
	testCases := []struct {
		name     string
		rule     domain.ScoringRule
		expected int
	}{
		{
			name:     "explicit weight wins",
			rule:     domain.ScoringRule{Tier: domain.KeywordCritical, Weight: 7},
			expected: 7,
		},
		{
			name:     "critical tier default",
			rule:     domain.ScoringRule{Tier: domain.KeywordCritical},
			expected: domain.WeightCritical,
		},
		{
			name:     "supportive tier default",
			rule:     domain.ScoringRule{Tier: domain.KeywordSupportive},
			expected: domain.WeightSupportive,
		},
		{
			name:     "negative tier carries no score",
			rule:     domain.ScoringRule{Tier: domain.KeywordNegative},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rule.EffectiveWeight(); got != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}
