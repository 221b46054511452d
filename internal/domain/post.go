// Package domain defines the data model shared by the analyzer pipeline,
// the scraper client, and the persistence layer.
package domain

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

// Count is a non-negative counter metric as delivered by the scraping
// collaborator. Scraped payloads carry these interchangeably as JSON numbers,
// numeric strings, or not at all; anything that does not parse as a
// non-negative integer decodes to 0. This is the documented data-quality
// policy, not an error condition.
type Count int64

// UnmarshalJSON coerces numbers, quoted numbers, and garbage to a Count.
func (c *Count) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Some scrapers emit counts as floats ("1200.0").
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			*c = 0
			return nil
		}
		n = int64(f)
	}
	if n < 0 {
		n = 0
	}
	*c = Count(n)
	return nil
}

// Int64 returns the count as a plain int64.
func (c Count) Int64() int64 { return int64(c) }

// Timestamp tolerates the scraper's unreliable timestamps: missing, null, or
// malformed values decode with Valid=false instead of failing the record.
type Timestamp struct {
	time.Time
	Valid bool
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON parses the common scraper timestamp shapes.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		t.Valid = false
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			t.Valid = true
			return nil
		}
	}
	t.Valid = false
	return nil
}

// MarshalJSON emits RFC3339 or null for unknown timestamps.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// AuthorInfo is the typed form of the scraper's nested author metadata.
// All fields are optional; absence is an empty string, never a type error.
type AuthorInfo struct {
	DisplayName   string `json:"name,omitempty"`
	RegionCode    string `json:"region,omitempty"`
	CoverImageURL string `json:"avatar,omitempty"`
}

// VideoInfo is the typed form of the scraper's nested video metadata.
type VideoInfo struct {
	CoverURL   string `json:"coverUrl,omitempty"`
	DurationMs int64  `json:"duration,omitempty"`
}

// RawPost is one scraped post as handed to the pipeline. It is owned by the
// scraping collaborator and read-only to every pipeline stage.
type RawPost struct {
	ID   string `json:"id"`
	Text string `json:"text"`

	PlayCount    Count `json:"playCount"`
	LikeCount    Count `json:"diggCount"`
	ShareCount   Count `json:"shareCount"`
	CollectCount Count `json:"collectCount"`
	CommentCount Count `json:"commentCount"`

	// CreatedAt carries Valid=false when the scraper delivered no timestamp
	// or one that did not parse. See the pipeline date-window policy for how
	// that is treated.
	CreatedAt Timestamp `json:"createTimeISO"`

	Author AuthorInfo `json:"authorMeta"`
	Video  VideoInfo  `json:"videoMeta"`

	VideoURL string `json:"webVideoUrl"`
}

// RegionCode returns the author's declared locale, which may be empty.
func (p *RawPost) RegionCode() string {
	return strings.TrimSpace(p.Author.RegionCode)
}

// DecisionTier buckets a post's composite performance verdict.
type DecisionTier string

// Decision tier constants.
const (
	TierWinner DecisionTier = "WINNER"
	TierWatch  DecisionTier = "WATCH"
	TierReject DecisionTier = "REJECT"
)

// ScoredPost is a RawPost enriched by the pipeline stages. Created once per
// run and discarded after the caller consumes the ranked result; never
// mutated after the ranker emits it.
type ScoredPost struct {
	RawPost

	CommercialScore int          `json:"commercial_score"`
	EngagementRate  float64      `json:"engagement_rate"`
	ViralityScore   float64      `json:"virality_score"`
	Tier            DecisionTier `json:"decision_tier,omitempty"`

	// Flattened presentation fields. Persistence expects scalars only; any
	// structured sub-object is reduced to these before hand-off.
	AuthorName    string `json:"author_name"`
	ProfileURL    string `json:"profile_url"`
	CoverImageURL string `json:"cover_image_url"`
	ProductGuess  string `json:"product_guess"`
	DisplayDate   string `json:"display_date"`
}

// ResultSet is the ranked pipeline output: sorted by ViralityScore descending
// with the original relative order preserved on ties, length bounded by the
// requested limit.
type ResultSet struct {
	Posts []ScoredPost `json:"posts"`
	Stats SummaryStats `json:"stats"`
}

// Empty reports whether the run surfaced no qualifying posts. An empty result
// is a normal terminal state, not an error.
func (r *ResultSet) Empty() bool { return len(r.Posts) == 0 }

// SummaryStats is the dashboard metric row computed over a result set.
type SummaryStats struct {
	TotalPosts    int     `json:"total_posts"`
	MeanPlayCount float64 `json:"mean_play_count"`
	MeanVirality  float64 `json:"mean_virality"`
	MaxLikeCount  int64   `json:"max_like_count"`
}
