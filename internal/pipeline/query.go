package pipeline

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/trendscope/analyzer/internal/data"
	"github.com/trendscope/analyzer/internal/domain"
)

// Fallback query used when nothing else produces a term.
const defaultQuery = "inceleme öneri"

// Mode suffixes appended to the search query. Ad mode chases collaboration
// hashtags; product mode chases direct-sale vocabulary.
const (
	adModeSuffix      = "#işbirliği #reklam #sponsor"
	productModeSuffix = "sipariş fiyat link kargo"
)

// QueryRequest is the caller's search intent before resolution.
type QueryRequest struct {
	// Search is the free-text term entered by the caller.
	Search string `json:"search"`
	// Category selects a configured keyword list; one keyword is picked
	// from it to vary successive scrapes.
	Category string `json:"category"`
	// Mode is one of the domain analysis modes.
	Mode string `json:"mode"`
	// Hashtag is appended with a leading '#', stripped of any the caller
	// already typed.
	Hashtag string `json:"hashtag"`
}

// QueryBuilder resolves a QueryRequest into the final scrape query string.
// The pipeline itself never picks query terms; resolution happens here, on
// the caller's side of the boundary, with an injectable picker so tests are
// deterministic.
type QueryBuilder struct {
	categories map[string][]string
	pick       func(n int) int
}

// NewQueryBuilder builds a query builder over the configured category
// keyword lists. A nil picker defaults to math/rand.
func NewQueryBuilder(categories map[string][]string, pick func(n int) int) (*QueryBuilder, error) {
	normalized := make(map[string][]string, len(categories))
	for name, keywords := range categories {
		if len(keywords) == 0 {
			return nil, fmt.Errorf("query builder: category %q has no keywords", name)
		}
		normalized[data.NormalizeCategoryName(name)] = keywords
	}
	if pick == nil {
		pick = rand.Intn
	}
	return &QueryBuilder{categories: normalized, pick: pick}, nil
}

// Categories returns the configured category names.
func (b *QueryBuilder) Categories() []string {
	names := make([]string, 0, len(b.categories))
	for name := range b.categories {
		names = append(names, name)
	}
	return names
}

// Build resolves the request to a single query string. Unknown categories
// contribute nothing rather than failing: a stale category name in a saved
// dashboard link should not break the search.
func (b *QueryBuilder) Build(req QueryRequest) string {
	var parts []string

	if req.Search != "" {
		parts = append(parts, strings.TrimSpace(req.Search))
	}
	if req.Category != "" {
		keywords, ok := b.categories[data.NormalizeCategoryName(req.Category)]
		if !ok {
			// Configured categories shadow the built-in ones.
			keywords, ok = data.CategoryKeywords(req.Category)
		}
		if ok {
			parts = append(parts, keywords[b.pick(len(keywords))])
		}
	}

	switch req.Mode {
	case domain.ModeAd:
		parts = append(parts, adModeSuffix)
	case domain.ModeProduct:
		parts = append(parts, productModeSuffix)
	}

	if tag := strings.TrimSpace(strings.ReplaceAll(req.Hashtag, "#", "")); tag != "" {
		parts = append(parts, "#"+tag)
	}

	query := strings.TrimSpace(strings.Join(parts, " "))
	if query == "" {
		return defaultQuery
	}
	return query
}
