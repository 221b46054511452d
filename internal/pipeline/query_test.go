package pipeline

import (
	"testing"

	"github.com/trendscope/analyzer/internal/domain"
)

func testQueryBuilder(t *testing.T) *QueryBuilder {
	t.Helper()
	b, err := NewQueryBuilder(map[string][]string{
		"kozmetik": {"cilt bakımı", "makyaj", "parfüm"},
		"mutfak":   {"hava fritözü"},
	}, func(n int) int { return 0 })
	if err != nil {
		t.Fatalf("NewQueryBuilder() error = %v", err)
	}
	return b
}

func TestNewQueryBuilder_EmptyCategory(t *testing.T) {
	_, err := NewQueryBuilder(map[string][]string{"bos": {}}, nil)
	if err == nil {
		t.Fatal("NewQueryBuilder() error = nil, want error for empty category")
	}
}

func TestQueryBuilder_Build(t *testing.T) {
	b := testQueryBuilder(t)

	tests := []struct {
		name string
		req  QueryRequest
		want string
	}{
		{
			name: "empty request falls back to default",
			req:  QueryRequest{},
			want: "inceleme öneri",
		},
		{
			name: "free text only",
			req:  QueryRequest{Search: "vantilatör"},
			want: "vantilatör",
		},
		{
			name: "category picks a keyword",
			req:  QueryRequest{Category: "mutfak"},
			want: "hava fritözü",
		},
		{
			name: "unknown category contributes nothing",
			req:  QueryRequest{Search: "krem", Category: "yok"},
			want: "krem",
		},
		{
			name: "ad mode appends collaboration hashtags",
			req:  QueryRequest{Search: "krem", Mode: domain.ModeAd},
			want: "krem #işbirliği #reklam #sponsor",
		},
		{
			name: "product mode appends sale vocabulary",
			req:  QueryRequest{Search: "krem", Mode: domain.ModeProduct},
			want: "krem sipariş fiyat link kargo",
		},
		{
			name: "general mode appends nothing",
			req:  QueryRequest{Search: "krem", Mode: domain.ModeGeneral},
			want: "krem",
		},
		{
			name: "hashtag is normalized",
			req:  QueryRequest{Search: "krem", Hashtag: "#indirim"},
			want: "krem #indirim",
		},
		{
			name: "hashtag without hash gains one",
			req:  QueryRequest{Hashtag: "indirim"},
			want: "#indirim",
		},
		{
			name: "everything combined",
			req: QueryRequest{
				Search:   "serum",
				Category: "kozmetik",
				Mode:     domain.ModeProduct,
				Hashtag:  "güzellik",
			},
			want: "serum cilt bakımı sipariş fiyat link kargo #güzellik",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Build(tt.req); got != tt.want {
				t.Errorf("Build(%+v) = %q, want %q", tt.req, got, tt.want)
			}
		})
	}
}

func TestQueryBuilder_BuiltinCategoryFallback(t *testing.T) {
	b := testQueryBuilder(t)

	// "moda" is not configured, so the built-in pool serves it; the
	// zero picker selects the first keyword.
	if got := b.Build(QueryRequest{Category: "moda"}); got != "kombin" {
		t.Errorf("Build() = %q, want built-in keyword %q", got, "kombin")
	}
}

func TestQueryBuilder_PickerVariesKeyword(t *testing.T) {
	b, err := NewQueryBuilder(map[string][]string{
		"kozmetik": {"cilt bakımı", "makyaj", "parfüm"},
	}, func(n int) int { return n - 1 })
	if err != nil {
		t.Fatalf("NewQueryBuilder() error = %v", err)
	}
	if got := b.Build(QueryRequest{Category: "kozmetik"}); got != "parfüm" {
		t.Errorf("Build() = %q, want last keyword %q", got, "parfüm")
	}
}
