package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/trendscope/analyzer/internal/config"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(config.ScraperConfig{
		BaseURL:           baseURL,
		Token:             "test-token",
		ActorID:           "vendor~post-scraper",
		Timeout:           5 * time.Second,
		RequestsPerSecond: 100,
	}, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(config.ScraperConfig{ActorID: "a"}, nil); err == nil {
		t.Error("NewClient() without base URL: error = nil, want error")
	}
	if _, err := NewClient(config.ScraperConfig{BaseURL: "http://x"}, nil); err == nil {
		t.Error("NewClient() without actor ID: error = nil, want error")
	}
}

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want := "/v2/acts/vendor~post-scraper/run-sync-get-dataset-items"; r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.URL.Query().Get("token"); got != "test-token" {
			t.Errorf("token = %q, want test-token", got)
		}

		var req runRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.SearchQueries) != 1 || req.SearchQueries[0] != "cilt bakımı" {
			t.Errorf("searchQueries = %v", req.SearchQueries)
		}
		if req.ResultsPerPage != 50 {
			t.Errorf("resultsPerPage = %d, want 50", req.ResultsPerPage)
		}

		w.Header().Set("Content-Type", "application/json")
		// Counts arrive as mixed strings and numbers.
		_, _ = w.Write([]byte(`[
			{"id": "1", "text": "harika serum", "playCount": "12000", "diggCount": 800},
			{"id": "2", "text": "sipariş verdim", "playCount": 3000, "diggCount": "oops"}
		]`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	posts, err := client.Fetch(context.Background(), "cilt bakımı", 50)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("Fetch() returned %d posts, want 2", len(posts))
	}
	if posts[0].PlayCount.Int64() != 12000 {
		t.Errorf("posts[0].PlayCount = %d, want 12000", posts[0].PlayCount.Int64())
	}
	if posts[1].LikeCount.Int64() != 0 {
		t.Errorf("posts[1].LikeCount = %d, want 0 for garbage input", posts[1].LikeCount.Int64())
	}
}

func TestClient_FetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	if _, err := client.Fetch(context.Background(), "krem", 10); err == nil {
		t.Error("Fetch() error = nil, want error on 502")
	}
}

func TestClient_FetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := testClient(t, server.URL)
	_, err := client.Fetch(context.Background(), "krem", 10)
	if err == nil {
		t.Fatal("Fetch() error = nil, want unreachable error")
	}
}

func TestClient_FetchContextCancelled(t *testing.T) {
	client := testClient(t, "http://127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Fetch(ctx, "krem", 10); err == nil {
		t.Error("Fetch() error = nil, want context error")
	}
}
