// Package scraper is the HTTP client for the hosted scraping collaborator.
// The analyzer treats scraping as a black box: it sends a query and receives
// raw post records, staying agnostic to how the posts were collected.
package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/trendscope/analyzer/internal/config"
	"github.com/trendscope/analyzer/internal/domain"
	"github.com/trendscope/analyzer/internal/logger"
)

// ErrUnavailable indicates the scraping service is unreachable.
var ErrUnavailable = errors.New("scraper service unavailable")

// Client runs the hosted scraping actor and collects its dataset items.
// Outbound calls are rate limited; the scraping vendor throttles aggressive
// clients account-wide.
type Client struct {
	baseURL string
	token   string
	actorID string

	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logger.Logger
}

// runRequest is the actor input payload.
type runRequest struct {
	SearchQueries  []string `json:"searchQueries"`
	ResultsPerPage int      `json:"resultsPerPage"`
}

// NewClient creates a scraper client from configuration.
func NewClient(cfg config.ScraperConfig, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("scraper: base URL is required")
	}
	if cfg.ActorID == "" {
		return nil, errors.New("scraper: actor ID is required")
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		actorID:    cfg.ActorID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     log,
	}, nil
}

// Fetch runs the actor synchronously for the query and returns the scraped
// posts. Malformed records inside an otherwise valid payload decode to zero
// values rather than failing the batch.
func (c *Client) Fetch(ctx context.Context, query string, limit int) ([]domain.RawPost, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("scraper: rate limit wait: %w", err)
	}

	body, err := json.Marshal(runRequest{
		SearchQueries:  []string{query},
		ResultsPerPage: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("scraper: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items", c.baseURL, url.PathEscape(c.actorID))
	if c.token != "" {
		endpoint += "?token=" + url.QueryEscape(c.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("scraper: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("scraper: actor run returned %d", resp.StatusCode)
	}

	var posts []domain.RawPost
	if decodeErr := json.NewDecoder(resp.Body).Decode(&posts); decodeErr != nil {
		return nil, fmt.Errorf("scraper: decode dataset: %w", decodeErr)
	}

	c.logger.Info("scrape complete",
		logger.String("query", query),
		logger.Int("requested", limit),
		logger.Int("fetched", len(posts)),
		logger.Int64("duration_ms", time.Since(start).Milliseconds()))

	return posts, nil
}
