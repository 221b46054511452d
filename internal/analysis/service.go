// Package analysis orchestrates one analysis request end to end: resolve the
// query, check the result cache, run the scraper, execute the pipeline, and
// record the run.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trendscope/analyzer/internal/cache"
	"github.com/trendscope/analyzer/internal/domain"
	"github.com/trendscope/analyzer/internal/logger"
	"github.com/trendscope/analyzer/internal/pipeline"
	"github.com/trendscope/analyzer/internal/telemetry"
)

// Fetcher runs the scraping collaborator for a query.
type Fetcher interface {
	Fetch(ctx context.Context, query string, limit int) ([]domain.RawPost, error)
}

// RunStore persists analysis run audit records.
type RunStore interface {
	Create(ctx context.Context, run *domain.AnalysisRun) error
}

// RuleStore loads the enabled scoring rules.
type RuleStore interface {
	ListEnabled(ctx context.Context) ([]domain.ScoringRule, error)
}

// ResultCache is the subset of the cache the service uses.
type ResultCache interface {
	Get(ctx context.Context, key cache.Key) (string, *domain.ResultSet, error)
	Set(ctx context.Context, key cache.Key, runID string, result *domain.ResultSet)
}

// Limits bound caller-supplied result sizes.
type Limits struct {
	// Default applies when the caller sends no limit; Max caps any request.
	Default int
	Max     int
}

// Request is one analysis request after HTTP decoding.
type Request struct {
	Search     string
	Category   string
	Mode       string
	Hashtag    string
	MinViews   int64
	MinLikes   int64
	WindowDays int
	Limit      int
	// SkipCache forces a fresh scrape.
	SkipCache bool
}

// Response is the analysis outcome handed back to the API layer.
type Response struct {
	RunID  string            `json:"run_id"`
	Query  string            `json:"query"`
	Mode   string            `json:"mode"`
	Cached bool              `json:"cached"`
	Result *domain.ResultSet `json:"result"`
}

// Service executes analysis requests.
type Service struct {
	fetcher   Fetcher
	analyzer  *pipeline.Analyzer
	queries   *pipeline.QueryBuilder
	cache     ResultCache
	runs      RunStore
	rules     RuleStore
	telemetry *telemetry.Provider
	limits    Limits
	logger    logger.Logger
}

// NewService wires the analysis service.
func NewService(
	fetcher Fetcher,
	analyzer *pipeline.Analyzer,
	queries *pipeline.QueryBuilder,
	resultCache ResultCache,
	runs RunStore,
	rules RuleStore,
	tel *telemetry.Provider,
	limits Limits,
	log logger.Logger,
) (*Service, error) {
	if fetcher == nil {
		return nil, errors.New("analysis: fetcher is required")
	}
	if analyzer == nil {
		return nil, errors.New("analysis: pipeline analyzer is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if limits.Default <= 0 {
		limits.Default = 50
	}
	if limits.Max <= 0 {
		limits.Max = 500
	}

	return &Service{
		fetcher:   fetcher,
		analyzer:  analyzer,
		queries:   queries,
		cache:     resultCache,
		runs:      runs,
		rules:     rules,
		telemetry: tel,
		limits:    limits,
		logger:    log,
	}, nil
}

// Analyze executes one analysis request. Scraper failure is the only hard
// error; cache and persistence failures degrade to log lines.
func (s *Service) Analyze(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	mode := req.Mode
	if mode == "" {
		mode = domain.ModeGeneral
	}
	limit := s.clampLimit(req.Limit)

	query := req.Search
	if s.queries != nil {
		query = s.queries.Build(pipeline.QueryRequest{
			Search:   req.Search,
			Category: req.Category,
			Mode:     mode,
			Hashtag:  req.Hashtag,
		})
	}

	key := cache.Key{
		Query:      query,
		Mode:       mode,
		MinViews:   req.MinViews,
		MinLikes:   req.MinLikes,
		WindowDays: req.WindowDays,
		Limit:      limit,
	}

	if s.cache != nil && !req.SkipCache {
		if runID, result, err := s.cache.Get(ctx, key); err == nil {
			s.recordCacheLookup(true)
			s.logger.Info("analysis served from cache",
				logger.String("run_id", runID),
				logger.String("query", query))
			return &Response{RunID: runID, Query: query, Mode: mode, Cached: true, Result: result}, nil
		}
		s.recordCacheLookup(false)
	}

	scrapeStart := time.Now()
	posts, err := s.fetcher.Fetch(ctx, query, fetchBuffer(limit))
	if s.telemetry != nil {
		s.telemetry.RecordScrape(time.Since(scrapeStart), err)
	}
	if err != nil {
		if s.telemetry != nil {
			s.telemetry.RecordRun(mode, false, time.Since(start), 0, 0)
		}
		return nil, fmt.Errorf("analysis: scrape failed: %w", err)
	}

	result := s.analyzer.Run(ctx, posts, pipeline.Params{
		Thresholds: pipeline.Thresholds{
			MinViews:   req.MinViews,
			MinLikes:   req.MinLikes,
			WindowDays: req.WindowDays,
		},
		Limit:            limit,
		FilterCommercial: mode == domain.ModeProduct,
	})

	runID := uuid.NewString()
	duration := time.Since(start)

	if s.runs != nil {
		run := &domain.AnalysisRun{
			ID:            runID,
			Query:         query,
			Mode:          mode,
			MinViews:      req.MinViews,
			MinLikes:      req.MinLikes,
			WindowDays:    req.WindowDays,
			RequestLimit:  limit,
			FetchedCount:  len(posts),
			ReturnedCount: len(result.Posts),
			DurationMs:    duration.Milliseconds(),
		}
		if err := s.runs.Create(ctx, run); err != nil {
			// The result is still good; losing one audit row is not worth
			// failing the request over.
			s.logger.Error("persist run failed",
				logger.String("run_id", runID),
				logger.Error(err))
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, runID, result)
	}
	if s.telemetry != nil {
		s.telemetry.RecordRun(mode, true, duration, len(posts), len(result.Posts))
	}

	return &Response{RunID: runID, Query: query, Mode: mode, Result: result}, nil
}

// ReloadRules loads the enabled rules from storage into the running
// classifier.
func (s *Service) ReloadRules(ctx context.Context) error {
	if s.rules == nil {
		return errors.New("analysis: no rule store configured")
	}

	rules, err := s.rules.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("analysis: load rules: %w", err)
	}
	if err := s.analyzer.UpdateRules(rules); err != nil {
		return fmt.Errorf("analysis: reload rules: %w", err)
	}

	if s.telemetry != nil {
		s.telemetry.RecordRuleReload(s.analyzer.Commercial().KeywordCount())
	}
	return nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.limits.Default
	}
	if limit > s.limits.Max {
		return s.limits.Max
	}
	return limit
}

// fetchBuffer pads the scrape request so the region and metric filters
// can drop records without starving the ranked output.
func fetchBuffer(limit int) int {
	return limit + limit/5
}

func (s *Service) recordCacheLookup(hit bool) {
	if s.telemetry != nil {
		s.telemetry.RecordCacheLookup(hit)
	}
}
