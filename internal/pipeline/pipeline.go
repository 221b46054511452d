package pipeline

import (
	"context"
	"time"

	"github.com/trendscope/analyzer/internal/domain"
	"github.com/trendscope/analyzer/internal/logger"
	"github.com/trendscope/analyzer/internal/telemetry"
)

// Config bundles the construction-time settings of all stages. Invalid
// configuration (unknown policy, empty keyword table, bad threshold) fails
// at construction; noisy input data never does.
type Config struct {
	Region     RegionConfig     `yaml:"region"`
	Commercial CommercialConfig `yaml:"commercial"`
	// ComputeTiers enables the WINNER/WATCH/REJECT verdict column.
	ComputeTiers bool `yaml:"compute_tiers"`
}

// Params are the per-run inputs taken from the caller.
type Params struct {
	Thresholds
	// Limit caps the ranked result length.
	Limit int `json:"limit"`
	// FilterCommercial activates the commercial-intent filter (product
	// mode). Commercial scores are computed regardless.
	FilterCommercial bool `json:"filter_commercial"`
}

// Analyzer runs the four-stage pipeline: region filter, commercial-intent
// classifier, metric normalizer, ranker. Stateless across runs; concurrent
// runs share only the read-mostly keyword tables.
type Analyzer struct {
	region       *RegionFilter
	commercial   *CommercialClassifier
	metrics      *MetricNormalizer
	computeTiers bool
	telemetry    *telemetry.Provider
	logger       logger.Logger
}

// NewAnalyzer validates the configuration and wires the stages.
func NewAnalyzer(cfg Config, rules []domain.ScoringRule, log logger.Logger) (*Analyzer, error) {
	if log == nil {
		log = logger.NewNop()
	}

	region, err := NewRegionFilter(cfg.Region, log)
	if err != nil {
		return nil, err
	}
	commercial, err := NewCommercialClassifier(rules, cfg.Commercial, log)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		region:       region,
		commercial:   commercial,
		metrics:      NewMetricNormalizer(log, nil),
		computeTiers: cfg.ComputeTiers,
		logger:       log,
	}, nil
}

// Run executes the pipeline over raw posts. It never fails on malformed
// input: records degrade to exclusion, fields degrade to zero values. An
// empty result set is a normal outcome the caller branches on.
func (a *Analyzer) Run(ctx context.Context, posts []domain.RawPost, params Params) *domain.ResultSet {
	start := time.Now()

	regional := a.region.Apply(posts)
	annotated := a.commercial.Annotate(regional, params.FilterCommercial)
	normalized := a.metrics.Apply(annotated, params.Thresholds)
	ranked := Rank(normalized, params.Limit)

	if a.telemetry != nil {
		a.telemetry.RecordStageDrops("region", len(posts)-len(regional))
		a.telemetry.RecordStageDrops("commercial", len(regional)-len(annotated))
		a.telemetry.RecordStageDrops("metrics", len(annotated)-len(normalized))
		a.telemetry.RecordStageDrops("limit", len(normalized)-len(ranked))
	}

	for i := range ranked {
		if a.computeTiers {
			ranked[i].Tier = DecideTier(&ranked[i])
		}
		Flatten(&ranked[i])
	}

	result := &domain.ResultSet{
		Posts: ranked,
		Stats: Summarize(ranked),
	}

	a.logger.Info("pipeline run complete",
		logger.Int("fetched", len(posts)),
		logger.Int("after_region", len(regional)),
		logger.Int("after_commercial", len(annotated)),
		logger.Int("after_metrics", len(normalized)),
		logger.Int("returned", len(ranked)),
		logger.Int64("duration_ms", time.Since(start).Milliseconds()))

	return result
}

// SetTelemetry attaches per-stage drop metrics to subsequent runs.
func (a *Analyzer) SetTelemetry(p *telemetry.Provider) {
	a.telemetry = p
}

// UpdateRules hot-reloads the commercial keyword tables.
func (a *Analyzer) UpdateRules(rules []domain.ScoringRule) error {
	return a.commercial.UpdateRules(rules)
}

// Commercial exposes the classifier for rule inspection endpoints.
func (a *Analyzer) Commercial() *CommercialClassifier { return a.commercial }
