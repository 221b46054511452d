package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/trendscope/analyzer/internal/analysis"
	"github.com/trendscope/analyzer/internal/api"
	"github.com/trendscope/analyzer/internal/cache"
	"github.com/trendscope/analyzer/internal/config"
	"github.com/trendscope/analyzer/internal/logger"
	"github.com/trendscope/analyzer/internal/pipeline"
	"github.com/trendscope/analyzer/internal/scraper"
	"github.com/trendscope/analyzer/internal/telemetry"
)

const readyPingTimeout = 2 * time.Second

// HTTPComponents holds all components needed for the HTTP server.
type HTTPComponents struct {
	DB      *sqlx.DB
	Redis   *redis.Client
	Service *analysis.Service
	Server  *api.Server
}

// NewHTTPComponents wires the full service: database, cache, scraper,
// pipeline, analysis service, and the HTTP server.
func NewHTTPComponents(cfg *config.Config, log logger.Logger) (*HTTPComponents, error) {
	dbComps, err := SetupDatabase(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Redis is optional: without it every request hits the scraper, but
	// the service still works.
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, result caching disabled", logger.Error(err))
		redisClient = nil
	}
	resultCache := cache.NewResultCache(redisClient, cfg.Redis.ResultTTL, log)

	scrapeClient, err := scraper.NewClient(cfg.Scraper, log)
	if err != nil {
		_ = dbComps.DB.Close()
		return nil, fmt.Errorf("setup scraper client: %w", err)
	}

	rules := loadScoringRules(context.Background(), dbComps.RulesRepo, log)
	analyzer, err := pipeline.NewAnalyzer(cfg.Pipeline, rules, log)
	if err != nil {
		_ = dbComps.DB.Close()
		return nil, fmt.Errorf("setup pipeline: %w", err)
	}
	log.Info("Pipeline initialized",
		logger.Int("rules", len(rules)),
		logger.Int("keywords", analyzer.Commercial().KeywordCount()),
	)

	queries, err := pipeline.NewQueryBuilder(cfg.Categories, nil)
	if err != nil {
		_ = dbComps.DB.Close()
		return nil, fmt.Errorf("setup query builder: %w", err)
	}

	tel := telemetry.NewProvider()
	analyzer.SetTelemetry(tel)

	svc, err := analysis.NewService(
		scrapeClient,
		analyzer,
		queries,
		resultCache,
		dbComps.RunsRepo,
		dbComps.RulesRepo,
		tel,
		analysis.Limits{Default: cfg.Service.RequestLimit, Max: cfg.Service.MaxRequestLimit},
		log,
	)
	if err != nil {
		_ = dbComps.DB.Close()
		return nil, fmt.Errorf("setup analysis service: %w", err)
	}

	handler := api.NewHandler(api.HandlerOptions{
		Service:   svc,
		Rules:     dbComps.RulesRepo,
		Runs:      dbComps.RunsRepo,
		DBPing:    pingDB(dbComps.DB),
		RedisPing: pingRedis(redisClient),
		Version:   cfg.Service.Version,
		Logger:    log,
	})

	server := api.NewServer(cfg.Service.Port, cfg.Service.Debug, log)
	api.SetupRoutes(server.Engine(), handler, cfg.Auth.JWTSecret, tel.Handler())

	return &HTTPComponents{
		DB:      dbComps.DB,
		Redis:   redisClient,
		Service: svc,
		Server:  server,
	}, nil
}

// Close releases the component connections.
func (c *HTTPComponents) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}

func pingDB(db *sqlx.DB) func() error {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), readyPingTimeout)
		defer cancel()
		return db.PingContext(ctx)
	}
}

func pingRedis(client *redis.Client) func() error {
	if client == nil {
		return nil
	}
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), readyPingTimeout)
		defer cancel()
		return client.Ping(ctx).Err()
	}
}
