package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trendscope/analyzer/internal/domain"
	"github.com/trendscope/analyzer/internal/logger"
)

const keyPrefix = "analyzer:result:"

// ErrMiss indicates no cached result exists for the key.
var ErrMiss = errors.New("cache miss")

// Key identifies one analysis request. Two requests with the same key are
// interchangeable, so they share a cached result.
type Key struct {
	Query      string `json:"query"`
	Mode       string `json:"mode"`
	MinViews   int64  `json:"min_views"`
	MinLikes   int64  `json:"min_likes"`
	WindowDays int    `json:"window_days"`
	Limit      int    `json:"limit"`
}

// hash renders the key as a fixed-length Redis key.
func (k Key) hash() string {
	payload, _ := json.Marshal(k)
	sum := sha256.Sum256(payload)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// ResultCache stores ranked analysis results in Redis with a TTL.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// cachedResult is the stored envelope: the run ID lets a cache hit still
// reference its originating run.
type cachedResult struct {
	RunID  string            `json:"run_id"`
	Result *domain.ResultSet `json:"result"`
}

// NewResultCache creates a result cache. A nil client disables caching;
// every lookup misses and writes are dropped.
func NewResultCache(client *redis.Client, ttl time.Duration, log logger.Logger) *ResultCache {
	if log == nil {
		log = logger.NewNop()
	}
	return &ResultCache{client: client, ttl: ttl, logger: log}
}

// Get returns the cached result for the key, or ErrMiss.
func (c *ResultCache) Get(ctx context.Context, key Key) (string, *domain.ResultSet, error) {
	if c.client == nil {
		return "", nil, ErrMiss
	}

	data, err := c.client.Get(ctx, key.hash()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil, ErrMiss
		}
		return "", nil, fmt.Errorf("cache get: %w", err)
	}

	var stored cachedResult
	if err := json.Unmarshal(data, &stored); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the
		// next Set.
		c.logger.Warn("discarding corrupt cache entry", logger.Error(err))
		return "", nil, ErrMiss
	}

	return stored.RunID, stored.Result, nil
}

// Set stores the result under the key. Cache write failures are logged and
// swallowed; a missed cache write must not fail the request.
func (c *ResultCache) Set(ctx context.Context, key Key, runID string, result *domain.ResultSet) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(cachedResult{RunID: runID, Result: result})
	if err != nil {
		c.logger.Warn("marshal cache entry failed", logger.Error(err))
		return
	}

	if err := c.client.Set(ctx, key.hash(), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", logger.Error(err))
	}
}
