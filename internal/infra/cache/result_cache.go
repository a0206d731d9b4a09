package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petergfitz2/athena-ai-sub000/internal/domain/analytics"
	"github.com/petergfitz2/athena-ai-sub000/internal/pkg/config"
)

const keyPrefix = "athena:analytics:"

// NewClient builds a redis client from configuration.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		PoolTimeout:  cfg.PoolTimeout,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// ResultCache stores computed analytics records as JSON. Keys embed the series
// version so a new day of data never serves stale figures.
type ResultCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewResultCache 결과 캐시 생성
func NewResultCache(client redis.Cmdable, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Key derives the cache key for an operation over a holdings set. Holdings are
// merged and sorted first so equivalent requests share a key.
func Key(operation string, holdings []analytics.Holding, params analytics.Params, version string) string {
	merged := analytics.MergeHoldings(holdings)
	sort.Slice(merged, func(i, j int) bool { return merged[i].Symbol < merged[j].Symbol })

	var b strings.Builder
	for _, h := range merged {
		b.WriteString(h.Symbol)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(h.Weight, 'g', -1, 64))
		b.WriteByte(';')
	}
	fmt.Fprintf(&b, "rf=%g;ppy=%d;target=%g;lookback=%d",
		params.RiskFreeRate, params.PeriodsPerYear, params.SortinoTarget, params.LookbackDays)

	sum := sha1.Sum([]byte(b.String()))
	return keyPrefix + operation + ":" + hex.EncodeToString(sum[:]) + ":" + version
}

// Get decodes the cached value into dest. A miss returns false with no error.
func (c *ResultCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, string(data), c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity.
func (c *ResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
