package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CreativeCache stores generated hero images in Redis keyed by prompt
// and size, so repeated runs of the same brief skip the image backend.
// Cache failures are reported as misses; the pipeline regenerates and
// continues.
type CreativeCache struct {
	client *redis.Client
	config *Config
	logger *zap.Logger
	hits   int64
	misses int64
}

// NewCreativeCache creates a Redis-backed hero image cache.
func NewCreativeCache(config *Config, logger *zap.Logger) (*CreativeCache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = config.MaxConnections
	opts.MinIdleConns = config.MinIdleConns

	cache := &CreativeCache{
		client: redis.NewClient(opts),
		config: config,
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cache.client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Creative cache initialized",
		zap.String("redis_url", maskRedisURL(config.RedisURL)),
		zap.Int("max_connections", config.MaxConnections),
		zap.Duration("default_ttl", config.DefaultTTL))

	return cache, nil
}

// Get returns the cached hero image for the prompt and size, if present.
func (c *CreativeCache) Get(ctx context.Context, prompt string, size image.Point) (image.Image, bool) {
	key := c.key(prompt, size)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	} else if err != nil {
		c.logger.Warn("Cache lookup failed", zap.Error(err))
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		c.logger.Warn("Corrupted cache entry dropped", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	atomic.AddInt64(&c.hits, 1)
	c.logger.Debug("Cache hit", zap.String("key", key))
	return img, true
}

// Put stores a hero image under the prompt and size with the default TTL.
func (c *CreativeCache) Put(ctx context.Context, prompt string, size image.Point, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode cached image: %w", err)
	}
	key := c.key(prompt, size)
	if err := c.client.Set(ctx, key, buf.Bytes(), c.config.DefaultTTL).Err(); err != nil {
		return fmt.Errorf("failed to store cached image: %w", err)
	}
	c.logger.Debug("Cache store", zap.String("key", key), zap.Int("bytes", buf.Len()))
	return nil
}

// Stats returns cache hit/miss counters.
func (c *CreativeCache) Stats() Stats {
	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	stats := Stats{Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}

// Close releases the Redis connection pool.
func (c *CreativeCache) Close() error {
	return c.client.Close()
}

func (c *CreativeCache) key(prompt string, size image.Point) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%dx%d", prompt, size.X, size.Y)))
	return "brandforge:creative:" + hex.EncodeToString(sum[:])
}

// maskRedisURL hides credentials in log output
func maskRedisURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "redis://***"
	}
	if u.User != nil {
		u.User = url.UserPassword("***", "***")
	}
	return u.String()
}
