// Package redis implements the search result cache on Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ajax-search-service/internal/domain"
)

// ResultCache stores one Redis hash per request fingerprint. The payload
// field carries the serialized response; hits lives as its own field so
// HINCRBY can count reads atomically while the entry ages out via TTL.
// An index set tracks live fingerprints for sweep and stats.
type ResultCache struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
}

// NewResultCache creates a Redis-backed result cache.
// keyPrefix namespaces all keys and prevents collisions with other applications.
func NewResultCache(client *redis.Client, logger *zap.Logger, keyPrefix string) *ResultCache {
	return &ResultCache{
		client:    client,
		logger:    logger,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached result for a fingerprint, or nil when the entry
// is absent or already expired. A hit increments the entry's counter.
func (c *ResultCache) Get(ctx context.Context, fingerprint string) (*domain.CachedResult, error) {
	key := c.entryKey(fingerprint)

	payload, err := c.client.HGet(ctx, key, "payload").Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("cache get failed",
			zap.String("fingerprint", fingerprint),
			zap.Error(err),
		)

		return nil, err
	}

	hits, err := c.client.HIncrBy(ctx, key, "hits", 1).Result()
	if err != nil {
		// The entry is still usable, only the counter update failed.
		c.logger.Warn("cache hit counter update failed",
			zap.String("fingerprint", fingerprint),
			zap.Error(err),
		)
	}

	var result domain.CachedResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decoding cached result: %w", err)
	}
	result.HitCount = hits

	c.logger.Debug("cache hit",
		zap.String("fingerprint", fingerprint),
		zap.Int64("hits", hits),
	)

	return &result, nil
}

// Set stores a result under the fingerprint with the given TTL.
// Overwriting an existing entry preserves its hit counter and creation
// time; new entries start at zero hits.
func (c *ResultCache) Set(ctx context.Context, fingerprint string, result domain.CachedResult, ttl time.Duration) error {
	key := c.entryKey(fingerprint)

	hits, err := c.client.HGet(ctx, key, "hits").Int64()
	if err != nil && err != redis.Nil {
		return err
	}
	created := result.CreatedAt
	if prev, err := c.client.HGet(ctx, key, "created").Result(); err == nil {
		if t, parseErr := time.Parse(time.RFC3339Nano, prev); parseErr == nil {
			created = t
		}
	}
	if created.IsZero() {
		created = time.Now().UTC()
	}

	result.HitCount = 0
	result.CreatedAt = created
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding cached result: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"payload":  payload,
		"query":    result.Query,
		"language": result.Language,
		"access":   result.Access,
		"hits":     hits,
		"created":  created.Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, ttl)
	pipe.SAdd(ctx, c.indexKey(), fingerprint)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("cache set failed",
			zap.String("fingerprint", fingerprint),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)

		return err
	}

	c.logger.Debug("cache set",
		zap.String("fingerprint", fingerprint),
		zap.Int("results", len(result.Hits)),
		zap.Duration("ttl", ttl),
	)

	return nil
}

// Clear removes every cached result and the fingerprint index.
// Uses SCAN to find keys, which is safe for production use (non-blocking).
func (c *ResultCache) Clear(ctx context.Context) (int64, error) {
	pattern := c.keyPrefix + ":result:*"

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Error("cache clear scan failed",
			zap.String("pattern", pattern),
			zap.Error(err),
		)

		return 0, err
	}

	removed := int64(len(keys))
	keys = append(keys, c.indexKey())
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("cache clear delete failed",
			zap.Int("key_count", len(keys)),
			zap.Error(err),
		)

		return 0, err
	}

	c.logger.Info("cache cleared", zap.Int64("entries", removed))

	return removed, nil
}

// Sweep drops index members whose entries have expired. Redis reclaims
// the hashes on its own; this keeps the index honest between expirations.
func (c *ResultCache) Sweep(ctx context.Context) (int64, error) {
	fingerprints, err := c.client.SMembers(ctx, c.indexKey()).Result()
	if err != nil {
		return 0, err
	}

	var removed int64
	for _, fp := range fingerprints {
		exists, err := c.client.Exists(ctx, c.entryKey(fp)).Result()
		if err != nil {
			return removed, err
		}
		if exists == 0 {
			if err := c.client.SRem(ctx, c.indexKey(), fp).Err(); err != nil {
				return removed, err
			}
			removed++
		}
	}

	if removed > 0 {
		c.logger.Info("cache sweep reclaimed expired entries",
			zap.Int64("removed", removed),
		)
	}

	return removed, nil
}

// Stats aggregates live entry count, accumulated hits and approximate
// payload size.
func (c *ResultCache) Stats(ctx context.Context) (domain.CacheStats, error) {
	fingerprints, err := c.client.SMembers(ctx, c.indexKey()).Result()
	if err != nil {
		return domain.CacheStats{}, err
	}

	var stats domain.CacheStats
	var totalBytes int64
	for _, fp := range fingerprints {
		key := c.entryKey(fp)

		payload, err := c.client.HGet(ctx, key, "payload").Result()
		if err == redis.Nil {
			continue // expired but not swept yet
		}
		if err != nil {
			return domain.CacheStats{}, err
		}
		stats.Entries++
		totalBytes += int64(len(payload))

		if hits, err := c.client.HGet(ctx, key, "hits").Int64(); err == nil {
			stats.TotalHits += hits
		}
	}
	stats.SizeKB = float64(totalBytes) / 1024.0

	return stats, nil
}

func (c *ResultCache) entryKey(fingerprint string) string {
	return c.keyPrefix + ":result:" + fingerprint
}

func (c *ResultCache) indexKey() string {
	return c.keyPrefix + ":index"
}
