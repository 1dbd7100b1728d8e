package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ajax-search-service/internal/domain"
)

func setupCache(t *testing.T) (*ResultCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewResultCache(client, zap.NewNop(), "search"), mr
}

func sampleResult(query string) domain.CachedResult {
	return domain.CachedResult{
		Query:    query,
		Language: "en-GB",
		Access:   "1,2",
		Hits: []domain.SearchHit{
			{
				Item:      domain.ContentItem{ID: 1, Source: domain.SourceArticle, Title: "Golang"},
				Relevance: 42,
				Snippet:   "about <mark>golang</mark>",
				URL:       "index.php?option=com_content&view=article&id=1&catid=0",
			},
		},
		Total: 1,
	}
}

func TestResultCacheMiss(t *testing.T) {
	cache, _ := setupCache(t)

	got, err := cache.Get(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResultCacheRoundTrip(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "fp1", sampleResult("golang"), time.Minute))

	got, err := cache.Get(ctx, "fp1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "golang", got.Query)
	assert.Equal(t, "en-GB", got.Language)
	assert.Equal(t, 1, got.Total)
	require.Len(t, got.Hits, 1)
	assert.Equal(t, 42, got.Hits[0].Relevance)
	assert.Equal(t, int64(1), got.HitCount, "first read counts as one hit")

	got, err = cache.Get(ctx, "fp1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.HitCount, "second read increments again")
}

func TestResultCacheSetPreservesHits(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "fp1", sampleResult("golang"), time.Minute))

	// Accumulate three hits.
	for i := 0; i < 3; i++ {
		_, err := cache.Get(ctx, "fp1")
		require.NoError(t, err)
	}

	// Overwrite with fresh results; the counter must survive.
	require.NoError(t, cache.Set(ctx, "fp1", sampleResult("golang v2"), time.Minute))

	got, err := cache.Get(ctx, "fp1")
	require.NoError(t, err)
	assert.Equal(t, "golang v2", got.Query)
	assert.Equal(t, int64(4), got.HitCount)
}

func TestResultCacheExpiry(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "fp1", sampleResult("golang"), time.Minute))
	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, "fp1")
	require.NoError(t, err)
	assert.Nil(t, got, "expired entries read as misses")
}

func TestResultCacheSweep(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "expired", sampleResult("old"), time.Minute))
	require.NoError(t, cache.Set(ctx, "alive", sampleResult("new"), time.Hour))
	mr.FastForward(2 * time.Minute)

	removed, err := cache.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Entries)
}

func TestResultCacheClear(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "fp1", sampleResult("one"), time.Minute))
	require.NoError(t, cache.Set(ctx, "fp2", sampleResult("two"), time.Minute))

	removed, err := cache.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	got, err := cache.Get(ctx, "fp1")
	require.NoError(t, err)
	assert.Nil(t, got)

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Entries)
}

func TestResultCacheStats(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "fp1", sampleResult("one"), time.Minute))
	require.NoError(t, cache.Set(ctx, "fp2", sampleResult("two"), time.Minute))

	// Two hits on fp1, one on fp2.
	_, _ = cache.Get(ctx, "fp1")
	_, _ = cache.Get(ctx, "fp1")
	_, _ = cache.Get(ctx, "fp2")

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Entries)
	assert.Equal(t, int64(3), stats.TotalHits)
	assert.Greater(t, stats.SizeKB, 0.0)
}
