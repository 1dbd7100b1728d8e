package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ajax-search-service/internal/domain"
)

// fakeFeed serves canned CMS records.
type fakeFeed struct {
	name        string
	articles    []domain.ArticleRecord
	pages       []domain.PageRecord
	articlesErr error
	pagesErr    error
}

func (f *fakeFeed) Name() string { return f.name }

func (f *fakeFeed) FetchArticles(_ context.Context) ([]domain.ArticleRecord, error) {
	return f.articles, f.articlesErr
}

func (f *fakeFeed) FetchPages(_ context.Context) ([]domain.PageRecord, error) {
	return f.pages, f.pagesErr
}

func (f *fakeFeed) HealthCheck(_ context.Context) error { return nil }

func sampleFeed() *fakeFeed {
	return &fakeFeed{
		name: "cms",
		articles: []domain.ArticleRecord{
			{ID: 101, Title: "Golang Tutorial", State: 1, Created: time.Now()},
			{ID: 102, Title: "Cooking Pasta", State: 1, Created: time.Now()},
		},
		pages: []domain.PageRecord{
			{ID: 201, Title: "Landing", State: 1},
		},
	}
}

func TestSyncAll(t *testing.T) {
	feed := sampleFeed()
	store := &fakeStore{}
	svc := NewSyncService([]domain.ContentFeed{feed}, store, zap.NewNop())

	results := svc.SyncAll(context.Background())
	require.Len(t, results, 1)

	result := results[0]
	require.NoError(t, result.Error)
	assert.Equal(t, "cms", result.Feed)
	assert.Equal(t, 2, result.Articles)
	assert.Equal(t, 1, result.Pages)

	assert.Len(t, store.articles, 2)
	assert.Len(t, store.pages, 1)
}

func TestSyncArticleFetchFailure(t *testing.T) {
	feed := sampleFeed()
	feed.articlesErr = errors.New("cms unreachable")
	store := &fakeStore{}
	svc := NewSyncService([]domain.ContentFeed{feed}, store, zap.NewNop())

	results := svc.SyncAll(context.Background())
	require.Len(t, results, 1)
	require.Error(t, results[0].Error)

	assert.Empty(t, store.articles, "nothing is written when the fetch fails")
	assert.Empty(t, store.pages)
}

func TestSyncPageFetchFailureKeepsArticles(t *testing.T) {
	feed := sampleFeed()
	feed.pagesErr = errors.New("pages endpoint broken")
	store := &fakeStore{}
	svc := NewSyncService([]domain.ContentFeed{feed}, store, zap.NewNop())

	result, err := svc.SyncFeed(context.Background(), "cms")
	require.Error(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 2, result.Articles, "articles land even when the page fetch fails")
	assert.Equal(t, 0, result.Pages)
	assert.Len(t, store.articles, 2)
}

func TestSyncUpsertFailure(t *testing.T) {
	feed := sampleFeed()
	store := &fakeStore{err: errors.New("db down")}
	svc := NewSyncService([]domain.ContentFeed{feed}, store, zap.NewNop())

	results := svc.SyncAll(context.Background())
	require.Len(t, results, 1)
	assert.Error(t, results[0].Error)
}

func TestSyncFeedNotFound(t *testing.T) {
	svc := NewSyncService([]domain.ContentFeed{sampleFeed()}, &fakeStore{}, zap.NewNop())

	result, err := svc.SyncFeed(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestFeedNames(t *testing.T) {
	svc := NewSyncService([]domain.ContentFeed{sampleFeed()}, &fakeStore{}, zap.NewNop())
	assert.Equal(t, []string{"cms"}, svc.FeedNames())
}
