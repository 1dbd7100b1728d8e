package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"ajax-search-service/internal/domain"
)

// SyncService handles content synchronization from the CMS feeds.
type SyncService struct {
	feeds  []domain.ContentFeed
	store  domain.ContentStore
	logger *zap.Logger
}

// NewSyncService creates a new SyncService.
func NewSyncService(feeds []domain.ContentFeed, store domain.ContentStore, logger *zap.Logger) *SyncService {
	return &SyncService{
		feeds:  feeds,
		store:  store,
		logger: logger,
	}
}

// SyncResult holds the result of syncing one feed.
type SyncResult struct {
	Feed     string
	Articles int
	Pages    int
	Duration time.Duration
	Error    error
}

// SyncAll synchronizes content from all feeds concurrently.
// Returns results for each feed. Partial failures are allowed.
func (s *SyncService) SyncAll(ctx context.Context) []SyncResult {
	results := make([]SyncResult, len(s.feeds))
	var wg sync.WaitGroup

	s.logger.Info("starting sync from all feeds",
		zap.Int("feed_count", len(s.feeds)),
	)

	for i, feed := range s.feeds {
		wg.Add(1)
		go func(idx int, f domain.ContentFeed) {
			defer wg.Done()
			results[idx] = s.syncFeed(ctx, f)
		}(i, feed)
	}

	wg.Wait()

	totalArticles := 0
	totalPages := 0
	totalErrors := 0
	for _, r := range results {
		if r.Error != nil {
			totalErrors++
			continue
		}
		totalArticles += r.Articles
		totalPages += r.Pages
	}

	s.logger.Info("sync completed",
		zap.Int("articles_synced", totalArticles),
		zap.Int("pages_synced", totalPages),
		zap.Int("feeds_failed", totalErrors),
	)

	return results
}

// syncFeed pulls articles and pages from a single feed and upserts them.
// An article fetch failure aborts the feed; the page fetch runs regardless
// of how many articles landed.
func (s *SyncService) syncFeed(ctx context.Context, feed domain.ContentFeed) SyncResult {
	start := time.Now()
	result := SyncResult{
		Feed: feed.Name(),
	}

	s.logger.Debug("syncing feed", zap.String("feed", feed.Name()))

	articles, err := feed.FetchArticles(ctx)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		s.logger.Warn("feed article fetch failed",
			zap.String("feed", feed.Name()),
			zap.Error(err),
		)

		return result
	}

	if len(articles) > 0 {
		count, err := s.store.UpsertArticles(ctx, articles)
		if err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			s.logger.Error("article upsert failed",
				zap.String("feed", feed.Name()),
				zap.Error(err),
			)

			return result
		}
		result.Articles = count
	}

	pages, err := feed.FetchPages(ctx)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		s.logger.Warn("feed page fetch failed",
			zap.String("feed", feed.Name()),
			zap.Error(err),
		)

		return result
	}

	if len(pages) > 0 {
		count, err := s.store.UpsertPages(ctx, pages)
		if err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			s.logger.Error("page upsert failed",
				zap.String("feed", feed.Name()),
				zap.Error(err),
			)

			return result
		}
		result.Pages = count
	}

	result.Duration = time.Since(start)

	s.logger.Info("feed sync completed",
		zap.String("feed", feed.Name()),
		zap.Int("articles", result.Articles),
		zap.Int("pages", result.Pages),
		zap.Duration("duration", result.Duration),
	)

	return result
}

// SyncFeed synchronizes content from a specific feed.
func (s *SyncService) SyncFeed(ctx context.Context, feedName string) (*SyncResult, error) {
	for _, f := range s.feeds {
		if f.Name() == feedName {
			result := s.syncFeed(ctx, f)

			return &result, result.Error
		}
	}

	return nil, nil // Feed not found
}

// FeedNames returns the names of all registered feeds.
func (s *SyncService) FeedNames() []string {
	names := make([]string, len(s.feeds))
	for i, f := range s.feeds {
		names[i] = f.Name()
	}

	return names
}
