// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"ajax-search-service/internal/app/service"
	"ajax-search-service/pkg/locker"
)

// Scheduler runs the periodic maintenance jobs: content synchronization from
// the CMS and result cache sweeping. Distributed locking ensures only one
// instance executes a job per tick.
type Scheduler struct {
	syncService   *service.SyncService
	searchService *service.SearchService
	cfg           Config
	logger        *zap.Logger
	locker        locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds scheduler configuration.
type Config struct {
	SyncInterval  time.Duration
	SyncTimeout   time.Duration
	SyncOnStartup bool
	SweepInterval time.Duration
}

// NewScheduler creates a new Scheduler with distributed locking support.
func NewScheduler(
	syncSvc *service.SyncService,
	searchSvc *service.SearchService,
	cfg Config,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *Scheduler {
	return &Scheduler{
		syncService:   syncSvc,
		searchService: searchSvc,
		cfg:           cfg,
		logger:        logger,
		locker:        locker,
	}
}

// Start begins the background jobs.
func (s *Scheduler) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting maintenance scheduler",
		zap.Duration("sync_interval", s.cfg.SyncInterval),
		zap.Duration("sweep_interval", s.cfg.SweepInterval),
		zap.Bool("sync_on_startup", s.cfg.SyncOnStartup),
	)

	s.wg.Add(1)
	go s.run()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping maintenance scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("maintenance scheduler stopped")
}

// run is the main loop of the scheduler.
func (s *Scheduler) run() {
	defer s.wg.Done()

	if s.cfg.SyncOnStartup {
		s.executeSync()
	}

	syncTicker := time.NewTicker(s.cfg.SyncInterval)
	defer syncTicker.Stop()

	sweepTicker := time.NewTicker(s.cfg.SweepInterval)
	defer sweepTicker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-syncTicker.C:
			s.executeSync()
		case <-sweepTicker.C:
			s.executeSweep()
		}
	}
}

// executeSync performs a sync operation with distributed locking and timeout.
//
// Locking behavior:
//   - Lock TTL = interval duration (cooldown model, not timeout)
//   - Success: Lock held for full interval to prevent duplicate syncs
//   - Failure: Lock released immediately to allow retry by another instance
func (s *Scheduler) executeSync() {
	const lockKey = "sync:scheduler:lock"

	acquired, err := s.locker.Acquire(s.ctx, lockKey, s.cfg.SyncInterval)
	if err != nil {
		s.logger.Error("failed to acquire distributed lock", zap.Error(err))

		return
	}
	if !acquired {
		s.logger.Debug("another instance is running sync, skipping execution")

		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.SyncTimeout)
	defer cancel()

	results := s.syncService.SyncAll(ctx)

	totalArticles := 0
	totalPages := 0
	totalErrors := 0
	hasError := false

	for _, r := range results {
		if r.Error != nil {
			totalErrors++
			hasError = true
			s.logger.Warn("feed sync failed",
				zap.String("feed", r.Feed),
				zap.Error(r.Error),
			)

			continue
		}
		totalArticles += r.Articles
		totalPages += r.Pages
	}

	if hasError {
		// Release lock immediately on error (allow immediate retry)
		if err := s.locker.Release(s.ctx, lockKey); err != nil {
			s.logger.Error("failed to release lock after sync error", zap.Error(err))
		}
		s.logger.Info("sync completed with errors, lock released for retry",
			zap.Int("articles_synced", totalArticles),
			zap.Int("pages_synced", totalPages),
			zap.Int("feeds_failed", totalErrors),
		)
	} else {
		// Lock expires naturally after the interval (cooldown period)
		s.logger.Info("sync completed successfully, lock held for cooldown",
			zap.Int("articles_synced", totalArticles),
			zap.Int("pages_synced", totalPages),
			zap.Duration("cooldown", s.cfg.SyncInterval),
		)
	}
}

// executeSweep reclaims expired cache entries under its own lock. The sweep
// is idempotent, so the lock only spares redundant work.
func (s *Scheduler) executeSweep() {
	const lockKey = "cache:sweep:lock"

	acquired, err := s.locker.Acquire(s.ctx, lockKey, s.cfg.SweepInterval)
	if err != nil {
		s.logger.Error("failed to acquire sweep lock", zap.Error(err))

		return
	}
	if !acquired {
		s.logger.Debug("another instance is sweeping the cache, skipping")

		return
	}

	removed, err := s.searchService.SweepCache(s.ctx)
	if err != nil {
		if releaseErr := s.locker.Release(s.ctx, lockKey); releaseErr != nil {
			s.logger.Error("failed to release lock after sweep error", zap.Error(releaseErr))
		}
		s.logger.Warn("cache sweep failed", zap.Error(err))

		return
	}

	s.logger.Debug("cache sweep completed", zap.Int64("removed", removed))
}
