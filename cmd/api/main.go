// Package main is the entry point for the ajax-search-service API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ajax-search-service/internal/app/service"
	"ajax-search-service/internal/config"
	"ajax-search-service/internal/domain"
	"ajax-search-service/internal/infra/cms"
	"ajax-search-service/internal/infra/postgres"
	"ajax-search-service/internal/infra/postgres/migrations"
	rediscache "ajax-search-service/internal/infra/redis"
	"ajax-search-service/internal/job"
	"ajax-search-service/internal/logger"
	"ajax-search-service/internal/transport/httpserver"
	"ajax-search-service/internal/validator"
	"ajax-search-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting ajax-search-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to database
	db, err := postgres.NewConnection(
		postgres.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			Name:         cfg.Database.Name,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	// Run migrations
	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Ping Redis to verify connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)

	// Create stores and source adapters
	contentStore := postgres.NewContentStore(db)
	analyticsStore := postgres.NewAnalyticsStore(db)
	suggestionCatalog := postgres.NewSuggestionCatalog(db)
	parsedPages := postgres.NewParsedPageCache(db)

	adapters := []domain.SourceAdapter{
		postgres.NewArticleSource(db),
		postgres.NewPageSource(db, parsedPages, log.Logger),
		postgres.NewFieldSource(db),
	}

	// Result cache
	resultCache := rediscache.NewResultCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
	if cfg.Cache.Enabled {
		log.Info("result cache enabled",
			zap.Duration("ttl", cfg.Cache.TTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("result cache disabled")
	}

	// CMS content feed
	cmsFeed := cms.New(
		cms.Config{
			BaseURL: cfg.CMS.BaseURL,
			Timeout: cfg.CMS.Timeout,
			Retry: cms.RetryConfig{
				MaxAttempts: cfg.CMS.Retry.MaxAttempts,
				WaitTime:    cfg.CMS.Retry.WaitTime,
				MaxWaitTime: cfg.CMS.Retry.MaxWaitTime,
			},
			CB: cms.CBConfig{
				MaxRequests:  cfg.CMS.CB.MaxRequests,
				Interval:     cfg.CMS.CB.Interval,
				Timeout:      cfg.CMS.CB.Timeout,
				FailureRatio: cfg.CMS.CB.FailureRatio,
			},
		},
		log.Logger,
	)

	// Create services
	searchSvc := service.NewSearchService(
		adapters,
		resultCache,
		analyticsStore,
		contentStore,
		service.SearchConfig{
			MinTermLength:  cfg.Search.MinTermLength,
			SnippetLength:  cfg.Search.SnippetLength,
			AdapterTimeout: cfg.Search.AdapterTimeout,
			CacheEnabled:   cfg.Cache.Enabled,
			CacheTTL:       cfg.Cache.TTL,
		},
		log.Logger,
	)
	suggestSvc := service.NewSuggestService(suggestionCatalog, analyticsStore, log.Logger)
	syncSvc := service.NewSyncService([]domain.ContentFeed{cmsFeed}, contentStore, log.Logger)

	// Create distributed locker
	distLocker := locker.NewRedisLocker(redisClient, log.Logger)

	// Create validator
	v := validator.New()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:      cfg.App.Port,
			BodyLimit: 1024 * 1024, // 1MB
			Debug:     cfg.App.Debug,
		},
		searchSvc,
		suggestSvc,
		syncSvc,
		db,
		v,
		log.Logger,
	)

	// Start maintenance scheduler with distributed locking
	scheduler := job.NewScheduler(
		syncSvc,
		searchSvc,
		job.Config{
			SyncInterval:  cfg.Sync.Interval,
			SyncTimeout:   cfg.Sync.Timeout,
			SyncOnStartup: cfg.Sync.OnStartup,
			SweepInterval: cfg.Cache.SweepInterval,
		},
		log.Logger,
		distLocker,
	)
	scheduler.Start()

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		// Stop scheduler
		scheduler.Stop()

		// Shutdown server with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
