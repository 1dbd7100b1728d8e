// Package cms implements the HTTP client that pulls searchable content
// from the CMS API for ingestion.
package cms

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"ajax-search-service/internal/domain"
)

// API paths of the CMS content feed.
const (
	articlesEndpoint = "/api/articles"
	pagesEndpoint    = "/api/pages"
	healthEndpoint   = "/health"
)

// Config holds configuration for the CMS client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryConfig
	CB      CBConfig
}

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}

// CBConfig holds circuit breaker configuration.
type CBConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// Client implements domain.ContentFeed against the CMS HTTP API. Requests
// retry on transient failures and run through a circuit breaker so a dead
// CMS cannot pile up sync goroutines.
type Client struct {
	name   string
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a CMS feed client.
func New(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		name:   "cms",
		client: newRestyClient(cfg),
		cb:     newCircuitBreaker[*resty.Response]("cms", cfg.CB),
		logger: logger,
	}
}

// Name returns the feed identifier.
func (c *Client) Name() string {
	return c.name
}

// FetchArticles retrieves all published articles with their categories,
// tags and custom field values.
func (c *Client) FetchArticles(ctx context.Context) ([]domain.ArticleRecord, error) {
	resp, err := c.execute(ctx, articlesEndpoint, &articlesResponse{})
	if err != nil {
		return nil, fmt.Errorf("fetching articles: %w", err)
	}

	result := resp.Result().(*articlesResponse)
	records := make([]domain.ArticleRecord, 0, len(result.Articles))
	for _, dto := range result.Articles {
		records = append(records, dto.toRecord())
	}

	c.logger.Info("cms article fetch completed", zap.Int("count", len(records)))

	return records, nil
}

// FetchPages retrieves all published page-builder pages with their raw
// layout JSON.
func (c *Client) FetchPages(ctx context.Context) ([]domain.PageRecord, error) {
	resp, err := c.execute(ctx, pagesEndpoint, &pagesResponse{})
	if err != nil {
		return nil, fmt.Errorf("fetching pages: %w", err)
	}

	result := resp.Result().(*pagesResponse)
	records := make([]domain.PageRecord, 0, len(result.Pages))
	for _, dto := range result.Pages {
		records = append(records, dto.toRecord())
	}

	c.logger.Info("cms page fetch completed", zap.Int("count", len(records)))

	return records, nil
}

// HealthCheck verifies the CMS API is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(healthEndpoint)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}

// execute performs one GET through the circuit breaker.
func (c *Client) execute(ctx context.Context, endpoint string, result any) (*resty.Response, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetResult(result).
			Get(endpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("cms returned status %d", r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("cms fetch failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, err
	}

	return resp, nil
}

// newRestyClient creates a Resty HTTP client with retry configuration.
func newRestyClient(cfg Config) *resty.Client {
	return resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retry.MaxAttempts).
		SetRetryWaitTime(cfg.Retry.WaitTime).
		SetRetryMaxWaitTime(cfg.Retry.MaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Retry on network errors or 5xx status codes
			if err != nil {
				return true
			}

			return r.StatusCode() >= 500
		})
}

// newCircuitBreaker creates the circuit breaker guarding feed calls.
func newCircuitBreaker[T any](name string, cfg CBConfig) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= 3 && failureRatio >= cfg.FailureRatio
		},
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}
