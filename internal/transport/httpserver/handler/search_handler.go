// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ajax-search-service/internal/app/service"
	"ajax-search-service/internal/domain"
	"ajax-search-service/internal/transport/httpserver/dto"
	"ajax-search-service/internal/validator"
)

// SearchHandler serves the action-dispatching search endpoint the CMS
// widget talks to.
type SearchHandler struct {
	search    *service.SearchService
	suggest   *service.SuggestService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchSvc *service.SearchService, suggestSvc *service.SuggestService, v *validator.Validator, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		search:    searchSvc,
		suggest:   suggestSvc,
		validator: v,
		logger:    logger,
	}
}

// Handle handles GET /api/v1/search and dispatches on the action parameter.
func (h *SearchHandler) Handle(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	switch req.ActionOrDefault() {
	case dto.ActionSuggest:
		return h.handleSuggest(c, req)
	case dto.ActionTrending:
		return h.handleTrending(c, req)
	case dto.ActionAnalytics:
		return h.handleAnalytics(c, req)
	case dto.ActionStats:
		return h.handleStats(c)
	case dto.ActionClearCache:
		return h.handleClearCache(c)
	default:
		return h.handleSearch(c, req)
	}
}

// handleSearch runs the full search pipeline for the request.
func (h *SearchHandler) handleSearch(c *fiber.Ctx, req dto.SearchRequest) error {
	opts := req.ToSearchOptions()
	viewer := viewerFromCtx(c, req.Language)

	result, err := h.search.Search(c.Context(), opts, viewer)
	if err != nil {
		if errors.Is(err, domain.ErrQueryTooShort) ||
			errors.Is(err, domain.ErrQueryUnsafe) ||
			errors.Is(err, domain.ErrUnknownSource) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_QUERY",
			})
		}

		h.logger.Error("search failed", zap.String("query", opts.Query), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "search failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.FromSearchResult(result, opts))
}

// handleSuggest serves autocomplete candidates. Partials below the minimum
// length get an empty list, not an error.
func (h *SearchHandler) handleSuggest(c *fiber.Ctx, req dto.SearchRequest) error {
	suggestions, err := h.suggest.Suggest(c.Context(), req.Query, req.Language, req.Limit)
	if err != nil {
		h.logger.Error("suggest failed", zap.String("partial", req.Query), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "suggest failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.SuggestResponse{
		Success:     true,
		Query:       req.Query,
		Suggestions: suggestions,
	})
}

func (h *SearchHandler) handleTrending(c *fiber.Ctx, req dto.SearchRequest) error {
	frame := domain.ParseTimeframe(req.Timeframe)

	stats, err := h.suggest.Trending(c.Context(), frame, req.Limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "trending failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.TrendingResponse{
		Success:   true,
		Timeframe: string(frame),
		Trending:  stats,
	})
}

func (h *SearchHandler) handleAnalytics(c *fiber.Ctx, req dto.SearchRequest) error {
	frame := domain.ParseTimeframe(req.Timeframe)

	summary, err := h.suggest.Summary(c.Context(), frame)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "analytics failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.AnalyticsResponse{
		Success:   true,
		Analytics: summary,
	})
}

func (h *SearchHandler) handleStats(c *fiber.Ctx) error {
	cacheStats, err := h.search.CacheStats(c.Context())
	if err != nil {
		h.logger.Error("cache stats failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "stats failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	// Content counts degrade to an empty map; the cache stats are the point.
	content := map[string]int64{}
	if counts, err := h.search.ContentCounts(c.Context()); err == nil {
		for source, count := range counts {
			content[string(source)] = count
		}
	}

	return c.JSON(dto.StatsResponse{
		Success: true,
		Cache:   cacheStats,
		Content: content,
	})
}

func (h *SearchHandler) handleClearCache(c *fiber.Ctx) error {
	cleared, err := h.search.ClearCache(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "cache clear failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.ClearCacheResponse{
		Success: true,
		Cleared: cleared,
	})
}

// viewerFromCtx builds the request-scoped viewer identity. The CMS gateway
// forwards access levels, user and session ids as headers.
func viewerFromCtx(c *fiber.Ctx, language string) domain.Viewer {
	userID, _ := strconv.ParseInt(c.Get("X-User-Id"), 10, 64)

	return domain.Viewer{
		AccessLevels: dto.ParseAccessLevels(c.Get("X-Access-Levels")),
		Language:     language,
		UserID:       userID,
		SessionID:    c.Get("X-Session-Id"),
		IPAddress:    c.IP(),
		UserAgent:    c.Get("User-Agent"),
	}
}
