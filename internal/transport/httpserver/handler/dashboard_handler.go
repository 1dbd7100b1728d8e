package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ajax-search-service/internal/app/service"
	"ajax-search-service/internal/domain"
)

// DashboardHandler handles dashboard-related HTTP requests.
type DashboardHandler struct {
	searchService  *service.SearchService
	suggestService *service.SuggestService
	logger         *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(searchSvc *service.SearchService, suggestSvc *service.SuggestService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		searchService:  searchSvc,
		suggestService: suggestSvc,
		logger:         logger,
	}
}

// Render handles GET /dashboard
// Renders the dashboard HTML page using Fiber's template engine. Every data
// source degrades to zero values so the page always renders.
func (h *DashboardHandler) Render(c *fiber.Ctx) error {
	ctx := c.Context()

	counts, err := h.searchService.ContentCounts(ctx)
	if err != nil {
		h.logger.Warn("dashboard content counts failed", zap.Error(err))
		counts = map[domain.SourceType]int64{}
	}

	cacheStats, err := h.searchService.CacheStats(ctx)
	if err != nil {
		h.logger.Warn("dashboard cache stats failed", zap.Error(err))
	}

	frame := domain.ParseTimeframe(c.Query("timeframe"))
	summary, err := h.suggestService.Summary(ctx, frame)
	if err != nil {
		h.logger.Warn("dashboard analytics failed", zap.Error(err))
		summary = &domain.AnalyticsSummary{Timeframe: frame}
	}

	return c.Render("pages/dashboard", fiber.Map{
		"Title":        "Search Dashboard",
		"ArticleCount": counts[domain.SourceArticle],
		"PageCount":    counts[domain.SourcePageBuilder],
		"FieldCount":   counts[domain.SourceCustomField],
		"CacheStats":   cacheStats,
		"Summary":      summary,
	}, "layouts/base")
}
