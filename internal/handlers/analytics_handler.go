package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pareto_backend/internal/services"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(base *BaseHandler, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      base,
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(g RouteGroups) {
	analytics := g.Admin.Group("/analytics")
	{
		analytics.GET("/summary", h.Summary)
		analytics.GET("/samples", h.Samples)
	}
}

// Summary godoc
// @Summary Application counts for the dashboard
// @Tags admin-analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AnalyticsSummary
// @Router /admin/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, err := h.analyticsService.Summary(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Samples returns the fixed placeholder chart data
func (h *AnalyticsHandler) Samples(c *gin.Context) {
	c.JSON(http.StatusOK, h.analyticsService.Samples())
}
