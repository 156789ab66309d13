package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
	"github.com/coinadmin/backend/internal/dto"
	"github.com/coinadmin/backend/internal/middleware"
)

// dashboardHandler serves the admin landing-page report.
type dashboardHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func registerDashboardRoutes(rg *gin.RouterGroup, rs portssvc.ReportingSvcFacade) {
	h := &dashboardHandler{reportingService: rs}
	rg.GET("/dashboard/stats", h.getStats)
}

// getStats godoc
// @Summary Get the dashboard report
// @Description Returns user totals, month-over-month growth, balance aggregates and recent activity
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardStatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/dashboard/stats [get]
func (h *dashboardHandler) getStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.reportingService.GetDashboardStats(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build dashboard stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard stats"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardStatsResponse(stats))
}
