package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KinoWerk/cinedash-go/internal/application/services"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
)

// DashboardHandlers serves the aggregated dashboard statistics.
type DashboardHandlers struct {
	dashboardService *services.DashboardService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

func NewDashboardHandlers(dashboardService *services.DashboardService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService, logger: logger, perfTracker: perfTracker}
}

// GetDashboard composes the KPI summary, the 30-day gross series and the
// online ticket count. Always answers 200; sections an upstream could not
// provide stay at their zero value.
func (h *DashboardHandlers) GetDashboard(c *gin.Context) {
	marker := h.perfTracker.StartOperation("proxy_dashboard")
	defer func() {
		marker.Complete()
		h.perfTracker.Record(marker)
	}()

	apiKey, ok := requireAPIKey(c)
	if !ok {
		return
	}
	from, to, ok := requireDateRange(c)
	if !ok {
		return
	}
	siteID, ok := optionalSiteID(c)
	if !ok {
		return
	}

	stats := h.dashboardService.Compose(c.Request.Context(), apiKey, siteID, from, to)
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, stats)
}
