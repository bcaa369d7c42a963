package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KinoWerk/cinedash-go/internal/domain/entities/reports"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/upstream"
)

// ReportHandlers relays report queries to the ticketing and dispute APIs.
// List endpoints degrade to their empty shape with HTTP 200 when the
// upstream is unavailable; only parameter validation produces a 4xx.
type ReportHandlers struct {
	client      *upstream.Client
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

func NewReportHandlers(client *upstream.Client, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ReportHandlers {
	return &ReportHandlers{client: client, logger: logger, perfTracker: perfTracker}
}

func (h *ReportHandlers) failSoft(c *gin.Context, marker *performance.Marker, operation string, err error, body gin.H) {
	marker.SetError(err)
	h.logger.Proxy().Warn("Upstream call degraded to empty result", "operation", operation, "error", err.Error())
	c.JSON(http.StatusOK, body)
}

// GetEvents lists events visible to the credential.
func (h *ReportHandlers) GetEvents(c *gin.Context) {
	marker := h.perfTracker.StartOperation("proxy_events")
	defer func() {
		marker.Complete()
		h.perfTracker.Record(marker)
	}()

	apiKey, ok := requireAPIKey(c)
	if !ok {
		return
	}
	siteID, ok := optionalSiteID(c)
	if !ok {
		return
	}

	items, err := h.client.Events(c.Request.Context(), apiKey, siteID)
	if err != nil {
		h.failSoft(c, marker, "events", err, gin.H{"items": []json.RawMessage{}})
		return
	}
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetOrders lists orders in the requested window. The upstream call runs
// under the shortened orders timeout.
func (h *ReportHandlers) GetOrders(c *gin.Context) {
	marker := h.perfTracker.StartOperation("proxy_orders")
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

	orders, err := h.client.Orders(c.Request.Context(), apiKey, siteID, from, to)
	if err != nil {
		h.failSoft(c, marker, "orders", err, gin.H{"orders": []json.RawMessage{}})
		return
	}
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetGross returns per-date gross revenue for the requested window.
func (h *ReportHandlers) GetGross(c *gin.Context) {
	marker := h.perfTracker.StartOperation("proxy_gross")
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

	values, err := h.client.GrossPerDate(c.Request.Context(), apiKey, siteID, from, to)
	if err != nil {
		h.failSoft(c, marker, "gross", err, gin.H{"values": []reports.GrossValue{}})
		return
	}
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"values": values})
}

// GetTopEvents returns the best-selling events of the requested window.
func (h *ReportHandlers) GetTopEvents(c *gin.Context) {
	marker := h.perfTracker.StartOperation("proxy_top_events")
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
	topN, ok := optionalInt(c, "topn")
	if !ok {
		return
	}
	if topN == 0 {
		topN = 5
	}

	items, err := h.client.TopEvents(c.Request.Context(), apiKey, siteID, from, to, topN)
	if err != nil {
		h.failSoft(c, marker, "top_events", err, gin.H{"items": []json.RawMessage{}})
		return
	}
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetDisputes lists payment disputes in the requested window.
func (h *ReportHandlers) GetDisputes(c *gin.Context) {
	marker := h.perfTracker.StartOperation("proxy_disputes")
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
	page, ok := optionalInt(c, "page")
	if !ok {
		return
	}
	perPage, ok := optionalInt(c, "perpage")
	if !ok {
		return
	}

	disputes, err := h.client.Disputes(c.Request.Context(), apiKey, from, to, page, perPage)
	if err != nil {
		h.failSoft(c, marker, "disputes", err, gin.H{"disputes": []json.RawMessage{}})
		return
	}
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"disputes": disputes})
}

// GetDisputeDetail fetches one dispute. An unavailable detail degrades to a
// null dispute so the detail pane renders empty instead of erroring.
func (h *ReportHandlers) GetDisputeDetail(c *gin.Context) {
	marker := h.perfTracker.StartOperation("proxy_dispute_detail")
	defer func() {
		marker.Complete()
		h.perfTracker.Record(marker)
	}()

	apiKey, ok := requireAPIKey(c)
	if !ok {
		return
	}
	disputeID := c.Query("disputeid")
	if disputeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "disputeid parameter is required"})
		return
	}

	detail, err := h.client.DisputeDetail(c.Request.Context(), apiKey, disputeID)
	if err != nil {
		h.failSoft(c, marker, "dispute_detail", err, gin.H{"dispute": nil})
		return
	}
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"dispute": detail})
}
