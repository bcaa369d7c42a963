package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KinoWerk/cinedash-go/internal/application/services"
	"github.com/KinoWerk/cinedash-go/internal/domain/entities/reports"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
)

// InvoiceHandlers serves the paginated invoice list with active-version
// flags resolved per billing period.
type InvoiceHandlers struct {
	invoiceService *services.InvoiceService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

func NewInvoiceHandlers(invoiceService *services.InvoiceService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *InvoiceHandlers {
	return &InvoiceHandlers{invoiceService: invoiceService, logger: logger, perfTracker: perfTracker}
}

// GetInvoices lists invoices. Degrades to an empty page on upstream failure.
func (h *InvoiceHandlers) GetInvoices(c *gin.Context) {
	marker := h.perfTracker.StartOperation("proxy_invoices")
	defer func() {
		marker.Complete()
		h.perfTracker.Record(marker)
	}()

	apiKey, ok := requireAPIKey(c)
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

	invoices, total, err := h.invoiceService.Fetch(c.Request.Context(), apiKey, page, perPage)
	if err != nil {
		marker.SetError(err)
		h.logger.Proxy().Warn("Invoice fetch degraded to empty result", "error", err.Error())
		c.JSON(http.StatusOK, gin.H{"data": []reports.Invoice{}, "total": 0})
		return
	}
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"data": invoices, "total": total})
}
