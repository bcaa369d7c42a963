package services

import (
	"context"
	"time"

	"github.com/KinoWerk/cinedash-go/internal/domain/entities/reports"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/upstream"
)

// InvoiceService fetches invoice records and applies the version grouping:
// of several versions of the same billing period only the highest is active.
type InvoiceService struct {
	client      *upstream.Client
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(client *upstream.Client, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *InvoiceService {
	return &InvoiceService{client: client, logger: logger, perfTracker: perfTracker}
}

// Fetch returns one transformed page of invoices plus the upstream total.
func (s *InvoiceService) Fetch(ctx context.Context, apiKey string, page, perPage int) ([]reports.Invoice, int, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("proxy:invoices")
	defer func() {
		marker.Complete()
		s.perfTracker.Record(marker)
	}()

	invoices, total, err := s.client.Invoices(ctx, apiKey, page, perPage)
	if err != nil {
		marker.SetError(err)
		return nil, 0, err
	}

	transformed := reports.MarkActiveVersions(invoices)

	s.logger.Proxy().Info("Invoices fetched", "count", len(transformed), "total", total, "duration", time.Since(start))
	marker.SetSuccess(true)
	return transformed, total, nil
}
