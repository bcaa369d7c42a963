package services

import (
	"context"
	"sync"
	"time"

	"github.com/KinoWerk/cinedash-go/internal/domain/entities/reports"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/upstream"
)

// DashboardService composes the dashboard statistics object from three
// concurrent upstream calls. Every partial failure degrades to zero values;
// the composition itself never fails.
type DashboardService struct {
	client      *upstream.Client
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewDashboardService creates a new dashboard aggregation service.
func NewDashboardService(client *upstream.Client, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *DashboardService {
	return &DashboardService{client: client, logger: logger, perfTracker: perfTracker}
}

// Compose issues the KPI summary, 30-day gross series and online-ticket
// count calls concurrently and merges them.
func (s *DashboardService) Compose(ctx context.Context, apiKey string, siteID int, from, to string) *reports.DashboardStats {
	start := time.Now()
	marker := s.perfTracker.StartOperation("proxy:dashboard")
	defer func() {
		marker.Complete()
		s.perfTracker.Record(marker)
	}()

	stats := reports.EmptyDashboardStats()

	var wg sync.WaitGroup
	var summaryMu sync.Mutex

	wg.Add(3)

	go func() {
		defer wg.Done()
		summary, err := s.client.KPISummary(ctx, apiKey, siteID, from, to)
		if err != nil {
			s.logger.Proxy().Warn("Dashboard KPI summary unavailable", "error", err.Error())
			return
		}
		summaryMu.Lock()
		stats.Visitors = summary.Visitors
		stats.TicketCount = summary.TicketCount
		stats.TicketRevenue = summary.TicketRevenue
		stats.ArticleRevenue = summary.ArticleRevenue
		summaryMu.Unlock()
	}()

	go func() {
		defer wg.Done()
		series, err := s.client.GrossLast30Days(ctx, apiKey, siteID)
		if err != nil {
			s.logger.Proxy().Warn("Dashboard gross series unavailable", "error", err.Error())
			return
		}
		summaryMu.Lock()
		stats.Last30Days = series
		summaryMu.Unlock()
	}()

	go func() {
		defer wg.Done()
		online, err := s.client.OnlineTickets(ctx, apiKey, siteID, from, to)
		if err != nil {
			s.logger.Proxy().Warn("Dashboard online ticket count unavailable", "error", err.Error())
			return
		}
		summaryMu.Lock()
		stats.OnlineTickets = online
		summaryMu.Unlock()
	}()

	wg.Wait()

	if stats.Visitors > 0 {
		stats.RevenuePerVisitor = stats.ArticleRevenue / float64(stats.Visitors)
	}
	if stats.Last30Days == nil {
		stats.Last30Days = []reports.GrossValue{}
	}

	s.logger.Proxy().Info("Dashboard stats composed", "siteId", siteID,
		"visitors", stats.Visitors, "seriesDays", len(stats.Last30Days), "duration", time.Since(start))
	marker.SetSuccess(true)

	return stats
}
