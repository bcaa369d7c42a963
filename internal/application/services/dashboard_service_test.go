package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/stats/summary":
			w.Write([]byte(`{"visitors":200,"ticketCount":350,"ticketRevenue":4200.5,"articleRevenue":800}`))
		case "/v1/stats/gross-30d":
			w.Write([]byte(`{"values":[{"date":"2026-03-01","gross":120.5},{"date":"2026-03-02","gross":99}]}`))
		case "/v1/stats/online-tickets":
			w.Write([]byte(`{"values":[{"date":"2026-03-01","count":12},{"date":"2026-03-02","count":8}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestComposeMergesAllSections(t *testing.T) {
	logger := newTestLogger(t)
	server := dashboardServer(t)
	svc := NewDashboardService(newTestClient(t, logger, server.URL), logger, newTestTracker())

	stats := svc.Compose(context.Background(), "key-1", 3, "2026-03-01", "2026-03-02")
	require.NotNil(t, stats)

	assert.Equal(t, 200, stats.Visitors)
	assert.Equal(t, 350, stats.TicketCount)
	assert.Equal(t, 4200.5, stats.TicketRevenue)
	assert.Equal(t, 800.0, stats.ArticleRevenue)
	assert.Equal(t, 20, stats.OnlineTickets)
	assert.InDelta(t, 4.0, stats.RevenuePerVisitor, 1e-9)
	require.Len(t, stats.Last30Days, 2)
	assert.Equal(t, "2026-03-01", stats.Last30Days[0].Date)
}

func TestComposeDegradesToZeroValues(t *testing.T) {
	logger := newTestLogger(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"down"}`, http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	svc := NewDashboardService(newTestClient(t, logger, server.URL), logger, newTestTracker())

	stats := svc.Compose(context.Background(), "key-1", 0, "2026-03-01", "2026-03-02")
	require.NotNil(t, stats)

	assert.Zero(t, stats.Visitors)
	assert.Zero(t, stats.TicketCount)
	assert.Zero(t, stats.TicketRevenue)
	assert.Zero(t, stats.RevenuePerVisitor)
	assert.Zero(t, stats.OnlineTickets)
	require.NotNil(t, stats.Last30Days)
	assert.Empty(t, stats.Last30Days)
}

func TestComposePartialFailureKeepsHealthySections(t *testing.T) {
	logger := newTestLogger(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/stats/summary":
			w.Write([]byte(`{"visitors":100,"ticketCount":150,"ticketRevenue":2000,"articleRevenue":500}`))
		default:
			http.Error(w, `{"error":"down"}`, http.StatusServiceUnavailable)
		}
	}))
	t.Cleanup(server.Close)

	svc := NewDashboardService(newTestClient(t, logger, server.URL), logger, newTestTracker())

	stats := svc.Compose(context.Background(), "key-1", 0, "2026-03-01", "2026-03-02")

	assert.Equal(t, 100, stats.Visitors)
	assert.InDelta(t, 5.0, stats.RevenuePerVisitor, 1e-9)
	assert.Zero(t, stats.OnlineTickets)
	assert.Empty(t, stats.Last30Days)
}
