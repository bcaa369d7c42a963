package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KinoWerk/cinedash-go/internal/application/services"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
)

func dashboardRouter(t *testing.T, upstreamURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := newTestLogger(t)
	client := newTestClient(t, logger, upstreamURL)
	tracker := performance.NewTracker()
	h := NewDashboardHandlers(services.NewDashboardService(client, logger, tracker), logger, tracker)

	r := gin.New()
	r.GET("/dashboard", h.GetDashboard)
	return r
}

func TestDashboardAnswersZerosWhenUpstreamDown(t *testing.T) {
	server := failingUpstream(t)
	router := dashboardRouter(t, server.URL)

	rec := doGet(router, "/dashboard?apikey=k&from=2026-03-01&to=2026-03-02")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Visitors          int     `json:"visitors"`
		RevenuePerVisitor float64 `json:"revenuePerVisitor"`
		Last30Days        []any   `json:"last30Days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Zero(t, stats.Visitors)
	assert.Zero(t, stats.RevenuePerVisitor)
	assert.NotNil(t, stats.Last30Days)
	assert.Empty(t, stats.Last30Days)
}

func TestDashboardRequiresParameters(t *testing.T) {
	server := failingUpstream(t)
	router := dashboardRouter(t, server.URL)

	rec := doGet(router, "/dashboard?from=2026-03-01&to=2026-03-02")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGet(router, "/dashboard?apikey=k")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardComputesRevenuePerVisitor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/stats/summary":
			w.Write([]byte(`{"visitors":50,"ticketCount":60,"ticketRevenue":700,"articleRevenue":150}`))
		case "/v1/stats/gross-30d":
			w.Write([]byte(`{"values":[]}`))
		case "/v1/stats/online-tickets":
			w.Write([]byte(`{"values":[{"date":"2026-03-01","count":9}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	router := dashboardRouter(t, server.URL)

	rec := doGet(router, "/dashboard?apikey=k&from=2026-03-01&to=2026-03-02")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Visitors          int     `json:"visitors"`
		OnlineTickets     int     `json:"onlineTickets"`
		RevenuePerVisitor float64 `json:"revenuePerVisitor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 50, stats.Visitors)
	assert.Equal(t, 9, stats.OnlineTickets)
	assert.InDelta(t, 3.0, stats.RevenuePerVisitor, 1e-9)
}
