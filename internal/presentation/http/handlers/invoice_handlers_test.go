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

func invoiceRouter(t *testing.T, upstreamURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := newTestLogger(t)
	client := newTestClient(t, logger, upstreamURL)
	tracker := performance.NewTracker()
	h := NewInvoiceHandlers(services.NewInvoiceService(client, logger, tracker), logger, tracker)

	r := gin.New()
	r.GET("/invoices", h.GetInvoices)
	return r
}

func TestInvoicesDegradeToEmptyPage(t *testing.T) {
	server := failingUpstream(t)
	router := invoiceRouter(t, server.URL)

	rec := doGet(router, "/invoices?apikey=k")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"total":0}`, rec.Body.String())
}

func TestInvoicesMarkActiveVersions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/invoices", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"number":"R-1","year":2026,"month":1,"periodFrom":"2026-01-01","version":1,"amount":100,"currency":"EUR"},
			{"number":"R-2","year":2026,"month":1,"periodFrom":"2026-01-01","version":2,"amount":105,"currency":"EUR"}
		],"total":2}`))
	}))
	t.Cleanup(server.Close)
	router := invoiceRouter(t, server.URL)

	rec := doGet(router, "/invoices?apikey=k&page=1&perpage=25")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []struct {
			Number   string `json:"number"`
			IsActive bool   `json:"isActive"`
		} `json:"data"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, "R-2", body.Data[0].Number)
	assert.True(t, body.Data[0].IsActive)
	assert.False(t, body.Data[1].IsActive)
}
