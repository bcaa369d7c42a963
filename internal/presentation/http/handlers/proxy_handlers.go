package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/requests"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/upstream"
)

// ProxyHandlers relays raw ticketing API calls: the identity check, the
// site list and a generic passthrough with keyed cancelation.
type ProxyHandlers struct {
	client      *upstream.Client
	scheduler   *requests.Scheduler
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

func NewProxyHandlers(client *upstream.Client, scheduler *requests.Scheduler, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ProxyHandlers {
	return &ProxyHandlers{client: client, scheduler: scheduler, logger: logger, perfTracker: perfTracker}
}

// GetIdentity relays a credential check against the ticketing identity
// endpoint, preserving the upstream status and body verbatim.
func (h *ProxyHandlers) GetIdentity(c *gin.Context) {
	marker := h.perfTracker.StartOperation("proxy_identity")
	defer func() {
		marker.Complete()
		h.perfTracker.Record(marker)
	}()

	username := c.Query("username")
	apiKey := c.Query("apikey")
	if username == "" || apiKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and apikey parameters are required"})
		return
	}

	status, body, err := h.client.Identity(c.Request.Context(), username, apiKey)
	if err != nil {
		marker.SetError(err)
		h.logger.Proxy().Error("Identity relay failed", "username", username, "error", err.Error())
		c.JSON(http.StatusBadGateway, gin.H{"error": "identity service unavailable"})
		return
	}
	marker.SetSuccess(true)
	c.Data(status, "application/json", body)
}

// GetSites relays the site list with the upstream status preserved. Site
// loads fail loud so callers can show a retry affordance instead of an
// empty selector.
func (h *ProxyHandlers) GetSites(c *gin.Context) {
	marker := h.perfTracker.StartOperation("proxy_sites")
	defer func() {
		marker.Complete()
		h.perfTracker.Record(marker)
	}()

	apiKey, ok := requireAPIKey(c)
	if !ok {
		return
	}

	query := url.Values{}
	query.Set("apikey", apiKey)

	status, body, err := h.client.Relay(c.Request.Context(), h.client.TicketingBase(), "/v1/sites", query)
	if err != nil {
		marker.SetError(err)
		h.logger.Proxy().Error("Site list relay failed", "error", err.Error())
		c.JSON(http.StatusBadGateway, gin.H{"error": "site list unavailable"})
		return
	}
	marker.SetSuccess(true)
	c.Data(status, "application/json", body)
}

// relayBases maps the base selector of the generic proxy to a configured
// upstream base URL.
func (h *ProxyHandlers) relayBase(name string) (string, bool) {
	switch name {
	case "ticketing":
		return h.client.TicketingBase(), true
	case "reports":
		return h.client.ReportsBase(), true
	case "disputes":
		return h.client.DisputesBase(), true
	default:
		return "", false
	}
}

type relayResult struct {
	status int
	body   []byte
	err    error
}

// GetGeneric relays an arbitrary GET to one of the configured upstreams.
// When the caller supplies a requestkey, a newer request under the same key
// cancels the one still in flight, so stale responses never overtake fresh
// ones.
func (h *ProxyHandlers) GetGeneric(c *gin.Context) {
	marker := h.perfTracker.StartOperation("proxy_generic")
	defer func() {
		marker.Complete()
		h.perfTracker.Record(marker)
	}()

	apiKey, ok := requireAPIKey(c)
	if !ok {
		return
	}
	base, ok := h.relayBase(c.Query("base"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "base must be one of ticketing, reports, disputes"})
		return
	}
	path := c.Query("path")
	if len(path) < 4 || path[:4] != "/v1/" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path must start with /v1/"})
		return
	}

	query := url.Values{}
	query.Set("apikey", apiKey)
	for name, values := range c.Request.URL.Query() {
		switch name {
		case "apikey", "base", "path", "requestkey":
			continue
		}
		for _, v := range values {
			query.Add(name, v)
		}
	}

	key := c.Query("requestkey")
	if key == "" {
		status, body, err := h.client.Relay(c.Request.Context(), base, path, query)
		h.writeRelay(c, marker, relayResult{status, body, err})
		return
	}

	resCh := make(chan relayResult, 1)
	h.scheduler.Submit(key, func(ctx context.Context) {
		status, body, err := h.client.Relay(ctx, base, path, query)
		resCh <- relayResult{status, body, err}
	})
	h.writeRelay(c, marker, <-resCh)
}

func (h *ProxyHandlers) writeRelay(c *gin.Context, marker *performance.Marker, res relayResult) {
	if res.err != nil {
		marker.SetError(res.err)
		if errors.Is(res.err, context.Canceled) {
			c.JSON(http.StatusConflict, gin.H{"error": "request superseded by a newer one"})
			return
		}
		h.logger.Proxy().Error("Generic relay failed", "error", res.err.Error())
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unavailable"})
		return
	}
	marker.SetSuccess(true)
	c.Data(res.status, "application/json", res.body)
}
