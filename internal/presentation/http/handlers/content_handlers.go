package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KinoWerk/cinedash-go/internal/application/services"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/security"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/upstream"
)

// ContentHandlers serves promotional content: advertising rectangles
// fetched under a signed short-lived token, and blog banners.
type ContentHandlers struct {
	client             *upstream.Client
	siteService        *services.SiteService
	logger             *logging.ChanneledLogger
	perfTracker        *performance.Tracker
	contentTokenSecret string
	contentTokenTTL    time.Duration
}

func NewContentHandlers(client *upstream.Client, siteService *services.SiteService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker, contentTokenSecret string, contentTokenTTL time.Duration) *ContentHandlers {
	return &ContentHandlers{
		client:             client,
		siteService:        siteService,
		logger:             logger,
		perfTracker:        perfTracker,
		contentTokenSecret: contentTokenSecret,
		contentTokenTTL:    contentTokenTTL,
	}
}

// GetRectangles fetches advertising rectangles for the requested site. The
// call carries a freshly signed token scoped to that site; content failures
// degrade to an empty list.
func (h *ContentHandlers) GetRectangles(c *gin.Context) {
	marker := h.perfTracker.StartOperation("content_rectangles")
	defer func() {
		marker.Complete()
		h.perfTracker.Record(marker)
	}()

	siteID, ok := optionalSiteID(c)
	if !ok {
		return
	}
	if siteID == 0 {
		if selected := h.siteService.State().SelectedSiteID; selected != nil {
			siteID = *selected
		}
	}

	token, err := security.SignContentToken(h.contentTokenSecret, siteID, h.contentTokenTTL, time.Now())
	if err != nil {
		marker.SetError(err)
		h.logger.Proxy().Error("Content token signing failed", "error", err.Error())
		c.JSON(http.StatusOK, gin.H{"items": []json.RawMessage{}})
		return
	}

	items, err := h.client.Rectangles(c.Request.Context(), token, siteID)
	if err != nil {
		marker.SetError(err)
		h.logger.Proxy().Warn("Rectangle fetch degraded to empty result", "siteId", siteID, "error", err.Error())
		c.JSON(http.StatusOK, gin.H{"items": []json.RawMessage{}})
		return
	}
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetBanners fetches blog banners. The blog id defaults to the WordPress id
// of the selected site when not given explicitly.
func (h *ContentHandlers) GetBanners(c *gin.Context) {
	marker := h.perfTracker.StartOperation("content_banners")
	defer func() {
		marker.Complete()
		h.perfTracker.Record(marker)
	}()

	blogID := c.Query("blogid")
	if blogID == "" {
		blogID = h.siteService.State().WordpressID
	}
	if blogID == "" {
		c.JSON(http.StatusOK, gin.H{"items": []json.RawMessage{}})
		return
	}

	items, err := h.client.Banners(c.Request.Context(), blogID)
	if err != nil {
		marker.SetError(err)
		h.logger.Proxy().Warn("Banner fetch degraded to empty result", "blogId", blogID, "error", err.Error())
		c.JSON(http.StatusOK, gin.H{"items": []json.RawMessage{}})
		return
	}
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"items": items})
}
