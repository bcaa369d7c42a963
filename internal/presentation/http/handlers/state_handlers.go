package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KinoWerk/cinedash-go/internal/application/services"
	"github.com/KinoWerk/cinedash-go/internal/domain/daterange"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/presentation/http/middleware"
)

// StateHandlers manages the server-held UI state: the site selection and
// the active date range.
type StateHandlers struct {
	sessionService   *services.SessionService
	siteService      *services.SiteService
	dateRangeService *services.DateRangeService
	logger           *logging.ChanneledLogger
}

func NewStateHandlers(sessionService *services.SessionService, siteService *services.SiteService, dateRangeService *services.DateRangeService, logger *logging.ChanneledLogger) *StateHandlers {
	return &StateHandlers{
		sessionService:   sessionService,
		siteService:      siteService,
		dateRangeService: dateRangeService,
		logger:           logger,
	}
}

// GetSites returns the current site selection state including the version
// counter consumers use to detect a site change.
func (h *StateHandlers) GetSites(c *gin.Context) {
	state := h.siteService.State()
	c.JSON(http.StatusOK, state)
}

type selectSiteRequest struct {
	SiteID *int   `json:"siteId" binding:"required"`
	Name   string `json:"name"`
}

// SelectSite switches the active site. Selecting a site id different from
// the current one bumps the selection version.
func (h *StateHandlers) SelectSite(c *gin.Context) {
	var req selectSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "siteId is required"})
		return
	}
	h.siteService.SetSelectedSite(*req.SiteID, req.Name)
	c.JSON(http.StatusOK, h.siteService.State())
}

// LoadSites refreshes the site list from the ticketing API using the
// session credential.
func (h *StateHandlers) LoadSites(c *gin.Context) {
	session := h.sessionService.Current()
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}
	if claims, ok := middleware.GetSessionClaims(c); ok && claims.SessionID != session.ID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session token does not match the active session"})
		return
	}
	if err := h.siteService.LoadSites(c.Request.Context(), session.APIKey, session.Permissions.IsAdmin); err != nil {
		h.logger.State().Warn("Site load failed", "username", session.Username, "error", err.Error())
	}
	c.JSON(http.StatusOK, h.siteService.State())
}

// RetrySites repeats the most recent site load with its original credential.
func (h *StateHandlers) RetrySites(c *gin.Context) {
	if err := h.siteService.Retry(c.Request.Context()); err != nil {
		if errors.Is(err, services.ErrNoLoadAttempted) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.State().Warn("Site retry failed", "error", err.Error())
	}
	c.JSON(http.StatusOK, h.siteService.State())
}

// GetDateRange returns the active reporting window.
func (h *StateHandlers) GetDateRange(c *gin.Context) {
	c.JSON(http.StatusOK, h.dateRangeService.Current())
}

type dateRangeRequest struct {
	Preset string `json:"preset"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// SetDateRange applies either a named preset or an explicit custom window.
func (h *StateHandlers) SetDateRange(c *gin.Context) {
	var req dateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	preset := daterange.Preset(req.Preset)
	if preset != "" && preset != daterange.PresetCustom {
		if err := h.dateRangeService.SetPreset(preset); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, h.dateRangeService.Current())
		return
	}

	if req.From == "" || req.To == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required for a custom range"})
		return
	}
	from, err := parseISODate(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be an ISO date (YYYY-MM-DD)"})
		return
	}
	to, err := parseISODate(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be an ISO date (YYYY-MM-DD)"})
		return
	}
	h.dateRangeService.SetRange(from, to, daterange.PresetCustom)
	c.JSON(http.StatusOK, h.dateRangeService.Current())
}
