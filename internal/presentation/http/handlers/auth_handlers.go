package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KinoWerk/cinedash-go/internal/application/services"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
	"github.com/KinoWerk/cinedash-go/internal/presentation/http/middleware"
	"github.com/KinoWerk/cinedash-go/pkg/config"
)

// AuthHandlers exposes login, logout and session status endpoints.
type AuthHandlers struct {
	authService    *services.AuthService
	sessionService *services.SessionService
	siteService    *services.SiteService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

func NewAuthHandlers(authService *services.AuthService, sessionService *services.SessionService, siteService *services.SiteService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService:    authService,
		sessionService: sessionService,
		siteService:    siteService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	APIKey   string `json:"apikey" binding:"required"`
}

// Login verifies credentials against the ticketing identity endpoint and,
// on success, establishes the session and triggers the initial site load.
func (h *AuthHandlers) Login(c *gin.Context) {
	marker := h.perfTracker.StartOperation("auth_login")
	defer func() {
		marker.Complete()
		h.perfTracker.Record(marker)
	}()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and apikey are required"})
		return
	}

	result := h.authService.Authenticate(c.Request.Context(), req.Username, req.APIKey)
	if !result.Success {
		marker.SetSuccess(false)
		h.logger.Auth().Warn("Login rejected", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
		return
	}

	h.sessionService.Set(result.Session)

	// Sites are loaded eagerly so the selector is ready on first paint.
	// A failed load is not a failed login.
	if err := h.siteService.LoadSites(c.Request.Context(), result.Session.APIKey, result.Session.Permissions.IsAdmin); err != nil {
		h.logger.State().Warn("Initial site load failed", "username", req.Username, "error", err.Error())
	}

	marker.SetSuccess(true)
	c.SetCookie(middleware.SessionCookieName, result.Token, int(config.SessionMaxAge.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token":       result.Token,
		"username":    result.Session.Username,
		"isAdmin":     result.Session.Permissions.IsAdmin,
		"permissions": result.Session.Permissions,
	})
}

// Logout clears the session and the persisted site selection.
func (h *AuthHandlers) Logout(c *gin.Context) {
	h.sessionService.Clear()
	h.siteService.Clear()
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Status reports whether the caller holds a valid session.
func (h *AuthHandlers) Status(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
			token = cookie
		}
	}
	info := h.authService.GetTokenInfo(token)
	if !info.Valid {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"username":      info.Username,
		"isAdmin":       info.IsAdmin,
	})
}
