package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/security"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/upstream"
	"github.com/KinoWerk/cinedash-go/pkg/config"
)

// OpsHandlers serves the operational surface: liveness, operator login and
// the runtime status report.
type OpsHandlers struct {
	client      *upstream.Client
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	jwtSecret   string
	startedAt   time.Time
}

func NewOpsHandlers(client *upstream.Client, logger *logging.ChanneledLogger, perfTracker *performance.Tracker, jwtSecret string, startedAt time.Time) *OpsHandlers {
	return &OpsHandlers{
		client:      client,
		logger:      logger,
		perfTracker: perfTracker,
		jwtSecret:   jwtSecret,
		startedAt:   startedAt,
	}
}

// Health answers liveness probes.
func (h *OpsHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	})
}

type opsLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login checks the operator password against the configured bcrypt hash and
// issues an ops token.
func (h *OpsHandlers) Login(c *gin.Context) {
	var req opsLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}
	if config.OpsPassword == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "operator access is not configured"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(config.OpsPassword), []byte(req.Password)); err != nil {
		h.logger.Auth().Warn("Operator login rejected", "remote", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}

	token, err := security.GenerateOpsToken(h.jwtSecret, config.SessionMaxAge)
	if err != nil {
		h.logger.Auth().Error("Operator token generation failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Status reports circuit breaker states and the performance snapshot.
func (h *OpsHandlers) Status(c *gin.Context) {
	snapshot := h.perfTracker.GetSnapshot()
	c.JSON(http.StatusOK, gin.H{
		"uptime":      time.Since(h.startedAt).String(),
		"breakers":    h.client.BreakerStates(),
		"performance": snapshot,
	})
}
