// Package services provides application-level orchestration services
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/KinoWerk/cinedash-go/internal/domain/user"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/security"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/upstream"
)

// AuthService handles authentication against the upstream ticketing API and
// issues the dashboard's own session tokens.
type AuthService struct {
	client        *upstream.Client
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
	jwtSecret     string
	sessionMaxAge time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(client *upstream.Client, logger *logging.ChanneledLogger, perfTracker *performance.Tracker, jwtSecret string, sessionMaxAge time.Duration) *AuthService {
	return &AuthService{
		client:        client,
		logger:        logger,
		perfTracker:   perfTracker,
		jwtSecret:     jwtSecret,
		sessionMaxAge: sessionMaxAge,
	}
}

// AuthResult holds authentication result data
type AuthResult struct {
	Session *user.Session `json:"session,omitempty"`
	Token   string        `json:"token,omitempty"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
}

// Authenticate validates the credentials against the upstream identity
// endpoint, normalizes the returned permissions and constructs the session.
// Upstream failures propagate to the caller: a login failure must be visible
// to the user, it is never swallowed into an empty result.
func (a *AuthService) Authenticate(ctx context.Context, username, apiKey string) *AuthResult {
	start := time.Now()
	marker := a.perfTracker.StartOperation("auth:login")
	defer func() {
		marker.Complete()
		a.perfTracker.Record(marker)
	}()

	status, body, err := a.client.Identity(ctx, username, apiKey)
	if err != nil {
		a.logger.Auth().Warn("Identity call failed", "username", username, "error", err.Error(), "duration", time.Since(start))
		marker.SetError(err)
		return &AuthResult{Success: false, Error: fmt.Sprintf("login failed: %v", err)}
	}

	if status < 200 || status >= 300 {
		msg := upstreamMessage(body)
		if msg == "" {
			msg = "login failed"
		}
		a.logger.Auth().Warn("Identity call rejected", "username", username, "status", status, "duration", time.Since(start))
		marker.SetSuccess(false)
		return &AuthResult{Success: false, Error: msg}
	}

	permissions := user.NormalizePermissions(body)
	session := &user.Session{
		ID:          security.GenerateULID(),
		Username:    username,
		APIKey:      apiKey,
		Permissions: permissions,
		CreatedAt:   time.Now().UTC(),
	}

	token, err := security.GenerateSessionToken(session.ID, username, permissions.IsAdmin, a.jwtSecret, a.sessionMaxAge)
	if err != nil {
		a.logger.Auth().Error("Session token signing failed", "username", username, "error", err.Error())
		marker.SetError(err)
		return &AuthResult{Success: false, Error: "login failed"}
	}

	a.logger.Auth().Info("Login successful", "username", username, "isAdmin", permissions.IsAdmin,
		"grants", len(permissions.Grants), "duration", time.Since(start))
	marker.SetSuccess(true)

	return &AuthResult{Session: session, Token: token, Success: true}
}

// TokenInfo holds the decoded state of a session token.
type TokenInfo struct {
	Valid     bool   `json:"valid"`
	Username  string `json:"username,omitempty"`
	IsAdmin   bool   `json:"isAdmin,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// GetTokenInfo validates a dashboard session token.
func (a *AuthService) GetTokenInfo(token string) *TokenInfo {
	claims, err := security.ValidateJWT(token, a.jwtSecret)
	if err != nil {
		return &TokenInfo{Valid: false}
	}
	if t, _ := claims["type"].(string); t != "dashboard_session" {
		return &TokenInfo{Valid: false}
	}

	info := &TokenInfo{Valid: true}
	info.Username, _ = claims["sub"].(string)
	info.IsAdmin, _ = claims["isAdmin"].(bool)
	info.SessionID, _ = claims["sessionId"].(string)
	return info
}

// upstreamMessage extracts the human-readable message from an upstream error
// body, when present.
func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
