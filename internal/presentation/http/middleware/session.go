package middleware

import (
	"net/http"
	"strings"

	"github.com/KinoWerk/cinedash-go/internal/infrastructure/security"
	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the dashboard session token.
const SessionCookieName = "cinedash_session"

const sessionContextKey = "sessionClaims"

// SessionClaims is the decoded dashboard session token.
type SessionClaims struct {
	Username  string
	IsAdmin   bool
	SessionID string
}

// SessionAuthMiddleware gates the state-mutating endpoints behind a valid
// dashboard session token, accepted as a bearer header or a cookie.
func SessionAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				token = cookie
			}
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		claims, err := security.ValidateJWT(token, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			c.Abort()
			return
		}
		if t, _ := claims["type"].(string); t != "dashboard_session" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			c.Abort()
			return
		}

		session := &SessionClaims{}
		session.Username, _ = claims["sub"].(string)
		session.IsAdmin, _ = claims["isAdmin"].(bool)
		session.SessionID, _ = claims["sessionId"].(string)

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// GetSessionClaims retrieves the decoded session from the gin context.
func GetSessionClaims(c *gin.Context) (*SessionClaims, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*SessionClaims)
	return claims, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return header[len("Bearer "):]
	}
	return ""
}

// OpsAuthMiddleware gates the operator surface behind an ops token.
func OpsAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		claims, err := security.ValidateJWT(token, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		if t, _ := claims["type"].(string); t != "ops" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
