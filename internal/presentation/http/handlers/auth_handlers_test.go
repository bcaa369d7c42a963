package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KinoWerk/cinedash-go/internal/application/services"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/persistence/localstate"
	"github.com/KinoWerk/cinedash-go/internal/presentation/http/middleware"
)

func authRouter(t *testing.T, upstreamURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := newTestLogger(t)
	tracker := performance.NewTracker()
	client := newTestClient(t, logger, upstreamURL)

	store, err := localstate.New(t.TempDir(), logger)
	require.NoError(t, err)

	authService := services.NewAuthService(client, logger, tracker, "auth-test-secret", 24*time.Hour)
	sessionService := services.NewSessionService(store, logger, "")
	siteService := services.NewSiteService(client, store, logger, tracker)

	h := NewAuthHandlers(authService, sessionService, siteService, logger, tracker)

	r := gin.New()
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.GET("/status", h.Status)
	return r
}

func doPost(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func authUpstream(t *testing.T, identityBody string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/identity":
			w.Write([]byte(identityBody))
		case "/v1/sites":
			w.Write([]byte(`{"sites":[{"siteId":3,"name":"Kino Mitte"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLoginReturnsTokenAndPermissions(t *testing.T) {
	server := authUpstream(t, `[]`)
	router := authRouter(t, server.URL)

	rec := doPost(router, "/login", `{"username":"chef","apikey":"k"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"token"`)
	assert.Contains(t, body, `"username":"chef"`)
	assert.Contains(t, body, `"isAdmin":true`)
	assert.Contains(t, body, `"permissions"`)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestLoginRejectionRelaysUpstreamMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Ungültiger API-Schlüssel"}`, http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)
	router := authRouter(t, server.URL)

	rec := doPost(router, "/login", `{"username":"chef","apikey":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ungültiger API-Schlüssel")
}

func TestLoginRequiresCredentialFields(t *testing.T) {
	server := authUpstream(t, `[]`)
	router := authRouter(t, server.URL)

	rec := doPost(router, "/login", `{"username":"chef"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusReflectsIssuedToken(t *testing.T) {
	server := authUpstream(t, `[]`)
	router := authRouter(t, server.URL)

	rec := doPost(router, "/login", `{"username":"chef","apikey":"k"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	statusRec := doGet(router, "/status?token="+login.Token)
	assert.Equal(t, http.StatusOK, statusRec.Code)
	assert.Contains(t, statusRec.Body.String(), `"authenticated":true`)
	assert.Contains(t, statusRec.Body.String(), `"username":"chef"`)
}

func TestStatusWithoutTokenIsUnauthenticated(t *testing.T) {
	server := authUpstream(t, `[]`)
	router := authRouter(t, server.URL)

	rec := doGet(router, "/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
}

func TestLogoutClearsSessionCookie(t *testing.T) {
	server := authUpstream(t, `[]`)
	router := authRouter(t, server.URL)

	rec := doPost(router, "/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}
