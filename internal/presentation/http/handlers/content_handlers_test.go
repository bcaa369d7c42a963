package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
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
)

func contentRouter(t *testing.T, upstreamURL, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := newTestLogger(t)
	client := newTestClient(t, logger, upstreamURL)
	tracker := performance.NewTracker()

	store, err := localstate.New(t.TempDir(), logger)
	require.NoError(t, err)
	siteService := services.NewSiteService(client, store, logger, tracker)

	h := NewContentHandlers(client, siteService, logger, tracker, secret, time.Hour)

	r := gin.New()
	r.GET("/rectangles", h.GetRectangles)
	r.GET("/banners", h.GetBanners)
	return r
}

func TestRectanglesCarrySignedBearerToken(t *testing.T) {
	var gotAuth, gotSiteID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/rectangles", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotSiteID = r.URL.Query().Get("siteId")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"rect-1"}]}`))
	}))
	t.Cleanup(server.Close)
	router := contentRouter(t, server.URL, "sekrit")

	rec := doGet(router, "/rectangles?siteid=7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[{"id":"rect-1"}]}`, rec.Body.String())
	assert.Equal(t, "7", gotSiteID)

	require.True(t, strings.HasPrefix(gotAuth, "Bearer "))
	parts := strings.Split(strings.TrimPrefix(gotAuth, "Bearer "), ".")
	require.Len(t, parts, 2)

	mac := hmac.New(sha256.New, []byte("sekrit"))
	mac.Write([]byte(parts[0]))
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), parts[1])
}

func TestRectanglesDegradeWhenUpstreamDown(t *testing.T) {
	server := failingUpstream(t)
	router := contentRouter(t, server.URL, "sekrit")

	rec := doGet(router, "/rectangles?siteid=7")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestRectanglesDegradeWithoutSecret(t *testing.T) {
	server := failingUpstream(t)
	router := contentRouter(t, server.URL, "")

	rec := doGet(router, "/rectangles?siteid=7")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestBannersWithoutBlogIDAnswerEmpty(t *testing.T) {
	server := failingUpstream(t)
	router := contentRouter(t, server.URL, "sekrit")

	rec := doGet(router, "/banners")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestBannersRelayedForBlogID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/banners", r.URL.Path)
		assert.Equal(t, "12", r.URL.Query().Get("blogId"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"banner-1"}]}`))
	}))
	t.Cleanup(server.Close)
	router := contentRouter(t, server.URL, "sekrit")

	rec := doGet(router, "/banners?blogid=12")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[{"id":"banner-1"}]}`, rec.Body.String())
}
