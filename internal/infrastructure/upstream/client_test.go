package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(logging.QuietLoggerConfig())
	require.NoError(t, err)
	return logger
}

func TestDecodeItemsAcceptsEnvelopeAndBareArray(t *testing.T) {
	items, err := decodeItems([]byte(`{"items":[{"a":1},{"a":2}]}`), "items")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = decodeItems([]byte(`[{"a":1}]`), "items")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDecodeItemsFailsClosedOnOtherShapes(t *testing.T) {
	for _, body := range []string{
		`{"other":[{"a":1}]}`,
		`{"items":"nope"}`,
		`"scalar"`,
		`{broken`,
	} {
		_, err := decodeItems([]byte(body), "items")
		assert.Error(t, err, body)

		var malformed *MalformedPayloadError
		assert.ErrorAs(t, err, &malformed, body)
	}
}

func TestGetOKTreatsNon2xxAsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"teapot"}`, http.StatusTeapot)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{TicketingBase: server.URL}, newTestLogger(t))

	_, err := client.Events(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestBreakerOpensAfterConsecutiveTransportFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // every call is now a connection failure

	client := NewClient(Config{
		TicketingBase:      server.URL,
		Timeout:            time.Second,
		BreakerMaxFailures: 2,
		BreakerOpenTimeout: time.Minute,
	}, newTestLogger(t))

	for i := 0; i < 2; i++ {
		_, err := client.Events(context.Background(), "k", 0)
		require.ErrorIs(t, err, ErrUnavailable)
	}

	_, err := client.Events(context.Background(), "k", 0)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "circuit open")

	states := client.BreakerStates()
	assert.Equal(t, "open", states[server.URL])
}

func TestCanceledCallKeepsCancellationInspectable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{TicketingBase: server.URL}, newTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Events(ctx, "k", 0)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBreakerIgnoresCallerCancellations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{
		TicketingBase:      server.URL,
		BreakerMaxFailures: 2,
		BreakerOpenTimeout: time.Minute,
	}, newTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		_, err := client.Events(ctx, "k", 0)
		require.ErrorIs(t, err, context.Canceled)
	}

	states := client.BreakerStates()
	assert.Equal(t, "closed", states[server.URL])

	_, err := client.Events(context.Background(), "k", 0)
	assert.NoError(t, err)
}

func TestIdentityRelaysStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.URL.Query().Get("apikey"))
		assert.Equal(t, "chef", r.URL.Query().Get("username"))
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"nope"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{TicketingBase: server.URL}, newTestLogger(t))

	status, body, err := client.Identity(context.Background(), "chef", "k")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"message":"nope"}`, string(body))
}

func TestOrdersBoundedByOrdersTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"orders":[]}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{
		ReportsBase:   server.URL,
		OrdersTimeout: 20 * time.Millisecond,
	}, newTestLogger(t))

	start := time.Now()
	_, err := client.Orders(context.Background(), "k", 0, "2026-03-01", "2026-03-02")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
	assert.True(t, strings.Contains(err.Error(), "deadline") || strings.Contains(err.Error(), "canceled"))
}
