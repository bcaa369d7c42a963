package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/persistence/localstate"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/upstream"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(logging.QuietLoggerConfig())
	require.NoError(t, err)
	return logger
}

func newTestStore(t *testing.T, logger *logging.ChanneledLogger) *localstate.Store {
	t.Helper()
	store, err := localstate.New(t.TempDir(), logger)
	require.NoError(t, err)
	return store
}

func newTestClient(t *testing.T, logger *logging.ChanneledLogger, baseURL string) *upstream.Client {
	t.Helper()
	return upstream.NewClient(upstream.Config{
		TicketingBase: baseURL,
		ReportsBase:   baseURL,
		DisputesBase:  baseURL,
		ContentBase:   baseURL,
	}, logger)
}

func newTestTracker() *performance.Tracker {
	return performance.NewTracker()
}
