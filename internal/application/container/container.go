// Package container provides dependency injection for all singleton services
package container

import (
	"log"
	"time"

	"github.com/KinoWerk/cinedash-go/internal/application/services"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/persistence/localstate"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/requests"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/security"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/upstream"
	"github.com/KinoWerk/cinedash-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services (stateful state containers + stateless proxies)
	AuthService      *services.AuthService
	SessionService   *services.SessionService
	SiteService      *services.SiteService
	DateRangeService *services.DateRangeService
	DashboardService *services.DashboardService
	InvoiceService   *services.InvoiceService

	// Infrastructure
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
	StateStore  *localstate.Store
	Upstream    *upstream.Client
	Scheduler   *requests.Scheduler

	JWTSecret string
	StartedAt time.Time
}

// NewContainer creates and wires all singleton services
func NewContainer(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, store *localstate.Store, client *upstream.Client) *Container {
	jwtSecret := config.JWTSecret
	if jwtSecret == "" {
		generated, err := security.GenerateSecureKey(64)
		if err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		jwtSecret = generated
		logger.Startup().Warn("JWT_SECRET not configured, generated an ephemeral secret; sessions will not survive restarts")
	}

	return &Container{
		AuthService:      services.NewAuthService(client, logger, perfTracker, jwtSecret, config.SessionMaxAge),
		SessionService:   services.NewSessionService(store, logger, config.AESKey),
		SiteService:      services.NewSiteService(client, store, logger, perfTracker),
		DateRangeService: services.NewDateRangeService(logger),
		DashboardService: services.NewDashboardService(client, logger, perfTracker),
		InvoiceService:   services.NewInvoiceService(client, logger, perfTracker),

		Logger:      logger,
		PerfTracker: perfTracker,
		StateStore:  store,
		Upstream:    client,
		Scheduler:   requests.NewScheduler(),

		JWTSecret: jwtSecret,
		StartedAt: time.Now(),
	}
}
