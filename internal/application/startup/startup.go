// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KinoWerk/cinedash-go/internal/application/container"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/persistence/localstate"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/upstream"
	"github.com/KinoWerk/cinedash-go/internal/presentation/http/server"
	"github.com/KinoWerk/cinedash-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	// Step 1: Channeled logging
	loggerConfig := logging.DefaultLoggerConfig()
	loggerConfig.LogDirectory = config.LogDir
	logger, err := logging.NewChanneledLogger(loggerConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized", "directory", config.LogDir)

	// Step 2: Performance tracking
	perfTracker := performance.NewTracker()

	// Step 3: Local state store
	log.Println("Opening local state store...")
	store, err := localstate.New(config.StateDir, logger)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	logger.Startup().Info("Local state store ready", "directory", config.StateDir)

	// Step 4: Upstream client with circuit breakers
	client := upstream.NewClient(upstream.Config{
		TicketingBase:      config.TicketingAPIBase,
		ReportsBase:        config.ReportsAPIBase,
		DisputesBase:       config.DisputesAPIBase,
		ContentBase:        config.ContentAPIBase,
		Timeout:            config.UpstreamTimeout,
		OrdersTimeout:      config.OrdersUpstreamTimeout,
		BreakerMaxFailures: uint32(config.BreakerMaxFailures),
		BreakerOpenTimeout: config.BreakerOpenTimeout,
	}, logger)
	logger.Startup().Info("Upstream client initialized",
		"ticketing", config.TicketingAPIBase,
		"reports", config.ReportsAPIBase)

	// Step 5: Dependency injection container
	log.Println("Initializing dependency injection container...")
	appContainer := container.NewContainer(logger, perfTracker, store, client)
	logger.Startup().Info("Container initialization complete, singleton services wired")

	// Step 6: Restore persisted state from the previous run
	appContainer.SessionService.Restore()
	appContainer.SiteService.Restore()
	logger.Startup().Info("Persisted state restored")

	// Step 7: HTTP server
	port := config.Port
	httpServer := server.New(port, appContainer)
	logger.Startup().Info("HTTP server initialized", "port", port)

	// Step 8: Graceful shutdown handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", port)

	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
