// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KinoWerk/cinedash-go/internal/application/container"
	"github.com/KinoWerk/cinedash-go/internal/presentation/http/handlers"
	"github.com/KinoWerk/cinedash-go/internal/presentation/http/middleware"
	"github.com/KinoWerk/cinedash-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.SessionService, container.SiteService, container.Logger, container.PerfTracker)
	stateHandlers := handlers.NewStateHandlers(container.SessionService, container.SiteService, container.DateRangeService, container.Logger)
	proxyHandlers := handlers.NewProxyHandlers(container.Upstream, container.Scheduler, container.Logger, container.PerfTracker)
	reportHandlers := handlers.NewReportHandlers(container.Upstream, container.Logger, container.PerfTracker)
	dashboardHandlers := handlers.NewDashboardHandlers(container.DashboardService, container.Logger, container.PerfTracker)
	invoiceHandlers := handlers.NewInvoiceHandlers(container.InvoiceService, container.Logger, container.PerfTracker)
	contentHandlers := handlers.NewContentHandlers(container.Upstream, container.SiteService, container.Logger, container.PerfTracker, config.ContentTokenSecret, config.ContentTokenTTL)
	opsHandlers := handlers.NewOpsHandlers(container.Upstream, container.Logger, container.PerfTracker, container.JWTSecret, container.StartedAt)

	// Operational surface
	r.GET("/api/health", opsHandlers.Health)
	ops := r.Group("/api/ops")
	{
		ops.POST("/login", opsHandlers.Login)
		ops.GET("/status", middleware.OpsAuthMiddleware(container.JWTSecret), opsHandlers.Status)
	}

	api := r.Group("/api/v1")

	// Authentication
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandlers.Login)
		auth.POST("/logout", authHandlers.Logout)
		auth.GET("/status", authHandlers.Status)
	}

	// Server-held UI state, session required
	state := api.Group("/state")
	state.Use(middleware.SessionAuthMiddleware(container.JWTSecret))
	{
		state.GET("/sites", stateHandlers.GetSites)
		state.POST("/sites/select", stateHandlers.SelectSite)
		state.POST("/sites/load", stateHandlers.LoadSites)
		state.POST("/sites/retry", stateHandlers.RetrySites)
		state.GET("/daterange", stateHandlers.GetDateRange)
		state.POST("/daterange", stateHandlers.SetDateRange)
	}

	// Ticketing API relays, credential carried per request
	proxy := api.Group("/proxy")
	{
		proxy.GET("/identity", proxyHandlers.GetIdentity)
		proxy.GET("/sites", proxyHandlers.GetSites)
		proxy.GET("/generic", proxyHandlers.GetGeneric)

		proxy.GET("/events", reportHandlers.GetEvents)
		proxy.GET("/orders", reportHandlers.GetOrders)
		proxy.GET("/gross", reportHandlers.GetGross)
		proxy.GET("/top-events", reportHandlers.GetTopEvents)
		proxy.GET("/disputes", reportHandlers.GetDisputes)
		proxy.GET("/disputes/detail", reportHandlers.GetDisputeDetail)

		proxy.GET("/dashboard", dashboardHandlers.GetDashboard)
		proxy.GET("/invoices", invoiceHandlers.GetInvoices)
	}

	// Promotional content
	content := api.Group("/content")
	{
		content.GET("/rectangles", contentHandlers.GetRectangles)
		content.GET("/banners", contentHandlers.GetBanners)
	}

	return r
}
