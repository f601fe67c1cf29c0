package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/volpulse/config"
	"github.com/guttosm/volpulse/internal/api"
	"github.com/guttosm/volpulse/internal/birdeye"
	"github.com/guttosm/volpulse/internal/scheduler"
	"github.com/guttosm/volpulse/internal/service"
	"github.com/guttosm/volpulse/internal/storage"
)

// clientCtor is an indirection for creating the price source client;
// tests can override this.
var clientCtor = func(cfg config.Config) birdeye.Client {
	return birdeye.New(cfg.Birdeye.BaseURL, cfg.Birdeye.APIKey, cfg.Refresh.FetchTimeout)
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Creates the Birdeye price source client.
//   - Creates the in-memory volatility registry (process-lifetime state).
//   - Creates the query facade and the HTTP handler layer.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Starts the background refresh scheduler.
//   - Provides a cleanup function that stops the scheduler and waits for
//     any in-flight refresh pass.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// Price source client
	client := clientCtor(cfg)

	// In-memory registry; its lifetime is the server's lifetime
	registry := storage.NewRegistry()

	// Query facade (business logic)
	svc := service.NewVolatilityService(registry, client, cfg.Refresh.WindowDays, cfg.Refresh.FetchTimeout)

	// HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc)

	// Setup Gin router with routes
	router := api.NewRouter(handler)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(nil)
	healthHandler.Register(router)

	// Background refresh loop
	sched := scheduler.New(registry, client, scheduler.Options{
		Interval:     cfg.Refresh.Interval,
		WindowDays:   cfg.Refresh.WindowDays,
		FetchTimeout: cfg.Refresh.FetchTimeout,
		MaxParallel:  cfg.Refresh.MaxParallel,
	})
	if err := sched.Start(); err != nil {
		return nil, nil, fmt.Errorf("failed to start refresh scheduler: %w", err)
	}

	// Cleanup resources on shutdown; waits for an in-flight tick to finish
	cleanup := func() {
		<-sched.Stop().Done()
	}

	return router, cleanup, nil
}
