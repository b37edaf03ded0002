// Package app provides router configuration.
package app

import (
	"context"
	"time"

	"github.com/basketly/price-service/config"
	"github.com/basketly/price-service/internal/http"
	"github.com/basketly/price-service/internal/repository"
	"github.com/basketly/price-service/internal/service"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// mongoHealthChecker adapts the MongoDB ping to the health checker
// contract used by the readiness probe.
type mongoHealthChecker struct {
	db *repository.MongoDB
}

func (c *mongoHealthChecker) Check() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return c.db.HealthCheck(ctx)
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	services *ServiceComponents,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	var handler *http.Handler
	if services != nil {
		handler = http.NewHandler(services.Search, services.Cart)
	}

	healthHandler := http.NewHealthHandler()

	var loggingService service.LoggingService

	// Register database health and circuit breakers for the readiness probe
	if dbComponents != nil {
		loggingService = dbComponents.LoggingService

		if dbComponents.DB != nil {
			healthHandler.RegisterChecker("mongodb", &mongoHealthChecker{db: dbComponents.DB})
		}
		if dbComponents.PricesCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_prices", dbComponents.PricesCircuitBreaker)
		}
		if dbComponents.LogsCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_logs", dbComponents.LogsCircuitBreaker)
		}
	}

	// JWT authentication and saved carts need the user store
	var authService service.AuthService
	var savedCartService service.SavedCartService
	if cfg.Auth.Enabled && dbComponents != nil && dbComponents.UserRepo != nil {
		authService = service.NewAuthService(
			dbComponents.UserRepo,
			dbComponents.TokenRepo,
			cfg.Auth,
		)
		savedCartService = service.NewSavedCartService(dbComponents.SavedCartRepo)
	}

	routerCfg := http.RouterConfig{
		RateLimit:        cfg.Server.RateLimit,
		RateWindow:       cfg.Server.RateWindow,
		EnableAuth:       cfg.Auth.Enabled,
		APIKeys:          cfg.Auth.APIKeys,
		CORSOrigins:      cfg.Server.CORSOrigins,
		SwaggerUser:      cfg.Server.SwaggerUser,
		SwaggerPass:      cfg.Server.SwaggerPass,
		LoggingService:   loggingService,
		AuthService:      authService,
		SavedCartService: savedCartService,
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
