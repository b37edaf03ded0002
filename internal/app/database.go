// Package app provides database initialization and setup.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/basketly/price-service/config"
	"github.com/basketly/price-service/internal/circuitbreaker"
	"github.com/basketly/price-service/internal/repository"
	"github.com/basketly/price-service/internal/service"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                   *repository.MongoDB
	PriceRepo            repository.PriceRepositoryInterface
	SavedCartRepo        repository.SavedCartRepositoryInterface
	LoggingService       service.LoggingService
	PricesCircuitBreaker *circuitbreaker.CircuitBreaker
	LogsCircuitBreaker   *circuitbreaker.CircuitBreaker
	UserRepo             repository.UserRepositoryInterface
	TokenRepo            repository.TokenRepositoryInterface
}

// InitializeDatabase initializes the MongoDB connection and creates the
// repositories and services that depend on it.
// Returns nil if the database is disabled or the connection fails.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Msg("Connected to MongoDB")

	// Set TTL for logs
	ttlDays := int(cfg.LogsTTL.Hours() / 24)
	if err := db.SetLogsTTL(context.Background(), ttlDays); err != nil {
		log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
	}

	// Initialize circuit breakers
	pricesCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "mongodb-prices",
	})

	logsCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "mongodb-logs",
	})

	// Initialize repositories
	logsRepo := repository.NewLogsRepository(db)
	logsRepoWithCB := repository.NewLogsRepositoryWithCircuitBreaker(logsRepo, logsCB)
	loggingService := service.NewLoggingService(logsRepoWithCB)

	priceRepo := repository.NewPriceRepository(db)
	priceRepoWithCB := repository.NewPriceRepositoryWithCircuitBreaker(priceRepo, pricesCB)

	savedCartRepo := repository.NewSavedCartRepository(db)

	// Initialize auth repositories
	userRepo := repository.NewUserRepository(db.Database)
	tokenRepo := repository.NewTokenRepository(db.Database)

	warnIfPriceFeedsEmpty(priceRepo)

	return &DatabaseComponents{
		DB:                   db,
		PriceRepo:            priceRepoWithCB,
		SavedCartRepo:        savedCartRepo,
		LoggingService:       loggingService,
		PricesCircuitBreaker: pricesCB,
		LogsCircuitBreaker:   logsCB,
		UserRepo:             userRepo,
		TokenRepo:            tokenRepo,
	}
}

// warnIfPriceFeedsEmpty logs a warning when no branches have been
// imported yet. The service still starts; every lookup will report an
// unknown city until the feed importer runs.
func warnIfPriceFeedsEmpty(repo repository.PriceRepositoryInterface) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cities, err := repo.Cities(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to check imported price feeds")
		return
	}
	if len(cities) == 0 {
		log.Warn().Msg("No branches imported yet - price lookups will return city_not_found")
		return
	}
	log.Info().Int("cities", len(cities)).Msg("Price feeds available")
}
