// Package repository provides circuit breaker wrappers for MongoDB operations.
package repository

import (
	"context"

	"github.com/basketly/price-service/internal/circuitbreaker"
	"github.com/basketly/price-service/internal/domain/model"
)

// PriceRepositoryWithCircuitBreaker wraps PriceRepository with circuit breaker protection.
// When the circuit is open the store is reported unavailable rather than
// letting callers hang on a dead backend.
type PriceRepositoryWithCircuitBreaker struct {
	repo           *PriceRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewPriceRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewPriceRepositoryWithCircuitBreaker(repo *PriceRepository, cb *circuitbreaker.CircuitBreaker) *PriceRepositoryWithCircuitBreaker {
	return &PriceRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// BranchesInCity lists branches in a city with circuit breaker protection.
func (r *PriceRepositoryWithCircuitBreaker) BranchesInCity(ctx context.Context, city string) ([]model.Branch, error) {
	var result []model.Branch
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.BranchesInCity(ctx, city)
		return cbErr
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil, model.ErrStoreUnavailable
	}
	return result, err
}

// SearchCity searches price records in a city with circuit breaker protection.
func (r *PriceRepositoryWithCircuitBreaker) SearchCity(ctx context.Context, city, query string, limit int64) ([]model.PriceRecord, error) {
	var result []model.PriceRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.SearchCity(ctx, city, query, limit)
		return cbErr
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil, model.ErrStoreUnavailable
	}
	return result, err
}

// SearchBranch resolves a cart line at a branch with circuit breaker protection.
func (r *PriceRepositoryWithCircuitBreaker) SearchBranch(ctx context.Context, branch model.Branch, line model.CartLine) ([]model.PriceRecord, error) {
	var result []model.PriceRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.SearchBranch(ctx, branch, line)
		return cbErr
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil, model.ErrStoreUnavailable
	}
	return result, err
}

// PricesByItemCode lists records sharing an item code with circuit breaker protection.
func (r *PriceRepositoryWithCircuitBreaker) PricesByItemCode(ctx context.Context, city, itemCode string) ([]model.PriceRecord, error) {
	var result []model.PriceRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.PricesByItemCode(ctx, city, itemCode)
		return cbErr
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil, model.ErrStoreUnavailable
	}
	return result, err
}

// Cities aggregates served cities with circuit breaker protection.
func (r *PriceRepositoryWithCircuitBreaker) Cities(ctx context.Context) ([]model.CityStores, error) {
	var result []model.CityStores
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Cities(ctx)
		return cbErr
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil, model.ErrStoreUnavailable
	}
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *PriceRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker wraps LogsRepository with circuit breaker protection.
type LogsRepositoryWithCircuitBreaker struct {
	repo           *LogsRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewLogsRepositoryWithCircuitBreaker(repo *LogsRepository, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single log entry with circuit breaker protection.
// If circuit is open, silently fails (logging is non-critical).
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil
	}
	return err
}

// CreateMany stores multiple log entries with circuit breaker protection.
// If circuit is open, silently fails (logging is non-critical).
func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil
	}
	return err
}

// Query retrieves log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	var result []*LogEntryDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Query(ctx, opts)
		return cbErr
	})
	return result, err
}

// Count returns the count of log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Count(ctx, opts)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
