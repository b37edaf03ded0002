//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketly/price-service/internal/circuitbreaker"
	"github.com/basketly/price-service/internal/domain/model"
)

func TestPriceRepositoryWithCircuitBreaker_Search(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Use shared container with unique database name
	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()
	seedPriceData(t, ctx, db)

	repo := NewPriceRepository(db)
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	wrappedRepo := NewPriceRepositoryWithCircuitBreaker(repo, cb)

	records, err := wrappedRepo.SearchCity(ctx, "חיפה", "חלב", 10)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	branches, err := wrappedRepo.BranchesInCity(ctx, "חיפה")
	require.NoError(t, err)
	assert.Len(t, branches, 2)

	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
}

func TestPriceRepositoryWithCircuitBreaker_OpenCircuit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewPriceRepository(db)
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "test-prices",
	})
	wrappedRepo := NewPriceRepositoryWithCircuitBreaker(repo, cb)

	// Force the circuit open
	_ = cb.Execute(ctx, func() error { return assert.AnError })
	require.True(t, cb.IsOpen())

	// Open circuit surfaces as a transient store failure
	_, err := wrappedRepo.SearchCity(ctx, "חיפה", "חלב", 10)
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)

	_, err = wrappedRepo.BranchesInCity(ctx, "חיפה")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

func TestPriceRepositoryWithCircuitBreaker_GetCircuitBreaker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewPriceRepository(db)
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	wrappedRepo := NewPriceRepositoryWithCircuitBreaker(repo, cb)

	returnedCB := wrappedRepo.GetCircuitBreaker()
	assert.NotNil(t, returnedCB)
	assert.Equal(t, cb, returnedCB)

	stats := returnedCB.GetStats()
	assert.Equal(t, "closed", stats.State)
}

func TestLogsRepositoryWithCircuitBreaker_CreateMany(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Use shared container with unique database name
	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewLogsRepository(db)
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	wrappedRepo := NewLogsRepositoryWithCircuitBreaker(repo, cb)

	entries := []*LogEntryDocument{
		{
			Level:     "info",
			Message:   "Entry 1",
			RequestID: "req-1",
			Timestamp: time.Now(),
		},
		{
			Level:     "error",
			Message:   "Entry 2",
			RequestID: "req-2",
			Timestamp: time.Now(),
		},
	}

	err := wrappedRepo.CreateMany(ctx, entries)
	assert.NoError(t, err)
}

func TestLogsRepositoryWithCircuitBreaker_Query(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewLogsRepository(db)
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	wrappedRepo := NewLogsRepositoryWithCircuitBreaker(repo, cb)

	// Create test entries
	entry := &LogEntryDocument{
		Level:      "info",
		Message:    "Test query",
		RequestID:  "query-test-id",
		ActionType: "search",
		City:       "חיפה",
		Timestamp:  time.Now(),
	}
	_ = wrappedRepo.Create(ctx, entry)

	// Query via circuit breaker wrapper
	opts := LogQueryOptions{
		RequestID: "query-test-id",
	}
	entries, err := wrappedRepo.Query(ctx, opts)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 1)

	// City-scoped audit query
	entries, err = wrappedRepo.Query(ctx, LogQueryOptions{ActionType: "search", City: "חיפה"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 1)
}

func TestLogsRepositoryWithCircuitBreaker_Count(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewLogsRepository(db)
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	wrappedRepo := NewLogsRepositoryWithCircuitBreaker(repo, cb)

	// Create test entries
	_ = wrappedRepo.Create(ctx, &LogEntryDocument{
		Level:     "info",
		Message:   "Count test 1",
		Timestamp: time.Now(),
	})
	_ = wrappedRepo.Create(ctx, &LogEntryDocument{
		Level:     "error",
		Message:   "Count test 2",
		Timestamp: time.Now(),
	})

	// Count via circuit breaker wrapper
	count, err := wrappedRepo.Count(ctx, LogQueryOptions{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, int64(2))

	// Count with filter
	opts := LogQueryOptions{
		Level: "info",
	}
	countFiltered, err := wrappedRepo.Count(ctx, opts)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, countFiltered, int64(1))
}

func TestLogsRepositoryWithCircuitBreaker_GetCircuitBreaker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewLogsRepository(db)
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	wrappedRepo := NewLogsRepositoryWithCircuitBreaker(repo, cb)

	returnedCB := wrappedRepo.GetCircuitBreaker()
	assert.NotNil(t, returnedCB)
	assert.Equal(t, cb, returnedCB)

	stats := returnedCB.GetStats()
	assert.Equal(t, "closed", stats.State)
}
