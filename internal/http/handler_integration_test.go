//go:build integration

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketly/price-service/internal/circuitbreaker"
	"github.com/basketly/price-service/internal/domain/dto"
	"github.com/basketly/price-service/internal/domain/model"
	"github.com/basketly/price-service/internal/repository"
	"github.com/basketly/price-service/internal/service"
)

func setupPriceIntegrationRouter(dbName string) (*gin.Engine, *repository.MongoDB) {
	gin.SetMode(gin.TestMode)

	uri := getSharedContainerURI()
	db, err := repository.NewMongoDB(uri, dbName)
	if err != nil {
		panic(err)
	}

	pricesRepo := repository.NewPriceRepository(db)
	pricesCB := circuitbreaker.New(circuitbreaker.DefaultConfig())
	pricesRepoWithCB := repository.NewPriceRepositoryWithCircuitBreaker(pricesRepo, pricesCB)

	logsRepo := repository.NewLogsRepository(db)
	logsCB := circuitbreaker.New(circuitbreaker.DefaultConfig())
	logsRepoWithCB := repository.NewLogsRepositoryWithCircuitBreaker(logsRepo, logsCB)
	loggingService := service.NewLoggingService(logsRepoWithCB)

	branchCache := service.NewShardedBranchCache(128, time.Minute, 4)
	normalizer := service.NewUnitNormalizerService()
	search := service.NewSearchBalancerService(pricesRepoWithCB, branchCache,
		service.NewCrossChainMatcherService(), normalizer,
		service.SearchBalancerConfig{ResultLimit: 50})
	cart := service.NewCartOptimizerService(pricesRepoWithCB, branchCache, normalizer,
		service.CartOptimizerConfig{MaxWorkers: 4, BranchTimeout: 5 * time.Second, TopBranches: 3})

	handler := NewHandler(search, cart)
	healthHandler := NewHealthHandler()

	cfg := RouterConfig{
		RateLimit:      100,
		RateWindow:     time.Minute,
		EnableAuth:     false,
		LoggingService: loggingService,
	}

	return NewRouter(handler, healthHandler, cfg), db
}

// seedPriceFeeds inserts two branches in Tel Aviv with overlapping products.
// Rami Levy carries the cheaper basket overall.
func seedPriceFeeds(ctx context.Context, t *testing.T, db *repository.MongoDB) {
	t.Helper()

	branches := []interface{}{
		model.Branch{Chain: "shufersal", BranchID: "001", City: "תל אביב", Name: "שופרסל דיל אלנבי"},
		model.Branch{Chain: "rami-levy", BranchID: "017", City: "תל אביב", Name: "רמי לוי השקמה"},
	}
	_, err := db.Branches.InsertMany(ctx, branches)
	require.NoError(t, err)

	now := time.Now()
	prices := []interface{}{
		model.PriceRecord{Chain: "shufersal", BranchID: "001", City: "תל אביב", ItemCode: "7290000066318", ItemName: "חלב תנובה 3% 1 ליטר", Price: 6.9, Timestamp: now},
		model.PriceRecord{Chain: "rami-levy", BranchID: "017", City: "תל אביב", ItemCode: "7290000066318", ItemName: "חלב תנובה 3% 1 ליטר", Price: 5.9, Timestamp: now},
		model.PriceRecord{Chain: "shufersal", BranchID: "001", City: "תל אביב", ItemCode: "7290002331094", ItemName: "לחם אחיד פרוס", Price: 5.5, Timestamp: now},
		model.PriceRecord{Chain: "rami-levy", BranchID: "017", City: "תל אביב", ItemCode: "7290002331094", ItemName: "לחם אחיד פרוס", Price: 6.0, Timestamp: now},
		// Cottage cheese is stocked only at Shufersal.
		model.PriceRecord{Chain: "shufersal", BranchID: "001", City: "תל אביב", ItemCode: "7290004127800", ItemName: "קוטג' תנובה 5% 250 גרם", Price: 4.9, Timestamp: now},
	}
	_, err = db.Prices.InsertMany(ctx, prices)
	require.NoError(t, err)
}

func TestIntegration_PriceSearch_WithMongoDB(t *testing.T) {
	ctx := context.Background()

	dbName := sanitizeDBNameForHTTP(t.Name())
	router, db := setupPriceIntegrationRouter(dbName)
	defer func() {
		_ = db.Close(ctx)
	}()

	seedPriceFeeds(ctx, t, db)

	t.Run("search merges records from both chains", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, searchURL("/api/prices/search", "חלב", "תל אביב"), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.SuccessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		dataBytes, _ := json.Marshal(resp.Data)
		var records []model.PriceRecord
		require.NoError(t, json.Unmarshal(dataBytes, &records))
		require.Len(t, records, 2)

		chains := map[string]bool{}
		for _, r := range records {
			chains[r.Chain] = true
		}
		assert.True(t, chains["shufersal"])
		assert.True(t, chains["rami-levy"])
	})

	t.Run("unknown city returns city_not_found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, searchURL("/api/prices/search", "חלב", "עיר-שאיננה"), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)

		var errResp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Equal(t, dto.ErrCodeCityNotFound, errResp.Error)
	})

	t.Run("grouped products flag cross-chain matches", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, searchURL("/api/prices/products", "חלב", "תל אביב"), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.SuccessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		dataBytes, _ := json.Marshal(resp.Data)
		var products []model.Product
		require.NoError(t, json.Unmarshal(dataBytes, &products))
		require.Len(t, products, 1)
		assert.True(t, products[0].CrossChain)
		require.NotNil(t, products[0].Comparison)
		assert.Equal(t, "rami-levy", products[0].Comparison.BestDeal.Chain)
	})

	t.Run("cities listing aggregates branches", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prices/cities", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.SuccessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		dataBytes, _ := json.Marshal(resp.Data)
		var cities []model.CityStores
		require.NoError(t, json.Unmarshal(dataBytes, &cities))
		require.Len(t, cities, 1)
		assert.Equal(t, "תל אביב", cities[0].City)
		assert.Equal(t, 2, cities[0].Branches)
		assert.Equal(t, 2, cities[0].Chains)
	})
}

func TestIntegration_CheapestCart_WithMongoDB(t *testing.T) {
	ctx := context.Background()

	dbName := sanitizeDBNameForHTTP(t.Name())
	router, db := setupPriceIntegrationRouter(dbName)
	defer func() {
		_ = db.Close(ctx)
	}()

	seedPriceFeeds(ctx, t, db)

	t.Run("picks the branch with the cheapest complete basket", func(t *testing.T) {
		body := []byte(`{"city": "תל אביב", "items": [{"item_name": "חלב", "quantity": 2}, {"item_name": "לחם", "quantity": 1}]}`)
		req := httptest.NewRequest(http.MethodPost, "/api/prices/cheapest-cart", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.SuccessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		dataBytes, _ := json.Marshal(resp.Data)
		var result model.CartResult
		require.NoError(t, json.Unmarshal(dataBytes, &result))

		// Rami Levy: 2*5.9 + 6.0 = 17.8, Shufersal: 2*6.9 + 5.5 = 19.3
		assert.Equal(t, "rami-levy", result.Chain)
		assert.Equal(t, "017", result.BranchID)
		assert.InDelta(t, 17.8, result.TotalPrice, 0.001)
		assert.InDelta(t, 19.3, result.WorstPrice, 0.001)
		assert.Equal(t, 2, result.BranchesCompared)
		require.Len(t, result.Lines, 2)
	})

	t.Run("partial availability excludes the incomplete branch", func(t *testing.T) {
		// Cottage cheese exists only at Shufersal, so it wins despite
		// Rami Levy's cheaper milk.
		body := []byte(`{"city": "תל אביב", "items": [{"item_name": "חלב", "quantity": 1}, {"item_name": "קוטג", "quantity": 1}]}`)
		req := httptest.NewRequest(http.MethodPost, "/api/prices/cheapest-cart", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.SuccessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		dataBytes, _ := json.Marshal(resp.Data)
		var result model.CartResult
		require.NoError(t, json.Unmarshal(dataBytes, &result))

		assert.Equal(t, "shufersal", result.Chain)
		assert.InDelta(t, 11.8, result.TotalPrice, 0.001)
	})

	t.Run("no branch carries the full basket", func(t *testing.T) {
		body := []byte(`{"city": "תל אביב", "items": [{"item_name": "אבוקדו", "quantity": 1}]}`)
		req := httptest.NewRequest(http.MethodPost, "/api/prices/cheapest-cart", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)

		var errResp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Equal(t, dto.ErrCodeNoCompleteMatch, errResp.Error)
		assert.Equal(t, "1", errResp.Details["required_items"])
	})

	t.Run("item code takes precedence over name", func(t *testing.T) {
		body := []byte(`{"city": "תל אביב", "items": [{"item_name": "מוצר כלשהו", "item_code": "7290000066318", "quantity": 1}]}`)
		req := httptest.NewRequest(http.MethodPost, "/api/prices/cheapest-cart", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.SuccessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		dataBytes, _ := json.Marshal(resp.Data)
		var result model.CartResult
		require.NoError(t, json.Unmarshal(dataBytes, &result))
		assert.Equal(t, "rami-levy", result.Chain)
		assert.InDelta(t, 5.9, result.TotalPrice, 0.001)
	})
}

func TestIntegration_RateLimiting(t *testing.T) {
	ctx := context.Background()

	dbName := sanitizeDBNameForHTTP(t.Name())
	_, db := setupPriceIntegrationRouter(dbName)
	defer func() {
		_ = db.Close(ctx)
	}()

	pricesRepo := repository.NewPriceRepository(db)
	normalizer := service.NewUnitNormalizerService()
	search := service.NewSearchBalancerService(pricesRepo, nil,
		service.NewCrossChainMatcherService(), normalizer,
		service.SearchBalancerConfig{ResultLimit: 50})
	cart := service.NewCartOptimizerService(pricesRepo, nil, normalizer,
		service.CartOptimizerConfig{MaxWorkers: 2, BranchTimeout: time.Second, TopBranches: 3})

	handler := NewHandler(search, cart)
	healthHandler := NewHealthHandler()

	cfg := RouterConfig{
		RateLimit:  5,
		RateWindow: time.Second,
	}

	router := NewRouter(handler, healthHandler, cfg)

	// Make requests up to rate limit
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/prices/cities", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "Request %d", i+1)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/prices/cities", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestIntegration_APIKeyAuth(t *testing.T) {
	ctx := context.Background()

	dbName := sanitizeDBNameForHTTP(t.Name())
	_, db := setupPriceIntegrationRouter(dbName)
	defer func() {
		_ = db.Close(ctx)
	}()

	pricesRepo := repository.NewPriceRepository(db)
	normalizer := service.NewUnitNormalizerService()
	search := service.NewSearchBalancerService(pricesRepo, nil,
		service.NewCrossChainMatcherService(), normalizer,
		service.SearchBalancerConfig{ResultLimit: 50})
	cart := service.NewCartOptimizerService(pricesRepo, nil, normalizer,
		service.CartOptimizerConfig{MaxWorkers: 2, BranchTimeout: time.Second, TopBranches: 3})

	handler := NewHandler(search, cart)
	healthHandler := NewHealthHandler()

	cfg := RouterConfig{
		RateLimit:  100,
		RateWindow: time.Minute,
		EnableAuth: true,
		APIKeys:    map[string]bool{"valid-key": true},
	}

	router := NewRouter(handler, healthHandler, cfg)

	t.Run("missing API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prices/cities", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prices/cities", nil)
		req.Header.Set("X-API-Key", "invalid-key")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid API key in header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prices/cities", nil)
		req.Header.Set("X-API-Key", "valid-key")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("valid API key in query param", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prices/cities?api_key=valid-key", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("health endpoints bypass auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestIntegration_RequestLogging(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dbName := sanitizeDBNameForHTTP(t.Name())
	router, db := setupPriceIntegrationRouter(dbName)
	defer func() {
		_ = db.Close(ctx)
	}()

	seedPriceFeeds(ctx, t, db)

	t.Run("request creates log entry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, searchURL("/api/prices/search", "חלב", "תל אביב"), nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		time.Sleep(100 * time.Millisecond)

		logsRepo := repository.NewLogsRepository(db)
		opts := repository.LogQueryOptions{
			Path: "/api/prices/search",
		}
		logs, err := logsRepo.Query(ctx, opts)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(logs), 1)
	})
}
