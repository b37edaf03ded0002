package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/basketly/price-service/internal/domain/model"
	"github.com/basketly/price-service/internal/mocks"
)

func newSearchService(prices *mocks.MockPriceRepositoryInterface, limit int) *SearchBalancerService {
	return NewSearchBalancerService(
		prices,
		nil,
		NewCrossChainMatcherService(),
		NewUnitNormalizerService(),
		SearchBalancerConfig{ResultLimit: limit},
	)
}

func haifaBranchList() []model.Branch {
	return []model.Branch{
		{Chain: "rami_levy", BranchID: "101", City: "חיפה"},
		{Chain: "shufersal", BranchID: "001", City: "חיפה"},
	}
}

func TestSearchBalancerService_Search(t *testing.T) {
	t.Run("balances records across chains", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 100)

		// Chain A dominates the raw cheapest-first list; chain B has
		// only two hits.
		var records []model.PriceRecord
		for i := 0; i < 10; i++ {
			records = append(records, model.PriceRecord{
				Chain: "chainA", BranchID: fmt.Sprintf("%03d", i), ItemName: "חלב", Price: 5.0 + float64(i),
			})
		}
		records = append(records,
			model.PriceRecord{Chain: "chainB", BranchID: "101", ItemName: "חלב", Price: 20},
			model.PriceRecord{Chain: "chainB", BranchID: "102", ItemName: "חלב", Price: 21},
		)

		prices.On("BranchesInCity", mock.Anything, "חיפה").Return(haifaBranchList(), nil)
		prices.On("SearchCity", mock.Anything, "חיפה", "חלב", int64(0)).Return(records, nil)

		got, err := service.Search(context.Background(), "חלב", "חיפה")

		require.NoError(t, err)
		assert.Len(t, got, 12)

		sawChainB := false
		for _, record := range got[:4] {
			if record.Chain == "chainB" {
				sawChainB = true
			}
		}
		assert.True(t, sawChainB, "round-robin merge must surface the minority chain early")
		prices.AssertExpectations(t)
	})

	t.Run("caps at the configured result limit", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 3)

		records := []model.PriceRecord{
			{Chain: "chainA", BranchID: "001", ItemName: "חלב", Price: 5},
			{Chain: "chainA", BranchID: "002", ItemName: "חלב", Price: 6},
			{Chain: "chainB", BranchID: "101", ItemName: "חלב", Price: 7},
			{Chain: "chainB", BranchID: "102", ItemName: "חלב", Price: 8},
		}

		prices.On("BranchesInCity", mock.Anything, "חיפה").Return(haifaBranchList(), nil)
		prices.On("SearchCity", mock.Anything, "חיפה", "חלב", int64(0)).Return(records, nil)

		got, err := service.Search(context.Background(), "חלב", "חיפה")

		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("preserves cheapest-first order within a chain", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 100)

		records := []model.PriceRecord{
			{Chain: "chainA", BranchID: "001", ItemName: "חלב", Price: 5},
			{Chain: "chainA", BranchID: "002", ItemName: "חלב", Price: 9},
		}

		prices.On("BranchesInCity", mock.Anything, "חיפה").Return(haifaBranchList(), nil)
		prices.On("SearchCity", mock.Anything, "חיפה", "חלב", int64(0)).Return(records, nil)

		got, err := service.Search(context.Background(), "חלב", "חיפה")

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 5.0, got[0].Price)
		assert.Equal(t, 9.0, got[1].Price)
	})

	t.Run("empty term is invalid input", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 100)

		_, err := service.Search(context.Background(), "", "חיפה")

		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("empty city is invalid input", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 100)

		_, err := service.Search(context.Background(), "חלב", "")

		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("unknown city", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 100)

		prices.On("BranchesInCity", mock.Anything, "עיר לא קיימת").Return([]model.Branch{}, nil)

		_, err := service.Search(context.Background(), "חלב", "עיר לא קיימת")

		assert.ErrorIs(t, err, model.ErrCityNotFound)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 100)

		prices.On("BranchesInCity", mock.Anything, "חיפה").Return(nil, model.ErrStoreUnavailable)

		_, err := service.Search(context.Background(), "חלב", "חיפה")

		assert.ErrorIs(t, err, model.ErrStoreUnavailable)
	})

	t.Run("no matches yields empty list", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 100)

		prices.On("BranchesInCity", mock.Anything, "חיפה").Return(haifaBranchList(), nil)
		prices.On("SearchCity", mock.Anything, "חיפה", "מוצר נדיר", int64(0)).Return([]model.PriceRecord{}, nil)

		got, err := service.Search(context.Background(), "מוצר נדיר", "חיפה")

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSearchBalancerService_Search_UsesBranchCache(t *testing.T) {
	prices := new(mocks.MockPriceRepositoryInterface)
	branchCache := NewShardedBranchCache(10, time.Minute, 4)
	defer branchCache.Stop()

	service := NewSearchBalancerService(
		prices,
		branchCache,
		NewCrossChainMatcherService(),
		NewUnitNormalizerService(),
		SearchBalancerConfig{ResultLimit: 100},
	)

	records := []model.PriceRecord{{Chain: "shufersal", BranchID: "001", ItemName: "חלב", Price: 6.9}}

	prices.On("BranchesInCity", mock.Anything, "חיפה").Return(haifaBranchList(), nil).Once()
	prices.On("SearchCity", mock.Anything, "חיפה", "חלב", int64(0)).Return(records, nil)

	_, err := service.Search(context.Background(), "חלב", "חיפה")
	require.NoError(t, err)

	// Second search must be served from the branch cache
	_, err = service.Search(context.Background(), "חלב", "חיפה")
	require.NoError(t, err)

	prices.AssertNumberOfCalls(t, "BranchesInCity", 1)
}

func TestSearchBalancerService_GroupByItemCode(t *testing.T) {
	service := newSearchService(new(mocks.MockPriceRepositoryInterface), 100)

	t.Run("groups shared codes and attaches comparisons", func(t *testing.T) {
		records := []model.PriceRecord{
			{Chain: "shufersal", BranchID: "001", ItemCode: "7290000000001", ItemName: "חלב תנובה 1 ליטר", Price: 6.9},
			{Chain: "rami_levy", BranchID: "101", ItemCode: "7290000000001", ItemName: "חלב תנובה 1 ליטר", Price: 5.9},
		}

		products := service.GroupByItemCode(records)

		require.Len(t, products, 1)
		product := products[0]
		assert.True(t, product.CrossChain)
		require.NotNil(t, product.Comparison)
		assert.Equal(t, "rami_levy", product.Comparison.BestDeal.Chain)
		assert.InDelta(t, 1.0, product.Comparison.Savings, 0.0001)

		require.NotNil(t, product.UnitPrice)
		assert.Equal(t, "ml", product.UnitPrice.Unit)
		assert.InDelta(t, 5.9/1000, product.UnitPrice.PricePerUnit, 0.0001)
	})

	t.Run("records without a code stay standalone", func(t *testing.T) {
		records := []model.PriceRecord{
			{Chain: "shufersal", BranchID: "001", ItemName: "לחם אחיד", Price: 8.5},
			{Chain: "rami_levy", BranchID: "101", ItemName: "לחם אחיד", Price: 7.9},
		}

		products := service.GroupByItemCode(records)

		require.Len(t, products, 2)
		for _, product := range products {
			assert.False(t, product.CrossChain)
			assert.Nil(t, product.Comparison)
		}
	})

	t.Run("single chain code gets no comparison", func(t *testing.T) {
		records := []model.PriceRecord{
			{Chain: "shufersal", BranchID: "001", ItemCode: "7290000000002", ItemName: "קוטג' 250 גרם", Price: 5.5},
			{Chain: "shufersal", BranchID: "002", ItemCode: "7290000000002", ItemName: "קוטג' 250 גרם", Price: 5.9},
		}

		products := service.GroupByItemCode(records)

		require.Len(t, products, 1)
		assert.False(t, products[0].CrossChain)
		assert.Len(t, products[0].Prices, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, service.GroupByItemCode(nil))
	})
}

func TestSearchBalancerService_IdenticalProducts(t *testing.T) {
	t.Run("keeps cross-chain products sorted by savings", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 100)

		records := []model.PriceRecord{
			// Small gap
			{Chain: "shufersal", BranchID: "001", ItemCode: "7290000000001", ItemName: "חלב תנובה 1 ליטר", Price: 6.9},
			{Chain: "rami_levy", BranchID: "101", ItemCode: "7290000000001", ItemName: "חלב תנובה 1 ליטר", Price: 5.9},
			// Large gap
			{Chain: "shufersal", BranchID: "001", ItemCode: "7290000000003", ItemName: "קפה נמס 200 גרם", Price: 30},
			{Chain: "rami_levy", BranchID: "101", ItemCode: "7290000000003", ItemName: "קפה נמס 200 גרם", Price: 22},
			// Single chain, must be dropped
			{Chain: "shufersal", BranchID: "001", ItemCode: "7290000000002", ItemName: "קוטג' 250 גרם", Price: 5.5},
		}

		prices.On("BranchesInCity", mock.Anything, "חיפה").Return(haifaBranchList(), nil)
		prices.On("SearchCity", mock.Anything, "חיפה", "מוצר", int64(0)).Return(records, nil)

		products, err := service.IdenticalProducts(context.Background(), "מוצר", "חיפה", 0)

		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "7290000000003", products[0].ItemCode)
		assert.Equal(t, "7290000000001", products[1].ItemCode)
		for _, product := range products {
			assert.True(t, product.CrossChain)
			assert.True(t, product.Comparison.IdenticalProduct)
		}
	})

	t.Run("applies the caller limit", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 100)

		records := []model.PriceRecord{
			{Chain: "shufersal", BranchID: "001", ItemCode: "7290000000001", ItemName: "חלב", Price: 6.9},
			{Chain: "rami_levy", BranchID: "101", ItemCode: "7290000000001", ItemName: "חלב", Price: 5.9},
			{Chain: "shufersal", BranchID: "001", ItemCode: "7290000000003", ItemName: "קפה", Price: 30},
			{Chain: "rami_levy", BranchID: "101", ItemCode: "7290000000003", ItemName: "קפה", Price: 22},
		}

		prices.On("BranchesInCity", mock.Anything, "חיפה").Return(haifaBranchList(), nil)
		prices.On("SearchCity", mock.Anything, "חיפה", "מוצר", int64(0)).Return(records, nil)

		products, err := service.IdenticalProducts(context.Background(), "מוצר", "חיפה", 1)

		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "7290000000003", products[0].ItemCode)
	})

	t.Run("propagates search errors", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 100)

		prices.On("BranchesInCity", mock.Anything, "חיפה").Return(nil, errors.New("connection reset"))

		_, err := service.IdenticalProducts(context.Background(), "מוצר", "חיפה", 0)

		assert.Error(t, err)
	})
}

func TestSearchBalancerService_ProductByCode(t *testing.T) {
	t.Run("returns the product with a cross-chain comparison", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 100)

		records := []model.PriceRecord{
			{Chain: "rami_levy", BranchID: "101", ItemCode: "7290000066318", ItemName: "חלב תנובה 1 ליטר", Price: 5.9},
			{Chain: "shufersal", BranchID: "001", ItemCode: "7290000066318", ItemName: "חלב תנובה 1 ליטר", Price: 6.9},
		}

		prices.On("BranchesInCity", mock.Anything, "חיפה").Return(haifaBranchList(), nil)
		prices.On("PricesByItemCode", mock.Anything, "חיפה", "7290000066318").Return(records, nil)

		product, err := service.ProductByCode(context.Background(), "חיפה", "7290000066318")

		require.NoError(t, err)
		assert.Equal(t, "7290000066318", product.ItemCode)
		assert.True(t, product.CrossChain)
		require.NotNil(t, product.Comparison)
		assert.Equal(t, "rami_levy", product.Comparison.BestDeal.Chain)
		require.NotNil(t, product.UnitPrice)
		prices.AssertExpectations(t)
	})

	t.Run("unknown code", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 100)

		prices.On("BranchesInCity", mock.Anything, "חיפה").Return(haifaBranchList(), nil)
		prices.On("PricesByItemCode", mock.Anything, "חיפה", "0000000000000").
			Return([]model.PriceRecord{}, nil)

		_, err := service.ProductByCode(context.Background(), "חיפה", "0000000000000")

		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})

	t.Run("unknown city", func(t *testing.T) {
		prices := new(mocks.MockPriceRepositoryInterface)
		service := newSearchService(prices, 100)

		prices.On("BranchesInCity", mock.Anything, "עיר לא קיימת").Return([]model.Branch{}, nil)

		_, err := service.ProductByCode(context.Background(), "עיר לא קיימת", "7290000066318")

		assert.ErrorIs(t, err, model.ErrCityNotFound)
	})

	t.Run("empty code is invalid input", func(t *testing.T) {
		service := newSearchService(new(mocks.MockPriceRepositoryInterface), 100)

		_, err := service.ProductByCode(context.Background(), "חיפה", "")

		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("empty city is invalid input", func(t *testing.T) {
		service := newSearchService(new(mocks.MockPriceRepositoryInterface), 100)

		_, err := service.ProductByCode(context.Background(), "", "7290000066318")

		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestSearchBalancerService_Cities(t *testing.T) {
	prices := new(mocks.MockPriceRepositoryInterface)
	service := newSearchService(prices, 100)

	cities := []model.CityStores{
		{City: "חיפה", Branches: 2, Chains: 2},
		{City: "תל אביב", Branches: 1, Chains: 1},
	}
	prices.On("Cities", mock.Anything).Return(cities, nil)

	got, err := service.Cities(context.Background())

	require.NoError(t, err)
	assert.Equal(t, cities, got)
}
