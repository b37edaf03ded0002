package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basketly/price-service/internal/domain/model"
)

func record(chain, branchID string, price float64) model.PriceRecord {
	return model.PriceRecord{
		Chain:    chain,
		BranchID: branchID,
		ItemCode: "7290000000001",
		ItemName: "חלב תנובה 1 ליטר",
		Price:    price,
	}
}

func TestCrossChainMatcherService_GroupByChain(t *testing.T) {
	matcher := NewCrossChainMatcherService()

	t.Run("keeps minimum price per chain", func(t *testing.T) {
		records := []model.PriceRecord{
			record("shufersal", "001", 7.5),
			record("shufersal", "002", 6.9),
			record("rami_levy", "101", 5.9),
		}

		best := matcher.GroupByChain(records)

		require.Len(t, best, 2)
		assert.Equal(t, 6.9, best["shufersal"].Price)
		assert.Equal(t, "002", best["shufersal"].BranchID)
		assert.Equal(t, 5.9, best["rami_levy"].Price)
	})

	t.Run("equal prices keep first-seen branch", func(t *testing.T) {
		records := []model.PriceRecord{
			record("shufersal", "001", 6.9),
			record("shufersal", "002", 6.9),
		}

		best := matcher.GroupByChain(records)

		assert.Equal(t, "001", best["shufersal"].BranchID)
	})

	t.Run("skips records without a chain", func(t *testing.T) {
		records := []model.PriceRecord{
			record("", "001", 6.9),
			record("rami_levy", "101", 5.9),
		}

		best := matcher.GroupByChain(records)

		assert.Len(t, best, 1)
	})

	t.Run("empty input yields empty map", func(t *testing.T) {
		assert.Empty(t, matcher.GroupByChain(nil))
	})
}

func TestCrossChainMatcherService_Compare(t *testing.T) {
	matcher := NewCrossChainMatcherService()

	t.Run("computes best worst and savings", func(t *testing.T) {
		records := []model.PriceRecord{
			record("chainA", "001", 10),
			record("chainB", "101", 15),
		}

		comparison := matcher.Compare(records)

		require.NotNil(t, comparison)
		assert.Equal(t, "chainA", comparison.BestDeal.Chain)
		assert.Equal(t, 10.0, comparison.BestDeal.Price)
		assert.Equal(t, "chainB", comparison.WorstDeal.Chain)
		assert.Equal(t, 15.0, comparison.WorstDeal.Price)
		assert.Equal(t, 5.0, comparison.Savings)
		assert.InDelta(t, 33.33, comparison.SavingsPercent, 0.01)
		assert.True(t, comparison.IdenticalProduct)
	})

	t.Run("absent with a single chain", func(t *testing.T) {
		records := []model.PriceRecord{
			record("chainA", "001", 10),
			record("chainA", "002", 12),
		}

		assert.Nil(t, matcher.Compare(records))
	})

	t.Run("absent with no records", func(t *testing.T) {
		assert.Nil(t, matcher.Compare(nil))
	})

	t.Run("zero worst price yields zero percent", func(t *testing.T) {
		records := []model.PriceRecord{
			record("chainA", "001", 0),
			record("chainB", "101", 0),
		}

		comparison := matcher.Compare(records)

		require.NotNil(t, comparison)
		assert.Equal(t, 0.0, comparison.Savings)
		assert.Equal(t, 0.0, comparison.SavingsPercent)
	})

	t.Run("equal best prices break tie lexicographically", func(t *testing.T) {
		records := []model.PriceRecord{
			record("chainB", "101", 10),
			record("chainA", "001", 10),
		}

		comparison := matcher.Compare(records)

		require.NotNil(t, comparison)
		assert.Equal(t, "chainA", comparison.BestDeal.Chain)
	})
}

func TestCrossChainMatcherService_PairwiseComparisons(t *testing.T) {
	matcher := NewCrossChainMatcherService()

	t.Run("single pair", func(t *testing.T) {
		records := []model.PriceRecord{
			record("chainA", "001", 10),
			record("chainB", "101", 15),
		}

		comparisons := matcher.PairwiseComparisons(records)

		require.Len(t, comparisons, 1)
		pair := comparisons[0]
		assert.Equal(t, "chainA", pair.Chain1)
		assert.Equal(t, "chainB", pair.Chain2)
		assert.Equal(t, 10.0, pair.Price1)
		assert.Equal(t, 15.0, pair.Price2)
		assert.Equal(t, 5.0, pair.Difference)
		assert.InDelta(t, 50.0, pair.PercentDifference, 0.01)
		assert.Equal(t, "chainA", pair.CheaperChain)
		assert.Equal(t, 5.0, pair.Savings)
	})

	t.Run("three chains yield three pairs", func(t *testing.T) {
		records := []model.PriceRecord{
			record("chainA", "001", 10),
			record("chainB", "101", 15),
			record("chainC", "201", 12),
		}

		comparisons := matcher.PairwiseComparisons(records)

		assert.Len(t, comparisons, 3)
	})

	t.Run("zero minimum price yields zero percent difference", func(t *testing.T) {
		records := []model.PriceRecord{
			record("chainA", "001", 0),
			record("chainB", "101", 5),
		}

		comparisons := matcher.PairwiseComparisons(records)

		require.Len(t, comparisons, 1)
		assert.Equal(t, 0.0, comparisons[0].PercentDifference)
		assert.Equal(t, 5.0, comparisons[0].Difference)
	})

	t.Run("nil with fewer than two chains", func(t *testing.T) {
		assert.Nil(t, matcher.PairwiseComparisons([]model.PriceRecord{record("chainA", "001", 10)}))
	})
}

func TestCrossChainMatcherService_AttachComparisons(t *testing.T) {
	matcher := NewCrossChainMatcherService()

	t.Run("enriches multi-chain products", func(t *testing.T) {
		product := &model.Product{
			ItemCode: "7290000000001",
			ItemName: "חלב תנובה 1 ליטר",
			Prices: []model.PriceRecord{
				record("chainA", "001", 10),
				record("chainB", "101", 15),
			},
		}

		matcher.AttachComparisons([]*model.Product{product})

		assert.True(t, product.CrossChain)
		require.NotNil(t, product.Comparison)
		assert.Len(t, product.PairwiseComparisons, 1)
		require.NotNil(t, product.BestDeal)
		assert.Equal(t, "chainA", product.BestDeal.Chain)
		assert.Equal(t, 10.0, product.BestDeal.Price)
	})

	t.Run("leaves single-chain products untouched", func(t *testing.T) {
		product := &model.Product{
			ItemName: "לחם אחיד",
			Prices: []model.PriceRecord{
				record("chainA", "001", 8.5),
			},
		}

		matcher.AttachComparisons([]*model.Product{product})

		assert.False(t, product.CrossChain)
		assert.Nil(t, product.Comparison)
		assert.Nil(t, product.BestDeal)
	})

	t.Run("tolerates nil and empty products", func(t *testing.T) {
		matcher.AttachComparisons([]*model.Product{nil, {}})
	})
}
