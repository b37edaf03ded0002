package service

import (
	"sort"

	"github.com/basketly/price-service/internal/domain/model"
)

// CrossChainMatcher computes cross-chain price comparisons for records
// sharing one item identity.
type CrossChainMatcher interface {
	GroupByChain(records []model.PriceRecord) map[string]model.ChainBestPrice
	Compare(records []model.PriceRecord) *model.CrossChainComparison
	PairwiseComparisons(records []model.PriceRecord) []model.PairwiseComparison
	AttachComparisons(products []*model.Product)
}

// CrossChainMatcherService implements CrossChainMatcher. All methods
// are pure; input records are never mutated.
type CrossChainMatcherService struct{}

// NewCrossChainMatcherService creates a new cross-chain matcher.
func NewCrossChainMatcherService() *CrossChainMatcherService {
	return &CrossChainMatcherService{}
}

// GroupByChain keeps the minimum price seen per chain. Ties are broken
// by the first-seen record, so the result is stable with respect to
// input order when two branches carry the same price.
func (s *CrossChainMatcherService) GroupByChain(records []model.PriceRecord) map[string]model.ChainBestPrice {
	best := make(map[string]model.ChainBestPrice)
	for _, record := range records {
		if record.Chain == "" {
			continue
		}
		current, seen := best[record.Chain]
		if !seen || record.Price < current.Price {
			best[record.Chain] = model.ChainBestPrice{
				Chain:    record.Chain,
				Price:    record.Price,
				BranchID: record.BranchID,
			}
		}
	}
	return best
}

// Compare builds the best/worst summary for one item identity. Returns
// nil when fewer than two distinct chains contribute prices. Ties on
// equal best prices are broken by lexicographically smallest chain so
// the result is deterministic.
func (s *CrossChainMatcherService) Compare(records []model.PriceRecord) *model.CrossChainComparison {
	best := s.GroupByChain(records)
	if len(best) < 2 {
		return nil
	}

	chains := sortedChains(best)

	lowest := best[chains[0]]
	highest := best[chains[0]]
	for _, chain := range chains[1:] {
		candidate := best[chain]
		if candidate.Price < lowest.Price {
			lowest = candidate
		}
		if candidate.Price > highest.Price {
			highest = candidate
		}
	}

	savings := highest.Price - lowest.Price
	savingsPercent := 0.0
	if highest.Price > 0 {
		savingsPercent = savings / highest.Price * 100
	}

	return &model.CrossChainComparison{
		BestDeal:         model.Deal{Chain: lowest.Chain, Price: lowest.Price, BranchID: lowest.BranchID},
		WorstDeal:        model.Deal{Chain: highest.Chain, Price: highest.Price, BranchID: highest.BranchID},
		Savings:          savings,
		SavingsPercent:   savingsPercent,
		IdenticalProduct: true,
	}
}

// PairwiseComparisons computes every unordered chain pair comparison
// for one item identity, chains in sorted order. Returns nil when
// fewer than two chains are present.
func (s *CrossChainMatcherService) PairwiseComparisons(records []model.PriceRecord) []model.PairwiseComparison {
	best := s.GroupByChain(records)
	if len(best) < 2 {
		return nil
	}

	chains := sortedChains(best)

	comparisons := make([]model.PairwiseComparison, 0, len(chains)*(len(chains)-1)/2)
	for i, chain1 := range chains {
		for _, chain2 := range chains[i+1:] {
			price1 := best[chain1].Price
			price2 := best[chain2].Price

			difference := price1 - price2
			if difference < 0 {
				difference = -difference
			}

			percentDifference := 0.0
			if minPrice := minFloat(price1, price2); minPrice > 0 {
				percentDifference = difference / minPrice * 100
			}

			cheaperChain := chain1
			if price2 < price1 {
				cheaperChain = chain2
			}

			comparisons = append(comparisons, model.PairwiseComparison{
				Chain1:            chain1,
				Chain2:            chain2,
				Price1:            price1,
				Price2:            price2,
				Difference:        difference,
				PercentDifference: percentDifference,
				CheaperChain:      cheaperChain,
				Savings:           difference,
			})
		}
	}
	return comparisons
}

// AttachComparisons enriches products carrying prices from two or more
// chains with their pairwise comparisons, the best/worst summary and a
// canonical best deal.
func (s *CrossChainMatcherService) AttachComparisons(products []*model.Product) {
	for _, product := range products {
		if product == nil || len(product.Prices) == 0 {
			continue
		}

		best := s.GroupByChain(product.Prices)
		if len(best) < 2 {
			continue
		}

		product.CrossChain = true
		product.Comparison = s.Compare(product.Prices)
		product.PairwiseComparisons = s.PairwiseComparisons(product.Prices)

		// Global minimum across chains; lexicographic chain on ties
		chains := sortedChains(best)
		deal := best[chains[0]]
		for _, chain := range chains[1:] {
			if best[chain].Price < deal.Price {
				deal = best[chain]
			}
		}
		product.BestDeal = &model.Deal{Chain: deal.Chain, Price: deal.Price, BranchID: deal.BranchID}
	}
}

// sortedChains returns the chain keys in lexicographic order.
func sortedChains(best map[string]model.ChainBestPrice) []string {
	chains := make([]string, 0, len(best))
	for chain := range best {
		chains = append(chains, chain)
	}
	sort.Strings(chains)
	return chains
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
