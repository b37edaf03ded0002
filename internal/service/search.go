package service

import (
	"context"
	"sort"
	"time"

	"github.com/basketly/price-service/internal/domain/model"
	"github.com/basketly/price-service/internal/metrics"
	"github.com/basketly/price-service/internal/repository"
	"github.com/basketly/price-service/internal/service/cache"
)

// SearchBalancer finds price records for a free-text term and groups
// them into cross-chain products.
type SearchBalancer interface {
	Search(ctx context.Context, term, city string) ([]model.PriceRecord, error)
	Products(ctx context.Context, term, city string) ([]*model.Product, error)
	IdenticalProducts(ctx context.Context, term, city string, limit int) ([]*model.Product, error)
	ProductByCode(ctx context.Context, city, itemCode string) (*model.Product, error)
	GroupByItemCode(records []model.PriceRecord) []*model.Product
	Cities(ctx context.Context) ([]model.CityStores, error)
}

// SearchBalancerConfig carries the tunables for the search balancer.
type SearchBalancerConfig struct {
	// ResultLimit caps the merged, chain-balanced record list.
	ResultLimit int
}

// SearchBalancerService implements SearchBalancer on top of the price
// store. Result limits come from configuration, never from embedded
// constants.
type SearchBalancerService struct {
	prices     repository.PriceRepositoryInterface
	branches   cache.Cache
	matcher    CrossChainMatcher
	normalizer UnitNormalizer
	cfg        SearchBalancerConfig
}

// NewSearchBalancerService creates a new search balancer. branchCache
// may be nil, in which case every search hits the store for the city
// branch list.
func NewSearchBalancerService(
	prices repository.PriceRepositoryInterface,
	branchCache cache.Cache,
	matcher CrossChainMatcher,
	normalizer UnitNormalizer,
	cfg SearchBalancerConfig,
) *SearchBalancerService {
	return &SearchBalancerService{
		prices:     prices,
		branches:   branchCache,
		matcher:    matcher,
		normalizer: normalizer,
		cfg:        cfg,
	}
}

// Search returns price records in a city matching the term, merged
// round-robin across chains so that no single chain dominates the top
// of the list, capped at the configured result limit. Records keep
// branch granularity; the same item at two branches of one chain stays
// two records.
func (s *SearchBalancerService) Search(ctx context.Context, term, city string) ([]model.PriceRecord, error) {
	start := time.Now()

	records, err := s.searchRecords(ctx, term, city)
	if err != nil {
		metrics.RecordSearch(time.Since(start), "error")
		return nil, err
	}

	balanced := s.balance(records)
	metrics.RecordSearch(time.Since(start), "success")
	return balanced, nil
}

// Products returns the grouped, comparison-enriched view of a search.
func (s *SearchBalancerService) Products(ctx context.Context, term, city string) ([]*model.Product, error) {
	start := time.Now()

	records, err := s.searchRecords(ctx, term, city)
	if err != nil {
		metrics.RecordSearch(time.Since(start), "error")
		return nil, err
	}

	products := s.GroupByItemCode(records)
	metrics.RecordSearch(time.Since(start), "success")
	return products, nil
}

// IdenticalProducts returns only the products priced by two or more
// chains, best savings first. limit <= 0 means no cap.
func (s *SearchBalancerService) IdenticalProducts(ctx context.Context, term, city string, limit int) ([]*model.Product, error) {
	products, err := s.Products(ctx, term, city)
	if err != nil {
		return nil, err
	}

	crossChain := make([]*model.Product, 0, len(products))
	for _, product := range products {
		if product.CrossChain {
			crossChain = append(crossChain, product)
		}
	}

	sort.SliceStable(crossChain, func(i, j int) bool {
		return crossChain[i].Comparison.Savings > crossChain[j].Comparison.Savings
	})

	if limit > 0 && len(crossChain) > limit {
		crossChain = crossChain[:limit]
	}
	return crossChain, nil
}

// ProductByCode returns the single product identified by an item code
// in a city, with cross-chain comparisons attached when more than one
// chain prices it.
func (s *SearchBalancerService) ProductByCode(ctx context.Context, city, itemCode string) (*model.Product, error) {
	start := time.Now()

	if itemCode == "" {
		return nil, &model.InvalidInputError{Field: "code", Reason: "must not be empty"}
	}
	if city == "" {
		return nil, &model.InvalidInputError{Field: "city", Reason: "must not be empty"}
	}

	branches, err := s.cityBranches(ctx, city)
	if err != nil {
		metrics.RecordSearch(time.Since(start), "error")
		return nil, err
	}
	if len(branches) == 0 {
		return nil, model.ErrCityNotFound
	}

	records, err := s.prices.PricesByItemCode(ctx, city, itemCode)
	if err != nil {
		metrics.RecordSearch(time.Since(start), "error")
		return nil, err
	}
	if len(records) == 0 {
		return nil, model.ErrProductNotFound
	}

	products := s.GroupByItemCode(records)
	metrics.RecordSearch(time.Since(start), "success")
	return products[0], nil
}

// GroupByItemCode partitions records into products sharing an item
// code. Records without a code each form a standalone product and are
// never compared across chains; a shared name alone does not prove the
// same product. Cross-chain groups get comparisons and a unit price
// parsed from the cheapest record's name.
func (s *SearchBalancerService) GroupByItemCode(records []model.PriceRecord) []*model.Product {
	products := make([]*model.Product, 0, len(records))
	byCode := make(map[string]*model.Product)

	for _, record := range records {
		if record.ItemCode == "" {
			products = append(products, &model.Product{
				ItemName: record.ItemName,
				Prices:   []model.PriceRecord{record},
			})
			continue
		}

		product, ok := byCode[record.ItemCode]
		if !ok {
			product = &model.Product{
				ItemCode: record.ItemCode,
				ItemName: record.ItemName,
			}
			byCode[record.ItemCode] = product
			products = append(products, product)
		}
		product.Prices = append(product.Prices, record)
	}

	for _, product := range products {
		cheapest := cheapestRecord(product.Prices)
		product.UnitPrice = s.normalizer.PricePerUnit(cheapest.ItemName, cheapest.Price)
	}

	s.matcher.AttachComparisons(products)
	return products
}

// Cities lists every city served by at least one branch.
func (s *SearchBalancerService) Cities(ctx context.Context) ([]model.CityStores, error) {
	return s.prices.Cities(ctx)
}

// searchRecords validates input, confirms the city is served and
// queries the store. Unknown cities are a definitive negative, not a
// store failure.
func (s *SearchBalancerService) searchRecords(ctx context.Context, term, city string) ([]model.PriceRecord, error) {
	if term == "" {
		return nil, &model.InvalidInputError{Field: "q", Reason: "must not be empty"}
	}
	if city == "" {
		return nil, &model.InvalidInputError{Field: "city", Reason: "must not be empty"}
	}

	branches, err := s.cityBranches(ctx, city)
	if err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		return nil, model.ErrCityNotFound
	}

	return s.prices.SearchCity(ctx, city, term, 0)
}

// cityBranches returns the branch list for a city, from the cache when
// one is configured.
func (s *SearchBalancerService) cityBranches(ctx context.Context, city string) ([]model.Branch, error) {
	if s.branches != nil {
		if branches, ok := s.branches.Get(city); ok {
			return branches, nil
		}
	}

	branches, err := s.prices.BranchesInCity(ctx, city)
	if err != nil {
		return nil, err
	}

	if s.branches != nil && len(branches) > 0 {
		s.branches.Set(city, branches)
	}
	return branches, nil
}

// balance merges records round-robin across chains, preserving the
// store's cheapest-first order within each chain. Chains are visited
// in lexicographic order so the merge is deterministic.
func (s *SearchBalancerService) balance(records []model.PriceRecord) []model.PriceRecord {
	if len(records) == 0 {
		return records
	}

	perChain := make(map[string][]model.PriceRecord)
	for _, record := range records {
		perChain[record.Chain] = append(perChain[record.Chain], record)
	}

	chains := make([]string, 0, len(perChain))
	for chain := range perChain {
		chains = append(chains, chain)
	}
	sort.Strings(chains)

	limit := s.cfg.ResultLimit
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}

	merged := make([]model.PriceRecord, 0, limit)
	for round := 0; len(merged) < limit; round++ {
		took := false
		for _, chain := range chains {
			queue := perChain[chain]
			if round >= len(queue) {
				continue
			}
			merged = append(merged, queue[round])
			took = true
			if len(merged) == limit {
				break
			}
		}
		if !took {
			break
		}
	}
	return merged
}

// cheapestRecord returns the record with the lowest price, first-seen
// on ties.
func cheapestRecord(records []model.PriceRecord) model.PriceRecord {
	cheapest := records[0]
	for _, record := range records[1:] {
		if record.Price < cheapest.Price {
			cheapest = record
		}
	}
	return cheapest
}
