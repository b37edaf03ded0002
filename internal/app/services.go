// Package app provides service initialization.
package app

import (
	"github.com/basketly/price-service/config"
	"github.com/basketly/price-service/internal/service"
)

// branchCacheCapacity bounds the number of cached city branch lists.
// There are fewer than a thousand cities in the feeds.
const branchCacheCapacity = 1024

// branchCacheShards spreads cache locks across shards.
const branchCacheShards = 8

// ServiceComponents holds business service components.
type ServiceComponents struct {
	Search      service.SearchBalancer
	Cart        service.CartOptimizer
	BranchCache *service.ShardedBranchCache
}

// InitializeServices initializes the search and cart services on top of
// the price store. Returns nil when no database is available.
func InitializeServices(cfg config.Config, dbComponents *DatabaseComponents) *ServiceComponents {
	if dbComponents == nil {
		return nil
	}

	branchCache := service.NewShardedBranchCache(branchCacheCapacity, cfg.Search.BranchCacheTTL, branchCacheShards)
	normalizer := service.NewUnitNormalizerService()

	search := service.NewSearchBalancerService(
		dbComponents.PriceRepo,
		branchCache,
		service.NewCrossChainMatcherService(),
		normalizer,
		service.SearchBalancerConfig{ResultLimit: cfg.Search.ResultLimit},
	)

	cart := service.NewCartOptimizerService(
		dbComponents.PriceRepo,
		branchCache,
		normalizer,
		service.CartOptimizerConfig{
			MaxWorkers:    cfg.Cart.MaxWorkers,
			BranchTimeout: cfg.Cart.BranchTimeout,
			TopBranches:   cfg.Cart.TopBranches,
		},
	)

	return &ServiceComponents{
		Search:      search,
		Cart:        cart,
		BranchCache: branchCache,
	}
}
