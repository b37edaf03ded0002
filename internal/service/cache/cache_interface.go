package cache

import "github.com/basketly/price-service/internal/domain/model"

// Cache defines the interface for the city branch cache.
// Keys are city names, values are the branch lists serving them.
type Cache interface {
	Get(city string) ([]model.Branch, bool)
	Set(city string, branches []model.Branch)
	Invalidate(city string)
	Clear()
	Stop()
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// CacheWithMetrics extends Cache with metrics reporting.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}
