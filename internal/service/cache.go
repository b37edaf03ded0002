// Package service contains the business logic for the price service.
package service

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/basketly/price-service/internal/domain/model"
	"github.com/basketly/price-service/internal/metrics"
	"github.com/basketly/price-service/internal/service/cache"
)

// cachedTime provides a cached time value updated periodically.
// This reduces the overhead of frequent time.Now() calls.
var (
	cachedTime     atomic.Value
	cachedTimeOnce sync.Once
)

func init() {
	initCachedTime()
}

// initCachedTime starts the background time updater.
func initCachedTime() {
	cachedTimeOnce.Do(func() {
		cachedTime.Store(time.Now())
		go func() {
			ticker := time.NewTicker(100 * time.Millisecond)
			for t := range ticker.C {
				cachedTime.Store(t)
			}
		}()
	})
}

// now returns the cached current time (updated every 100ms).
// Use this for non-critical time checks like cache expiration.
func now() time.Time {
	if t := cachedTime.Load(); t != nil {
		if cachedT, ok := t.(time.Time); ok {
			return cachedT
		}
	}
	return time.Now()
}

// ShardedBranchCache distributes city entries across multiple shards to
// reduce lock contention. Branch lists change rarely, so a short TTL is
// enough to keep results fresh without hammering the store.
type ShardedBranchCache struct {
	shards    []*branchCache
	numShards int
	shardMask uint32
}

// NewShardedBranchCache creates a new sharded cache with the specified total
// capacity, TTL, and number of shards. numShards is rounded up to a power of 2.
func NewShardedBranchCache(capacity int, ttl time.Duration, numShards int) *ShardedBranchCache {
	if numShards <= 0 {
		numShards = 16
	}
	// Round up to next power of 2
	n := 1
	for n < numShards {
		n *= 2
	}
	numShards = n

	perShardCapacity := capacity / numShards
	if perShardCapacity < 1 {
		perShardCapacity = 1
	}

	shards := make([]*branchCache, numShards)
	for i := range shards {
		shards[i] = newBranchCache(perShardCapacity, ttl)
	}

	return &ShardedBranchCache{
		shards:    shards,
		numShards: numShards,
		shardMask: uint32(numShards - 1),
	}
}

// getShard returns the shard for the given city.
func (sc *ShardedBranchCache) getShard(city string) *branchCache {
	h := fnv.New32a()
	_, _ = h.Write([]byte(city))
	return sc.shards[h.Sum32()&sc.shardMask]
}

// Get retrieves a branch list from the appropriate shard.
func (sc *ShardedBranchCache) Get(city string) ([]model.Branch, bool) {
	return sc.getShard(city).Get(city)
}

// Set stores a branch list in the appropriate shard.
func (sc *ShardedBranchCache) Set(city string, branches []model.Branch) {
	sc.getShard(city).Set(city, branches)
}

// Invalidate removes a city from the appropriate shard.
func (sc *ShardedBranchCache) Invalidate(city string) {
	sc.getShard(city).Invalidate(city)
}

// Clear removes all entries from all shards.
func (sc *ShardedBranchCache) Clear() {
	for _, shard := range sc.shards {
		shard.Clear()
	}
}

// Stop gracefully shuts down all shards.
func (sc *ShardedBranchCache) Stop() {
	for _, shard := range sc.shards {
		shard.Stop()
	}
}

// Metrics returns aggregated metrics from all shards.
func (sc *ShardedBranchCache) Metrics() cache.Metrics {
	var total cache.Metrics
	for _, shard := range sc.shards {
		m := shard.Metrics()
		total.Hits += m.Hits
		total.Misses += m.Misses
		total.Evictions += m.Evictions
		total.Size += m.Size
		total.Capacity += m.Capacity
	}
	return total
}

// branchCache provides thread-safe LRU caching of city branch lists with
// TTL expiration. It implements the cache.Cache interface.
type branchCache struct {
	mu        sync.RWMutex
	capacity  int
	ttl       time.Duration
	items     map[string]*cacheEntry
	head      *cacheEntry
	tail      *cacheEntry
	stopCh    chan struct{}
	hits      int64
	misses    int64
	evictions int64
}

// cacheEntry represents a single cached city with expiration tracking.
type cacheEntry struct {
	city      string
	branches  []model.Branch
	expiresAt time.Time
	prev      *cacheEntry
	next      *cacheEntry
}

// newBranchCache creates a new TTL-based LRU cache with the specified
// capacity and TTL. A background goroutine periodically cleans up
// expired entries.
func newBranchCache(capacity int, ttl time.Duration) *branchCache {
	c := &branchCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*cacheEntry, capacity),
		stopCh:   make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

// Stop gracefully shuts down the cache and cleans up resources.
func (c *branchCache) Stop() {
	close(c.stopCh)
}

// Metrics returns current cache performance metrics.
func (c *branchCache) Metrics() cache.Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return cache.Metrics{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      len(c.items),
		Capacity:  c.capacity,
	}
}

// Get retrieves a branch list from the cache if it exists and hasn't expired.
func (c *branchCache) Get(city string) ([]model.Branch, bool) {
	c.mu.RLock()
	entry, ok := c.items[city]
	c.mu.RUnlock()

	if !ok {
		atomic.AddInt64(&c.misses, 1)
		metrics.RecordCacheOperation("get", "miss")
		return nil, false
	}

	// Use time.Now() for accurate expiration check
	// (cached time could be up to 100ms stale, causing test flakiness)
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		// Double-check after acquiring lock
		if _, stillExists := c.items[city]; stillExists {
			c.removeEntry(entry)
		}
		c.mu.Unlock()
		atomic.AddInt64(&c.misses, 1)
		metrics.RecordCacheOperation("get", "expired")
		return nil, false
	}

	c.mu.Lock()
	c.moveToFront(entry)
	c.mu.Unlock()

	atomic.AddInt64(&c.hits, 1)
	metrics.RecordCacheOperation("get", "hit")
	return entry.branches, true
}

// Set adds or updates a branch list in the cache with the configured TTL.
// If the cache is at capacity, the least recently used entry is evicted.
func (c *branchCache) Set(city string, branches []model.Branch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[city]; ok {
		entry.branches = branches
		entry.expiresAt = now().Add(c.ttl)
		c.moveToFront(entry)
		return
	}

	entry := &cacheEntry{
		city:      city,
		branches:  branches,
		expiresAt: now().Add(c.ttl),
	}
	c.items[city] = entry
	c.addToFront(entry)

	if len(c.items) > c.capacity {
		c.removeTail()
		atomic.AddInt64(&c.evictions, 1)
		metrics.RecordCacheOperation("evict", "capacity")
	}
	metrics.RecordCacheOperation("set", "success")
	metrics.UpdateCacheSize(len(c.items))
}

// startCleanup runs an adaptive background cleanup routine.
func (c *branchCache) startCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Adaptive cleanup - only run if cache is more than 80% full
			c.mu.RLock()
			shouldCleanup := len(c.items) > (c.capacity * 80 / 100)
			c.mu.RUnlock()

			if shouldCleanup {
				c.cleanup()
			}
		case <-c.stopCh:
			return
		}
	}
}

// cleanup removes all expired entries from the cache.
func (c *branchCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	currentTime := now()
	for _, entry := range c.items {
		if currentTime.After(entry.expiresAt) {
			c.removeEntry(entry)
		}
	}
}

// removeEntry removes an entry from both the map and the linked list.
func (c *branchCache) removeEntry(entry *cacheEntry) {
	delete(c.items, entry.city)
	c.remove(entry)
}

// moveToFront moves an existing entry to the front of the LRU list.
func (c *branchCache) moveToFront(entry *cacheEntry) {
	if entry == c.head {
		return
	}
	c.remove(entry)
	c.addToFront(entry)
}

// addToFront adds an entry to the front of the LRU list.
func (c *branchCache) addToFront(entry *cacheEntry) {
	entry.prev = nil
	entry.next = c.head
	if c.head != nil {
		c.head.prev = entry
	}
	c.head = entry
	if c.tail == nil {
		c.tail = entry
	}
}

// remove removes an entry from the linked list without touching the map.
func (c *branchCache) remove(entry *cacheEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}
}

// removeTail removes the least recently used entry from the cache.
func (c *branchCache) removeTail() {
	if c.tail == nil {
		return
	}
	delete(c.items, c.tail.city)
	c.remove(c.tail)
}

// Invalidate removes a specific city from the cache.
func (c *branchCache) Invalidate(city string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[city]; ok {
		c.removeEntry(entry)
		metrics.RecordCacheOperation("invalidate", "success")
	}
}

// Clear removes all entries from the cache.
func (c *branchCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*cacheEntry, c.capacity)

	c.head = nil
	c.tail = nil

	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
	atomic.StoreInt64(&c.evictions, 0)

	metrics.RecordCacheOperation("clear", "success")
}
