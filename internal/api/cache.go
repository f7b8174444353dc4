package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/dcf-simulator/internal/metrics"
	"github.com/yourusername/dcf-simulator/internal/models"
	"github.com/yourusername/dcf-simulator/internal/service"
)

// CacheKey identifies a seeded Monte Carlo run of one scenario. Worker count is
// not part of the key because a fixed seed yields the same distribution for any
// worker count.
type CacheKey struct {
	ScenarioID     string
	ScenarioDigest string
	Seed           uint64
	Iterations     int
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%d:%d", k.ScenarioID, k.ScenarioDigest, k.Seed, k.Iterations)
}

// NewCacheKey builds the key for a seeded run of sc. The digest covers the
// whole scenario, including its ID and name.
func NewCacheKey(sc models.Scenario, seed uint64, iterations int) (CacheKey, error) {
	raw, err := json.Marshal(sc)
	if err != nil {
		return CacheKey{}, fmt.Errorf("failed to encode scenario: %w", err)
	}
	sum := sha256.Sum256(raw)
	return CacheKey{
		ScenarioID:     sc.ID,
		ScenarioDigest: hex.EncodeToString(sum[:]),
		Seed:           seed,
		Iterations:     iterations,
	}, nil
}

// ResultCache provides in-memory caching for seeded Monte Carlo runs
type ResultCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewResultCache creates a new result cache
func NewResultCache(ttl time.Duration, maxSize int) *ResultCache {
	return &ResultCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached run
func (rc *ResultCache) Get(key CacheKey) (service.SimulationRun, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if result, found := rc.cache.Get(key.String()); found {
		if run, ok := result.(service.SimulationRun); ok {
			rc.hitCount++
			metrics.RecordCacheLookup(true)
			return run, true
		}
	}

	rc.missCount++
	metrics.RecordCacheLookup(false)
	return service.SimulationRun{}, false
}

// Set stores a run in cache. When full, expired items are dropped first and the
// new entry is skipped if that frees nothing.
func (rc *ResultCache) Set(key CacheKey, run service.SimulationRun) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.maxSize > 0 && rc.cache.ItemCount() >= rc.maxSize {
		rc.cache.DeleteExpired()
		if rc.cache.ItemCount() >= rc.maxSize {
			return
		}
	}

	rc.cache.Set(key.String(), run, rc.ttl)
}

// Clear flushes the entire cache
func (rc *ResultCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Flush()
	rc.hitCount = 0
	rc.missCount = 0
}

// Stats returns cache statistics
func (rc *ResultCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	hits = rc.hitCount
	misses = rc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (rc *ResultCache) ItemCount() int {
	return rc.cache.ItemCount()
}
