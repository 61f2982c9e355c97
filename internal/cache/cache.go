// Package cache holds computed aggregate results keyed by the canonical
// query key. Entries are scoped to the dataset generation they were
// computed against: a lookup only matches when the stored generation
// equals the caller's, so a result computed before a reload can never be
// served after it.
package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/smartfactory/sensorstats/internal/domain"
)

var (
	hits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sensorstats_cache_hits_total",
		Help: "Stats queries answered from the result cache.",
	})
	misses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sensorstats_cache_misses_total",
		Help: "Stats queries that had to be computed.",
	})
	entryCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sensorstats_cache_entries",
		Help: "Current number of cached results.",
	})
)

type entry struct {
	result domain.AggregateResult
	gen    uint64
}

// ResultCache is a thread-safe map from query key to AggregateResult.
// There is no eviction, TTL or size bound; growth is bounded only by the
// number of distinct normalized queries seen since the last invalidation.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func New() *ResultCache {
	return &ResultCache{entries: make(map[string]entry)}
}

// Get returns the result stored under key for generation gen.
func (c *ResultCache) Get(key string, gen uint64) (domain.AggregateResult, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || e.gen != gen {
		misses.Inc()
		return domain.AggregateResult{}, false
	}
	hits.Inc()
	return e.result, true
}

// Put stores result under key for generation gen. The last writer for a
// key wins; two concurrent misses for the same key compute from the same
// snapshot and write the same value.
func (c *ResultCache) Put(key string, gen uint64, result domain.AggregateResult) {
	c.mu.Lock()
	c.entries[key] = entry{result: result, gen: gen}
	entryCount.Set(float64(len(c.entries)))
	c.mu.Unlock()
}

// InvalidateAll drops every entry. The dataset store calls it while
// holding its write lock during a reload.
func (c *ResultCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	entryCount.Set(0)
	c.mu.Unlock()
}

func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
