package query

import (
	"context"
	"log"

	"github.com/smartfactory/sensorstats/internal/cache"
	"github.com/smartfactory/sensorstats/internal/dataset"
	"github.com/smartfactory/sensorstats/internal/domain"
)

// Service answers stats queries and is the only writer to the result
// cache: normalize, look up, on a miss filter and aggregate against the
// current snapshot, store, return.
type Service struct {
	store          *dataset.Store
	cache          *cache.ResultCache
	refreshOnQuery bool
}

// NewService wires the orchestrator. When refreshOnQuery is set the store's
// freshness check runs before every snapshot instead of relying on a
// background watcher.
func NewService(store *dataset.Store, resultCache *cache.ResultCache, refreshOnQuery bool) *Service {
	return &Service{store: store, cache: resultCache, refreshOnQuery: refreshOnQuery}
}

// GetStats computes {count, avg, min, max} for the given raw filter
// fields. hit reports whether the result came from the cache. An
// unparseable date returns *domain.InvalidDateError and caches nothing.
func (s *Service) GetStats(ctx context.Context, location, sensor, start, end string) (domain.AggregateResult, bool, error) {
	filter, err := BuildFilter(location, sensor, start, end)
	if err != nil {
		return domain.AggregateResult{}, false, err
	}

	if s.refreshOnQuery {
		if err := s.store.Refresh(ctx); err != nil {
			// answer from the current snapshot rather than fail the query
			log.Printf("Dataset refresh failed: %v", err)
		}
	}

	records, gen := s.store.Snapshot()
	key := Key(filter)

	if result, ok := s.cache.Get(key, gen); ok {
		return result, true, nil
	}

	result := Aggregate(Apply(records, filter))
	s.cache.Put(key, gen, result)
	return result, false, nil
}
