package dataset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/smartfactory/sensorstats/internal/domain"
)

// Store owns the in-memory dataset. It loads from its Source once at
// startup and, when the source exposes a freshness marker, rebuilds the
// whole record slice when the marker changes. The invalidate callback
// (the result cache's InvalidateAll) runs under the write lock so no query
// can pair post-reload records with pre-reload cache entries.
type Store struct {
	source     Source
	invalidate func()

	mu         sync.RWMutex
	records    []domain.Record
	marker     time.Time
	gen        uint64
	revalidate bool
}

func NewStore(source Source, invalidate func()) *Store {
	if invalidate == nil {
		invalidate = func() {}
	}
	return &Store{source: source, invalidate: invalidate}
}

// Load performs the initial dataset load. A failure here is fatal to the
// process; no query can recover from a missing or malformed source.
func (s *Store) Load(ctx context.Context) error {
	records, err := s.source.Fetch(ctx)
	if err != nil {
		return err
	}

	marker, err := s.source.Modified(ctx)
	revalidate := true
	if err != nil {
		if !errors.Is(err, ErrNoFreshness) {
			log.Printf("Freshness marker unavailable for %s: %v", s.source.Name(), err)
		}
		revalidate = false
	}

	s.mu.Lock()
	s.records = records
	s.marker = marker
	s.revalidate = revalidate
	s.gen++
	s.mu.Unlock()

	log.Printf("Loaded %d records from %s (revalidate=%v)", len(records), s.source.Name(), revalidate)
	return nil
}

// Snapshot returns the current records together with the generation they
// belong to. The slice is never mutated after publication; callers must
// treat it as read-only.
func (s *Store) Snapshot() ([]domain.Record, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.gen
}

// Refresh compares the source's freshness marker against the one recorded
// at last load and reloads when it changed. The reload, generation bump
// and cache invalidation happen under the write lock as one step.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.RLock()
	revalidate, marker := s.revalidate, s.marker
	s.mu.RUnlock()
	if !revalidate {
		return nil
	}

	current, err := s.source.Modified(ctx)
	if err != nil {
		return fmt.Errorf("freshness check for %s: %w", s.source.Name(), err)
	}
	if !current.After(marker) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !current.After(s.marker) {
		// another goroutine already reloaded
		return nil
	}

	records, err := s.source.Fetch(ctx)
	if err != nil {
		return err
	}
	s.records = records
	s.marker = current
	s.gen++
	s.invalidate()

	log.Printf("Reloaded %d records from %s, result cache invalidated", len(records), s.source.Name())
	return nil
}
