package dataset

import (
	"context"
	"log"
	"time"
)

// Watcher drives the store's freshness check on a fixed interval so that
// queries never pay for the source check themselves.
type Watcher struct {
	store    *Store
	interval time.Duration
}

func NewWatcher(store *Store, interval time.Duration) *Watcher {
	return &Watcher{store: store, interval: interval}
}

func (w *Watcher) Run(ctx context.Context) {
	log.Printf("Freshness watcher started (interval %v)", w.interval)
	defer log.Printf("Freshness watcher stopped")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.store.Refresh(ctx); err != nil {
				log.Printf("Dataset refresh failed: %v", err)
			}
		}
	}
}
