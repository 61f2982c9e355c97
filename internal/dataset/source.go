// Package dataset owns the in-memory record table. Records enter through
// a Source, get normalized exactly once at load time, and are published to
// queries as immutable generation-numbered snapshots.
package dataset

import (
	"context"
	"errors"
	"time"

	"github.com/smartfactory/sensorstats/internal/domain"
)

// ErrNoFreshness is returned by Modified when a source cannot provide a
// modification marker. The store then loads once and treats the dataset as
// immutable for the process lifetime.
var ErrNoFreshness = errors.New("source has no freshness marker")

// Source yields normalized records from a tabular backing store. Fetch
// applies domain.NormalizeLabel and UTC timestamp normalization itself so
// that every source feeds the store identically shaped records.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Record, error)
	Modified(ctx context.Context) (time.Time, error)
	Name() string
}
