package dataset

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartfactory/sensorstats/internal/domain"
)

type fakeSource struct {
	records  []domain.Record
	marker   time.Time
	hasFresh bool
	fetches  int
}

func (f *fakeSource) Fetch(ctx context.Context) ([]domain.Record, error) {
	f.fetches++
	out := make([]domain.Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeSource) Modified(ctx context.Context) (time.Time, error) {
	if !f.hasFresh {
		return time.Time{}, ErrNoFreshness
	}
	return f.marker, nil
}

func (f *fakeSource) Name() string { return "fake" }

func record(day int, value float64) domain.Record {
	return domain.Record{
		Timestamp: time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Location:  "a",
		Sensor:    "temp",
		Value:     &value,
	}
}

func TestStoreLoadAndSnapshot(t *testing.T) {
	source := &fakeSource{records: []domain.Record{record(1, 10), record(2, 20)}}
	store := NewStore(source, nil)

	require.NoError(t, store.Load(context.Background()))
	records, gen := store.Snapshot()
	assert.Len(t, records, 2)
	assert.Equal(t, uint64(1), gen)
}

func TestStoreRefreshNoopWithoutFreshness(t *testing.T) {
	source := &fakeSource{records: []domain.Record{record(1, 10)}}
	store := NewStore(source, nil)
	require.NoError(t, store.Load(context.Background()))

	require.NoError(t, store.Refresh(context.Background()))
	assert.Equal(t, 1, source.fetches)
	_, gen := store.Snapshot()
	assert.Equal(t, uint64(1), gen)
}

func TestStoreRefreshNoopWhenUnchanged(t *testing.T) {
	source := &fakeSource{
		records:  []domain.Record{record(1, 10)},
		marker:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		hasFresh: true,
	}
	store := NewStore(source, nil)
	require.NoError(t, store.Load(context.Background()))

	require.NoError(t, store.Refresh(context.Background()))
	assert.Equal(t, 1, source.fetches)
}

func TestStoreRefreshReloadsAndInvalidates(t *testing.T) {
	source := &fakeSource{
		records:  []domain.Record{record(1, 10)},
		marker:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		hasFresh: true,
	}
	invalidated := 0
	store := NewStore(source, func() { invalidated++ })
	require.NoError(t, store.Load(context.Background()))

	source.records = append(source.records, record(2, 20))
	source.marker = source.marker.Add(time.Hour)

	require.NoError(t, store.Refresh(context.Background()))
	records, gen := store.Snapshot()
	assert.Len(t, records, 2)
	assert.Equal(t, uint64(2), gen)
	assert.Equal(t, 1, invalidated)

	// unchanged marker: no further reload
	require.NoError(t, store.Refresh(context.Background()))
	assert.Equal(t, 1, invalidated)
}

func TestStoreSnapshotStableAcrossReload(t *testing.T) {
	source := &fakeSource{
		records:  []domain.Record{record(1, 10)},
		marker:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		hasFresh: true,
	}
	store := NewStore(source, nil)
	require.NoError(t, store.Load(context.Background()))

	before, beforeGen := store.Snapshot()

	source.records = []domain.Record{record(2, 20), record(3, 30)}
	source.marker = source.marker.Add(time.Hour)
	require.NoError(t, store.Refresh(context.Background()))

	// the old snapshot is untouched by the reload
	assert.Len(t, before, 1)
	assert.Equal(t, 10.0, *before[0].Value)

	after, afterGen := store.Snapshot()
	assert.Len(t, after, 2)
	assert.NotEqual(t, beforeGen, afterGen)
}
