package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartfactory/sensorstats/internal/domain"
)

func fv(v float64) *float64 { return &v }

func testRecords() []domain.Record {
	return []domain.Record{
		{Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Location: "a", Sensor: "temp", Value: fv(10)},
		{Timestamp: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), Location: "a", Sensor: "temp", Value: fv(20)},
		{Timestamp: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), Location: "b", Sensor: "humid", Value: fv(5)},
	}
}

func mustFilter(t *testing.T, location, sensor, start, end string) domain.QueryFilter {
	t.Helper()
	f, err := BuildFilter(location, sensor, start, end)
	require.NoError(t, err)
	return f
}

func TestApplyNoPredicates(t *testing.T) {
	records := testRecords()
	assert.Len(t, Apply(records, domain.QueryFilter{}), 3)
}

func TestApplyLocation(t *testing.T) {
	matched := Apply(testRecords(), mustFilter(t, "A", "", "", ""))
	assert.Len(t, matched, 2)
	for _, r := range matched {
		assert.Equal(t, "a", r.Location)
	}
}

func TestApplySensor(t *testing.T) {
	matched := Apply(testRecords(), mustFilter(t, "", "humid", "", ""))
	assert.Len(t, matched, 1)
	assert.Equal(t, "b", matched[0].Location)
}

func TestApplyStartInclusive(t *testing.T) {
	matched := Apply(testRecords(), mustFilter(t, "", "", "2025-01-03", ""))
	assert.Len(t, matched, 2)
}

func TestApplyDateOnlyEndIncludesWholeDay(t *testing.T) {
	records := []domain.Record{
		{Timestamp: time.Date(2025, 1, 5, 23, 59, 0, 0, time.UTC), Location: "a", Sensor: "temp", Value: fv(1)},
		{Timestamp: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), Location: "a", Sensor: "temp", Value: fv(2)},
	}
	matched := Apply(records, mustFilter(t, "", "", "", "2025-01-05"))
	require.Len(t, matched, 1)
	assert.Equal(t, fv(1), matched[0].Value)
}

func TestApplyTimestampedEndInclusive(t *testing.T) {
	matched := Apply(testRecords(), mustFilter(t, "", "", "", "2025-01-03T00:00:00Z"))
	assert.Len(t, matched, 2)
}

func TestApplyConjunction(t *testing.T) {
	matched := Apply(testRecords(), mustFilter(t, "a", "temp", "2025-01-02", "2025-01-05"))
	require.Len(t, matched, 1)
	assert.Equal(t, fv(20), matched[0].Value)
}

// Adding a predicate can only shrink the match set.
func TestApplyMonotonicNarrowing(t *testing.T) {
	records := testRecords()
	byLocation := Apply(records, mustFilter(t, "a", "", "", ""))
	narrowed := Apply(records, mustFilter(t, "a", "no-such-sensor", "", ""))
	assert.LessOrEqual(t, len(narrowed), len(byLocation))
	assert.Empty(t, narrowed)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	records := testRecords()
	Apply(records, mustFilter(t, "a", "", "", ""))
	assert.Equal(t, testRecords(), records)
}
