package domain

import "time"

// QueryFilter is the canonical form of a client's location/sensor/date
// range request. Absent fields skip their predicate entirely. Two filters
// with equal normalized fields denote the same query for caching purposes.
type QueryFilter struct {
	Location *string    `json:"location"`
	Sensor   *string    `json:"sensor"`
	Start    *time.Time `json:"start"`
	End      *time.Time `json:"end"`

	// EndExclusive is set when the end bound arrived as a bare date. The
	// bound is then the following midnight compared strictly, which makes
	// a date-only end inclusive of its whole day.
	EndExclusive bool `json:"end_exclusive"`
}

// AggregateResult summarizes the value column of a filtered record set.
// Avg, Min and Max are nil exactly when Count is zero so callers can tell
// "no data" apart from a zero reading.
type AggregateResult struct {
	Count int64    `json:"count"`
	Avg   *float64 `json:"avg"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
}
