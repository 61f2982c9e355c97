// Package query implements the hot path: normalizing raw filter input,
// deriving cache keys, filtering the dataset and reducing it to aggregate
// statistics.
package query

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/smartfactory/sensorstats/internal/domain"
)

// BuildFilter normalizes raw query fields into a canonical
// domain.QueryFilter. Labels go through the same NormalizeLabel the
// dataset store applies; empty after trimming means absent. Dates must
// match one of the accepted ISO layouts or the call fails with
// *domain.InvalidDateError. A date-only end bound is widened to the
// following midnight and compared strictly, so "end_date=2025-01-05"
// includes the whole of January 5th.
func BuildFilter(location, sensor, start, end string) (domain.QueryFilter, error) {
	var f domain.QueryFilter

	if l := domain.NormalizeLabel(location); l != "" {
		f.Location = &l
	}
	if s := domain.NormalizeLabel(sensor); s != "" {
		f.Sensor = &s
	}

	if strings.TrimSpace(start) != "" {
		t, _, err := domain.ParseTimestamp(start)
		if err != nil {
			return domain.QueryFilter{}, &domain.InvalidDateError{Field: "start_date", Input: start}
		}
		f.Start = &t
	}
	if strings.TrimSpace(end) != "" {
		t, dateOnly, err := domain.ParseTimestamp(end)
		if err != nil {
			return domain.QueryFilter{}, &domain.InvalidDateError{Field: "end_date", Input: end}
		}
		if dateOnly {
			t = t.Add(24 * time.Hour)
			f.EndExclusive = true
		}
		f.End = &t
	}

	return f, nil
}

// Key derives the cache key for a normalized filter: a SHA-256 digest of
// its canonical JSON form. Struct field order fixes the serialization
// order, absent fields marshal to explicit nulls and UTC instants marshal
// to a single RFC 3339 spelling, so semantically identical queries always
// digest to the same key.
func Key(f domain.QueryFilter) string {
	payload, _ := json.Marshal(f)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
