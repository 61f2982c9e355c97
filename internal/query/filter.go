package query

import "github.com/smartfactory/sensorstats/internal/domain"

// Apply returns the records matching every predicate present in f.
// Predicates are conjunctive and independently skippable; the input slice
// is never modified.
func Apply(records []domain.Record, f domain.QueryFilter) []domain.Record {
	matched := make([]domain.Record, 0)
	for _, r := range records {
		if f.Location != nil && r.Location != *f.Location {
			continue
		}
		if f.Sensor != nil && r.Sensor != *f.Sensor {
			continue
		}
		if f.Start != nil && r.Timestamp.Before(*f.Start) {
			continue
		}
		if f.End != nil {
			if f.EndExclusive {
				if !r.Timestamp.Before(*f.End) {
					continue
				}
			} else if r.Timestamp.After(*f.End) {
				continue
			}
		}
		matched = append(matched, r)
	}
	return matched
}
