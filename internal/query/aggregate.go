package query

import "github.com/smartfactory/sensorstats/internal/domain"

// Aggregate reduces records to {count, avg, min, max} over the present
// values. Records with a nil Value are not counted. A zero count leaves
// avg/min/max nil rather than zero. Pure: same subset in, same result out.
func Aggregate(records []domain.Record) domain.AggregateResult {
	var (
		count     int64
		sum       float64
		low, high float64
	)
	for _, r := range records {
		if r.Value == nil {
			continue
		}
		v := *r.Value
		if count == 0 {
			low, high = v, v
		} else {
			if v < low {
				low = v
			}
			if v > high {
				high = v
			}
		}
		count++
		sum += v
	}

	if count == 0 {
		return domain.AggregateResult{}
	}
	avg := sum / float64(count)
	return domain.AggregateResult{Count: count, Avg: &avg, Min: &low, Max: &high}
}
