package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/smartfactory/sensorstats/internal/domain"
)

// CSVSource reads records from a headered CSV file. The header must name
// timestamp and value columns; location and sensor columns are optional
// and default to the empty string. Header names are trimmed before
// matching.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string {
	return "csv:" + s.path
}

func (s *CSVSource) Fetch(ctx context.Context) ([]domain.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataLoad, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header of %s: %v", domain.ErrDataLoad, s.path, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	tsCol, ok := cols["timestamp"]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no timestamp column", domain.ErrDataLoad, s.path)
	}
	valCol, ok := cols["value"]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no value column", domain.ErrDataLoad, s.path)
	}
	locCol, hasLoc := cols["location"]
	senCol, hasSen := cols["sensor"]

	var records []domain.Record
	dropped := 0
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrDataLoad, s.path, err)
		}

		ts, _, err := domain.ParseTimestamp(field(row, tsCol))
		if err != nil {
			log.Printf("Dropping row %d of %s: %v", line, s.path, err)
			dropped++
			continue
		}

		rec := domain.Record{Timestamp: ts, Value: parseValue(field(row, valCol))}
		if hasLoc {
			rec.Location = domain.NormalizeLabel(field(row, locCol))
		}
		if hasSen {
			rec.Sensor = domain.NormalizeLabel(field(row, senCol))
		}
		records = append(records, rec)
	}

	if dropped > 0 {
		log.Printf("Dropped %d rows with unparseable timestamps from %s", dropped, s.path)
	}
	return records, nil
}

// Modified reports the file's mtime as the freshness marker.
func (s *CSVSource) Modified(ctx context.Context) (time.Time, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", s.path, err)
	}
	return info.ModTime(), nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// parseValue coerces a value cell to a float, or to nil when the cell is
// empty or not numeric. Bad values are tolerated per record, never an
// error.
func parseValue(s string) *float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &v
}
