package domain

import (
	"fmt"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// timestampLayouts are the accepted timestamp forms, tried in order.
// Layouts without a zone are interpreted as UTC, the dataset's anchor zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateOnlyLayout,
}

// NormalizeLabel canonicalizes a location or sensor label: trimmed and
// lower-cased. The same function is applied to dataset fields at load time
// and to query fields when building cache keys; the two must never diverge
// or cached lookups and fresh computation would disagree.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseTimestamp parses s against the accepted layouts and returns the
// instant in UTC. dateOnly reports whether s carried no time-of-day
// component, which matters for end-bound semantics.
func ParseTimestamp(s string) (t time.Time, dateOnly bool, err error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, perr := time.Parse(layout, trimmed); perr == nil {
			return parsed.UTC(), layout == dateOnlyLayout, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized timestamp %q", s)
}
