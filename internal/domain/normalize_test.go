package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "floor1", NormalizeLabel("  Floor1 "))
	assert.Equal(t, "temperature", NormalizeLabel("TEMPERATURE"))
	assert.Equal(t, "", NormalizeLabel("   "))
}

func TestParseTimestampLayouts(t *testing.T) {
	tests := []struct {
		input    string
		want     time.Time
		dateOnly bool
	}{
		{"2025-01-03", time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), true},
		{"2025-01-03T12:30:00", time.Date(2025, 1, 3, 12, 30, 0, 0, time.UTC), false},
		{"2025-01-03 12:30:00", time.Date(2025, 1, 3, 12, 30, 0, 0, time.UTC), false},
		{"2025-01-03T12:30:00Z", time.Date(2025, 1, 3, 12, 30, 0, 0, time.UTC), false},
		{"2025-01-03T14:30:00+02:00", time.Date(2025, 1, 3, 12, 30, 0, 0, time.UTC), false},
		{"  2025-01-03  ", time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		got, dateOnly, err := ParseTimestamp(tt.input)
		require.NoError(t, err, tt.input)
		assert.True(t, got.Equal(tt.want), "input %q: got %v", tt.input, got)
		assert.Equal(t, tt.dateOnly, dateOnly, tt.input)
		assert.Equal(t, time.UTC, got.Location(), tt.input)
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, input := range []string{"not-a-date", "2025-13-45", "03/01/2025", ""} {
		_, _, err := ParseTimestamp(input)
		assert.Error(t, err, input)
	}
}
