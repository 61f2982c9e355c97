package domain

import (
	"errors"
	"fmt"
)

// ErrDataLoad marks a dataset source that is missing, unreadable or lacks
// the required columns. It is fatal at startup and never recoverable by an
// individual query.
var ErrDataLoad = errors.New("dataset load failed")

// InvalidDateError reports a start or end filter value that failed to
// parse. It is surfaced to the immediate caller as a rejected query and
// leaves cache and dataset state untouched.
type InvalidDateError struct {
	Field string
	Input string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid %s %q: use ISO format (YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS)", e.Field, e.Input)
}
