package utils

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidTimestamp = errors.New("invalid timestamp")

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	// datetime-local form value
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an RFC 3339 timestamp, a local date-time or a bare
// calendar date.
// Values without an offset are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidTimestamp
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, ErrInvalidTimestamp
}
