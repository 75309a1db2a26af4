package model

import "time"

const dayFormat = "2006-01-02"

// DayString renders a date as a plain calendar day, or "" when absent.
func DayString(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(dayFormat)
}

// ParseDateMaybe parses a client-supplied date string. Empty or
// unparseable input maps to nil, which persists as NULL.
func ParseDateMaybe(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, dayFormat} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
