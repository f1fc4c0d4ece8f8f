package util

import (
	"fmt"
	"strconv"
	"time"
)

// PeriodLayout is the wire format of a return period (one row of a series).
const PeriodLayout = "2006-01-02"

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ParsePeriod accepts a day (2006-01-02), a month (2006-01, first day) or a
// year (2006, first day) and returns midnight UTC.
func ParsePeriod(s string) (time.Time, error) {
	for _, layout := range []string{PeriodLayout, "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if t, ok := ParseTime(s); ok {
		return TruncateDay(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid period %q: want YYYY-MM-DD, YYYY-MM or YYYY", s)
}

// FormatPeriod renders t in PeriodLayout.
func FormatPeriod(t time.Time) string {
	return t.UTC().Format(PeriodLayout)
}

// TruncateDay drops the time of day in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
