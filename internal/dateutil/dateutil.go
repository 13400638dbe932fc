// Package dateutil converts between calendar dates, strings and Unix
// timestamps. All functions are pure; there is no shared state.
package dateutil

import (
	"fmt"
	"time"
)

// Layout is the default date layout (YYYY-MM-DD).
const Layout = "2006-01-02"

// Parse parses a YYYY-MM-DD date as midnight UTC.
func Parse(s string) (time.Time, error) {
	return ParseLayout(s, Layout)
}

// ParseLayout parses s with layout, in UTC.
func ParseLayout(s, layout string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return t, nil
}

// MustParse is Parse for constants and tests; it panics on malformed input.
func MustParse(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Format formats t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// FormatLayout formats t with an arbitrary Go layout.
func FormatLayout(t time.Time, layout string) string {
	return t.Format(layout)
}

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// Add shifts t by the given calendar and clock offsets. Negative values move
// backwards. Calendar fields normalize like time.AddDate.
func Add(t time.Time, years, months, days, hours, minutes, seconds int) time.Time {
	return t.AddDate(years, months, days).Add(
		time.Duration(hours)*time.Hour +
			time.Duration(minutes)*time.Minute +
			time.Duration(seconds)*time.Second,
	)
}

// YearsBack returns t moved back the given number of years.
func YearsBack(t time.Time, years int) time.Time {
	return t.AddDate(-years, 0, 0)
}

// ToUnix returns t as seconds since the Unix epoch.
func ToUnix(t time.Time) int64 {
	return t.Unix()
}

// ParseUnix converts seconds since the Unix epoch to a UTC time.
func ParseUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
