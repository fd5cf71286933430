package timeutil

import (
	"fmt"
	"time"
)

// Location is the business timezone used to decide what "today" is. Defaults to UTC.
var Location = time.UTC

// SetLocation switches the business timezone, e.g. "Asia/Kolkata".
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	Location = loc
	return nil
}

// Now returns the current time in the business timezone
func Now() time.Time {
	return time.Now().In(Location)
}

// Today returns the current calendar date in the business timezone as UTC midnight,
// the form dates are stored in.
func Today() time.Time {
	now := Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date to UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// Common layouts
const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "02 Jan 2006"
)
