package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of reservation dates.
const DateLayout = "2006-01-02"

const minutesPerHour = 60

var clockRe = regexp.MustCompile(`^(\d{1,3}):(\d{2})$`)

// Clock parses an "HH:MM" value into minutes since midnight.
// Hours are not capped at 23 so that end times past midnight ("24:30") round-trip.
func Clock(raw string) (int, error) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", raw)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if minutes >= minutesPerHour {
		return 0, fmt.Errorf("invalid time %q: minutes out of range", raw)
	}
	return hours*minutesPerHour + minutes, nil
}

// TimeOfDay is like Clock but only accepts 00:00 through 23:59.
func TimeOfDay(raw string) (int, error) {
	total, err := Clock(raw)
	if err != nil {
		return 0, err
	}
	if total >= 24*minutesPerHour {
		return 0, fmt.Errorf("invalid time %q: hour out of range", raw)
	}
	return total, nil
}

// FormatClock renders minutes as zero-padded "HH:MM" without wrapping at 24 hours.
func FormatClock(total int) string {
	return fmt.Sprintf("%02d:%02d", total/minutesPerHour, total%minutesPerHour)
}

// Date parses a YYYY-MM-DD calendar date at midnight in loc.
func Date(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return t, nil
}
