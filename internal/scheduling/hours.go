package scheduling

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidHours = errors.New("invalid business hours configuration")

// Hours describes when the single bookable resource is open.
// Open and Close are offsets from local midnight; a slot may start at Open
// and must start strictly before Close.
type Hours struct {
	Open        time.Duration
	Close       time.Duration
	Days        []time.Weekday
	Granularity time.Duration
	Location    *time.Location
}

// Check reports whether the configuration can produce at least one slot.
func (h Hours) Check() error {
	switch {
	case h.Location == nil:
		return fmt.Errorf("%w: timezone is required", ErrInvalidHours)
	case h.Granularity <= 0:
		return fmt.Errorf("%w: granularity must be positive", ErrInvalidHours)
	case (24*time.Hour)%h.Granularity != 0:
		return fmt.Errorf("%w: granularity %s does not divide a day", ErrInvalidHours, h.Granularity)
	case h.Open < 0 || h.Close > 24*time.Hour:
		return fmt.Errorf("%w: open and close must fall within one day", ErrInvalidHours)
	case h.Open >= h.Close:
		return fmt.Errorf("%w: open %s is not before close %s", ErrInvalidHours, FormatClock(h.Open), FormatClock(h.Close))
	case len(h.Days) == 0:
		return fmt.Errorf("%w: at least one business day is required", ErrInvalidHours)
	}
	return nil
}

func (h Hours) isBusinessDay(day time.Weekday) bool {
	for _, d := range h.Days {
		if d == day {
			return true
		}
	}
	return false
}

// ParseClock parses "HH:MM" (or "HH:MM:SS") into an offset from midnight.
// "24:00" is accepted as the end of the day.
func ParseClock(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("clock %q must be HH:MM", s)
	}
	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("clock %q must be HH:MM", s)
		}
		values[i] = v
	}
	hour, minute := values[0], values[1]
	second := 0
	if len(values) == 3 {
		second = values[2]
	}
	if minute > 59 || second > 59 || hour > 24 || (hour == 24 && (minute != 0 || second != 0)) {
		return 0, fmt.Errorf("clock %q is out of range", s)
	}
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second, nil
}

// FormatClock renders an offset from midnight as "HH:MM".
func FormatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekdays parses a comma separated list such as "mon,tue,wed" or
// a range such as "mon-fri". The result is sorted and deduplicated.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]bool)
	for _, item := range strings.Split(s, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		if from, to, ok := strings.Cut(item, "-"); ok {
			start, okStart := weekdayNames[strings.TrimSpace(from)]
			end, okEnd := weekdayNames[strings.TrimSpace(to)]
			if !okStart || !okEnd {
				return nil, fmt.Errorf("unknown weekday range %q", item)
			}
			for d := start; ; d = (d + 1) % 7 {
				seen[d] = true
				if d == end {
					break
				}
			}
			continue
		}
		day, ok := weekdayNames[item]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", item)
		}
		seen[day] = true
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("no weekdays in %q", s)
	}

	days := make([]time.Weekday, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days, nil
}

// WallTime places the clock reading of tod on day's date in loc. It reports
// false when that reading does not exist in loc, as inside a daylight saving
// gap, where time.Date would silently shift it.
func WallTime(day, tod time.Time, loc *time.Location) (time.Time, bool) {
	t := time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), tod.Second(), 0, loc)
	if t.Day() != day.Day() || t.Hour() != tod.Hour() || t.Minute() != tod.Minute() || t.Second() != tod.Second() {
		return t, false
	}
	return t, true
}
