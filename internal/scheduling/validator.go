package scheduling

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrOutsideBusinessHours = errors.New("outside business hours")
	ErrInvalidGranularity   = errors.New("time is not aligned to a slot boundary")
	ErrPastDate             = errors.New("date is in the past")
)

// Validator checks candidate appointment starts against business hours.
// It holds no mutable state; the clock is injected so results are a pure
// function of (candidate, configuration, now).
type Validator struct {
	hours Hours
	now   func() time.Time
}

type Option func(*Validator)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

func NewValidator(hours Hours, opts ...Option) (*Validator, error) {
	if err := hours.Check(); err != nil {
		return nil, err
	}
	v := &Validator{
		hours: hours,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Now returns the current time in the business timezone.
func (v *Validator) Now() time.Time {
	return v.now().In(v.hours.Location)
}

func (v *Validator) Location() *time.Location {
	return v.hours.Location
}

func (v *Validator) Hours() Hours {
	return v.hours
}

// Validate returns nil when start is a bookable slot, otherwise one of
// ErrPastDate, ErrOutsideBusinessHours or ErrInvalidGranularity (wrapped
// with detail).
func (v *Validator) Validate(start time.Time) error {
	local := start.In(v.hours.Location)

	if !local.After(v.Now()) {
		return fmt.Errorf("%w: %s", ErrPastDate, local.Format("2006-01-02 15:04"))
	}

	if !v.hours.isBusinessDay(local.Weekday()) {
		return fmt.Errorf("%w: closed on %s", ErrOutsideBusinessHours, local.Weekday())
	}

	offset := sinceMidnight(local)
	if offset < v.hours.Open || offset >= v.hours.Close {
		return fmt.Errorf("%w: open %s to %s", ErrOutsideBusinessHours,
			FormatClock(v.hours.Open), FormatClock(v.hours.Close))
	}

	if offset%v.hours.Granularity != 0 {
		return fmt.Errorf("%w: slots start every %d minutes", ErrInvalidGranularity,
			int(v.hours.Granularity/time.Minute))
	}

	return nil
}

// DaySlots lists every slot start on the calendar date of day (in the
// business timezone), ignoring occupancy and the current time. Non-business
// days yield nil.
func (v *Validator) DaySlots(day time.Time) []time.Time {
	local := day.In(v.hours.Location)
	if !v.hours.isBusinessDay(local.Weekday()) {
		return nil
	}

	year, month, date := local.Date()
	first := v.hours.Open
	if rem := first % v.hours.Granularity; rem != 0 {
		first += v.hours.Granularity - rem
	}

	var slots []time.Time
	for offset := first; offset < v.hours.Close; offset += v.hours.Granularity {
		slots = append(slots, atOffset(year, month, date, offset, v.hours.Location))
	}
	return slots
}

// SameDate reports whether a and b fall on the same calendar date in the
// business timezone.
func (v *Validator) SameDate(a, b time.Time) bool {
	ay, am, ad := a.In(v.hours.Location).Date()
	by, bm, bd := b.In(v.hours.Location).Date()
	return ay == by && am == bm && ad == bd
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

// atOffset builds a wall-clock time so that DST transitions do not shift
// slot boundaries.
func atOffset(year int, month time.Month, day int, offset time.Duration, loc *time.Location) time.Time {
	return time.Date(year, month, day,
		int(offset/time.Hour), int(offset%time.Hour/time.Minute), int(offset%time.Minute/time.Second), 0, loc)
}
