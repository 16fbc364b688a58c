package scheduling

import (
	"errors"
	"testing"
	"time"
)

// Monday 2030-01-07 08:00 in the business timezone.
func testClock(loc *time.Location) func() time.Time {
	return func() time.Time {
		return time.Date(2030, 1, 7, 8, 0, 0, 0, loc)
	}
}

func testHours(t *testing.T) Hours {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return Hours{
		Open:        9 * time.Hour,
		Close:       17 * time.Hour,
		Days:        []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		Granularity: 30 * time.Minute,
		Location:    loc,
	}
}

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	hours := testHours(t)
	v, err := NewValidator(hours, WithClock(testClock(hours.Location)))
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}
	return v
}

func TestValidator_Validate(t *testing.T) {
	v := newTestValidator(t)
	loc := v.Location()

	tests := []struct {
		name    string
		start   time.Time
		wantErr error
	}{
		{
			name:  "opening slot is accepted",
			start: time.Date(2030, 1, 7, 9, 0, 0, 0, loc),
		},
		{
			name:  "half hour slot is accepted",
			start: time.Date(2030, 1, 7, 10, 30, 0, 0, loc),
		},
		{
			name:  "last slot before close is accepted",
			start: time.Date(2030, 1, 11, 16, 30, 0, 0, loc),
		},
		{
			name:  "same instant expressed in UTC is accepted",
			start: time.Date(2030, 1, 7, 4, 30, 0, 0, time.UTC), // 10:00 IST
		},
		{
			name:    "closing time is outside business hours",
			start:   time.Date(2030, 1, 7, 17, 0, 0, 0, loc),
			wantErr: ErrOutsideBusinessHours,
		},
		{
			name:    "before opening is outside business hours",
			start:   time.Date(2030, 1, 7, 8, 30, 0, 0, loc),
			wantErr: ErrOutsideBusinessHours,
		},
		{
			name:    "saturday is outside business hours",
			start:   time.Date(2030, 1, 12, 10, 0, 0, 0, loc),
			wantErr: ErrOutsideBusinessHours,
		},
		{
			name:    "quarter past is not on a slot boundary",
			start:   time.Date(2030, 1, 7, 10, 15, 0, 0, loc),
			wantErr: ErrInvalidGranularity,
		},
		{
			name:    "seconds break alignment",
			start:   time.Date(2030, 1, 7, 10, 0, 30, 0, loc),
			wantErr: ErrInvalidGranularity,
		},
		{
			name:    "current instant is in the past",
			start:   time.Date(2030, 1, 7, 8, 0, 0, 0, loc),
			wantErr: ErrPastDate,
		},
		{
			name:    "previous week is in the past",
			start:   time.Date(2029, 12, 31, 10, 0, 0, 0, loc),
			wantErr: ErrPastDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.start)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidator_AcceptsEveryAlignedBusinessSlot(t *testing.T) {
	v := newTestValidator(t)
	loc := v.Location()

	for day := 7; day <= 13; day++ {
		for minute := 0; minute < 24*60; minute += 15 {
			start := time.Date(2030, 1, day, minute/60, minute%60, 0, 0, loc)
			err := v.Validate(start)

			businessDay := start.Weekday() != time.Saturday && start.Weekday() != time.Sunday
			inHours := minute >= 9*60 && minute < 17*60
			aligned := minute%30 == 0
			past := !start.After(testClock(loc)())

			switch {
			case past:
				if !errors.Is(err, ErrPastDate) {
					t.Fatalf("%s: error = %v, want ErrPastDate", start, err)
				}
			case !businessDay || !inHours:
				if !errors.Is(err, ErrOutsideBusinessHours) {
					t.Fatalf("%s: error = %v, want ErrOutsideBusinessHours", start, err)
				}
			case !aligned:
				if !errors.Is(err, ErrInvalidGranularity) {
					t.Fatalf("%s: error = %v, want ErrInvalidGranularity", start, err)
				}
			default:
				if err != nil {
					t.Fatalf("%s: error = %v, want nil", start, err)
				}
			}
		}
	}
}

func TestValidator_DaySlots(t *testing.T) {
	v := newTestValidator(t)
	loc := v.Location()

	slots := v.DaySlots(time.Date(2030, 1, 8, 0, 0, 0, 0, loc))
	if len(slots) != 16 {
		t.Fatalf("len(DaySlots) = %d, want 16", len(slots))
	}
	if want := time.Date(2030, 1, 8, 9, 0, 0, 0, loc); !slots[0].Equal(want) {
		t.Errorf("first slot = %s, want %s", slots[0], want)
	}
	if want := time.Date(2030, 1, 8, 16, 30, 0, 0, loc); !slots[15].Equal(want) {
		t.Errorf("last slot = %s, want %s", slots[15], want)
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i].After(slots[i-1]) {
			t.Fatalf("slots not strictly ordered at %d", i)
		}
	}

	if got := v.DaySlots(time.Date(2030, 1, 13, 12, 0, 0, 0, loc)); got != nil {
		t.Errorf("DaySlots(sunday) = %v, want nil", got)
	}
}

func TestValidator_DaySlots_UnalignedOpening(t *testing.T) {
	hours := testHours(t)
	hours.Open = 9*time.Hour + 15*time.Minute
	hours.Close = 10*time.Hour + 45*time.Minute
	v, err := NewValidator(hours, WithClock(testClock(hours.Location)))
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}

	slots := v.DaySlots(time.Date(2030, 1, 8, 0, 0, 0, 0, hours.Location))
	if len(slots) != 3 {
		t.Fatalf("len(DaySlots) = %d, want 3 (09:30, 10:00, 10:30)", len(slots))
	}
	for _, s := range slots {
		if err := v.Validate(s); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", s, err)
		}
	}
}

func TestNewValidator_RejectsBadHours(t *testing.T) {
	base := testHours(t)

	tests := []struct {
		name   string
		mutate func(h *Hours)
	}{
		{"missing timezone", func(h *Hours) { h.Location = nil }},
		{"zero granularity", func(h *Hours) { h.Granularity = 0 }},
		{"granularity does not divide day", func(h *Hours) { h.Granularity = 7 * time.Minute }},
		{"open after close", func(h *Hours) { h.Open, h.Close = 17*time.Hour, 9*time.Hour }},
		{"no business days", func(h *Hours) { h.Days = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := base
			tt.mutate(&h)
			if _, err := NewValidator(h); !errors.Is(err, ErrInvalidHours) {
				t.Errorf("NewValidator() error = %v, want ErrInvalidHours", err)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "09:00", want: 9 * time.Hour},
		{in: "17:30", want: 17*time.Hour + 30*time.Minute},
		{in: "08:15:00", want: 8*time.Hour + 15*time.Minute},
		{in: "24:00", want: 24 * time.Hour},
		{in: "24:30", wantErr: true},
		{in: "9", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "10:75", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseClock(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		in      string
		want    []time.Weekday
		wantErr bool
	}{
		{in: "mon,tue,wed", want: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday}},
		{in: "Mon-Fri", want: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}},
		{in: "fri-mon", want: []time.Weekday{time.Sunday, time.Monday, time.Friday, time.Saturday}},
		{in: "sat, saturday ,sun", want: []time.Weekday{time.Sunday, time.Saturday}},
		{in: "funday", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekdays(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekdays(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseWeekdays(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ParseWeekdays(%q) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}

func TestWallTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	clock := func(s string) time.Time {
		tod, err := time.Parse("15:04:05", s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		return tod
	}
	// Clocks jump from 02:00 to 03:00 on 2030-03-10 and fall back on 2030-11-03.
	springForward := time.Date(2030, 3, 10, 0, 0, 0, 0, loc)
	fallBack := time.Date(2030, 11, 3, 0, 0, 0, 0, loc)

	tests := []struct {
		name   string
		day    time.Time
		clock  string
		wantOK bool
	}{
		{name: "ordinary day", day: time.Date(2030, 1, 8, 0, 0, 0, 0, loc), clock: "10:30:00", wantOK: true},
		{name: "before the gap", day: springForward, clock: "01:30:00", wantOK: true},
		{name: "inside the gap", day: springForward, clock: "02:30:00", wantOK: false},
		{name: "after the gap", day: springForward, clock: "03:00:00", wantOK: true},
		{name: "repeated hour", day: fallBack, clock: "01:30:00", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := WallTime(tt.day, clock(tt.clock), loc)
			if ok != tt.wantOK {
				t.Fatalf("WallTime(%s, %s) ok = %v, want %v (got %s)", tt.day.Format("2006-01-02"), tt.clock, ok, tt.wantOK, got)
			}
			if ok && got.Format("15:04:05") != tt.clock {
				t.Errorf("WallTime() = %s, want clock %s", got, tt.clock)
			}
		})
	}
}
