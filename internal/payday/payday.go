// Package payday generates recurring payday instants: a fixed weekday and
// wall-clock time, repeating at a fixed interval of calendar days.
package payday

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTime is returned for malformed weekday or clock settings.
var ErrInvalidTime = errors.New("invalid payday time")

// DefaultIntervalDays is the biweekly cadence.
const DefaultIntervalDays = 14

// Calendar describes the payday rule.
type Calendar struct {
	Weekday      time.Weekday
	Hour         int
	Minute       int
	IntervalDays int
	Location     *time.Location // nil means time.Local
}

// Default returns the Wednesday 09:00 local, every 14 days rule.
func Default() Calendar {
	return Calendar{
		Weekday:      time.Wednesday,
		Hour:         9,
		IntervalDays: DefaultIntervalDays,
	}
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Calendar) interval() int {
	if c.IntervalDays <= 0 {
		return DefaultIntervalDays
	}
	return c.IntervalDays
}

// Validate checks that the clock fields are in range.
func (c Calendar) Validate() error {
	if c.Weekday < time.Sunday || c.Weekday > time.Saturday {
		return fmt.Errorf("%w: weekday %d", ErrInvalidTime, c.Weekday)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, c.Hour, c.Minute)
	}
	return nil
}

// Next returns the earliest payday instant strictly after ref.
// A ref on the payday weekday but before the payday time yields the same day.
func (c Calendar) Next(ref time.Time) time.Time {
	loc := c.loc()
	r := ref.In(loc)

	ahead := (int(c.Weekday) - int(r.Weekday()) + 7) % 7
	next := time.Date(r.Year(), r.Month(), r.Day()+ahead, c.Hour, c.Minute, 0, 0, loc)
	for !next.After(ref) {
		next = time.Date(next.Year(), next.Month(), next.Day()+7, c.Hour, c.Minute, 0, 0, loc)
	}
	return next
}

// NextN returns count paydays starting at Next(ref), each IntervalDays
// calendar days after the previous one. count <= 0 yields an empty slice.
func (c Calendar) NextN(count int, ref time.Time) []time.Time {
	if count <= 0 {
		return []time.Time{}
	}

	first := c.Next(ref)
	step := c.interval()
	out := make([]time.Time, count)
	for i := range out {
		out[i] = time.Date(first.Year(), first.Month(), first.Day()+i*step, c.Hour, c.Minute, 0, 0, first.Location())
	}
	return out
}

// String describes the rule, e.g. "Wednesday 09:00 every 14 days".
func (c Calendar) String() string {
	return fmt.Sprintf("%s %02d:%02d every %d days", c.Weekday, c.Hour, c.Minute, c.interval())
}

// WeekdayName returns the English name of weekday d, Sunday being 0.
func WeekdayName(d int) string {
	return time.Weekday(d % 7).String()
}

// ParseWeekday accepts full or three-letter English weekday names.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: weekday %q", ErrInvalidTime, s)
}

// ParseClock parses "HH:MM" in 24-hour form.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: clock %q", ErrInvalidTime, s)
	}
	return t.Hour(), t.Minute(), nil
}
