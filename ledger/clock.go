/*
clock.go - Time-of-day values and the duration calculator

PURPOSE:
  Lessons are booked as a calendar date plus a start/end time of day.
  Clock is an hour/minute pair with no date and no time zone; Date is a
  calendar day with no clock. Duration converts a Clock interval into
  decimal hours.

DURATION CONTRACT:
  Duration(start, end) = (end.minutes - start.minutes) / 60, signed.
  A zero or negative result means the interval is invalid, but that
  judgement belongs to the Ledger - Duration itself never errors.

SEE ALSO:
  - ledger.go: Validates intervals and enforces the capacity budget
*/
package ledger

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CLOCK - Time of day (hour/minute), no date, no zone
// =============================================================================

type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (also accepts "H:MM").
// Hour must be in [0,24), minute in [0,60).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hour < 0 || hour >= 24 {
		return Clock{}, fmt.Errorf("invalid time %q: hour out of range", s)
	}
	if minute < 0 || minute >= 60 {
		return Clock{}, fmt.Errorf("invalid time %q: minute out of range", s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

func (c Clock) MinuteOfDay() int { return c.Hour*60 + c.Minute }

func (c Clock) After(o Clock) bool { return c.MinuteOfDay() > o.MinuteOfDay() }

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Duration returns the signed length of [start, end] in decimal hours.
// Callers interpret a result <= 0 as an invalid interval.
func Duration(start, end Clock) decimal.Decimal {
	minutes := int64(end.MinuteOfDay() - start.MinuteOfDay())
	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60))
}

// =============================================================================
// DATE - Calendar day, no clock, no zone
// =============================================================================

type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// DateOf truncates a time to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

func (d Date) String() string { return d.Time().Format("2006-01-02") }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
