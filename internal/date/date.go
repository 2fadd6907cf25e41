// Package date provides calendar types that marshal as YYYY-MM-DD and local
// date-times, plus the day/week/month arithmetic used by recurrence.
package date

import (
	"encoding/json"
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"
)

const format = "2006-01-02"

// Date represents a calendar date without time or timezone.
// The zero Date means "no date".
type Date struct {
	time.Time
}

// New creates a Date from year, month, day.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Of returns the calendar date of t in t's own location.
func Of(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns today's date in the local timezone.
func Today() Date {
	return Of(time.Now())
}

// Parse parses a YYYY-MM-DD string into a Date. Impossible dates such as
// 2024-02-30 are rejected.
func Parse(s string) (Date, error) {
	t, err := time.Parse(format, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(format)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// AddWeeks returns d shifted by n weeks.
func (d Date) AddWeeks(n int) Date {
	return d.AddDays(n * 7) //nolint:mnd // days per week
}

// AddMonths returns d shifted by n calendar months. A day that does not exist
// in the target month rolls over into the following month (2024-01-31 plus one
// month is 2024-03-02).
func (d Date) AddMonths(n int) Date {
	return Date{d.AddDate(0, n, 0)}
}

// Equal reports whether d and o are the same calendar date.
func (d Date) Equal(o Date) bool {
	return d.Compare(o) == 0
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	return d.Time.Compare(o.Time)
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool {
	return d.Compare(o) > 0
}

// DaysUntil returns the number of days from d to o (negative if o is earlier).
func (d Date) DaysUntil(o Date) int {
	const day = 24 * time.Hour
	return int(o.Sub(d.Time) / day)
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.v3 Unmarshaler. A malformed value decodes to
// the zero Date instead of failing the whole document.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := Parse(value.Value)
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. Malformed strings decode to the
// zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}

// Valid returns p when it points at a real date and nil otherwise.
func Valid(p *Date) *Date {
	if p == nil || p.IsZero() {
		return nil
	}
	return p
}
