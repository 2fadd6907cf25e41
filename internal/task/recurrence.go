package task

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
)

// Freq is the unit a recurrence advances by.
type Freq string

// Recurrence frequencies.
const (
	FreqNone    Freq = "none"
	FreqDaily   Freq = "daily"
	FreqWeekly  Freq = "weekly"
	FreqMonthly Freq = "monthly"
)

// Freqs lists every frequency.
var Freqs = []Freq{FreqNone, FreqDaily, FreqWeekly, FreqMonthly}

// Valid reports whether f is a known frequency.
func (f Freq) Valid() bool { return slices.Contains(Freqs, f) }

// weekdayScanDays bounds the forward search for a matching weekday.
const weekdayScanDays = 14

// Recurrence describes how a completed task's due date advances.
// ByWeekday holds weekday ordinals, 0 for Sunday through 6 for Saturday,
// and only applies to weekly rules.
type Recurrence struct {
	Freq      Freq  `yaml:"freq" json:"freq"`
	Interval  int   `yaml:"interval" json:"interval"`
	ByWeekday []int `yaml:"by_weekday,omitempty" json:"byWeekday,omitempty"`
}

// IsZero reports whether the rule has no scheduling effect. It lets task
// files omit the recurrence block entirely.
func (r Recurrence) IsZero() bool {
	return !r.Active()
}

// Active reports whether r schedules follow-up tasks.
func (r Recurrence) Active() bool {
	return r.Freq == FreqDaily || r.Freq == FreqWeekly || r.Freq == FreqMonthly
}

// Normalized returns r with a known frequency, an interval of at least one
// and sorted, unique, in-range weekdays.
func (r Recurrence) Normalized() Recurrence {
	if !r.Freq.Valid() || r.Freq == "" {
		r.Freq = FreqNone
	}
	if r.Interval < 1 {
		r.Interval = 1
	}
	var days []int
	for _, d := range r.ByWeekday {
		if d >= 0 && d <= 6 && !slices.Contains(days, d) {
			days = append(days, d)
		}
	}
	slices.Sort(days)
	r.ByWeekday = days
	return r
}

// String renders the rule for tables, e.g. "every 2 weeks on mon,fri".
func (r Recurrence) String() string {
	if !r.Active() {
		return string(FreqNone)
	}
	unit := map[Freq]string{FreqDaily: "day", FreqWeekly: "week", FreqMonthly: "month"}[r.Freq]
	s := "every "
	if r.Interval > 1 {
		s += strconv.Itoa(r.Interval) + " " + unit + "s"
	} else {
		s += unit
	}
	if r.Freq == FreqWeekly && len(r.ByWeekday) > 0 {
		s += " on "
		for i, d := range r.ByWeekday {
			if i > 0 {
				s += ","
			}
			s += WeekdayName(d)
		}
	}
	return s
}

// NextOccurrence returns the due date that follows current under r.
//
// Daily rules add Interval days and monthly rules add Interval calendar
// months, letting a day past the end of the target month roll into the next
// one. Weekly rules without weekdays add Interval weeks. Weekly rules with
// weekdays return the first matching day strictly after current within two
// weeks, ignoring Interval; if nothing matches they fall back to Interval
// weeks. Any other frequency returns current unchanged. An Interval below
// one counts as one.
func NextOccurrence(current date.Date, r Recurrence) date.Date {
	interval := max(r.Interval, 1)

	switch r.Freq {
	case FreqDaily:
		return current.AddDays(interval)
	case FreqWeekly:
		if len(r.ByWeekday) > 0 {
			for i := 1; i <= weekdayScanDays; i++ {
				candidate := current.AddDays(i)
				if slices.Contains(r.ByWeekday, int(candidate.Weekday())) {
					return candidate
				}
			}
		}
		return current.AddWeeks(interval)
	case FreqMonthly:
		return current.AddMonths(interval)
	default:
		return current
	}
}

var weekdayNames = []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// WeekdayName returns the three-letter name of a weekday ordinal.
func WeekdayName(d int) string {
	if d < 0 || d >= len(weekdayNames) {
		return "?"
	}
	return weekdayNames[d]
}

// ParseWeekday accepts a weekday ordinal (0-6) or an English weekday name
// of at least three letters.
func ParseWeekday(s string) (int, bool) {
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return int(s[0] - '0'), true
	}
	if len(s) < 3 { //nolint:mnd // shortest weekday abbreviation
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if len(s) <= len(name) && strings.EqualFold(name[:len(s)], s) {
			return int(d), true
		}
	}
	return 0, false
}
