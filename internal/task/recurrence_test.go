package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
)

func mustDate(t *testing.T, s string) date.Date {
	t.Helper()
	d, err := date.Parse(s)
	require.NoError(t, err)
	return d
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name string
		from string
		rule Recurrence
		want string
	}{
		{"daily", "2024-05-01", Recurrence{Freq: FreqDaily, Interval: 1}, "2024-05-02"},
		{"daily interval", "2024-05-01", Recurrence{Freq: FreqDaily, Interval: 2}, "2024-05-03"},
		{"daily across year", "2024-12-31", Recurrence{Freq: FreqDaily, Interval: 1}, "2025-01-01"},
		{"weekly", "2024-05-01", Recurrence{Freq: FreqWeekly, Interval: 1}, "2024-05-08"},
		{"biweekly", "2024-05-01", Recurrence{Freq: FreqWeekly, Interval: 2}, "2024-05-15"},
		{"monday to wednesday", "2024-05-06", Recurrence{Freq: FreqWeekly, Interval: 1, ByWeekday: []int{3, 5}}, "2024-05-08"},
		{"friday wraps to wednesday", "2024-05-10", Recurrence{Freq: FreqWeekly, Interval: 1, ByWeekday: []int{3, 5}}, "2024-05-15"},
		{"same weekday is not reselected", "2024-05-05", Recurrence{Freq: FreqWeekly, Interval: 1, ByWeekday: []int{0}}, "2024-05-12"},
		{"weekdays ignore interval", "2024-05-06", Recurrence{Freq: FreqWeekly, Interval: 3, ByWeekday: []int{2}}, "2024-05-07"},
		{"out of range weekdays fall back", "2024-05-06", Recurrence{Freq: FreqWeekly, Interval: 2, ByWeekday: []int{9, -1}}, "2024-05-20"},
		{"monthly", "2024-03-15", Recurrence{Freq: FreqMonthly, Interval: 1}, "2024-04-15"},
		{"monthly rolls over short month", "2024-01-31", Recurrence{Freq: FreqMonthly, Interval: 1}, "2024-03-02"},
		{"monthly rolls over non-leap year", "2023-01-31", Recurrence{Freq: FreqMonthly, Interval: 1}, "2023-03-03"},
		{"quarterly", "2024-11-30", Recurrence{Freq: FreqMonthly, Interval: 3}, "2025-03-02"},
		{"zero interval counts as one", "2024-05-01", Recurrence{Freq: FreqDaily, Interval: 0}, "2024-05-02"},
		{"negative interval counts as one", "2024-05-01", Recurrence{Freq: FreqWeekly, Interval: -4}, "2024-05-08"},
		{"none is a no-op", "2024-05-01", Recurrence{Freq: FreqNone, Interval: 1}, "2024-05-01"},
		{"unknown freq is a no-op", "2024-05-01", Recurrence{Freq: "yearly", Interval: 1}, "2024-05-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(mustDate(t, tt.from), tt.rule)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNextOccurrenceWeeklyIsSevenDays(t *testing.T) {
	rule := Recurrence{Freq: FreqWeekly, Interval: 1}
	d := date.New(2024, time.January, 1)
	for i := 0; i < 400; i++ {
		assert.Equal(t, d.AddDays(7), NextOccurrence(d, rule), d.String())
		d = d.AddDays(1)
	}
}

func TestNextOccurrenceWeekdayScanAlwaysMatches(t *testing.T) {
	d := date.New(2024, time.May, 1)
	for wd := 0; wd <= 6; wd++ {
		rule := Recurrence{Freq: FreqWeekly, Interval: 1, ByWeekday: []int{wd}}
		next := NextOccurrence(d, rule)
		assert.Equal(t, time.Weekday(wd), next.Weekday())
		assert.True(t, next.After(d))
		assert.LessOrEqual(t, d.DaysUntil(next), 7)
	}
}

func TestRecurrenceNormalized(t *testing.T) {
	r := Recurrence{Freq: "fortnightly", Interval: 0, ByWeekday: []int{5, 1, 5, 8}}.Normalized()
	assert.Equal(t, FreqNone, r.Freq)
	assert.Equal(t, 1, r.Interval)
	assert.Equal(t, []int{1, 5}, r.ByWeekday)
	assert.False(t, r.Active())
	assert.True(t, r.IsZero())
}

func TestRecurrenceString(t *testing.T) {
	assert.Equal(t, "none", Recurrence{Freq: FreqNone, Interval: 1}.String())
	assert.Equal(t, "every day", Recurrence{Freq: FreqDaily, Interval: 1}.String())
	assert.Equal(t, "every 2 weeks on mon,fri",
		Recurrence{Freq: FreqWeekly, Interval: 2, ByWeekday: []int{1, 5}}.String())
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]int{"0": 0, "6": 6, "mon": 1, "Wednesday": 3, "FRI": 5, "sat": 6} {
		got, ok := ParseWeekday(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"7", "mo", "someday", ""} {
		_, ok := ParseWeekday(in)
		assert.False(t, ok, in)
	}
}
