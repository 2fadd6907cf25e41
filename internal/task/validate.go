package task

import (
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
)

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if st.Valid() {
		return st, nil
	}
	return "", clierr.Newf(clierr.InvalidStatus, "invalid status %q", s).
		WithDetails(map[string]any{
			"status":  s,
			"allowed": Statuses,
		})
}

// ParsePriority validates a priority name. The quick-capture aliases p1..p4
// are accepted too.
func ParsePriority(s string) (Priority, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if p, ok := bangPriorities[v]; ok {
		return p, nil
	}
	return "", clierr.Newf(clierr.InvalidPriority, "invalid priority %q", s).
		WithDetails(map[string]any{
			"priority": s,
			"allowed":  Priorities,
		})
}

// ParseEnergy validates an energy level.
func ParseEnergy(s string) (Energy, error) {
	e := Energy(strings.ToLower(strings.TrimSpace(s)))
	if e.Valid() {
		return e, nil
	}
	return "", clierr.Newf(clierr.InvalidEnergy, "invalid energy %q", s).
		WithDetails(map[string]any{
			"energy":  s,
			"allowed": Energies,
		})
}

// ParseSlot validates a planner slot.
func ParseSlot(s string) (Slot, error) {
	sl := Slot(strings.ToLower(strings.TrimSpace(s)))
	if sl.Valid() {
		return sl, nil
	}
	return "", clierr.Newf(clierr.InvalidSlot, "invalid slot %q", s).
		WithDetails(map[string]any{
			"slot":    s,
			"allowed": Slots,
		})
}

// ParseRecurrence builds a rule from its command-line parts. weekdays is a
// comma-separated list of names or ordinals and only valid for weekly rules.
func ParseRecurrence(freq string, interval int, weekdays string) (Recurrence, error) {
	f := Freq(strings.ToLower(strings.TrimSpace(freq)))
	if !f.Valid() {
		return Recurrence{}, clierr.Newf(clierr.InvalidRecurrence, "invalid recurrence %q", freq).
			WithDetails(map[string]any{
				"freq":    freq,
				"allowed": Freqs,
			})
	}
	if interval < 1 {
		return Recurrence{}, clierr.Newf(clierr.InvalidRecurrence,
			"recurrence interval must be at least 1, got %d", interval).
			WithDetails(map[string]any{"interval": interval})
	}

	r := Recurrence{Freq: f, Interval: interval}
	if weekdays == "" {
		return r.Normalized(), nil
	}
	if f != FreqWeekly {
		return Recurrence{}, clierr.New(clierr.InvalidRecurrence,
			"weekdays can only be combined with a weekly recurrence")
	}
	for _, part := range strings.Split(weekdays, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, ok := ParseWeekday(part)
		if !ok {
			return Recurrence{}, clierr.Newf(clierr.InvalidRecurrence, "invalid weekday %q", part).
				WithDetails(map[string]any{"weekday": part})
		}
		r.ByWeekday = append(r.ByWeekday, d)
	}
	return r.Normalized(), nil
}

// ParseDue parses a due date argument. Besides YYYY-MM-DD it accepts the
// quick-capture words today, tomorrow and nextweek, and +N for N days ahead.
func ParseDue(input string, asOf date.Date) (date.Date, error) {
	v := strings.ToLower(strings.TrimSpace(input))
	if d, ok := relativeDue(v, asOf); ok {
		return d, nil
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(v, "+")); err == nil && strings.HasPrefix(v, "+") {
		return asOf.AddDays(n), nil
	}
	d, err := date.Parse(v)
	if err != nil {
		return date.Date{}, ValidateDate("due", input, err)
	}
	return d, nil
}

// ParseRemindAt parses a reminder date-time argument.
func ParseRemindAt(input string) (date.Moment, error) {
	m, err := date.ParseMoment(strings.TrimSpace(input))
	if err != nil {
		return date.Moment{}, ValidateDate("remind", input, err)
	}
	return m, nil
}

// ValidateDate returns a CLI error for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateDuration checks that an effort estimate is positive.
func ValidateDuration(minutes int) error {
	if minutes > 0 {
		return nil
	}
	return clierr.Newf(clierr.InvalidInput, "duration must be a positive number of minutes, got %d", minutes).
		WithDetails(map[string]any{"duration_min": minutes})
}

// ValidateTitle rejects empty titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return clierr.New(clierr.InvalidInput, "title must not be empty")
	}
	return nil
}
