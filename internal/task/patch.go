package task

import (
	"slices"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
)

// Patch lists the content fields an edit may change. Nil pointers and empty
// slices leave a field alone. Identity fields and status are not patchable;
// status changes go through SetStatus.
type Patch struct {
	Title       *string
	Notes       *string
	Due         *date.Date
	ClearDue    bool
	Priority    *Priority
	SetTags     *[]string
	AddTags     []string
	RemoveTags  []string
	Energy      *Energy
	DurationMin *int
	Slot        *Slot
	Recurrence  *Recurrence
	RemindAt    *date.Moment
	ClearRemind bool
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Notes == nil && p.Due == nil && !p.ClearDue &&
		p.Priority == nil && p.SetTags == nil && len(p.AddTags) == 0 &&
		len(p.RemoveTags) == 0 && p.Energy == nil && p.DurationMin == nil &&
		p.Slot == nil && p.Recurrence == nil && p.RemindAt == nil && !p.ClearRemind
}

func (p Patch) validate() error {
	if p.Due != nil && p.ClearDue {
		return clierr.New(clierr.InvalidInput, "cannot set and clear the due date at once")
	}
	if p.RemindAt != nil && p.ClearRemind {
		return clierr.New(clierr.InvalidInput, "cannot set and clear the reminder at once")
	}
	if p.Title != nil {
		if err := ValidateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Priority != nil {
		if _, err := ParsePriority(string(*p.Priority)); err != nil {
			return err
		}
	}
	if p.Energy != nil {
		if _, err := ParseEnergy(string(*p.Energy)); err != nil {
			return err
		}
	}
	if p.Slot != nil {
		if _, err := ParseSlot(string(*p.Slot)); err != nil {
			return err
		}
	}
	if p.DurationMin != nil {
		if err := ValidateDuration(*p.DurationMin); err != nil {
			return err
		}
	}
	if p.Recurrence != nil {
		if _, err := ParseRecurrence(string(p.Recurrence.Freq), p.Recurrence.Interval, ""); err != nil {
			return err
		}
	}
	return nil
}

// Apply validates p and applies it to t. It reports whether any field
// actually changed; UpdatedAt is refreshed only then. Changing the reminder
// re-arms it by clearing Notified. On error t is left untouched.
func Apply(t *Task, p Patch, now time.Time) (bool, error) {
	if err := p.validate(); err != nil {
		return false, err
	}

	before := t.Clone()

	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Due != nil {
		d := *p.Due
		t.Due = &d
	}
	if p.ClearDue {
		t.Due = nil
	}
	if p.Priority != nil {
		t.Priority, _ = ParsePriority(string(*p.Priority))
	}
	if p.SetTags != nil {
		t.Tags = NormalizeTags(*p.SetTags)
	}
	if len(p.AddTags) > 0 {
		t.Tags = NormalizeTags(append(slices.Clone(t.Tags), p.AddTags...))
	}
	if len(p.RemoveTags) > 0 {
		drop := NormalizeTags(p.RemoveTags)
		t.Tags = slices.DeleteFunc(t.Tags, func(tag string) bool {
			return slices.Contains(drop, tag)
		})
	}
	if p.Energy != nil {
		t.Energy, _ = ParseEnergy(string(*p.Energy))
	}
	if p.DurationMin != nil {
		t.DurationMin = *p.DurationMin
	}
	if p.Slot != nil {
		t.Slot, _ = ParseSlot(string(*p.Slot))
	}
	if p.Recurrence != nil {
		t.Recurrence = p.Recurrence.Normalized()
	}
	if p.RemindAt != nil {
		m := *p.RemindAt
		t.RemindAt = &m
	}
	if p.ClearRemind {
		t.RemindAt = nil
	}

	if !remindersEqual(before.RemindAt, t.RemindAt) {
		t.Notified = false
	}

	changed := !contentEqual(before, t)
	if changed {
		t.UpdatedAt = now
	}
	return changed, nil
}

func remindersEqual(a, b *date.Moment) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b.Time)
}

func datesEqual(a, b *date.Date) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func contentEqual(a, b *Task) bool {
	return a.Title == b.Title &&
		a.Notes == b.Notes &&
		datesEqual(a.Due, b.Due) &&
		a.Priority == b.Priority &&
		slices.Equal(a.Tags, b.Tags) &&
		a.Energy == b.Energy &&
		a.DurationMin == b.DurationMin &&
		a.Slot == b.Slot &&
		a.Recurrence.Freq == b.Recurrence.Freq &&
		a.Recurrence.Interval == b.Recurrence.Interval &&
		slices.Equal(a.Recurrence.ByWeekday, b.Recurrence.ByWeekday) &&
		remindersEqual(a.RemindAt, b.RemindAt) &&
		a.Notified == b.Notified
}
