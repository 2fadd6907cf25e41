// Package board derives views, summaries and groupings from task collections.
package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// Mode selects a date-relative slice of the open tasks.
type Mode string

// View modes.
const (
	ModeToday     Mode = "today"
	ModeUpcoming  Mode = "upcoming"
	ModeOverdue   Mode = "overdue"
	ModeAll       Mode = "all"
	ModeCompleted Mode = "completed"
)

// Modes lists every view mode in tab order.
var Modes = []Mode{ModeToday, ModeUpcoming, ModeOverdue, ModeAll, ModeCompleted}

// ParseMode validates a view mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Modes, m) {
		return m, nil
	}
	return "", clierr.Newf(clierr.InvalidMode, "invalid view mode %q", s).
		WithDetails(map[string]any{
			"mode":    s,
			"allowed": Modes,
		})
}

// ViewParams are the user-chosen settings that decide which tasks a view shows.
type ViewParams struct {
	ShowDone bool
	Tag      string
	Query    string
	Mode     Mode
}

// visible applies the show-done, tag and text filters.
func visible(t *task.Task, p ViewParams) bool {
	if t.IsDone() && !p.ShowDone {
		return false
	}
	if tag := normalizeTag(p.Tag); tag != "" && !t.HasTag(tag) {
		return false
	}
	if p.Query != "" && !matchesSearch(t, p.Query) {
		return false
	}
	return true
}

// matchesSearch performs case-insensitive substring matching over the title,
// notes and space-joined tags as one string, so a query may span fields.
func matchesSearch(t *task.Task, query string) bool {
	haystack := t.Title + " " + t.Notes + " " + strings.Join(t.Tags, " ")
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(query))
}

// inMode applies the date-relative mode filter against asOf.
func inMode(t *task.Task, m Mode, asOf date.Date) bool {
	switch m {
	case ModeCompleted:
		return t.IsDone()
	case ModeOverdue:
		return !t.IsDone() && t.Due != nil && t.Due.Before(asOf)
	case ModeUpcoming:
		return !t.IsDone() && t.Due != nil &&
			(t.Due.After(asOf) || t.Due.Equal(asOf.AddDays(1)))
	case ModeToday:
		return !t.IsDone() && (t.Due == nil || t.Due.Equal(asOf))
	default:
		return true
	}
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}
