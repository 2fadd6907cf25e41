// Package remind selects due reminders and delivers them.
package remind

import (
	"sort"
	"time"

	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// Pending returns the tasks whose reminder is due at now and has not fired
// yet, earliest reminder first.
func Pending(tasks []*task.Task, now time.Time) []*task.Task {
	var out []*task.Task
	for _, t := range tasks {
		if armed(t) && !t.RemindAt.After(now) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RemindAt.Before(out[j].RemindAt.Time)
	})
	return out
}

// Upcoming returns the armed reminders after now, earliest first.
func Upcoming(tasks []*task.Task, now time.Time) []*task.Task {
	var out []*task.Task
	for _, t := range tasks {
		if armed(t) && t.RemindAt.After(now) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RemindAt.Before(out[j].RemindAt.Time)
	})
	return out
}

// NextWake returns the earliest armed reminder after now.
func NextWake(tasks []*task.Task, now time.Time) (time.Time, bool) {
	up := Upcoming(tasks, now)
	if len(up) == 0 {
		return time.Time{}, false
	}
	return up[0].RemindAt.Time, true
}

func armed(t *task.Task) bool {
	return t.RemindAt != nil && !t.RemindAt.IsZero() && !t.Notified
}

// Message returns the notification title and body for t.
func Message(t *task.Task) (title, body string) {
	title = "Reminder: " + t.Title
	if t.Due != nil {
		body = "Due " + t.Due.String()
	}
	return title, body
}
