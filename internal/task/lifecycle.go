package task

import (
	"time"

	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
)

// SetStatus moves t to status and keeps CompletedAt in step: set when the
// task enters done, cleared when it leaves. changed is false when t already
// had that status.
//
// When a task with an active recurrence enters done, the follow-up instance
// is returned as spawned: a copy with ID newID, status todo, the due date
// advanced by NextOccurrence and the reminder re-armed. The completed task
// itself is kept. A recurring task without a due date advances from the
// completion day.
func SetStatus(t *Task, status Status, now time.Time, newID string) (spawned *Task, changed bool) {
	if t.Status == status {
		return nil, false
	}

	t.Status = status
	t.UpdatedAt = now
	if status != StatusDone {
		t.CompletedAt = nil
		return nil, true
	}

	completed := now
	t.CompletedAt = &completed
	if !t.Recurrence.Active() {
		return nil, true
	}
	return spawn(t, now, newID), true
}

// Toggle flips a task between done and todo, as the list checkbox does.
func Toggle(t *Task, now time.Time, newID string) *Task {
	next := StatusDone
	if t.IsDone() {
		next = StatusTodo
	}
	spawned, _ := SetStatus(t, next, now, newID)
	return spawned
}

func spawn(t *Task, now time.Time, newID string) *Task {
	base := date.Of(now)
	if t.Due != nil {
		base = *t.Due
	}
	next := NextOccurrence(base, t.Recurrence)

	c := t.Clone()
	c.ID = newID
	c.Status = StatusTodo
	c.CompletedAt = nil
	c.Due = &next
	c.Notified = false
	c.CreatedAt = now
	c.UpdatedAt = now
	c.File = ""
	if c.RemindAt != nil {
		shifted := date.Moment{Time: c.RemindAt.AddDate(0, 0, base.DaysUntil(next))}
		c.RemindAt = &shifted
	}
	return c
}
