package remind

import (
	"context"
	"fmt"
	"time"

	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// maxSleep caps how long the scheduler waits without re-reading the store,
// so clock changes and missed watcher events are eventually noticed.
const maxSleep = 15 * time.Minute

// Store is the task storage the scheduler reads and updates.
type Store interface {
	Load() ([]*task.Task, error)
	// MarkNotified records that the reminder of the task with id has fired.
	MarkNotified(id string) error
}

// Scheduler fires one-shot reminders. Reminders already past when it starts
// fire on the first pass.
type Scheduler struct {
	Store    Store
	Notifier Notifier

	// Changes, when set, wakes the scheduler early, typically from a
	// store watcher.
	Changes <-chan struct{}

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RunOnce fires every pending reminder and marks it notified. It returns the
// tasks that were notified and the time of the next armed reminder, if any.
func (s *Scheduler) RunOnce(ctx context.Context) ([]*task.Task, time.Time, error) {
	tasks, err := s.Store.Load()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("loading tasks: %w", err)
	}

	now := s.now()
	var fired []*task.Task
	for _, t := range Pending(tasks, now) {
		if err := ctx.Err(); err != nil {
			return fired, time.Time{}, err
		}
		if err := s.Notifier.Notify(ctx, t); err != nil {
			return fired, time.Time{}, fmt.Errorf("notifying %s: %w", t.ShortID(), err)
		}
		if err := s.Store.MarkNotified(t.ID); err != nil {
			return fired, time.Time{}, fmt.Errorf("marking %s notified: %w", t.ShortID(), err)
		}
		t.Notified = true
		fired = append(fired, t)
	}

	next, _ := NextWake(tasks, now)
	return fired, next, nil
}

// Run fires reminders until ctx is canceled. Between passes it sleeps until
// the next reminder is due, a change arrives or maxSleep elapses.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		_, next, err := s.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		wait := maxSleep
		if !next.IsZero() {
			wait = min(max(next.Sub(s.now()), 0), maxSleep)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		case <-s.Changes:
			timer.Stop()
		}
	}
}
