package board

import (
	"math"

	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// Derive returns the tasks a view shows, in display order. It filters by
// visibility (ShowDone, Tag, Query), then by Mode relative to asOf, then
// sorts. An unknown Mode behaves as ModeAll. The input slice and its tasks
// are not modified; the result is a new slice sharing the task pointers.
func Derive(tasks []*task.Task, p ViewParams, asOf date.Date) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if visible(t, p) && inMode(t, p.Mode, asOf) {
			out = append(out, t)
		}
	}
	Sort(out)
	return out
}

// List loads the store and derives a view from it. Malformed task files are
// skipped and returned as warnings.
func List(tasksDir string, p ViewParams, asOf date.Date, limit int) ([]*task.Task, []task.ReadWarning, error) {
	all, warnings, err := task.ReadAllLenient(tasksDir)
	if err != nil {
		return nil, nil, err
	}

	tasks := Derive(all, p, asOf)
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, warnings, nil
}

// Stats are the headline counters shown above every view.
type Stats struct {
	Total    int `json:"total"`
	Done     int `json:"done"`
	Overdue  int `json:"overdue"`
	DueToday int `json:"due_today"`
	Rate     int `json:"rate"`
}

// Summary counts tasks as of the given day. DueToday includes open tasks
// without a due date. Rate is the rounded percentage of done tasks.
func Summary(tasks []*task.Task, asOf date.Date) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.IsDone() {
			s.Done++
			continue
		}
		if t.Due != nil && t.Due.Before(asOf) {
			s.Overdue++
		}
		if t.Due == nil || t.Due.Equal(asOf) {
			s.DueToday++
		}
	}
	if s.Total > 0 {
		s.Rate = int(math.Round(float64(s.Done) / float64(s.Total) * 100)) //nolint:mnd // percent
	}
	return s
}

// CountByStatus returns the number of tasks in each status.
func CountByStatus(tasks []*task.Task) map[task.Status]int {
	counts := make(map[task.Status]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

// Open returns the tasks that are not done, in input order.
func Open(tasks []*task.Task) []*task.Task {
	var out []*task.Task
	for _, t := range tasks {
		if !t.IsDone() {
			out = append(out, t)
		}
	}
	return out
}
