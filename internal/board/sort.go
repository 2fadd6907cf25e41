package board

import (
	"sort"

	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// Sort orders tasks for display. The first key that differs decides:
//  1. open before done
//  2. earlier due date first, when both have one
//  3. dated before undated
//  4. higher priority first
//  5. most recently updated first
//
// The sort is stable, so full ties keep their input order.
func Sort(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return less(tasks[i], tasks[j])
	})
}

func less(a, b *task.Task) bool {
	if a.IsDone() != b.IsDone() {
		return !a.IsDone()
	}
	if a.Due != nil && b.Due != nil && !a.Due.Equal(*b.Due) {
		return a.Due.Before(*b.Due)
	}
	if (a.Due != nil) != (b.Due != nil) {
		return a.Due != nil
	}
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra > rb
	}
	return a.UpdatedAt.After(b.UpdatedAt)
}
