package task

import (
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
)

// AddSubtask appends a checklist item to t.
func AddSubtask(t *Task, title string, now time.Time) (*Subtask, error) {
	title = strings.TrimSpace(title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	t.Subtasks = append(t.Subtasks, Subtask{ID: NewID(), Title: title})
	t.UpdatedAt = now
	return &t.Subtasks[len(t.Subtasks)-1], nil
}

// ToggleSubtask flips the done flag of the subtask matched by ref.
func ToggleSubtask(t *Task, ref string, now time.Time) (*Subtask, error) {
	i, err := findSubtask(t, ref)
	if err != nil {
		return nil, err
	}
	t.Subtasks[i].Done = !t.Subtasks[i].Done
	t.UpdatedAt = now
	return &t.Subtasks[i], nil
}

// RenameSubtask changes the title of the subtask matched by ref.
func RenameSubtask(t *Task, ref, title string, now time.Time) (*Subtask, error) {
	title = strings.TrimSpace(title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	i, err := findSubtask(t, ref)
	if err != nil {
		return nil, err
	}
	t.Subtasks[i].Title = title
	t.UpdatedAt = now
	return &t.Subtasks[i], nil
}

// RemoveSubtask deletes the subtask matched by ref and returns it.
func RemoveSubtask(t *Task, ref string, now time.Time) (Subtask, error) {
	i, err := findSubtask(t, ref)
	if err != nil {
		return Subtask{}, err
	}
	removed := t.Subtasks[i]
	t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
	t.UpdatedAt = now
	return removed, nil
}

// SubtaskProgress returns the number of finished and total subtasks.
func SubtaskProgress(t *Task) (done, total int) {
	for _, s := range t.Subtasks {
		if s.Done {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// findSubtask resolves ref as a 1-based position or an ID prefix.
func findSubtask(t *Task, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(t.Subtasks) {
		return n - 1, nil
	}

	match := -1
	for i, s := range t.Subtasks {
		if ref != "" && strings.HasPrefix(s.ID, ref) {
			if match >= 0 {
				return 0, clierr.Newf(clierr.AmbiguousID, "subtask reference %q matches more than one subtask", ref).
					WithDetails(map[string]any{"ref": ref, "task": t.ID})
			}
			match = i
		}
	}
	if match < 0 {
		return 0, clierr.Newf(clierr.SubtaskNotFound, "subtask not found: %s", ref).
			WithDetails(map[string]any{"ref": ref, "task": t.ID})
	}
	return match, nil
}
