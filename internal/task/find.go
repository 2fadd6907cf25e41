package task

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
)

// ReadAll reads all task files from the given directory.
func ReadAll(tasksDir string) ([]*Task, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	var tasks []*Task
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}

		t, err := Read(filepath.Join(tasksDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		tasks = append(tasks, t)
	}
	rekeyDuplicates(tasks)

	return tasks, nil
}

// ReadWarning describes a file that could not be parsed during lenient reading.
type ReadWarning struct {
	File string // base filename
	Err  error
}

// ReadAllLenient reads all task files, skipping malformed files instead of aborting.
// Successfully parsed tasks are returned along with warnings for files that failed.
func ReadAllLenient(tasksDir string) ([]*Task, []ReadWarning, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	var tasks []*Task
	var warnings []ReadWarning
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}

		t, readErr := Read(filepath.Join(tasksDir, entry.Name()))
		if readErr != nil {
			warnings = append(warnings, ReadWarning{File: entry.Name(), Err: readErr})
			continue
		}
		tasks = append(tasks, t)
	}
	warnings = append(warnings, rekeyDuplicates(tasks)...)

	return tasks, warnings, nil
}

// rekeyDuplicates gives every task whose ID was already taken by an earlier
// file the ID derived from its own file name. Directory order is sorted, so
// the same file keeps the original ID on every read.
func rekeyDuplicates(tasks []*Task) []ReadWarning {
	var warnings []ReadWarning
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			old := t.ID
			t.ID = FileID(t.File)
			warnings = append(warnings, ReadWarning{
				File: filepath.Base(t.File),
				Err:  fmt.Errorf("duplicate id %s, loaded as %s", old, t.ID),
			})
		}
		seen[t.ID] = true
	}
	return warnings
}

// Find resolves ref against tasks by exact ID or unique ID prefix.
func Find(tasks []*Task, ref string) (*Task, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return nil, clierr.New(clierr.InvalidInput, "task ID must not be empty")
	}

	var matches []*Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return nil, clierr.Newf(clierr.TaskNotFound, "task not found: %s", ref).
			WithDetails(map[string]any{"id": ref})
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, clierr.Newf(clierr.AmbiguousID, "task ID %q matches %d tasks", ref, len(matches)).
			WithDetails(map[string]any{"id": ref, "matches": ids})
	}
}

// FindByID reads the tasks directory and resolves ref to a single task.
func FindByID(tasksDir, ref string) (*Task, error) {
	tasks, _, err := ReadAllLenient(tasksDir)
	if err != nil {
		return nil, err
	}
	return Find(tasks, ref)
}

// Save writes t to its canonical file in tasksDir. When the title changed
// since the file was last written, the old file is replaced. A file that
// belongs to another task is never overwritten.
func Save(tasksDir string, t *Task) error {
	return save(tasksDir, t, nil)
}

func save(tasksDir string, t *Task, claimed map[string]bool) error {
	path := freePath(tasksDir, t, claimed)
	if err := Write(path, t); err != nil {
		return fmt.Errorf("writing task %s: %w", t.ShortID(), err)
	}
	if t.File != "" && t.File != path {
		if err := os.Remove(t.File); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing old task file: %w", err)
		}
	}
	t.File = path
	return nil
}

// freePath returns the canonical path for t, adding a numeric suffix while
// the name is claimed in this batch or held on disk by a different task.
func freePath(tasksDir string, t *Task, claimed map[string]bool) string {
	base := strings.TrimSuffix(GenerateFilename(t.ID, GenerateSlug(t.Title)), ".md")
	name := base + ".md"
	for n := 2; ; n++ {
		path := filepath.Join(tasksDir, name)
		if !claimed[strings.ToLower(name)] && !heldByOther(path, t) {
			return path
		}
		name = fmt.Sprintf("%s-%d.md", base, n)
	}
}

// heldByOther reports whether path is another task's file. A task that
// already has a file never takes over a second one; a task without a file
// may replace a file carrying its own ID.
func heldByOther(path string, t *Task) bool {
	if path == t.File {
		return false
	}
	other, err := Read(path)
	if err != nil {
		return !errors.Is(err, os.ErrNotExist)
	}
	return t.File != "" || other.ID != t.ID
}

// Remove deletes the file backing t.
func Remove(t *Task) error {
	if t.File == "" {
		return nil
	}
	if err := os.Remove(t.File); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting task file: %w", err)
	}
	return nil
}

// ReplaceAll makes tasksDir contain exactly tasks: every task is written and
// task files that belong to none of them are deleted.
func ReplaceAll(tasksDir string, tasks []*Task) error {
	if err := os.MkdirAll(tasksDir, 0o750); err != nil { //nolint:mnd // directory permissions
		return fmt.Errorf("creating tasks directory: %w", err)
	}

	keep := make(map[string]bool, len(tasks))
	claimed := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		t.File = ""
		if err := save(tasksDir, t, claimed); err != nil {
			return err
		}
		name := filepath.Base(t.File)
		keep[name] = true
		claimed[strings.ToLower(name)] = true
	}

	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		return fmt.Errorf("reading tasks directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".md" || keep[name] {
			continue
		}
		if err := os.Remove(filepath.Join(tasksDir, name)); err != nil {
			return fmt.Errorf("removing stale task file %s: %w", name, err)
		}
	}
	return nil
}
