// Package store applies locked read-modify-write transactions to a task
// store directory. Every committed change is preceded by an undo snapshot
// and followed by activity log entries.
package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/twiced-technology-gmbh/fivetodo/internal/board"
	"github.com/twiced-technology-gmbh/fivetodo/internal/config"
	"github.com/twiced-technology-gmbh/fivetodo/internal/filelock"
	"github.com/twiced-technology-gmbh/fivetodo/internal/history"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// Store is a task directory plus its bookkeeping files.
type Store struct {
	dir          string
	tasksDir     string
	maxSnapshots int
	now          func() time.Time
}

// New returns a store rooted at dir with task files in tasksDir.
func New(dir, tasksDir string, maxSnapshots int) *Store {
	return &Store{dir: dir, tasksDir: tasksDir, maxSnapshots: maxSnapshots, now: time.Now}
}

// Open returns the store described by cfg.
func Open(cfg *config.Config) *Store {
	return New(cfg.Dir(), cfg.TasksPath(), cfg.MaxSnapshots())
}

// SetNow overrides the clock (for testing).
func (s *Store) SetNow(fn func() time.Time) { s.now = fn }

// Now returns the store clock's current time.
func (s *Store) Now() time.Time { return s.now() }

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// TasksDir returns the task file directory.
func (s *Store) TasksDir() string { return s.tasksDir }

// Load reads every task, skipping malformed files.
func (s *Store) Load() ([]*task.Task, error) {
	tasks, _, err := task.ReadAllLenient(s.tasksDir)
	return tasks, err
}

// LoadWithWarnings reads every task and reports files that failed to parse.
func (s *Store) LoadWithWarnings() ([]*task.Task, []task.ReadWarning, error) {
	return task.ReadAllLenient(s.tasksDir)
}

// Update runs fn against the current collection while holding the store
// lock. If fn returns nil and recorded changes, the pre-change collection is
// snapshotted, the changes are written and log entries are appended.
func (s *Store) Update(fn func(tx *Tx) error) error {
	return filelock.WithStore(s.dir, func() error {
		tasks, _, err := task.ReadAllLenient(s.tasksDir)
		if err != nil {
			return err
		}
		tx := &Tx{
			Tasks:  tasks,
			Now:    s.now(),
			before: task.CloneAll(tasks),
			dirty:  make(map[string]bool),
		}
		if err := fn(tx); err != nil {
			return err
		}
		if !tx.Changed() {
			return nil
		}
		return s.commit(tx)
	})
}

func (s *Store) commit(tx *Tx) error {
	if !tx.skipHistory {
		if err := history.Save(s.dir, tx.before, s.maxSnapshots, tx.Now); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
	}

	if tx.replaced {
		if err := task.ReplaceAll(s.tasksDir, tx.Tasks); err != nil {
			return err
		}
	} else {
		for _, t := range tx.removed {
			if err := task.Remove(t); err != nil {
				return err
			}
		}
		for _, t := range tx.Tasks {
			if !tx.dirty[t.ID] {
				continue
			}
			if err := task.Save(s.tasksDir, t); err != nil {
				return err
			}
		}
	}

	for _, e := range tx.logs {
		board.LogMutation(s.dir, e.Action, e.TaskID, e.Detail)
	}
	return nil
}

// MarkNotified records that the reminder of the task with id has fired.
// Notification flags are bookkeeping and are not snapshotted.
func (s *Store) MarkNotified(id string) error {
	return s.Update(func(tx *Tx) error {
		t, err := task.Find(tx.Tasks, id)
		if err != nil {
			return err
		}
		if t.Notified {
			return nil
		}
		t.Notified = true
		tx.SkipHistory()
		tx.Put(t)
		tx.Log("remind", t.ID, t.Title)
		return nil
	})
}

// Tx is one read-modify-write pass over the collection.
type Tx struct {
	// Tasks is the working collection. Mutate tasks in place and Put them.
	Tasks []*task.Task
	// Now is the transaction timestamp.
	Now time.Time

	before      []*task.Task
	dirty       map[string]bool
	removed     []*task.Task
	replaced    bool
	skipHistory bool
	logs        []board.LogEntry
}

// Find resolves ref by ID or unique ID prefix.
func (tx *Tx) Find(ref string) (*task.Task, error) {
	return task.Find(tx.Tasks, ref)
}

// Put marks t as changed, adding it to the collection if it is new.
func (tx *Tx) Put(t *task.Task) {
	if !slices.Contains(tx.Tasks, t) {
		tx.Tasks = append(tx.Tasks, t)
	}
	tx.dirty[t.ID] = true
}

// Delete removes t from the collection.
func (tx *Tx) Delete(t *task.Task) {
	i := slices.Index(tx.Tasks, t)
	if i < 0 {
		return
	}
	tx.Tasks = slices.Delete(tx.Tasks, i, i+1)
	delete(tx.dirty, t.ID)
	tx.removed = append(tx.removed, t)
}

// Replace swaps the whole collection for tasks.
func (tx *Tx) Replace(tasks []*task.Task) {
	tx.Tasks = tasks
	tx.replaced = true
}

// SkipHistory commits without an undo snapshot.
func (tx *Tx) SkipHistory() { tx.skipHistory = true }

// Log queues an activity log entry written on commit.
func (tx *Tx) Log(action, taskID, detail string) {
	tx.logs = append(tx.logs, board.LogEntry{Action: action, TaskID: taskID, Detail: detail})
}

// Before returns the collection as it was when the transaction started.
func (tx *Tx) Before() []*task.Task { return tx.before }

// Changed reports whether the transaction has anything to write.
func (tx *Tx) Changed() bool {
	return tx.replaced || len(tx.dirty) > 0 || len(tx.removed) > 0
}
