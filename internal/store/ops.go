package store

import (
	"fmt"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/history"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// Result describes a committed change to one task.
type Result struct {
	Task *task.Task `json:"task"`
	// Spawned is the follow-up instance created when a recurring task
	// was completed.
	Spawned *task.Task `json:"spawned,omitempty"`
}

// Add stores a new task.
func (s *Store) Add(t *task.Task) error {
	return s.Update(func(tx *Tx) error {
		tx.Put(t)
		tx.Log("add", t.ID, t.Title)
		return nil
	})
}

// SetStatus moves the task ref to status, spawning the next instance of a
// recurring task that enters done.
func (s *Store) SetStatus(ref string, status task.Status) (Result, error) {
	var res Result
	err := s.Update(func(tx *Tx) error {
		t, err := tx.Find(ref)
		if err != nil {
			return err
		}
		from := t.Status
		spawned, changed := task.SetStatus(t, status, tx.Now, task.NewID())
		if !changed {
			return clierr.Newf(clierr.NoChanges, "task %s is already %s", t.ShortID(), status).
				WithDetails(map[string]any{"id": t.ID, "status": status})
		}
		res = record(tx, t, spawned, "move", fmt.Sprintf("%s -> %s: %s", from, status, t.Title))
		return nil
	})
	return res, err
}

// Toggle flips the task ref between done and todo.
func (s *Store) Toggle(ref string) (Result, error) {
	var res Result
	err := s.Update(func(tx *Tx) error {
		t, err := tx.Find(ref)
		if err != nil {
			return err
		}
		spawned := task.Toggle(t, tx.Now, task.NewID())
		action := "reopen"
		if t.IsDone() {
			action = "done"
		}
		res = record(tx, t, spawned, action, t.Title)
		return nil
	})
	return res, err
}

// Edit applies p to the task ref. An edit that changes nothing is a
// NO_CHANGES error.
func (s *Store) Edit(ref string, p task.Patch) (Result, error) {
	var res Result
	err := s.Update(func(tx *Tx) error {
		t, err := tx.Find(ref)
		if err != nil {
			return err
		}
		changed, err := task.Apply(t, p, tx.Now)
		if err != nil {
			return err
		}
		if !changed {
			return clierr.Newf(clierr.NoChanges, "no changes to task %s", t.ShortID()).
				WithDetails(map[string]any{"id": t.ID})
		}
		res = record(tx, t, nil, "edit", t.Title)
		return nil
	})
	return res, err
}

// Delete removes the task ref and returns it.
func (s *Store) Delete(ref string) (*task.Task, error) {
	var deleted *task.Task
	err := s.Update(func(tx *Tx) error {
		t, err := tx.Find(ref)
		if err != nil {
			return err
		}
		tx.Delete(t)
		tx.Log("delete", t.ID, t.Title)
		deleted = t
		return nil
	})
	return deleted, err
}

// ClearCompleted removes every done task and returns how many were removed.
func (s *Store) ClearCompleted() (int, error) {
	var n int
	err := s.Update(func(tx *Tx) error {
		for _, t := range append([]*task.Task(nil), tx.Tasks...) {
			if t.IsDone() {
				tx.Delete(t)
				n++
			}
		}
		if n > 0 {
			tx.Log("clear", "", fmt.Sprintf("%d completed", n))
		}
		return nil
	})
	return n, err
}

// Undo restores the most recent snapshot that differs from the current
// collection. Undo itself is not snapshotted, so repeating it keeps
// walking back through history.
func (s *Store) Undo() (history.Snapshot, error) {
	var restored history.Snapshot
	err := s.Update(func(tx *Tx) error {
		snaps, err := history.List(s.dir, 0)
		if err != nil {
			return err
		}
		snap, ok := history.UndoCandidate(snaps, tx.Tasks)
		if !ok || history.Equal(snap.Tasks, tx.Tasks) {
			return clierr.New(clierr.NothingToUndo, "nothing to undo")
		}
		tx.Replace(task.CloneAll(snap.Tasks))
		tx.SkipHistory()
		tx.Log("undo", "", "restored "+snap.TS.Local().Format("2006-01-02 15:04:05"))
		restored = snap
		return nil
	})
	return restored, err
}

// record puts t (and a spawned follow-up) and logs the change.
func record(tx *Tx, t, spawned *task.Task, action, detail string) Result {
	tx.Put(t)
	tx.Log(action, t.ID, detail)
	if spawned != nil {
		tx.Put(spawned)
		tx.Log("spawn", spawned.ID, fmt.Sprintf("%s due %s", spawned.Title, spawned.Due))
	}
	return Result{Task: t, Spawned: spawned}
}
