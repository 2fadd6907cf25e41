package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/fivetodo/internal/board"
	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/history"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
	"github.com/twiced-technology-gmbh/fivetodo/internal/transfer"
)

var testNow = time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	tasksDir := filepath.Join(dir, "tasks")
	require.NoError(t, os.MkdirAll(tasksDir, 0o750))
	s := New(dir, tasksDir, 10)
	s.SetNow(func() time.Time { return testNow })
	return s
}

func addTask(t *testing.T, s *Store, title string) *task.Task {
	t.Helper()
	var created *task.Task
	require.NoError(t, s.Update(func(tx *Tx) error {
		created = task.New(title, task.DefaultValues(), tx.Now)
		tx.Put(created)
		tx.Log("add", created.ID, created.Title)
		return nil
	}))
	return created
}

func TestUpdateWritesSnapshotsAndLogs(t *testing.T) {
	s := newStore(t)
	created := addTask(t, s, "Buy milk")

	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)

	snaps, err := history.List(s.Dir(), 0)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Empty(t, snaps[0].Tasks)

	entries, err := board.ReadLog(s.Dir(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "add", entries[0].Action)
	assert.Equal(t, created.ID, entries[0].TaskID)
}

func TestUpdateWithoutChangesWritesNothing(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Update(func(*Tx) error { return nil }))

	snaps, err := history.List(s.Dir(), 0)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestUpdateErrorAborts(t *testing.T) {
	s := newStore(t)
	boom := errors.New("boom")
	err := s.Update(func(tx *Tx) error {
		tx.Put(task.New("never", task.DefaultValues(), tx.Now))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	tasks, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	a := addTask(t, s, "a")
	addTask(t, s, "b")

	require.NoError(t, s.Update(func(tx *Tx) error {
		found, err := tx.Find(a.ID[:8])
		if err != nil {
			return err
		}
		tx.Delete(found)
		return nil
	}))

	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "b", tasks[0].Title)
}

func TestReplace(t *testing.T) {
	s := newStore(t)
	addTask(t, s, "old")

	fresh := task.New("fresh", task.DefaultValues(), testNow)
	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.Replace([]*task.Task{fresh})
		return nil
	}))

	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "fresh", tasks[0].Title)
}

func TestReplaceKeepsTasksWithSimilarIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  [2]string
	}{
		{"shared prefix", [2]string{"water-plants-1", "water-plants-2"}},
		{"same after sanitizing", [2]string{"Water/Plants", "water-plants"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			addTask(t, s, "Water plants")

			doc := `{"v":2,"tasks":[` +
				`{"id":"` + tt.ids[0] + `","title":"Water plants"},` +
				`{"id":"` + tt.ids[1] + `","title":"Water plants"}]}`
			imported, err := transfer.Import(strings.NewReader(doc), testNow)
			require.NoError(t, err)
			require.Len(t, imported, 2)

			require.NoError(t, s.Update(func(tx *Tx) error {
				tx.Replace(imported)
				return nil
			}))

			tasks, warnings, err := s.LoadWithWarnings()
			require.NoError(t, err)
			assert.Empty(t, warnings)
			require.Len(t, tasks, 2)
			ids := []string{tasks[0].ID, tasks[1].ID}
			assert.ElementsMatch(t, tt.ids[:], ids)
		})
	}
}

func writeTaskFile(t *testing.T, s *Store, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(s.TasksDir(), name), []byte(content), 0o600))
}

func TestHandWrittenTaskKeepsItsID(t *testing.T) {
	s := newStore(t)
	writeTaskFile(t, s, "groceries.md", "---\ntitle: hand written\n---\n")

	first, err := s.Load()
	require.NoError(t, err)
	require.Len(t, first, 1)
	second, err := s.Load()
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, history.Equal(first, second))

	title := "renamed"
	_, err = s.Edit(first[0].ID, task.Patch{Title: &title})
	require.NoError(t, err)

	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, first[0].ID, tasks[0].ID)
	assert.Equal(t, "renamed", tasks[0].Title)
	assert.NoFileExists(t, filepath.Join(s.TasksDir(), "groceries.md"))
}

func TestDuplicateIDsOnDiskAreRekeyed(t *testing.T) {
	s := newStore(t)
	writeTaskFile(t, s, "a.md", "---\nid: same\ntitle: first\n---\n")
	writeTaskFile(t, s, "b.md", "---\nid: same\ntitle: second\n---\n")

	tasks, warnings, err := s.LoadWithWarnings()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Len(t, warnings, 1)
	assert.Equal(t, "b.md", warnings[0].File)
	assert.Equal(t, "same", tasks[0].ID)
	assert.Equal(t, "first", tasks[0].Title)
	rekeyed := tasks[1].ID
	assert.NotEqual(t, "same", rekeyed)

	title := "second, edited"
	_, err = s.Edit(rekeyed, task.Patch{Title: &title})
	require.NoError(t, err)

	tasks, warnings, err = s.LoadWithWarnings()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, tasks, 2)
	byID := map[string]string{}
	for _, tk := range tasks {
		byID[tk.ID] = tk.Title
	}
	assert.Equal(t, map[string]string{"same": "first", rekeyed: "second, edited"}, byID)
}

func TestMarkNotifiedSkipsHistory(t *testing.T) {
	s := newStore(t)
	created := addTask(t, s, "call")

	require.NoError(t, s.MarkNotified(created.ID))

	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Notified)

	snaps, err := history.List(s.Dir(), 0)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestSetStatusSpawnsRecurring(t *testing.T) {
	s := newStore(t)
	created := addTask(t, s, "water plants")
	require.NoError(t, s.Update(func(tx *Tx) error {
		found, err := tx.Find(created.ID)
		if err != nil {
			return err
		}
		due := date.New(2024, time.May, 10)
		found.Due = &due
		found.Recurrence = task.Recurrence{Freq: task.FreqDaily, Interval: 2}
		tx.Put(found)
		return nil
	}))

	res, err := s.SetStatus(created.ID, task.StatusDone)
	require.NoError(t, err)
	require.NotNil(t, res.Spawned)
	assert.Equal(t, "2024-05-12", res.Spawned.Due.String())

	tasks, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	_, err = s.SetStatus(created.ID, task.StatusDone)
	assert.Equal(t, clierr.NoChanges, clierr.CodeOf(err))
}

func TestToggleAndClearCompleted(t *testing.T) {
	s := newStore(t)
	a := addTask(t, s, "a")
	addTask(t, s, "b")

	res, err := s.Toggle(a.ID)
	require.NoError(t, err)
	assert.True(t, res.Task.IsDone())
	assert.Nil(t, res.Spawned)

	n, err := s.ClearCompleted()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "b", tasks[0].Title)
}

func TestEditNoChanges(t *testing.T) {
	s := newStore(t)
	a := addTask(t, s, "a")

	title := "a"
	_, err := s.Edit(a.ID, task.Patch{Title: &title})
	assert.Equal(t, clierr.NoChanges, clierr.CodeOf(err))

	title = "renamed"
	res, err := s.Edit(a.ID, task.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", res.Task.Title)
}

func TestUndoWalksBack(t *testing.T) {
	s := newStore(t)
	_, err := s.Undo()
	assert.Equal(t, clierr.NothingToUndo, clierr.CodeOf(err))

	addTask(t, s, "first")
	addTask(t, s, "second")

	_, err = s.Undo()
	require.NoError(t, err)
	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "first", tasks[0].Title)

	_, err = s.Undo()
	require.NoError(t, err)
	tasks, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
