package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

var t0 = time.Date(2024, time.May, 10, 8, 0, 0, 0, time.UTC)

func collection(titles ...string) []*task.Task {
	out := make([]*task.Task, len(titles))
	for i, title := range titles {
		tk := task.New(title, task.DefaultValues(), t0)
		tk.ID = title
		out[i] = tk
	}
	return out
}

func TestSaveAndList(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Save(dir, collection("a"), 10, t0))
	require.NoError(t, Save(dir, collection("a", "b"), 10, t0.Add(time.Minute)))

	snaps, err := List(dir, 0)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Len(t, snaps[0].Tasks, 2, "newest first")
	assert.Len(t, snaps[1].Tasks, 1)
	assert.True(t, snaps[0].TS.Equal(t0.Add(time.Minute)))
}

func TestSavePrunesOldest(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 7; i++ {
		require.NoError(t, Save(dir, collection("x"), 3, t0.Add(time.Duration(i)*time.Minute)))
	}

	snaps, err := List(dir, 0)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.True(t, snaps[0].TS.Equal(t0.Add(6*time.Minute)))
	assert.True(t, snaps[2].TS.Equal(t0.Add(4*time.Minute)))

	limited, err := List(dir, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListMissing(t *testing.T) {
	snaps, err := List(t.TempDir(), 5)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestUndoCandidatePicksNewestDifferent(t *testing.T) {
	current := collection("a", "b", "c")
	snaps := []Snapshot{
		{TS: t0.Add(3 * time.Minute), Tasks: collection("c", "b", "a")},
		{TS: t0.Add(2 * time.Minute), Tasks: collection("a", "b")},
		{TS: t0.Add(time.Minute), Tasks: collection("a")},
	}

	got, ok := UndoCandidate(snaps, current)

	require.True(t, ok)
	assert.Len(t, got.Tasks, 2, "reordered equal snapshot is skipped")
}

func TestUndoCandidateOnlyLooksAtFive(t *testing.T) {
	current := collection("a")
	snaps := make([]Snapshot, 0, 7)
	for i := 0; i < 6; i++ {
		snaps = append(snaps, Snapshot{Tasks: collection("a")})
	}
	snaps = append(snaps, Snapshot{Tasks: collection("z")})

	got, ok := UndoCandidate(snaps, current)

	require.True(t, ok)
	assert.Same(t, snaps[1].Tasks[0], got.Tasks[0], "falls back to the second newest")
}

func TestUndoCandidateNothing(t *testing.T) {
	_, ok := UndoCandidate(nil, collection("a"))
	assert.False(t, ok)

	_, ok = UndoCandidate([]Snapshot{{Tasks: collection("a")}}, collection("a"))
	assert.False(t, ok)
}

func TestEqualDetectsFieldChanges(t *testing.T) {
	a := collection("x")
	b := task.CloneAll(a)
	assert.True(t, Equal(a, b))

	b[0].Status = task.StatusDone
	assert.False(t, Equal(a, b))
}
