package mirror

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

var now = time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)

func openTest(t *testing.T) *Mirror {
	t.Helper()
	m, err := Open(filepath.Join(t.TempDir(), "sub", "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestUpsertLoadRemove(t *testing.T) {
	ctx := context.Background()
	m := openTest(t)

	a := task.New("alpha", task.DefaultValues(), now)
	d := date.New(2024, time.May, 12)
	a.Due = &d
	b := task.New("beta", task.DefaultValues(), now)

	require.NoError(t, m.Upsert(ctx, []*task.Task{a, b}))

	a.Title = "alpha v2"
	require.NoError(t, m.Upsert(ctx, []*task.Task{a}))

	got, err := m.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	byID := map[string]*task.Task{}
	for _, tk := range got {
		byID[tk.ID] = tk
	}
	assert.Equal(t, "alpha v2", byID[a.ID].Title)
	assert.Equal(t, "2024-05-12", byID[a.ID].Due.String())

	require.NoError(t, m.Remove(ctx, []string{b.ID, "missing"}))
	got, err = m.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
}

func TestSyncRemovesStale(t *testing.T) {
	ctx := context.Background()
	m := openTest(t)

	a := task.New("a", task.DefaultValues(), now)
	b := task.New("b", task.DefaultValues(), now)
	require.NoError(t, m.Upsert(ctx, []*task.Task{a, b}))

	removed, err := m.Sync(ctx, []*task.Task{b})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	got, err := m.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "task:abc", Key("abc"))
}
