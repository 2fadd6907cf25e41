package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/fivetodo/internal/config"
	"github.com/twiced-technology-gmbh/fivetodo/internal/store"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

var testNow = time.Date(2024, time.May, 10, 9, 0, 0, 0, time.Local)

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()
	cfg, err := config.Init(t.TempDir(), "test")
	require.NoError(t, err)
	st := store.Open(cfg)
	a := New(cfg, st)
	a.SetNow(func() time.Time { return testNow })
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a, st
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(a *App, msgs ...tea.Msg) {
	for _, m := range msgs {
		a.Update(m)
	}
}

func loadAll(t *testing.T, st *store.Store) []*task.Task {
	t.Helper()
	tasks, err := st.Load()
	require.NoError(t, err)
	return tasks
}

func TestQuickAdd(t *testing.T) {
	a, st := newTestApp(t)

	press(a, runes("a"))
	assert.Equal(t, modeAdd, a.mode)
	press(a, runes("Pay rent #home !p3 tomorrow"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeNormal, a.mode)

	tasks := loadAll(t, st)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Pay rent", tasks[0].Title)
	assert.Equal(t, []string{"home"}, tasks[0].Tags)
	assert.Equal(t, task.PriorityHigh, tasks[0].Priority)
	require.NotNil(t, tasks[0].Due)
	assert.Equal(t, "2024-05-11", tasks[0].Due.String())
	assert.Contains(t, a.flash, "Added")
}

func TestAddEscapeCancels(t *testing.T) {
	a, st := newTestApp(t)

	press(a, runes("a"), runes("never"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeNormal, a.mode)
	assert.Empty(t, loadAll(t, st))
}

func TestToggleAndUndo(t *testing.T) {
	a, st := newTestApp(t)
	press(a, runes("a"), runes("Write report"), tea.KeyMsg{Type: tea.KeyEnter})

	press(a, tea.KeyMsg{Type: tea.KeySpace})
	tasks := loadAll(t, st)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].IsDone())

	press(a, runes("u"))
	tasks = loadAll(t, st)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].IsDone())
}

func TestKanbanMove(t *testing.T) {
	a, st := newTestApp(t)
	press(a, runes("a"), runes("Ship it"), tea.KeyMsg{Type: tea.KeyEnter})

	press(a, runes("2"))
	require.Equal(t, tabKanban, a.tab)
	require.Len(t, a.columns, len(task.Statuses))

	press(a, runes(">"))
	tasks := loadAll(t, st)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.StatusDoing, tasks[0].Status)
	assert.Equal(t, 1, a.activeCol)
	assert.Equal(t, tasks[0].ID, a.selectedTask().ID)
}

func TestPlannerMove(t *testing.T) {
	a, st := newTestApp(t)
	press(a, runes("a"), runes("Stretch"), tea.KeyMsg{Type: tea.KeyEnter})

	press(a, runes("3"))
	require.Equal(t, tabPlanner, a.tab)

	// New tasks start in the anytime slot, the last column.
	a.activeCol = len(a.columns) - 1
	a.clampRow()
	require.NotNil(t, a.selectedTask())

	press(a, runes("<"))
	tasks := loadAll(t, st)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.SlotEvening, tasks[0].Slot)
}

func TestDeleteConfirm(t *testing.T) {
	a, st := newTestApp(t)
	press(a, runes("a"), runes("Temp"), tea.KeyMsg{Type: tea.KeyEnter})

	press(a, runes("d"))
	assert.Equal(t, modeConfirmDelete, a.mode)
	assert.Contains(t, a.View(), "Delete task?")

	press(a, runes("n"))
	assert.Len(t, loadAll(t, st), 1)

	press(a, runes("d"), runes("y"))
	assert.Empty(t, loadAll(t, st))
	assert.Contains(t, a.flash, "Deleted")
}

func TestSearchFilters(t *testing.T) {
	a, _ := newTestApp(t)
	press(a, runes("a"), runes("alpha"), tea.KeyMsg{Type: tea.KeyEnter})
	press(a, runes("a"), runes("beta"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, a.columns[0].tasks, 2)

	press(a, runes("/"), runes("bet"))
	require.Len(t, a.columns[0].tasks, 1)
	assert.Equal(t, "beta", a.columns[0].tasks[0].Title)

	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, a.columns[0].tasks, 2)
}

func TestFocusBindsPomodoro(t *testing.T) {
	a, _ := newTestApp(t)
	press(a, runes("a"), runes("Deep work"), tea.KeyMsg{Type: tea.KeyEnter})

	press(a, runes("p"))
	assert.Equal(t, tabPomodoro, a.tab)
	require.NotNil(t, a.boundTask())
	assert.Equal(t, "Deep work", a.boundTask().Title)
	assert.Contains(t, a.View(), "Deep work")

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, a.timer.Running())
	assert.NotNil(t, cmd)

	press(a, runes("s"))
	assert.Contains(t, a.flash, "finished")
}

func TestReloadUnbindsCompletedTask(t *testing.T) {
	a, st := newTestApp(t)
	press(a, runes("a"), runes("Deep work"), tea.KeyMsg{Type: tea.KeyEnter})
	press(a, runes("p"))
	id := a.timer.Task()
	require.NotEmpty(t, id)

	_, err := st.SetStatus(id, task.StatusDone)
	require.NoError(t, err)
	press(a, ReloadMsg{})
	assert.Empty(t, a.timer.Task())
}

func TestViewRendersTabs(t *testing.T) {
	a, _ := newTestApp(t)
	press(a, runes("a"), runes("Visible title"), tea.KeyMsg{Type: tea.KeyEnter})

	v := a.View()
	for _, name := range tabNames {
		assert.Contains(t, v, name)
	}
	assert.Contains(t, v, "Visible title")
}

func TestWrapTitle(t *testing.T) {
	lines := wrapTitle("one two three four five six", 9, 2)
	require.Len(t, lines, 2)
	assert.Equal(t, "one two", lines[0])
	assert.LessOrEqual(t, len(lines[1]), 9)

	assert.Equal(t, []string{"short"}, wrapTitle("short", 20, 3))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel...", truncate("hello world", 6))
}
