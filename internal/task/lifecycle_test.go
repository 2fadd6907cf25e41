package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
)

var testNow = time.Date(2024, time.May, 1, 18, 30, 0, 0, time.UTC)

func newTestTask(title string) *Task {
	return New(title, DefaultValues(), testNow.Add(-24*time.Hour))
}

func TestSetStatusCompletesRecurringTask(t *testing.T) {
	tk := newTestTask("water plants")
	due := date.New(2024, time.May, 1)
	tk.Due = &due
	tk.Recurrence = Recurrence{Freq: FreqDaily, Interval: 2}
	tk.Notified = true

	spawned, changed := SetStatus(tk, StatusDone, testNow, "next-id")

	assert.True(t, changed)
	assert.Equal(t, StatusDone, tk.Status)
	require.NotNil(t, tk.CompletedAt)
	assert.Equal(t, testNow, *tk.CompletedAt)
	assert.Equal(t, "2024-05-01", tk.Due.String(), "original keeps its due date")

	require.NotNil(t, spawned)
	assert.Equal(t, "next-id", spawned.ID)
	assert.NotEqual(t, tk.ID, spawned.ID)
	assert.Equal(t, StatusTodo, spawned.Status)
	assert.Nil(t, spawned.CompletedAt)
	require.NotNil(t, spawned.Due)
	assert.Equal(t, "2024-05-03", spawned.Due.String())
	assert.False(t, spawned.Notified)
	assert.Equal(t, testNow, spawned.CreatedAt)
	assert.Equal(t, tk.Title, spawned.Title)
	assert.Equal(t, tk.Recurrence, spawned.Recurrence)
}

func TestSetStatusWithoutRecurrenceSpawnsNothing(t *testing.T) {
	tk := newTestTask("one-off")
	spawned, changed := SetStatus(tk, StatusDone, testNow, NewID())
	assert.True(t, changed)
	assert.Nil(t, spawned)
}

func TestSetStatusRecurringWithoutDueUsesCompletionDay(t *testing.T) {
	tk := newTestTask("stretch")
	tk.Recurrence = Recurrence{Freq: FreqWeekly, Interval: 1}

	spawned, _ := SetStatus(tk, StatusDone, testNow, NewID())

	require.NotNil(t, spawned)
	assert.Equal(t, "2024-05-08", spawned.Due.String())
}

func TestSetStatusShiftsReminder(t *testing.T) {
	tk := newTestTask("pay rent")
	due := date.New(2024, time.May, 1)
	tk.Due = &due
	tk.Recurrence = Recurrence{Freq: FreqMonthly, Interval: 1}
	remind := date.Moment{Time: time.Date(2024, time.April, 30, 9, 0, 0, 0, time.UTC)}
	tk.RemindAt = &remind
	tk.Notified = true

	spawned, _ := SetStatus(tk, StatusDone, testNow, NewID())

	require.NotNil(t, spawned)
	require.NotNil(t, spawned.RemindAt)
	assert.Equal(t, time.Date(2024, time.May, 31, 9, 0, 0, 0, time.UTC), spawned.RemindAt.Time)
	assert.False(t, spawned.Notified)
	assert.True(t, tk.Notified, "the completed task keeps its reminder state")
}

func TestSetStatusSameStatusIsNoop(t *testing.T) {
	tk := newTestTask("idle")
	updated := tk.UpdatedAt

	spawned, changed := SetStatus(tk, StatusTodo, testNow, NewID())

	assert.False(t, changed)
	assert.Nil(t, spawned)
	assert.Equal(t, updated, tk.UpdatedAt)
}

func TestSetStatusReopenClearsCompletion(t *testing.T) {
	tk := newTestTask("reopen me")
	SetStatus(tk, StatusDone, testNow, NewID())
	require.NotNil(t, tk.CompletedAt)

	_, changed := SetStatus(tk, StatusDoing, testNow.Add(time.Minute), NewID())

	assert.True(t, changed)
	assert.Nil(t, tk.CompletedAt)
	assert.Equal(t, testNow.Add(time.Minute), tk.UpdatedAt)
}

func TestToggle(t *testing.T) {
	tk := newTestTask("flip")
	tk.Recurrence = Recurrence{Freq: FreqDaily, Interval: 1}
	due := date.New(2024, time.May, 1)
	tk.Due = &due

	spawned := Toggle(tk, testNow, "child")
	assert.Equal(t, StatusDone, tk.Status)
	require.NotNil(t, spawned)

	again := Toggle(tk, testNow, "other")
	assert.Equal(t, StatusTodo, tk.Status)
	assert.Nil(t, again, "reopening never spawns")
	assert.Nil(t, tk.CompletedAt)
}

func TestNormalizeRestoresInvariants(t *testing.T) {
	bad := date.Date{}
	tk := &Task{
		Title:       "  messy  ",
		Status:      "blocked",
		Priority:    "critical",
		Energy:      "",
		Slot:        "night",
		DurationMin: -5,
		Due:         &bad,
		Tags:        []string{"Work", "#work", " home "},
		Recurrence:  Recurrence{Freq: FreqDaily},
	}

	Normalize(tk, testNow)

	assert.NotEmpty(t, tk.ID)
	assert.Equal(t, "messy", tk.Title)
	assert.Equal(t, StatusTodo, tk.Status)
	assert.Equal(t, PriorityMedium, tk.Priority)
	assert.Equal(t, EnergyMedium, tk.Energy)
	assert.Equal(t, SlotAny, tk.Slot)
	assert.Equal(t, DefaultDurationMin, tk.DurationMin)
	assert.Nil(t, tk.Due)
	assert.Equal(t, []string{"work", "home"}, tk.Tags)
	assert.Equal(t, 1, tk.Recurrence.Interval)
	assert.Equal(t, testNow, tk.CreatedAt)
	assert.Equal(t, testNow, tk.UpdatedAt)
	assert.Nil(t, tk.CompletedAt)

	done := &Task{Title: "x", Status: StatusDone, UpdatedAt: testNow}
	Normalize(done, testNow)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, testNow, *done.CompletedAt)
}

func TestPriorityRank(t *testing.T) {
	assert.Equal(t, 3, PriorityUrgent.Rank())
	assert.Equal(t, 2, PriorityHigh.Rank())
	assert.Equal(t, 1, PriorityMedium.Rank())
	assert.Equal(t, 0, PriorityLow.Rank())
	assert.Equal(t, 1, Priority("bogus").Rank())
}

func TestCloneIsDeep(t *testing.T) {
	tk := newTestTask("original")
	tk.Tags = []string{"a"}
	tk.Subtasks = []Subtask{{ID: "s1", Title: "step"}}

	c := tk.Clone()
	c.Tags[0] = "b"
	c.Subtasks[0].Done = true

	assert.Equal(t, "a", tk.Tags[0])
	assert.False(t, tk.Subtasks[0].Done)
}

func TestNormalizeAllRekeysDuplicates(t *testing.T) {
	a := &Task{ID: "same", Title: "a"}
	b := &Task{ID: "same", Title: "b"}

	out := NormalizeAll([]*Task{a, nil, b}, testNow)

	require.Len(t, out, 2)
	assert.Equal(t, "same", out[0].ID)
	assert.NotEqual(t, "same", out[1].ID)
	assert.NotEmpty(t, out[1].ID)
}
