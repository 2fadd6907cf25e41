package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
)

func ptr[T any](v T) *T { return &v }

func TestApplyUpdatesFields(t *testing.T) {
	tk := newTestTask("draft")
	tk.Tags = []string{"work"}

	due := date.New(2024, time.June, 1)
	changed, err := Apply(tk, Patch{
		Title:       ptr("final"),
		Notes:       ptr("some notes"),
		Due:         &due,
		Priority:    ptr(Priority("p3")),
		AddTags:     []string{"Urgent", "work"},
		Energy:      ptr(EnergyHigh),
		DurationMin: ptr(45),
		Slot:        ptr(SlotMorning),
		Recurrence:  &Recurrence{Freq: FreqWeekly, Interval: 1, ByWeekday: []int{5, 1}},
	}, testNow)

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "final", tk.Title)
	assert.Equal(t, "some notes", tk.Notes)
	assert.Equal(t, "2024-06-01", tk.Due.String())
	assert.Equal(t, PriorityHigh, tk.Priority)
	assert.Equal(t, []string{"work", "urgent"}, tk.Tags)
	assert.Equal(t, EnergyHigh, tk.Energy)
	assert.Equal(t, 45, tk.DurationMin)
	assert.Equal(t, SlotMorning, tk.Slot)
	assert.Equal(t, []int{1, 5}, tk.Recurrence.ByWeekday)
	assert.Equal(t, testNow, tk.UpdatedAt)
}

func TestApplyNoChange(t *testing.T) {
	tk := newTestTask("same")
	before := tk.UpdatedAt

	changed, err := Apply(tk, Patch{Title: ptr("same"), Priority: ptr(PriorityMedium)}, testNow)

	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, tk.UpdatedAt)
}

func TestApplyReminderResetsNotified(t *testing.T) {
	tk := newTestTask("remind")
	old := date.Moment{Time: testNow.Add(-time.Hour)}
	tk.RemindAt = &old
	tk.Notified = true

	next := date.Moment{Time: testNow.Add(time.Hour)}
	changed, err := Apply(tk, Patch{RemindAt: &next}, testNow)

	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, tk.Notified)

	tk.Notified = true
	changed, err = Apply(tk, Patch{RemindAt: &next}, testNow)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, tk.Notified, "same reminder stays fired")

	changed, err = Apply(tk, Patch{ClearRemind: true}, testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, tk.RemindAt)
}

func TestApplyTagOperations(t *testing.T) {
	tk := newTestTask("tags")

	_, err := Apply(tk, Patch{SetTags: &[]string{"a", "b", "c"}}, testNow)
	require.NoError(t, err)
	_, err = Apply(tk, Patch{RemoveTags: []string{"B"}}, testNow)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, tk.Tags)
}

func TestApplyRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
		code  string
	}{
		{"empty title", Patch{Title: ptr("  ")}, clierr.InvalidInput},
		{"bad priority", Patch{Priority: ptr(Priority("asap"))}, clierr.InvalidPriority},
		{"bad energy", Patch{Energy: ptr(Energy("max"))}, clierr.InvalidEnergy},
		{"bad slot", Patch{Slot: ptr(Slot("night"))}, clierr.InvalidSlot},
		{"zero duration", Patch{DurationMin: ptr(0)}, clierr.InvalidInput},
		{"bad freq", Patch{Recurrence: &Recurrence{Freq: "hourly", Interval: 1}}, clierr.InvalidRecurrence},
		{"bad interval", Patch{Recurrence: &Recurrence{Freq: FreqDaily, Interval: 0}}, clierr.InvalidRecurrence},
		{"set and clear due", Patch{Due: &date.Date{}, ClearDue: true}, clierr.InvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := newTestTask("keep")
			changed, err := Apply(tk, tt.patch, testNow)
			require.Error(t, err)
			assert.False(t, changed)
			assert.Equal(t, tt.code, clierr.CodeOf(err))
			assert.Equal(t, "keep", tk.Title)
		})
	}
}

func TestPatchIsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{ClearDue: true}.IsEmpty())
	assert.False(t, Patch{AddTags: []string{"x"}}.IsEmpty())
}
