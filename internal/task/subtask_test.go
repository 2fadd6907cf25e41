package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
)

func TestSubtaskLifecycle(t *testing.T) {
	tk := newTestTask("move house")

	first, err := AddSubtask(tk, "pack books", testNow)
	require.NoError(t, err)
	_, err = AddSubtask(tk, "book van", testNow)
	require.NoError(t, err)
	assert.Len(t, tk.Subtasks, 2)

	toggled, err := ToggleSubtask(tk, "2", testNow)
	require.NoError(t, err)
	assert.Equal(t, "book van", toggled.Title)
	assert.True(t, toggled.Done)

	done, total := SubtaskProgress(tk)
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)

	renamed, err := RenameSubtask(tk, first.ID[:8], "pack all books", testNow.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "pack all books", renamed.Title)
	assert.Equal(t, testNow.Add(time.Second), tk.UpdatedAt)

	removed, err := RemoveSubtask(tk, "1", testNow)
	require.NoError(t, err)
	assert.Equal(t, "pack all books", removed.Title)
	assert.Len(t, tk.Subtasks, 1)
}

func TestSubtaskErrors(t *testing.T) {
	tk := newTestTask("errors")
	tk.Subtasks = []Subtask{{ID: "ab1", Title: "x"}, {ID: "ab2", Title: "y"}}

	_, err := ToggleSubtask(tk, "ab", testNow)
	assert.Equal(t, clierr.AmbiguousID, clierr.CodeOf(err))

	_, err = ToggleSubtask(tk, "zz", testNow)
	assert.Equal(t, clierr.SubtaskNotFound, clierr.CodeOf(err))

	_, err = ToggleSubtask(tk, "3", testNow)
	assert.Equal(t, clierr.SubtaskNotFound, clierr.CodeOf(err))

	_, err = AddSubtask(tk, " ", testNow)
	assert.Equal(t, clierr.InvalidInput, clierr.CodeOf(err))
}
