package task

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
)

func TestSaveAndRead(t *testing.T) {
	dir := t.TempDir()

	tk := newTestTask("Write the report")
	due := date.New(2024, time.May, 3)
	tk.Due = &due
	tk.Tags = []string{"work"}
	tk.Notes = "## Outline\n\n- intro\n"
	tk.Recurrence = Recurrence{Freq: FreqWeekly, Interval: 1, ByWeekday: []int{1, 3}}
	remind := date.Moment{Time: time.Date(2024, time.May, 3, 9, 0, 0, 0, time.UTC)}
	tk.RemindAt = &remind
	tk.Subtasks = []Subtask{{ID: "s1", Title: "draft"}}

	require.NoError(t, Save(dir, tk))
	assert.Equal(t, filepath.Join(dir, tk.ID+"-write-the-report.md"), tk.File)

	got, err := Read(tk.File)
	require.NoError(t, err)
	assert.Equal(t, tk.ID, got.ID)
	assert.Equal(t, tk.Title, got.Title)
	assert.Equal(t, "2024-05-03", got.Due.String())
	assert.Equal(t, tk.Tags, got.Tags)
	assert.Equal(t, tk.Notes, got.Notes)
	assert.Equal(t, tk.Recurrence, got.Recurrence)
	assert.True(t, tk.RemindAt.Equal(got.RemindAt.Time))
	assert.Equal(t, tk.Subtasks, got.Subtasks)
	assert.True(t, tk.CreatedAt.Equal(got.CreatedAt))
}

func TestSaveRenamesOnTitleChange(t *testing.T) {
	dir := t.TempDir()
	tk := newTestTask("old name")
	require.NoError(t, Save(dir, tk))
	oldPath := tk.File

	tk.Title = "new name"
	require.NoError(t, Save(dir, tk))

	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, tk.File)
	assert.Contains(t, tk.File, "new-name")
}

func TestReadMalformedDueIsNil(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc-task.md")
	content := "---\nid: abc\ntitle: legacy\ndue: someday\nrecurrence:\n  freq: daily\n  interval: 0\n---\n\nbody text\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tk, err := Read(path)
	require.NoError(t, err)
	assert.Nil(t, tk.Due)
	assert.Equal(t, 1, tk.Recurrence.Interval)
	assert.Equal(t, StatusTodo, tk.Status)
	assert.Equal(t, "body text\n", tk.Notes)
}

func TestReadWithoutIDIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errand.md")
	require.NoError(t, os.WriteFile(path, []byte("---\ntitle: hand written\n---\n"), 0o600))

	first, err := Read(path)
	require.NoError(t, err)
	second, err := Read(path)
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, FileID(path), first.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
}

func TestReadAllRekeysDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one.md", "two.md"} {
		content := "---\nid: twin\ntitle: " + name + "\n---\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	tasks, warnings, err := ReadAllLenient(dir)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Len(t, warnings, 1)
	assert.Equal(t, "two.md", warnings[0].File)
	assert.Equal(t, "twin", tasks[0].ID)
	assert.Equal(t, FileID(filepath.Join(dir, "two.md")), tasks[1].ID)

	again, err := ReadAll(dir)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, tasks[1].ID, again[1].ID)
}

func TestSaveDoesNotOverwriteAnotherTask(t *testing.T) {
	dir := t.TempDir()
	first := &Task{ID: "Chore/1", Title: "laundry"}
	second := &Task{ID: "chore-1", Title: "laundry"}
	Normalize(first, testNow)
	Normalize(second, testNow)

	require.NoError(t, Save(dir, first))
	require.NoError(t, Save(dir, second))
	assert.NotEqual(t, first.File, second.File)

	tasks, err := ReadAll(dir)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestReadAllLenientSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, newTestTask("good")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.md"), []byte("no frontmatter"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	tasks, warnings, err := ReadAllLenient(dir)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, "bad.md", warnings[0].File)

	_, err = ReadAll(dir)
	assert.Error(t, err)
}

func TestReadAllMissingDir(t *testing.T) {
	tasks, err := ReadAll(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestFind(t *testing.T) {
	a := &Task{ID: "aaaa1111"}
	b := &Task{ID: "aaaa2222"}
	c := &Task{ID: "bbbb3333"}
	tasks := []*Task{a, b, c}

	got, err := Find(tasks, "bbbb")
	require.NoError(t, err)
	assert.Same(t, c, got)

	got, err = Find(tasks, "AAAA1")
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = Find(tasks, "aaaa")
	assert.Equal(t, clierr.AmbiguousID, clierr.CodeOf(err))

	_, err = Find(tasks, "cccc")
	assert.Equal(t, clierr.TaskNotFound, clierr.CodeOf(err))

	_, err = Find(tasks, " ")
	assert.Equal(t, clierr.InvalidInput, clierr.CodeOf(err))
}

func TestReplaceAll(t *testing.T) {
	dir := t.TempDir()
	stale := newTestTask("stale")
	require.NoError(t, Save(dir, stale))

	fresh := []*Task{newTestTask("one"), newTestTask("two")}
	require.NoError(t, ReplaceAll(dir, fresh))

	tasks, err := ReadAll(dir)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.NoFileExists(t, stale.File)
}

func TestGenerateFilename(t *testing.T) {
	assert.Equal(t, "water-plants-1-water-plants.md", GenerateFilename("water-plants-1", "water-plants"))
	assert.Equal(t, "a-b-c-x.md", GenerateFilename("A/b..c", "x"))
	assert.Equal(t, "task-x.md", GenerateFilename("///", "x"))
}

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "call-mom-about-sunday", GenerateSlug("Call Mom about Sunday!"))
	assert.Equal(t, "task", GenerateSlug("!!!"))
	long := GenerateSlug("a very long title that keeps going well past the slug limit")
	assert.LessOrEqual(t, len(long), maxSlugLength)
	assert.NotEqual(t, '-', rune(long[len(long)-1]))
}
