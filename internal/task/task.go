// Package task handles the task model, its lifecycle and task files.
package task

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
)

// Priority orders tasks within the same due date.
type Priority string

// Priorities, lowest first.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Rank returns the sort weight of p: urgent 3, high 2, medium 1, low 0.
// Unknown values rank as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityHigh:
		return 2 //nolint:mnd // rank table
	case PriorityUrgent:
		return 3 //nolint:mnd // rank table
	default:
		return 1
	}
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool { return slices.Contains(Priorities, p) }

// Status is the workflow state of a task.
type Status string

// Statuses in board order.
const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// Statuses lists every status in kanban column order.
var Statuses = []Status{StatusTodo, StatusDoing, StatusDone}

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return slices.Contains(Statuses, s) }

// Energy is a descriptive effort level.
type Energy string

// Energy levels.
const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// Energies lists every energy level.
var Energies = []Energy{EnergyLow, EnergyMedium, EnergyHigh}

// Valid reports whether e is a known energy level.
func (e Energy) Valid() bool { return slices.Contains(Energies, e) }

// Slot is a coarse time-of-day bucket used by the planner.
type Slot string

// Planner slots.
const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotEvening   Slot = "evening"
	SlotAny       Slot = "any"
)

// Slots lists every slot in planner column order.
var Slots = []Slot{SlotMorning, SlotAfternoon, SlotEvening, SlotAny}

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool { return slices.Contains(Slots, s) }

// DefaultDurationMin is the effort estimate given to new tasks.
const DefaultDurationMin = 25

// Subtask is a checklist item inside a task.
type Subtask struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Done  bool   `yaml:"done,omitempty" json:"done"`
}

// Task is a single to-do item. In the store it is a markdown file whose
// frontmatter holds every field except Notes, which is the file body.
type Task struct {
	ID          string       `yaml:"id" json:"id"`
	Title       string       `yaml:"title" json:"title"`
	Status      Status       `yaml:"status" json:"status"`
	Priority    Priority     `yaml:"priority" json:"priority"`
	Due         *date.Date   `yaml:"due,omitempty" json:"due"`
	Tags        []string     `yaml:"tags,omitempty" json:"tags"`
	Recurrence  Recurrence   `yaml:"recurrence,omitempty" json:"recurrence"`
	RemindAt    *date.Moment `yaml:"remind_at,omitempty" json:"remindAt"`
	Notified    bool         `yaml:"notified,omitempty" json:"notified"`
	Energy      Energy       `yaml:"energy" json:"energy"`
	DurationMin int          `yaml:"duration_min" json:"durationMin"`
	Slot        Slot         `yaml:"slot" json:"slot"`
	Subtasks    []Subtask    `yaml:"subtasks,omitempty" json:"subtasks"`
	CreatedAt   time.Time    `yaml:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `yaml:"updated_at" json:"updatedAt"`
	CompletedAt *time.Time   `yaml:"completed_at,omitempty" json:"completedAt"`

	// Notes is the markdown content below the frontmatter (not in YAML).
	Notes string `yaml:"-" json:"notes"`

	// File is the path to the task file (not in YAML or JSON).
	File string `yaml:"-" json:"-"`
}

// Defaults are the field values given to newly captured tasks.
type Defaults struct {
	Priority    Priority
	Energy      Energy
	DurationMin int
	Slot        Slot
}

// DefaultValues returns the built-in defaults for new tasks.
func DefaultValues() Defaults {
	return Defaults{
		Priority:    PriorityMedium,
		Energy:      EnergyMedium,
		DurationMin: DefaultDurationMin,
		Slot:        SlotAny,
	}
}

// NewID returns a fresh random task identifier.
func NewID() string {
	return uuid.New().String()
}

// FileID returns the stable identifier for a task file that carries no id of
// its own. It depends only on the file's base name, so repeated reads agree.
func FileID(path string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("fivetodo:task/"+filepath.Base(path))).String()
}

// New creates an open task with the given title and defaults.
func New(title string, d Defaults, now time.Time) *Task {
	t := &Task{
		ID:          NewID(),
		Title:       strings.TrimSpace(title),
		Status:      StatusTodo,
		Priority:    d.Priority,
		Tags:        []string{},
		Recurrence:  Recurrence{Freq: FreqNone, Interval: 1},
		Energy:      d.Energy,
		DurationMin: d.DurationMin,
		Slot:        d.Slot,
		Subtasks:    []Subtask{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	Normalize(t, now)
	return t
}

// FromQuickEntry creates a task from parsed quick-capture text.
func FromQuickEntry(q QuickEntry, d Defaults, now time.Time) *Task {
	if q.Priority != "" {
		d.Priority = q.Priority
	}
	t := New(q.Title, d, now)
	t.Tags = NormalizeTags(q.Tags)
	if q.Due != nil {
		due := *q.Due
		t.Due = &due
	}
	return t
}

// IsDone reports whether the task is completed.
func (t *Task) IsDone() bool { return t.Status == StatusDone }

// ShortID returns the first eight characters of the ID for display.
func (t *Task) ShortID() string {
	const n = 8
	if len(t.ID) <= n {
		return t.ID
	}
	return t.ID[:n]
}

// HasTag reports whether the task carries tag.
func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	c := *t
	if t.Due != nil {
		d := *t.Due
		c.Due = &d
	}
	if t.RemindAt != nil {
		m := *t.RemindAt
		c.RemindAt = &m
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		c.CompletedAt = &ts
	}
	c.Tags = slices.Clone(t.Tags)
	c.Subtasks = slices.Clone(t.Subtasks)
	c.Recurrence.ByWeekday = slices.Clone(t.Recurrence.ByWeekday)
	return &c
}

// CloneAll deep-copies a task slice.
func CloneAll(tasks []*Task) []*Task {
	out := make([]*Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// NormalizeTags lowercases, trims and deduplicates tags, keeping first-seen
// order. A leading '#' is dropped.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#")))
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// Normalize restores the model invariants on t: known enum values, a positive
// duration and interval, lowercase unique tags, a completion time exactly
// when done, and no zero-valued dates. It is applied to every task read from
// disk or imported.
func Normalize(t *Task, now time.Time) {
	if t.ID == "" {
		t.ID = NewID()
	}
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		t.Title = "untitled"
	}
	if !t.Status.Valid() {
		t.Status = StatusTodo
	}
	if !t.Priority.Valid() {
		t.Priority = PriorityMedium
	}
	if !t.Energy.Valid() {
		t.Energy = EnergyMedium
	}
	if !t.Slot.Valid() {
		t.Slot = SlotAny
	}
	if t.DurationMin <= 0 {
		t.DurationMin = DefaultDurationMin
	}
	t.Due = date.Valid(t.Due)
	if t.RemindAt != nil && t.RemindAt.IsZero() {
		t.RemindAt = nil
	}
	t.Tags = NormalizeTags(t.Tags)
	t.Recurrence = t.Recurrence.Normalized()
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == "" {
			t.Subtasks[i].ID = NewID()
		}
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	switch {
	case t.IsDone() && t.CompletedAt == nil:
		completed := t.UpdatedAt
		t.CompletedAt = &completed
	case !t.IsDone():
		t.CompletedAt = nil
	}
}

// NormalizeAll normalizes every task of a collection and re-keys tasks whose
// ID repeats an earlier one, so IDs are unique. Nil entries are dropped.
func NormalizeAll(tasks []*Task, now time.Time) []*Task {
	out := make([]*Task, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		Normalize(t, now)
		if seen[t.ID] {
			t.ID = NewID()
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}
