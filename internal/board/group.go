package board

import (
	"slices"
	"sort"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

const (
	fieldStatus   = "status"
	fieldSlot     = "slot"
	fieldPriority = "priority"
	fieldEnergy   = "energy"
	fieldTag      = "tag"
)

// Column is one lane of a kanban or planner board.
type Column struct {
	Key   string       `json:"key"`
	Label string       `json:"label"`
	Tasks []*task.Task `json:"tasks"`
}

var statusLabels = map[task.Status]string{
	task.StatusTodo:  "To-do",
	task.StatusDoing: "Doing",
	task.StatusDone:  "Done",
}

var slotLabels = map[task.Slot]string{
	task.SlotMorning:   "Morning",
	task.SlotAfternoon: "Afternoon",
	task.SlotEvening:   "Evening",
	task.SlotAny:       "Anytime",
}

// Kanban splits tasks into todo, doing and done columns, keeping their order.
func Kanban(tasks []*task.Task) []Column {
	cols := make([]Column, len(task.Statuses))
	for i, s := range task.Statuses {
		cols[i] = Column{Key: string(s), Label: statusLabels[s], Tasks: []*task.Task{}}
		for _, t := range tasks {
			if t.Status == s {
				cols[i].Tasks = append(cols[i].Tasks, t)
			}
		}
	}
	return cols
}

// Planner splits tasks into morning, afternoon, evening and anytime columns.
func Planner(tasks []*task.Task) []Column {
	cols := make([]Column, len(task.Slots))
	for i, s := range task.Slots {
		cols[i] = Column{Key: string(s), Label: slotLabels[s], Tasks: []*task.Task{}}
		for _, t := range tasks {
			if t.Slot == s {
				cols[i].Tasks = append(cols[i].Tasks, t)
			}
		}
	}
	return cols
}

// Group is one bucket of a grouped listing.
type Group struct {
	Key   string       `json:"key"`
	Total int          `json:"total"`
	Open  int          `json:"open"`
	Tasks []*task.Task `json:"tasks"`
}

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{fieldStatus, fieldSlot, fieldPriority, fieldEnergy, fieldTag}
}

// GroupBy buckets tasks by field. A task with several tags appears in each
// tag's group. Groups follow the field's natural order; tags sort
// alphabetically with untagged tasks last.
func GroupBy(tasks []*task.Task, field string) ([]Group, error) {
	if !validGroupField(field) {
		return nil, clierr.Newf(clierr.InvalidGroupBy, "invalid group-by field %q", field).
			WithDetails(map[string]any{
				"field":   field,
				"allowed": ValidGroupByFields(),
			})
	}

	groups := make(map[string]*Group)
	for _, t := range tasks {
		for _, key := range extractGroupKeys(t, field) {
			g, ok := groups[key]
			if !ok {
				g = &Group{Key: key}
				groups[key] = g
			}
			g.Tasks = append(g.Tasks, t)
			g.Total++
			if !t.IsDone() {
				g.Open++
			}
		}
	}

	keys := sortGroupKeys(groups, field)
	out := make([]Group, 0, len(keys))
	for _, k := range keys {
		out = append(out, *groups[k])
	}
	return out, nil
}

func validGroupField(field string) bool {
	return slices.Contains(ValidGroupByFields(), field)
}

const untagged = "(untagged)"

func extractGroupKeys(t *task.Task, field string) []string {
	switch field {
	case fieldTag:
		if len(t.Tags) == 0 {
			return []string{untagged}
		}
		return t.Tags
	case fieldSlot:
		return []string{string(t.Slot)}
	case fieldPriority:
		return []string{string(t.Priority)}
	case fieldEnergy:
		return []string{string(t.Energy)}
	default:
		return []string{string(t.Status)}
	}
}

func sortGroupKeys(groups map[string]*Group, field string) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	var order []string
	switch field {
	case fieldStatus:
		order = stringsOf(task.Statuses)
	case fieldSlot:
		order = stringsOf(task.Slots)
	case fieldPriority:
		// Highest first, matching display order.
		order = []string{"urgent", "high", "medium", "low"}
	case fieldEnergy:
		order = stringsOf(task.Energies)
	}

	if order == nil {
		sort.Slice(keys, func(i, j int) bool {
			if (keys[i] == untagged) != (keys[j] == untagged) {
				return keys[j] == untagged
			}
			return keys[i] < keys[j]
		})
		return keys
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return indexOf(order, keys[i]) < indexOf(order, keys[j])
	})
	return keys
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func indexOf(order []string, key string) int {
	if i := slices.Index(order, key); i >= 0 {
		return i
	}
	return len(order)
}

// Tags returns every tag in use, sorted.
func Tags(tasks []*task.Task) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tasks {
		for _, tag := range t.Tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	sort.Strings(out)
	return out
}
