package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/fivetodo/internal/board"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task) {
	line := formatTaskLine(t)
	line += " energy:" + string(t.Energy) + " min:" + strconv.Itoa(t.DurationMin) + " slot:" + string(t.Slot)
	if t.Recurrence.Active() {
		line += " repeat:" + strconv.Quote(t.Recurrence.String())
	}
	if t.RemindAt != nil {
		line += " remind:" + t.RemindAt.String()
	}
	fmt.Fprintln(w, line)

	ts := "  created:" + t.CreatedAt.Format("2006-01-02") +
		" updated:" + t.UpdatedAt.Format("2006-01-02")
	if t.CompletedAt != nil {
		ts += " completed:" + t.CompletedAt.Format("2006-01-02")
	}
	fmt.Fprintln(w, ts)

	for i, s := range t.Subtasks {
		mark := " "
		if s.Done {
			mark = "x"
		}
		fmt.Fprintf(w, "  %d.[%s] %s\n", i+1, mark, s.Title)
	}

	if t.Notes != "" {
		for _, noteLine := range strings.Split(t.Notes, "\n") {
			fmt.Fprintln(w, "  "+noteLine)
		}
	}
}

// StatsCompact renders the headline counters on one line.
func StatsCompact(w io.Writer, s board.Stats) {
	fmt.Fprintf(w, "total=%d done=%d overdue=%d today=%d rate=%d%%\n",
		s.Total, s.Done, s.Overdue, s.DueToday, s.Rate)
}

// ColumnsCompact renders kanban or planner columns, one task per line.
func ColumnsCompact(w io.Writer, cols []board.Column) {
	for _, c := range cols {
		fmt.Fprintf(w, "%s (%d)\n", c.Label, len(c.Tasks))
		for _, t := range c.Tasks {
			fmt.Fprintln(w, "  "+formatTaskLine(t))
		}
	}
}

// GroupedCompact renders a grouped view with one line per group.
func GroupedCompact(w io.Writer, groups []board.Group) {
	for _, g := range groups {
		fmt.Fprintf(w, "%s: %d (%d open)\n", g.Key, g.Total, g.Open)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	line := t.ShortID() + " [" + string(t.Status) + "/" + string(t.Priority) + "] " + t.Title

	if done, total := task.SubtaskProgress(t); total > 0 {
		line += " [" + strconv.Itoa(done) + "/" + strconv.Itoa(total) + "]"
	}
	if len(t.Tags) > 0 {
		line += " (" + strings.Join(t.Tags, ", ") + ")"
	}
	if t.Due != nil {
		line += " due:" + t.Due.String()
	}

	return line
}
