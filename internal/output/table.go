package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/fivetodo/internal/board"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/pomodoro"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)

	// Status colors aligned with TUI column-header palette.
	statusStyles = map[string]lipgloss.Style{
		"todo":  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		"doing": lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"done":  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	// Priority colors matching TUI priority palette.
	priorityStyles = map[string]lipgloss.Style{
		"urgent": lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	todayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
	tagStyle = lipgloss.NewStyle()
	overdueStyle = lipgloss.NewStyle()
	todayStyle = lipgloss.NewStyle()
}

// TaskTable renders a list of tasks as a formatted table. Due dates before
// asOf are highlighted as overdue.
func TaskTable(w io.Writer, tasks []*task.Task, asOf date.Date) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	// Calculate column widths.
	const pad = 2
	idW, statusW, prioW, titleW, tagsW, dueW, slotW := 10, 8, 10, 5, 6, 12, 11
	for _, t := range tasks {
		statusW = max(statusW, len(t.Status)+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		titleW = max(titleW, min(len(displayTitle(t))+pad, 50)) //nolint:mnd // max title column width
		tagsW = max(tagsW, min(len(strings.Join(t.Tags, ","))+pad, 30)) //nolint:mnd // max tags column width
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", statusW, "STATUS", prioW, "PRIORITY",
		titleW, "TITLE", tagsW, "TAGS", dueW, "DUE", slotW, "SLOT", "MIN")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		title := displayTitle(t)
		const maxTitle = 48
		if len(title) > maxTitle {
			title = title[:maxTitle-3] + "..."
		}
		tags := strings.Join(t.Tags, ",")
		if tags == "" {
			tags = dimStyle.Render("--")
		} else {
			tags = tagStyle.Render(tags)
		}

		row := fmt.Sprintf("%-*s %s %s %s %s %s %s %d",
			idW, t.ShortID(),
			padRight(styledValue(string(t.Status), statusStyles), statusW),
			padRight(styledValue(string(t.Priority), priorityStyles), prioW),
			padRight(title, titleW),
			padRight(tags, tagsW),
			padRight(dueDisplay(t, asOf), dueW),
			padRight(string(t.Slot), slotW),
			t.DurationMin)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail.
func TaskDetail(w io.Writer, t *task.Task, asOf date.Date) {
	titleLine := fmt.Sprintf("Task %s: %s", t.ShortID(), t.Title)
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "ID", t.ID)
	printField(w, "Status", styledValue(string(t.Status), statusStyles))
	printField(w, "Priority", styledValue(string(t.Priority), priorityStyles))
	if len(t.Tags) > 0 {
		printField(w, "Tags", tagStyle.Render(strings.Join(t.Tags, ", ")))
	} else {
		printField(w, "Tags", dimStyle.Render("--"))
	}
	printField(w, "Due", dueDisplay(t, asOf))
	if t.Recurrence.Active() {
		printField(w, "Repeats", t.Recurrence.String())
	}
	if t.RemindAt != nil {
		reminder := t.RemindAt.Format("2006-01-02 15:04")
		if t.Notified {
			reminder += dimStyle.Render(" (sent)")
		}
		printField(w, "Reminder", reminder)
	}
	printField(w, "Energy", string(t.Energy))
	printField(w, "Duration", strconv.Itoa(t.DurationMin)+" min")
	printField(w, "Slot", string(t.Slot))
	printField(w, "Created", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	printField(w, "Updated", t.UpdatedAt.Local().Format("2006-01-02 15:04"))
	if t.CompletedAt != nil {
		printField(w, "Completed", t.CompletedAt.Local().Format("2006-01-02 15:04"))
		printField(w, "Lead time", FormatDuration(t.CompletedAt.Sub(t.CreatedAt)))
	}

	if len(t.Subtasks) > 0 {
		done, total := task.SubtaskProgress(t)
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Subtasks %d/%d", done, total)))
		SubtaskList(w, t)
	}
}

// SubtaskList renders a task's checklist with 1-based positions.
func SubtaskList(w io.Writer, t *task.Task) {
	for i, s := range t.Subtasks {
		box := "[ ]"
		title := s.Title
		if s.Done {
			box = "[x]"
			title = dimStyle.Render(title)
		}
		fmt.Fprintf(w, "  %2d. %s %s\n", i+1, box, title)
	}
}

// StatsTable renders the headline counters.
func StatsTable(w io.Writer, name string, s board.Stats) {
	if name != "" {
		fmt.Fprintln(w, titleStyle.Render(name))
	}
	fmt.Fprintf(w, "Total %d  Done %d  Overdue %s  Due today %s  Complete %d%%\n",
		s.Total, s.Done,
		overdueStyle.Render(strconv.Itoa(s.Overdue)),
		todayStyle.Render(strconv.Itoa(s.DueToday)),
		s.Rate)
}

// ColumnsTable renders kanban or planner columns one after another.
func ColumnsTable(w io.Writer, cols []board.Column, asOf date.Date) {
	for i, c := range cols {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d)", c.Label, len(c.Tasks))
		fmt.Fprintln(w, styledTitle(c.Key, title))
		if len(c.Tasks) == 0 {
			fmt.Fprintln(w, "  "+dimStyle.Render("--"))
			continue
		}
		for _, t := range c.Tasks {
			fmt.Fprintf(w, "  %s %s %s\n",
				dimStyle.Render(t.ShortID()),
				padRight(styledValue(string(t.Priority), priorityStyles), 8), //nolint:mnd // column width
				cardLine(t, asOf))
		}
	}
}

// GroupedTable renders a grouped view with per-group open counts.
func GroupedTable(w io.Writer, groups []board.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(os.Stderr, "No groups found.")
		return
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d tasks, %d open)", g.Key, g.Total, g.Open)
		fmt.Fprintln(w, titleStyle.Render(title))
		for _, t := range g.Tasks {
			fmt.Fprintf(w, "  %s %s %s\n",
				dimStyle.Render(t.ShortID()),
				padRight(styledValue(string(t.Status), statusStyles), 6), //nolint:mnd // column width
				t.Title)
		}
	}
}

// LogTable renders activity log entries.
func LogTable(w io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity.")
		return
	}
	for _, e := range entries {
		id := "--------"
		if e.TaskID != "" {
			id = shortID(e.TaskID)
		}
		fmt.Fprintf(w, "%s %s %-8s %s\n",
			dimStyle.Render(e.Timestamp.Local().Format("2006-01-02 15:04")),
			dimStyle.Render(id), e.Action, e.Detail)
	}
}

// PomodoroLine renders the timer state on one line.
func PomodoroLine(w io.Writer, t *pomodoro.Timer, bound string) {
	state := "paused"
	if t.Running() {
		state = "running"
	}
	line := fmt.Sprintf("%s %s  round %d  %s",
		titleStyle.Render(t.Phase().String()), pomodoro.Format(t.Remaining()), t.Round(), state)
	if bound != "" {
		line += "  " + tagStyle.Render(bound)
	}
	fmt.Fprintln(w, line)
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// FormatDuration renders a duration as human-readable "Xd Yh" or "Xh Ym".
func FormatDuration(d time.Duration) string {
	const hoursPerDay = 24
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if days > 0 {
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	}
	minutes := int(d.Minutes()) % 60 //nolint:mnd // 60 minutes per hour
	return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}

func styledTitle(key, title string) string {
	if st, ok := statusStyles[key]; ok {
		return st.Bold(true).Render(title)
	}
	return titleStyle.Render(title)
}

// displayTitle appends a subtask counter when the task has a checklist.
func displayTitle(t *task.Task) string {
	done, total := task.SubtaskProgress(t)
	if total == 0 {
		return t.Title
	}
	return fmt.Sprintf("%s [%d/%d]", t.Title, done, total)
}

func dueDisplay(t *task.Task, asOf date.Date) string {
	if t.Due == nil {
		return dimStyle.Render("--")
	}
	s := t.Due.String()
	switch {
	case t.IsDone():
		return s
	case t.Due.Before(asOf):
		return overdueStyle.Render(s)
	case t.Due.Equal(asOf):
		return todayStyle.Render(s)
	}
	return s
}

func cardLine(t *task.Task, asOf date.Date) string {
	line := displayTitle(t)
	if t.Due != nil {
		line += " " + dueDisplay(t, asOf)
	}
	if t.Recurrence.Active() {
		line += dimStyle.Render(" ↻")
	}
	if len(t.Tags) > 0 {
		line += " " + tagStyle.Render("#"+strings.Join(t.Tags, " #"))
	}
	return line
}

func shortID(id string) string {
	const n = 8
	if len(id) <= n {
		return id
	}
	return id[:n]
}
