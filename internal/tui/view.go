package tui

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/fivetodo/internal/board"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/pomodoro"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// Layout constants.
const (
	headerLines  = 2 // tab bar + stats line above the columns
	boardChrome  = 2 // blank line + status bar below the column area
	errorChrome  = 1 // extra line when an error or flash is displayed
	inputChrome  = 1 // text input line while adding or searching
	maxColWidth  = 75
	listColWidth = 120
)

// --- Styles ---

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("226")).
			Padding(0, 1)

	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	flashStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	todayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	timerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Padding(1, 4)

	priorityColors = map[task.Priority]lipgloss.Color{
		task.PriorityUrgent: "196",
		task.PriorityHigh:   "208",
		task.PriorityMedium: "252",
		task.PriorityLow:    "244",
	}

	// tagColorPalette is a set of distinct, readable terminal colors for auto-coloring tags.
	tagColorPalette = []lipgloss.Color{"33", "36", "35", "32", "91", "34", "93", "96"}

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// tagStyle returns a consistent lipgloss style for a tag, derived by hashing
// the tag name into the tagColorPalette. Same tag always gets the same color.
func tagStyle(tag string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(tagColorPalette[tagHash(tag)])
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}
	if a.mode == modeConfirmDelete {
		return a.viewDeleteConfirm()
	}

	var body string
	if a.tab == tabPomodoro {
		body = a.viewPomodoro()
	} else {
		body = a.viewColumns()
	}
	return lipgloss.JoinVertical(lipgloss.Left, a.viewHeader(), body, "", a.viewFooter())
}

func (a *App) viewHeader() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := strconv.Itoa(i+1) + " " + name
		if tab(i) == a.tab {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	s := board.Summary(a.tasks, a.asOf())
	stats := fmt.Sprintf(" %s  %d tasks  %d done  %s  %s  %d%%",
		a.cfg.Name, s.Total, s.Done,
		overdueStyle.Render(strconv.Itoa(s.Overdue)+" overdue"),
		todayStyle.Render(strconv.Itoa(s.DueToday)+" today"),
		s.Rate)
	if a.params.Tag != "" || a.params.Query != "" {
		stats += dimStyle.Render("  filter: " + strings.TrimSpace("#"+a.params.Tag+" "+a.params.Query))
	}
	return bar + "\n" + truncate(stats, a.width)
}

func (a *App) viewFooter() string {
	var lines []string
	switch {
	case a.err != nil:
		lines = append(lines, errorStyle.Render(truncate("Error: "+a.err.Error(), a.width)))
	case a.flash != "":
		lines = append(lines, flashStyle.Render(truncate(a.flash, a.width)))
	}
	if a.mode == modeAdd || a.mode == modeSearch {
		lines = append(lines, a.input.View())
	}
	lines = append(lines, statusBarStyle.Render(a.help.View(a.keys)))
	return strings.Join(lines, "\n")
}

// chromeHeight returns the number of lines consumed by non-card elements.
func (a *App) chromeHeight() int {
	h := headerLines + boardChrome
	if a.err != nil || a.flash != "" {
		h += errorChrome
	}
	if a.mode == modeAdd || a.mode == modeSearch {
		h += inputChrome
	}
	if a.help.ShowAll {
		h += 3 //nolint:mnd // full help adds rows
	}
	return h
}

func (a *App) viewColumns() string {
	if len(a.columns) == 0 {
		return dimStyle.Render("  (no tasks)")
	}

	colWidth := a.columnWidth()
	rendered := make([]string, len(a.columns))
	for i, col := range a.columns {
		rendered[i] = a.renderColumn(i, col, colWidth)
	}
	view := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	// Clamp from the bottom (keeping headers at the top) and pad if needed.
	targetHeight := a.height - a.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(view, "\n") + 1
		if actual > targetHeight {
			viewLines := strings.SplitN(view, "\n", targetHeight+1)
			view = strings.Join(viewLines[:targetHeight], "\n")
		} else if actual < targetHeight {
			view += strings.Repeat("\n", targetHeight-actual)
		}
	}
	return view
}

func (a *App) columnWidth() int {
	if a.width == 0 || len(a.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	w := a.width / len(a.columns)
	limit := maxColWidth
	if a.tab == tabList {
		limit = listColWidth
	}
	return min(w, limit)
}

func (a *App) renderColumn(colIdx int, col column, width int) string {
	const headerPad = 2
	headerText := truncate(fmt.Sprintf("%s (%d)", col.label, len(col.tasks)), width-headerPad)

	var header string
	if colIdx == a.activeCol {
		header = activeColumnHeaderStyle.Width(width).Render(headerText)
	} else {
		header = columnHeaderStyle.Width(width).Render(headerText)
	}

	maxVis := a.visibleCardsForColumn(&col, width)
	start := min(col.scrollOff, len(col.tasks))
	end := min(start+maxVis, len(col.tasks))

	parts := []string{header}
	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↑ %d more", start), width)))
	}
	if len(col.tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	}
	for rowIdx := start; rowIdx < end; rowIdx++ {
		active := colIdx == a.activeCol && rowIdx == a.activeRow
		parts = append(parts, a.renderCard(col.tasks[rowIdx], active, width))
	}
	if end < len(col.tasks) {
		indicator := fmt.Sprintf("  ↓ %d more", len(col.tasks)-end)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderCard(t *task.Task, active bool, width int) string {
	content := strings.Join(a.cardContentLines(t, width), "\n")

	style := cardStyle
	if len(t.Tags) > 0 {
		style = cardStyle.BorderForeground(tagColorPalette[tagHash(t.Tags[0])])
	}
	if active {
		style = activeCardStyle
	}
	return style.Width(width - 2).Render(content) //nolint:mnd // border width
}

func tagHash(tag string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag))
	return h.Sum32() % uint32(len(tagColorPalette))
}

func (a *App) cardHeight(t *task.Task, width int) int {
	return len(a.cardContentLines(t, width)) + 2 //nolint:mnd // top and bottom borders
}

func (a *App) cardContentLines(t *task.Task, width int) []string {
	const cardChrome = 4 // border (2) + padding (2)
	cardWidth := max(width-cardChrome, 1)

	titleStyle := lipgloss.NewStyle().Foreground(priorityColors[t.Priority])
	if t.Priority == task.PriorityUrgent {
		titleStyle = titleStyle.Bold(true)
	}
	if t.IsDone() {
		titleStyle = doneStyle
	}

	title := t.Title
	if a.tab == tabList {
		box := "[ ] "
		if t.IsDone() {
			box = "[x] "
		}
		title = box + title
	}

	var lines []string
	for _, line := range wrapTitle(title, cardWidth, a.cfg.TitleLines()) {
		lines = append(lines, titleStyle.Render(line))
	}

	if meta := a.cardMeta(t); meta != "" {
		lines = append(lines, meta)
	}
	if len(t.Tags) > 0 {
		tags := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			tags[i] = tagStyle(tag).Render("#" + tag)
		}
		lines = append(lines, truncate(strings.Join(tags, " "), cardWidth))
	}
	return lines
}

// cardMeta renders due date, recurrence, checklist progress, effort and
// reminder on one line.
func (a *App) cardMeta(t *task.Task) string {
	var parts []string
	if t.Due != nil {
		parts = append(parts, dueLabel(t, a.asOf()))
	}
	if t.Recurrence.Active() {
		parts = append(parts, dimStyle.Render("↻ "+t.Recurrence.String()))
	}
	if done, total := task.SubtaskProgress(t); total > 0 {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("☐ %d/%d", done, total)))
	}
	parts = append(parts, dimStyle.Render(fmt.Sprintf("%dm %s", t.DurationMin, t.Energy)))
	if t.RemindAt != nil && !t.Notified {
		parts = append(parts, dimStyle.Render("⏰ "+t.RemindAt.Local().Format("01-02 15:04")))
	}
	if t.ID == a.timer.Task() {
		parts = append(parts, todayStyle.Render("● focus"))
	}
	return strings.Join(parts, "  ")
}

func dueLabel(t *task.Task, asOf date.Date) string {
	s := t.Due.String()
	switch {
	case t.IsDone():
		return dimStyle.Render(s)
	case t.Due.Before(asOf):
		return overdueStyle.Render(s + " overdue")
	case t.Due.Equal(asOf):
		return todayStyle.Render("today")
	}
	return dimStyle.Render(s)
}

// visibleCardsForColumn returns the number of cards that fit in the column,
// accounting for scroll indicator lines ("↑ N more" / "↓ N more") that
// consume vertical space.
func (a *App) visibleCardsForColumn(col *column, width int) int {
	budget := a.height - a.chromeHeight()
	if budget < 1 {
		return 1
	}

	avail := budget - 1 // column header
	if col.scrollOff > 0 {
		avail--
	}

	n := a.fitCardsInHeight(col, avail, width)
	if col.scrollOff+n < len(col.tasks) {
		n = max(a.fitCardsInHeight(col, avail-1, width), 1)
	}
	return n
}

// ensureVisible adjusts the active column's scroll offset so the
// selected row is within the visible window.
func (a *App) ensureVisible() {
	col := a.currentColumn()
	if col == nil {
		return
	}
	w := a.columnWidth()

	for i, n := 0, len(col.tasks)+1; i < n; i++ {
		maxVis := a.visibleCardsForColumn(col, w)

		switch {
		case a.activeRow >= col.scrollOff+maxVis:
			col.scrollOff = a.activeRow - maxVis + 1
		case a.activeRow < col.scrollOff:
			col.scrollOff = a.activeRow
		default:
			return
		}
	}
}

func (a *App) fitCardsInHeight(col *column, avail, width int) int {
	if len(col.tasks) == 0 || avail < 1 {
		return 1
	}

	used := 0
	count := 0
	for i := col.scrollOff; i < len(col.tasks); i++ {
		cardLines := a.cardHeight(col.tasks[i], width)
		if count > 0 && used+cardLines > avail {
			break
		}
		count++
		used += cardLines
		if used >= avail {
			break
		}
	}
	return max(count, 1)
}

func (a *App) viewPomodoro() string {
	phase := a.timer.Phase()
	state := "paused"
	if a.timer.Running() {
		state = "running"
	}

	clock := timerStyle.Render(pomodoro.Format(a.timer.Remaining()))
	lines := []string{
		activeColumnHeaderStyle.Render(phase.String()),
		clock,
		dimStyle.Render(fmt.Sprintf("round %d of %d  %s", a.timer.Round(),
			a.timer.Settings().RoundsBeforeLong, state)),
		"",
	}
	if t := a.boundTask(); t != nil {
		lines = append(lines, "Focusing on: "+lipgloss.NewStyle().Bold(true).Render(t.Title))
		if meta := a.cardMeta(t); meta != "" {
			lines = append(lines, meta)
		}
	} else {
		lines = append(lines, dimStyle.Render("No task bound. Press p on a task to focus on it."))
	}
	lines = append(lines, "", dimStyle.Render("space: start/pause  r: reset  s: skip"))

	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	h := max(a.height-a.chromeHeight(), 0)
	return lipgloss.Place(a.width, h, lipgloss.Center, lipgloss.Center, body)
}

func (a *App) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		"  " + a.deleteTitle + "\n\n" +
		dimStyle.Render("y:yes  n:no")
	return dialogStyle.Render(content)
}

// wrapTitle splits a title across maxLines lines, word-wrapping at word
// boundaries. Each line is at most maxWidth characters.
func wrapTitle(title string, maxWidth, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if lipgloss.Width(title) <= maxWidth || maxLines == 1 {
		return []string{truncate(title, maxWidth)}
	}

	words := strings.Fields(title)
	lines := make([]string, 0, maxLines)
	var current strings.Builder

	for i, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if lipgloss.Width(current.String())+1+lipgloss.Width(word) <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
			continue
		}
		lines = append(lines, truncate(current.String(), maxWidth))
		current.Reset()
		current.WriteString(word)
		if len(lines) == maxLines-1 {
			// Last line: append all remaining words.
			for _, w := range words[i+1:] {
				current.WriteByte(' ')
				current.WriteString(w)
			}
			break
		}
	}
	if current.Len() > 0 {
		lines = append(lines, truncate(current.String(), maxWidth))
	}
	return lines
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
