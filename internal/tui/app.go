// Package tui implements the fivetodo terminal UI: a filtered list, a status
// kanban, a time-of-day planner and a pomodoro timer.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/fivetodo/internal/board"
	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/config"
	"github.com/twiced-technology-gmbh/fivetodo/internal/date"
	"github.com/twiced-technology-gmbh/fivetodo/internal/pomodoro"
	"github.com/twiced-technology-gmbh/fivetodo/internal/store"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// tab is one of the top-level views.
type tab int

const (
	tabList tab = iota
	tabKanban
	tabPlanner
	tabPomodoro
)

var tabNames = []string{"List", "Kanban", "Planner", "Pomodoro"}

// inputMode is what keystrokes currently drive.
type inputMode int

const (
	modeNormal inputMode = iota
	modeAdd
	modeSearch
	modeConfirmDelete
)

const (
	keyEsc = "esc"

	tickInterval = 30 * time.Second // date rollover and reminder badges
	pomoInterval = time.Second
)

// App is the top-level bubbletea model.
type App struct {
	cfg   *config.Config
	store *store.Store
	keys  keyMap
	help  help.Model
	input textinput.Model

	tasks   []*task.Task
	params  board.ViewParams
	tab     tab
	mode    inputMode
	columns []column

	activeCol int
	activeRow int

	timer       *pomodoro.Timer
	pomoTicking bool

	width  int
	height int
	err    error
	flash  string
	now    func() time.Time

	deleteID    string
	deleteTitle string

	lastClickCol  int
	lastClickRow  int
	lastClickTime time.Time
}

// column is one lane of tasks with its own scroll position.
type column struct {
	key       string
	label     string
	tasks     []*task.Task
	scrollOff int // first visible row index
}

// New creates the App model for a store.
func New(cfg *config.Config, st *store.Store) *App {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 200

	a := &App{
		cfg:    cfg,
		store:  st,
		keys:   defaultKeys(),
		help:   help.New(),
		input:  ti,
		params: cfg.ViewParams(),
		timer:  pomodoro.New(cfg.PomodoroSettings()),
		now:    time.Now,
	}
	a.loadTasks()
	return a
}

// SetNow overrides the clock (for testing).
func (a *App) SetNow(fn func() time.Time) {
	a.now = fn
	a.store.SetNow(fn)
	a.rebuild()
}

// WatchPaths returns the paths that should be watched for file changes.
func (a *App) WatchPaths() []string {
	paths := []string{a.cfg.TasksPath()}
	if a.cfg.Dir() != a.cfg.TasksPath() {
		paths = append(paths, a.cfg.Dir())
	}
	return paths
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.MouseMsg:
		return a.handleMouse(msg)
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.input.Width = max(msg.Width-4, 10) //nolint:mnd // prompt and padding
		return a, nil
	case ReloadMsg:
		a.loadTasks()
		return a, nil
	case TickMsg:
		a.rebuild()
		return a, tickCmd()
	case pomoTickMsg:
		return a.handlePomoTick()
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeAdd:
		return a.handleAddKey(msg)
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeConfirmDelete:
		return a.handleDeleteKey(msg)
	}

	a.flash = ""
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	case key.Matches(msg, a.keys.NextTab):
		a.switchTab((a.tab + 1) % tab(len(tabNames)))
		return a, nil
	case key.Matches(msg, a.keys.PrevTab):
		a.switchTab((a.tab + tab(len(tabNames)) - 1) % tab(len(tabNames)))
		return a, nil
	}
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(tabNames) {
		a.switchTab(tab(s[0] - '1'))
		return a, nil
	}

	if a.tab == tabPomodoro {
		return a.handlePomodoroKey(msg)
	}
	return a.handleTaskKey(msg)
}

func (a *App) handleTaskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		if a.activeRow > 0 {
			a.activeRow--
			a.ensureVisible()
		}
	case key.Matches(msg, a.keys.Down):
		if col := a.currentColumn(); col != nil && a.activeRow < len(col.tasks)-1 {
			a.activeRow++
			a.ensureVisible()
		}
	case key.Matches(msg, a.keys.Left):
		if a.activeCol > 0 {
			a.activeCol--
			a.clampRow()
		}
	case key.Matches(msg, a.keys.Right):
		if a.activeCol < len(a.columns)-1 {
			a.activeCol++
			a.clampRow()
		}
	case key.Matches(msg, a.keys.Toggle):
		a.toggleSelected()
	case key.Matches(msg, a.keys.Add):
		a.mode = modeAdd
		a.input.Placeholder = "Pay rent #home !p3 ^2024-06-01 tomorrow"
		a.input.SetValue("")
		return a, a.input.Focus()
	case key.Matches(msg, a.keys.Search):
		a.mode = modeSearch
		a.input.Placeholder = "search title, notes and tags"
		a.input.SetValue(a.params.Query)
		return a, a.input.Focus()
	case key.Matches(msg, a.keys.Mode):
		a.cycleMode()
	case key.Matches(msg, a.keys.ShowDone):
		a.params.ShowDone = !a.params.ShowDone
		a.rebuild()
	case key.Matches(msg, a.keys.MovePrev):
		a.moveSelected(-1)
	case key.Matches(msg, a.keys.MoveNext):
		a.moveSelected(1)
	case key.Matches(msg, a.keys.Delete):
		if t := a.selectedTask(); t != nil {
			a.deleteID = t.ID
			a.deleteTitle = t.Title
			a.mode = modeConfirmDelete
		}
	case key.Matches(msg, a.keys.Undo):
		a.undo()
	case key.Matches(msg, a.keys.Focus):
		a.bindSelected()
	}
	return a, nil
}

func (a *App) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := a.input.Value()
		a.closeInput()
		a.quickAdd(text)
		return a, nil
	case keyEsc:
		a.closeInput()
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.closeInput()
		return a, nil
	case keyEsc:
		a.params.Query = ""
		a.closeInput()
		a.rebuild()
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	a.params.Query = a.input.Value()
	a.rebuild()
	return a, cmd
}

func (a *App) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		a.mode = modeNormal
		_, err := a.store.Delete(a.deleteID)
		a.loadTasks()
		if err != nil {
			a.err = err
			return a, nil
		}
		a.flash = "Deleted " + a.deleteTitle + " (u to undo)"
	case "n", "N", keyEsc, "q":
		a.mode = modeNormal
	}
	return a, nil
}

func (a *App) handlePomodoroKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Toggle):
		a.timer.Toggle()
		if a.timer.Running() && !a.pomoTicking {
			a.pomoTicking = true
			return a, pomoTickCmd()
		}
	case key.Matches(msg, a.keys.Reset):
		a.timer.Reset()
	case key.Matches(msg, a.keys.Skip):
		a.flash = phaseMessage(a.timer.Skip())
	}
	return a, nil
}

func (a *App) handlePomoTick() (tea.Model, tea.Cmd) {
	if !a.timer.Running() {
		a.pomoTicking = false
		return a, nil
	}
	if ev, ended := a.timer.Tick(pomoInterval); ended {
		a.flash = phaseMessage(ev)
		a.pomoTicking = false
		return a, nil
	}
	return a, pomoTickCmd()
}

func (a *App) closeInput() {
	a.input.Blur()
	a.mode = modeNormal
}

func (a *App) switchTab(t tab) {
	a.tab = t
	a.activeCol = 0
	a.activeRow = 0
	a.rebuild()
}

func (a *App) cycleMode() {
	for i, m := range board.Modes {
		if m == a.params.Mode {
			a.params.Mode = board.Modes[(i+1)%len(board.Modes)]
			a.rebuild()
			return
		}
	}
	a.params.Mode = board.ModeAll
	a.rebuild()
}

func (a *App) asOf() date.Date {
	return date.Of(a.now())
}

// loadTasks re-reads the store and rebuilds the visible columns.
func (a *App) loadTasks() {
	tasks, err := a.store.Load()
	if err != nil {
		a.err = err
		return
	}
	a.err = nil
	a.tasks = tasks
	if id := a.timer.Task(); id != "" {
		if t, ferr := task.Find(tasks, id); ferr != nil || t.IsDone() {
			a.timer.Bind("")
		}
	}
	a.rebuild()
}

// rebuild derives the columns of the current tab from the loaded tasks.
func (a *App) rebuild() {
	asOf := a.asOf()
	switch a.tab {
	case tabKanban:
		p := a.params
		p.ShowDone = true
		p.Mode = board.ModeAll
		a.columns = toColumns(board.Kanban(board.Derive(a.tasks, p, asOf)), a.columns)
	case tabPlanner:
		p := a.params
		p.ShowDone = false
		p.Mode = board.ModeAll
		a.columns = toColumns(board.Planner(board.Derive(a.tasks, p, asOf)), a.columns)
	case tabList:
		label := fmt.Sprintf("%s (%s)", tabNames[tabList], a.params.Mode)
		list := board.Derive(a.tasks, a.params, asOf)
		a.columns = toColumns([]board.Column{{Key: string(a.params.Mode), Label: label, Tasks: list}}, a.columns)
	default:
		a.columns = nil
	}
	if a.activeCol >= len(a.columns) {
		a.activeCol = max(len(a.columns)-1, 0)
	}
	a.clampRow()
}

// toColumns converts board columns, keeping scroll offsets of matching keys.
func toColumns(cols []board.Column, prev []column) []column {
	out := make([]column, len(cols))
	for i, c := range cols {
		out[i] = column{key: c.Key, label: c.Label, tasks: c.Tasks}
		for _, p := range prev {
			if p.key == c.Key {
				out[i].scrollOff = min(p.scrollOff, max(len(c.Tasks)-1, 0))
			}
		}
	}
	return out
}

func (a *App) quickAdd(text string) {
	q := task.ParseQuickEntry(text, a.asOf())
	if q.Title == "" {
		return
	}
	t := task.FromQuickEntry(q, a.cfg.TaskDefaults(), a.now())
	if a.tab == tabKanban {
		if col := a.currentColumn(); col != nil && col.key != string(task.StatusTodo) {
			_, _ = task.SetStatus(t, task.Status(col.key), a.now(), task.NewID())
		}
	}
	if a.tab == tabPlanner {
		if col := a.currentColumn(); col != nil {
			t.Slot = task.Slot(col.key)
		}
	}
	if err := a.store.Add(t); err != nil {
		a.err = err
		return
	}
	a.flash = "Added " + t.Title
	a.loadTasks()
}

func (a *App) toggleSelected() {
	t := a.selectedTask()
	if t == nil {
		return
	}
	res, err := a.store.Toggle(t.ID)
	if err != nil {
		a.err = err
		return
	}
	a.flash = resultMessage(res)
	a.loadTasks()
}

// moveSelected shifts the selected task one column: a status change on the
// kanban, a slot change on the planner.
func (a *App) moveSelected(delta int) {
	t := a.selectedTask()
	target := a.activeCol + delta
	if t == nil || target < 0 || target >= len(a.columns) {
		return
	}
	colKey := a.columns[target].key

	var err error
	switch a.tab {
	case tabKanban:
		var res store.Result
		res, err = a.store.SetStatus(t.ID, task.Status(colKey))
		if err == nil {
			a.flash = resultMessage(res)
		}
	case tabPlanner:
		slot := task.Slot(colKey)
		_, err = a.store.Edit(t.ID, task.Patch{Slot: &slot})
	default:
		return
	}
	if err != nil {
		a.err = err
		return
	}
	a.activeCol = target
	a.loadTasks()
	a.selectByID(t.ID)
}

func (a *App) undo() {
	snap, err := a.store.Undo()
	if err != nil {
		if clierr.CodeOf(err) == clierr.NothingToUndo {
			a.flash = "Nothing to undo"
			return
		}
		a.err = err
		return
	}
	a.flash = "Restored " + snap.TS.Local().Format("15:04:05")
	a.loadTasks()
}

// bindSelected points the pomodoro at the selected open task.
func (a *App) bindSelected() {
	t := a.selectedTask()
	if t == nil {
		return
	}
	if t.IsDone() {
		a.flash = "Only open tasks can be focused"
		return
	}
	a.timer.Bind(t.ID)
	a.switchTab(tabPomodoro)
}

func (a *App) selectByID(id string) {
	col := a.currentColumn()
	if col == nil {
		return
	}
	for i, t := range col.tasks {
		if t.ID == id {
			a.activeRow = i
			a.ensureVisible()
			return
		}
	}
}

func (a *App) boundTask() *task.Task {
	id := a.timer.Task()
	if id == "" {
		return nil
	}
	t, err := task.Find(a.tasks, id)
	if err != nil {
		return nil
	}
	return t
}

func (a *App) currentColumn() *column {
	if a.activeCol >= 0 && a.activeCol < len(a.columns) {
		return &a.columns[a.activeCol]
	}
	return nil
}

func (a *App) selectedTask() *task.Task {
	col := a.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		return nil
	}
	if a.activeRow >= 0 && a.activeRow < len(col.tasks) {
		return col.tasks[a.activeRow]
	}
	return nil
}

func (a *App) clampRow() {
	col := a.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		a.activeRow = 0
		return
	}
	if a.activeRow >= len(col.tasks) {
		a.activeRow = len(col.tasks) - 1
	}
	a.ensureVisible()
}

// handleMouse selects the clicked card; a double click toggles it.
func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return a, nil
	}
	if a.mode != modeNormal || len(a.columns) == 0 {
		return a, nil
	}

	colWidth := a.columnWidth()
	clickedCol := msg.X / colWidth
	if clickedCol >= len(a.columns) {
		return a, nil
	}

	col := &a.columns[clickedCol]
	lineY := msg.Y - headerLines - 1
	clickedRow := -1
	cardLine := 0
	for rowIdx := col.scrollOff; lineY >= 0 && rowIdx < len(col.tasks); rowIdx++ {
		cardH := a.cardHeight(col.tasks[rowIdx], colWidth)
		if lineY < cardLine+cardH {
			clickedRow = rowIdx
			break
		}
		cardLine += cardH
	}

	a.activeCol = clickedCol
	if clickedRow < 0 {
		a.clampRow()
		return a, nil
	}

	now := a.now()
	isDoubleClick := clickedCol == a.lastClickCol &&
		clickedRow == a.lastClickRow &&
		now.Sub(a.lastClickTime) < 500*time.Millisecond

	a.activeRow = clickedRow
	a.lastClickCol = clickedCol
	a.lastClickRow = clickedRow
	a.lastClickTime = now
	a.ensureVisible()

	if isDoubleClick {
		a.toggleSelected()
	}
	return a, nil
}

func resultMessage(res store.Result) string {
	msg := fmt.Sprintf("%s: %s", res.Task.Status, res.Task.Title)
	if res.Spawned != nil && res.Spawned.Due != nil {
		msg += ", next due " + res.Spawned.Due.String()
	}
	return msg
}

func phaseMessage(ev pomodoro.Event) string {
	return fmt.Sprintf("%s finished, %s next", ev.Ended, ev.Next)
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a refresh.
type ReloadMsg struct{}

// TickMsg is sent periodically so date-relative views roll over.
type TickMsg struct{}

type pomoTickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

func pomoTickCmd() tea.Cmd {
	return tea.Tick(pomoInterval, func(time.Time) tea.Msg { return pomoTickMsg{} })
}
