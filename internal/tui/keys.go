package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Left, Right key.Binding
	NextTab, PrevTab      key.Binding
	Toggle, Add, Search   key.Binding
	Mode, ShowDone        key.Binding
	MovePrev, MoveNext    key.Binding
	Delete, Undo, Focus   key.Binding
	Reset, Skip           key.Binding
	Help, Quit            key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "column")),
		Right:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "column")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done/start")),
		Add:      key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Mode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
		ShowDone: key.NewBinding(key.WithKeys("."), key.WithHelp(".", "show done")),
		MovePrev: key.NewBinding(key.WithKeys("<", "H"), key.WithHelp("<", "move left")),
		MoveNext: key.NewBinding(key.WithKeys(">", "L"), key.WithHelp(">", "move right")),
		Delete:   key.NewBinding(key.WithKeys("d", "D"), key.WithHelp("d", "delete")),
		Undo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Focus:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "focus on task")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset timer")),
		Skip:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip phase")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Toggle, k.Add, k.Delete, k.Undo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.NextTab, k.PrevTab, k.Mode, k.ShowDone, k.Search},
		{k.Toggle, k.Add, k.MovePrev, k.MoveNext, k.Delete, k.Undo},
		{k.Focus, k.Reset, k.Skip, k.Help, k.Quit},
	}
}
