package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Help    key.Binding
	Back    key.Binding
	Enter   key.Binding
	Up      key.Binding
	Down    key.Binding
	Filter  key.Binding
	PlayAll key.Binding
	Stop    key.Binding
	Toggle  key.Binding
	Rewind  key.Binding
	Forward key.Binding
	Repeat  key.Binding
	Like    key.Binding
	Copy    key.Binding
	Open    key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	PlayAll: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play first song")),
	Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
	Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
	Rewind:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "rewind")),
	Forward: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "forward")),
	Repeat:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
	Like:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
	Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy lyric")),
	Open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open player")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Back, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Back, k.Help, k.Quit},
		{k.Up, k.Down, k.Filter, k.PlayAll, k.Stop, k.Open},
		{k.Toggle, k.Rewind, k.Forward, k.Repeat, k.Like, k.Copy},
	}
}
