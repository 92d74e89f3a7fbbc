package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle  key.Binding
	Clear   key.Binding
	Snap    key.Binding
	Haptics key.Binding
	Left    key.Binding
	Right   key.Binding
	Quit    key.Binding
	More    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys("m", " "),
			key.WithHelp("m/space", "toggle marker"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear markers"),
		),
		Snap: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "snap on/off"),
		),
		Haptics: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "haptic style"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "down"),
			key.WithHelp("←/↓", "decrease"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "up"),
			key.WithHelp("→/↑", "increase"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		More: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Left, k.Right, k.Quit, k.More}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Clear, k.Snap, k.Haptics},
		{k.Left, k.Right, k.Quit, k.More},
	}
}
