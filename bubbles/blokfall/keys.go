package blokfall

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left, Right       key.Binding
	RotateCCW         key.Binding
	RotateCW          key.Binding
	SoftDrop          key.Binding
	HardDrop          key.Binding
	Start, Pause      key.Binding
	Help, Debug, Quit key.Binding
}

var _ interface {
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
} = keyMap{}

func defaultKeyMap() keyMap {
	return keyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h", "d"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "f"),
			key.WithHelp("→/l", "right"),
		),
		RotateCCW: key.NewBinding(
			key.WithKeys("up", "j"),
			key.WithHelp("↑/j", "rotate ↶"),
		),
		RotateCW: key.NewBinding(
			key.WithKeys("down", "k"),
			key.WithHelp("↓/k", "rotate ↷"),
		),
		SoftDrop: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "soft drop"),
		),
		HardDrop: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "drop"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start/resume"),
		),
		Pause: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "pause/quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Debug: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "debug blocks"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.RotateCCW, k.HardDrop, k.Start, k.Pause, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.SoftDrop, k.HardDrop},
		{k.RotateCCW, k.RotateCW},
		{k.Start, k.Pause, k.Quit},
		{k.Help, k.Debug},
	}
}
