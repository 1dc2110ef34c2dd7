package app

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Abort key.Binding
}

var GlobalKeys = KeyMap{
	Abort: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "abort"),
	),
}
