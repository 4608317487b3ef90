package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Letters are left to the title input, so every action is on a control chord.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	submit  key.Binding
	clear   key.Binding
	refresh key.Binding
	signIn  key.Binding
	dismiss key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add song")),
		clear:   key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "clear playlist")),
		refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		signIn:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "sign in")),
		dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.submit, k.clear, k.refresh, k.signIn, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.submit},
		{k.clear, k.refresh, k.signIn},
		{k.dismiss, k.quit},
	}
}
