package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the root key bindings.
type KeyMap struct {
	OpenBag      key.Binding
	Reload       key.Binding
	LoadProfiles key.Binding
	Profile      key.Binding
	Export       key.Binding
	DomainID     key.Binding
	Toggle       key.Binding
	All          key.Binding
	None         key.Binding
	Play         key.Binding
	Stop         key.Binding
	Focus        key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		OpenBag: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open bag"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		LoadProfiles: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "load profiles"),
		),
		Profile: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "profile"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export example"),
		),
		DomainID: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "domain id"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all"),
		),
		None: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "none"),
		),
		Play: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "play"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// hints lists the bindings shown in the status bar.
func (k KeyMap) hints(playing bool) []key.Binding {
	if playing {
		return []key.Binding{k.Stop, k.Focus, k.Quit}
	}
	return []key.Binding{k.OpenBag, k.Profile, k.Toggle, k.Play, k.Quit}
}
