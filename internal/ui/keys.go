package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Browse actions
	NextPage       key.Binding
	PrevPage       key.Binding
	Search         key.Binding
	ToggleInactive key.Binding
	Reload         key.Binding
	Open           key.Binding

	// Edit actions
	NextField  key.Binding
	PrevField  key.Binding
	ToggleRole key.Binding
	Save       key.Binding
	Activate   key.Binding
	Deactivate key.Binding

	// Search/input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back / clear"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		// Browse actions
		NextPage: key.NewBinding(
			key.WithKeys("n", "l", "right"),
			key.WithHelp("n/→", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "h", "left"),
			key.WithHelp("p/←", "Previous page"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		ToggleInactive: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Show/hide inactive"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload page"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open user"),
		),

		// Edit actions
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		ToggleRole: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle role"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save changes"),
		),
		Activate: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "Activate user"),
		),
		Deactivate: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Deactivate user"),
		),

		// Search/input
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.NextPage, k.PrevPage},
		// Browse
		{k.Search, k.ToggleInactive, k.Reload, k.Open},
		// Edit
		{k.NextField, k.ToggleRole, k.Save, k.Activate, k.Deactivate},
		// General
		{k.CycleTheme, k.Help, k.Quit},
	}
}
