package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	CycleTheme  key.Binding
	Back        key.Binding
	Retry       key.Binding
	Home        key.Binding
	Films       key.Binding
	Customers   key.Binding
	Diagnostics key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Open     key.Binding
	PrevPage key.Binding
	NextPage key.Binding

	// Search
	Search     key.Binding
	Clear      key.Binding
	SearchType key.Binding

	// Records
	Add    key.Binding
	Edit   key.Binding
	Rent   key.Binding
	Return key.Binding

	// Forms
	Submit       key.Binding
	Delete       key.Binding
	Toggle       key.Binding
	OptionLeft   key.Binding
	OptionRight  key.Binding
	ConfirmModal key.Binding
	CancelModal  key.Binding

	// Diagnostics
	ToggleFollow key.Binding
	CycleLevel   key.Binding
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
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Retry/refresh"),
		),
		Home: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Home"),
		),
		Films: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Films"),
		),
		Customers: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Customers"),
		),
		Diagnostics: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Diagnostics log"),
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
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next pane/field"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous pane/field"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("[", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("]", "Next page"),
		),

		// Search
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear search"),
		),
		SearchType: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Cycle search type"),
		),

		// Records
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add customer"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit customer"),
		),
		Rent: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Rent film"),
		),
		Return: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Return rental"),
		),

		// Forms
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s", "enter"),
			key.WithHelp("ctrl+s", "Save"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Delete customer"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle"),
		),
		OptionLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("left", "Previous option"),
		),
		OptionRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("right", "Next option"),
		),
		ConfirmModal: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "Confirm"),
		),
		CancelModal: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "Cancel"),
		),

		// Diagnostics
		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),
		CycleLevel: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle level filter"),
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
		{k.Home, k.Films, k.Customers, k.Diagnostics, k.Back},
		{k.Up, k.Down, k.Top, k.Bottom, k.Tab, k.Open},
		{k.Search, k.Clear, k.SearchType, k.PrevPage, k.NextPage},
		{k.Add, k.Edit, k.Rent, k.Return},
		{k.CycleTheme, k.Retry, k.Help, k.Quit},
	}
}

// formHelp returns the bindings shown under the customer form.
func (k keyMap) formHelp(editing bool) []key.Binding {
	bindings := []key.Binding{k.Tab, k.ShiftTab, k.Submit}
	if editing {
		bindings = append(bindings, k.Delete)
	}
	return append(bindings, k.Back)
}
