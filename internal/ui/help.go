package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				{"1/2/3", "Home/Films/Customers"},
				{"l", "Diagnostics log"},
				{"esc", "Back"},
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
				{"tab", "Next pane"},
				{"enter", "Open selection"},
			},
		},
		{
			title: "Films",
			items: []helpItem{
				{"/", "Search films"},
				{"t", "Cycle title/actor/genre"},
				{"c", "Clear search"},
				{"R", "Rent (film detail)"},
			},
		},
		{
			title: "Customers",
			items: []helpItem{
				{"/", "Search customers"},
				{"[/]", "Previous/next page"},
				{"a", "Add customer"},
				{"e", "Edit customer"},
				{"enter", "Rental history"},
				{"R", "Return rental (history)"},
				{"ctrl+s", "Save form"},
				{"ctrl+d", "Delete (edit form)"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"r", "Retry/refresh"},
				{"T", "Cycle theme"},
				{"h/?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 36)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(46)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
