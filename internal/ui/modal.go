package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmMsg reports the answer to a confirmModal.
type confirmMsg struct {
	stamp
	confirmed bool
}

// confirmModal asks a yes/no question about a destructive action.
type confirmModal struct {
	stamp   stamp
	title   string
	prompt  string
	warning string
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.ConfirmModal):
		return c, c.answer(true), true
	case key.Matches(keyMsg, keys.CancelModal):
		return c, c.answer(false), true
	}
	return c, nil, false
}

func (c confirmModal) answer(confirmed bool) tea.Cmd {
	st := c.stamp
	return func() tea.Msg {
		return confirmMsg{stamp: st, confirmed: confirmed}
	}
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render(c.title))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(c.prompt))
	if c.warning != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.WarningText.Render(c.warning))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("y") + styles.MutedText.Render(":Delete") + "   " +
		styles.AccentText.Render("n/esc") + styles.MutedText.Render(":Cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 2).
		Width(min(60, max(width-4, 20)))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
