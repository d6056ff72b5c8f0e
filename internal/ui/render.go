package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rentdesk/internal/workflow"
)

// renderTitledBox renders content in a box with the title embedded in the top border:
// ┌─── Title ───┐
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	bgColor := lipgloss.Color(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(bgColor)

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2
	if boxHeight <= 0 {
		boxHeight = len(contentLines)
	}

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}

// contentHeight is the height left for the page below header and command bar.
func (m Model) contentHeight() int {
	return max(m.height-2, 3)
}

// loadView renders the loading and failure states shared by every page. ok
// is false while the page has nothing else to show.
func loadView[T any](m Model, l *workflow.Loader[T], what string) (string, bool) {
	switch l.Phase() {
	case workflow.PhaseIdle, workflow.PhaseLoading:
		return m.renderLoading("Loading " + what + "..."), false
	case workflow.PhaseFailed:
		return m.renderFailure(l.Message()), false
	}
	return "", true
}

func (m Model) renderLoading(text string) string {
	styles := m.theme.Styles()
	body := m.spinner.View() + " " + styles.MutedText.Render(text)
	return m.centered(body)
}

// renderFailure shows a load error with the retry and back actions.
func (m Model) renderFailure(message string) string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Error"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(message))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("r") + styles.MutedText.Render(":Retry") + "  " +
		styles.AccentText.Render("esc") + styles.MutedText.Render(":Go Back"))
	return m.centered(b.String())
}

// renderNotFound shows the dedicated not-found view with its back action.
func (m Model) renderNotFound(what string) string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.WarningText.Bold(true).Render(what + " not found"))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("esc") + styles.MutedText.Render(":"+m.backLabel()))
	return m.centered(b.String())
}

func (m Model) centered(body string) string {
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, body)
}

// backLabel names the back action after the page the operator came from.
func (m Model) backLabel() string {
	page, ok := m.origin()
	if !ok {
		if m.route.page == PageHome {
			return "Back"
		}
		return "← Back to Homepage"
	}
	switch page {
	case PageHome:
		return "← Back to Homepage"
	case PageFilms:
		return "← Back to Films"
	case PageActor:
		return "← Back to Actor"
	case PageFilm:
		return "← Back to Film"
	case PageCustomers:
		return "← Back to Customers"
	case PageRentals:
		return "← Back to Rental History"
	}
	return "← Back"
}

// tableStyles returns bubbles table styles in the current theme.
func (m Model) tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(m.theme.Accent))
	s.Cell = s.Cell.Foreground(lipgloss.Color(m.theme.Text))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(m.theme.SelectionText)).
		Background(lipgloss.Color(m.theme.SelectionBg)).
		Bold(false)
	return s
}

// listRow renders one selectable row of a hand-built list.
func (m Model) listRow(text string, width int, selected bool) string {
	if selected {
		return lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.SelectionBg)).
			Foreground(lipgloss.Color(m.theme.SelectionText)).
			Width(width).
			Render(truncate(text, width))
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(width).
		Render(truncate(text, width))
}

// moveCursor applies the list navigation keys to a cursor over n rows. ok
// is false when msg is not a navigation key.
func (m Model) moveCursor(msg tea.KeyMsg, cursor, n int) (int, bool) {
	switch {
	case key.Matches(msg, m.keys.Up):
		cursor--
	case key.Matches(msg, m.keys.Down):
		cursor++
	case key.Matches(msg, m.keys.Top):
		cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		cursor = n - 1
	default:
		return cursor, false
	}
	if n == 0 {
		return 0, true
	}
	return min(max(cursor, 0), n-1), true
}

// truncateMiddle truncates a string in the middle, preserving start and end.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 5 {
		return s[:max]
	}
	// Keep more of the end (file name) than the start
	endLen := (max - 3) * 2 / 3
	startLen := max - 3 - endLen
	return s[:startLen] + "..." + s[len(s)-endLen:]
}
