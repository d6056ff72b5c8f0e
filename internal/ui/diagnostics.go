package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rentdesk/internal/logtail"
)

// logLevels is the filter cycle; "" shows everything.
var logLevels = []string{"", "info", "warn", "error"}

type diagState struct {
	viewport viewport.Model
	follow   bool
	level    int
	entries  []logtail.Entry
	loaded   bool
	err      error
}

func newDiagState() diagState {
	return diagState{
		viewport: viewport.New(0, 0),
		follow:   true,
	}
}

func (d diagState) levelLabel() string {
	if logLevels[d.level] == "" {
		return "all"
	}
	return logLevels[d.level]
}

type logLoadedMsg struct {
	stamp
	entries []logtail.Entry
	err     error
}

// loadLog reads the tail of the diagnostics log.
func (m *Model) loadLog() tea.Cmd {
	st := m.stamp(0)
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		if err != nil {
			return logLoadedMsg{stamp: st, err: err}
		}
		return logLoadedMsg{stamp: st, entries: logtail.ParseLines(lines)}
	}
}

func (m *Model) handleLogLoaded(msg logLoadedMsg) {
	m.diag.loaded = true
	m.diag.err = msg.err
	if msg.err == nil {
		m.diag.entries = msg.entries
	}
	m.refreshLogViewport()
}

func (m *Model) sizeLogViewport() {
	m.diag.viewport.Width = max(m.width-4, 10)
	m.diag.viewport.Height = max(m.contentHeight()-3, 3)
	m.diag.viewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.refreshLogViewport()
}

// refreshLogViewport re-renders the filtered entries into the viewport.
func (m *Model) refreshLogViewport() {
	if m.route.page != PageDiagnostics {
		return
	}
	styles := m.theme.Styles()
	entries := logtail.AtLeast(m.diag.entries, logLevels[m.diag.level])

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, m.levelStyle(e.Level, styles).Render(logtail.Format(e)))
	}
	m.diag.viewport.SetContent(strings.Join(lines, "\n"))
	if m.diag.follow {
		m.diag.viewport.GotoBottom()
	}
}

func (m Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText.Bold(false)
	case "WARN":
		return styles.WarningText
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText.Bold(false)
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}

func (m Model) handleDiagKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.diag.follow = !m.diag.follow
		if m.diag.follow {
			m.diag.viewport.GotoBottom()
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleLevel):
		m.diag.level = (m.diag.level + 1) % len(logLevels)
		m.refreshLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.diag.viewport.GotoTop()
		m.diag.follow = false
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.diag.viewport.GotoBottom()
		m.diag.follow = true
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.diag.viewport.LineDown(1)
		m.diag.follow = false
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.diag.viewport.LineUp(1)
		m.diag.follow = false
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.diag.viewport.ViewDown()
		m.diag.follow = false
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.diag.viewport.ViewUp()
		m.diag.follow = false
		return m, nil
	}
	return m, nil
}

func (m Model) renderDiag() string {
	styles := m.theme.Styles()

	var content string
	switch {
	case m.logPath == "":
		content = styles.MutedText.Render("No log file configured.")
	case m.diag.err != nil:
		content = styles.DangerText.Render(fmt.Sprintf("Failed to read log: %v", m.diag.err))
	case !m.diag.loaded:
		content = m.spinner.View() + " " + styles.MutedText.Render("Reading log...")
	case len(m.diag.entries) == 0:
		content = styles.MutedText.Render("Log is empty.")
	default:
		content = m.diag.viewport.View()
	}

	title := "Diagnostics " + truncateMiddle(m.logPath, 40)
	box := m.renderTitledBox(title, content, m.width, max(m.contentHeight()-1, 3), true)
	return box + "\n" + m.renderDiagStats(styles)
}

// renderDiagStats summarises the connectivity store below the log.
func (m Model) renderDiagStats(styles Styles) string {
	s := m.snapshot
	follow := "paused"
	if m.diag.follow {
		follow = "following"
	}
	parts := []string{
		styles.MutedText.Render("Requests: ") + styles.Text.Render(fmt.Sprint(s.Requests)),
		styles.MutedText.Render("Server errors: ") + styles.Text.Render(fmt.Sprint(s.ServerErrors)),
		styles.MutedText.Render("Failures in a row: ") + styles.Text.Render(fmt.Sprint(s.ConsecutiveFailures)),
		styles.MutedText.Render("Last ok: ") + styles.Text.Render(sinceLabel(s.LastSuccess)),
		styles.MutedText.Render("Level: ") + styles.AccentText.Render(m.diag.levelLabel()),
		styles.FaintText.Render(follow),
	}
	if s.LastError != nil {
		parts = append(parts, styles.DangerText.Bold(false).Render(truncate(s.LastError.Error(), 60)))
	}
	return " " + strings.Join(parts, "  ")
}
