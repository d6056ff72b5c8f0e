package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/rentdesk/internal/catalog"
	"github.com/five82/rentdesk/internal/workflow"
)

const msgEmptySearch = "Please enter a search term"

type filmsState struct {
	recent  *workflow.Loader[[]catalog.FilmSummary]
	results *workflow.Loader[[]catalog.FilmSummary]
	input   textinput.Model
	query   string // last submitted search, "" shows the recent shelf
	notice  string
	cursor  int
}

func (m *Model) newFilmsState() filmsState {
	return filmsState{
		recent:  workflow.NewLoader[[]catalog.FilmSummary]("Failed to load recent films. Please try searching manually."),
		results: workflow.NewLoader[[]catalog.FilmSummary]("Search failed"),
		input:   m.newInput("Search film titles/actor names/genres...", 100),
	}
}

type recentLoadedMsg struct {
	stamp
	films []catalog.FilmSummary
	err   error
}

type searchDoneMsg struct {
	stamp
	films []catalog.FilmSummary
	err   error
}

// loadFilms reloads whichever list the page is showing.
func (m *Model) loadFilms() tea.Cmd {
	if m.films.query != "" {
		return m.search(m.films.query)
	}
	return m.loadRecent()
}

func (m *Model) loadRecent() tea.Cmd {
	st := m.stamp(m.films.recent.Begin())
	ctx, svc := m.visit.ctx, m.svc
	return func() tea.Msg {
		films, err := svc.RecentFilms(ctx, RecentLimit)
		return recentLoadedMsg{stamp: st, films: films, err: err}
	}
}

// search runs query with the current search type.
func (m *Model) search(query string) tea.Cmd {
	m.films.query = query
	m.films.notice = ""
	st := m.stamp(m.films.results.Begin())
	ctx, svc, by := m.visit.ctx, m.svc, m.searchType
	return func() tea.Msg {
		films, err := svc.SearchFilms(ctx, query, by)
		return searchDoneMsg{stamp: st, films: films, err: err}
	}
}

func (m *Model) handleRecentLoaded(msg recentLoadedMsg) {
	if !m.films.recent.Resolve(msg.ticket, msg.films, msg.err) {
		return
	}
	if msg.err != nil {
		m.logger.Warn("recent films load failed", zap.Error(msg.err))
	}
	if m.films.query == "" {
		m.films.cursor = 0
	}
}

func (m *Model) handleSearchDone(msg searchDoneMsg) {
	if !m.films.results.Resolve(msg.ticket, msg.films, msg.err) {
		return
	}
	m.films.cursor = 0
	if msg.err != nil {
		m.logger.Warn("film search failed",
			zap.String("query", m.films.query),
			zap.String("by", string(m.searchType)),
			zap.Error(msg.err))
	}
}

// shownFilms returns the list under the cursor.
func (m Model) shownFilms() []catalog.FilmSummary {
	if m.films.query != "" {
		return m.films.results.Data()
	}
	return m.films.recent.Data()
}

func (m Model) handleFilmsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.films.input.Focused() {
		switch msg.Type {
		case tea.KeyEnter:
			query := strings.TrimSpace(m.films.input.Value())
			if query == "" {
				m.films.notice = msgEmptySearch
				return m, nil
			}
			m.films.input.Blur()
			cmd := m.search(query)
			return m, cmd
		case tea.KeyEsc:
			m.films.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.films.input, cmd = m.films.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		m.films.notice = ""
		cmd := m.films.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.SearchType):
		m.searchType = m.searchType.Next()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.films.input.Reset()
		m.films.query = ""
		m.films.notice = ""
		m.films.cursor = 0
		m.films.results.Reset()
		if !m.films.recent.Loaded() {
			cmd := m.loadRecent()
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		films := m.shownFilms()
		if m.films.cursor < len(films) {
			cmd := m.navigate(route{page: PageFilm, id: films[m.films.cursor].ID})
			return m, cmd
		}
		return m, nil
	}

	m.films.cursor, _ = m.moveCursor(msg, m.films.cursor, len(m.shownFilms()))
	return m, nil
}

func (m Model) renderFilms() string {
	styles := m.theme.Styles()
	width := m.width - 4

	var b strings.Builder
	b.WriteString(m.renderSearchTypes())
	b.WriteString("\n")
	b.WriteString(m.films.input.View())
	b.WriteString("\n")
	if m.films.notice != "" {
		b.WriteString(styles.WarningText.Render(m.films.notice))
	}
	b.WriteString("\n")

	loader, title, empty := m.films.recent, "Recently Released Films", "No recent films available."
	if m.films.query != "" {
		loader, title, empty = m.films.results, "Search Results", "No films found matching your search criteria."
	}

	listHeight := max(m.contentHeight()-3, 3)
	view, ok := loadView(m, loader, "films")
	if !ok {
		return b.String() + m.renderTitledBox(title, view, m.width, listHeight, false)
	}

	films := loader.Data()
	if m.films.query != "" {
		title = fmt.Sprintf("Search Results (%d found)", len(films))
	}
	var content string
	if len(films) == 0 {
		content = styles.MutedText.Render(empty)
	} else {
		lines := make([]string, 0, len(films))
		for i, f := range films {
			lines = append(lines, m.listRow(filmRowText(f), width, i == m.films.cursor))
		}
		content = strings.Join(lines, "\n")
	}
	b.WriteString(m.renderTitledBox(title, content, m.width, listHeight, !m.films.input.Focused()))
	return b.String()
}

func (m Model) renderSearchTypes() string {
	styles := m.theme.Styles()
	parts := make([]string, 0, len(catalog.SearchTypes))
	for _, st := range catalog.SearchTypes {
		label := searchTypeLabel(st)
		if st == m.searchType {
			parts = append(parts, styles.StatusStyle("active").Render(label))
		} else {
			parts = append(parts, styles.MutedText.Render(label))
		}
	}
	return styles.FaintText.Render("Search by: ") + strings.Join(parts, " ")
}

func searchTypeLabel(st catalog.SearchType) string {
	switch st {
	case catalog.SearchByActor:
		return "Actor"
	case catalog.SearchByGenre:
		return "Genre"
	default:
		return "Title"
	}
}

// filmRowText renders a list entry: title, year and the short metadata.
func filmRowText(f catalog.FilmSummary) string {
	parts := []string{f.Title}
	if f.ReleaseYear > 0 {
		parts[0] = fmt.Sprintf("%s (%d)", f.Title, f.ReleaseYear)
	}
	if kind := f.Kind(); kind != "" {
		parts = append(parts, kind)
	}
	if f.Rating != "" {
		parts = append(parts, f.Rating)
	}
	if f.Length > 0 {
		parts = append(parts, fmt.Sprintf("%d min", f.Length))
	}
	return strings.Join(parts, " · ")
}
