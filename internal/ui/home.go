package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/rentdesk/internal/catalog"
	"github.com/five82/rentdesk/internal/workflow"
)

// homeData is the landing page payload. Both halves must load.
type homeData struct {
	films  []catalog.FilmSummary
	actors []catalog.ActorSummary
}

type homeState struct {
	loader      *workflow.Loader[homeData]
	pane        int // 0 films, 1 actors
	filmCursor  int
	actorCursor int
}

func newHomeState() homeState {
	return homeState{loader: workflow.NewLoader[homeData]("Failed to load data")}
}

type homeLoadedMsg struct {
	stamp
	data homeData
	err  error
}

// loadHome fetches top films, then top actors.
func (m *Model) loadHome() tea.Cmd {
	st := m.stamp(m.home.loader.Begin())
	ctx, svc := m.visit.ctx, m.svc
	return func() tea.Msg {
		films, err := svc.TopFilms(ctx, TopLimit)
		if err != nil {
			return homeLoadedMsg{stamp: st, err: err}
		}
		actors, err := svc.TopActors(ctx, TopLimit)
		if err != nil {
			return homeLoadedMsg{stamp: st, err: err}
		}
		return homeLoadedMsg{stamp: st, data: homeData{films: films, actors: actors}}
	}
}

func (m *Model) handleHomeLoaded(msg homeLoadedMsg) {
	if !m.home.loader.Resolve(msg.ticket, msg.data, msg.err) {
		return
	}
	if msg.err != nil {
		m.logger.Warn("home load failed", zap.Error(msg.err))
	}
	m.home.filmCursor = 0
	m.home.actorCursor = 0
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.home.loader.Loaded() {
		return m, nil
	}
	data := m.home.loader.Data()

	switch {
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		m.home.pane = 1 - m.home.pane
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.home.pane == 0 && m.home.filmCursor < len(data.films) {
			cmd := m.navigate(route{page: PageFilm, id: data.films[m.home.filmCursor].ID})
			return m, cmd
		}
		if m.home.pane == 1 && m.home.actorCursor < len(data.actors) {
			cmd := m.navigate(route{page: PageActor, id: data.actors[m.home.actorCursor].ID})
			return m, cmd
		}
		return m, nil
	}

	if m.home.pane == 0 {
		m.home.filmCursor, _ = m.moveCursor(msg, m.home.filmCursor, len(data.films))
	} else {
		m.home.actorCursor, _ = m.moveCursor(msg, m.home.actorCursor, len(data.actors))
	}
	return m, nil
}

func (m Model) renderHome() string {
	if view, ok := loadView(m, m.home.loader, "catalog"); !ok {
		return view
	}
	data := m.home.loader.Data()
	height := m.contentHeight()

	if m.width < LayoutCompactWidth {
		half := max(height/2, 4)
		films := m.renderTitledBox("Top 5 Rented Films", m.topFilmLines(data.films, m.width-4), m.width, half, m.home.pane == 0)
		actors := m.renderTitledBox("Top 5 Actors", m.topActorLines(data.actors, m.width-4), m.width, height-half, m.home.pane == 1)
		return lipgloss.JoinVertical(lipgloss.Left, films, actors)
	}

	leftWidth := m.width * 3 / 5
	rightWidth := m.width - leftWidth
	films := m.renderTitledBox("Top 5 Rented Films", m.topFilmLines(data.films, leftWidth-4), leftWidth, height, m.home.pane == 0)
	actors := m.renderTitledBox("Top 5 Actors", m.topActorLines(data.actors, rightWidth-4), rightWidth, height, m.home.pane == 1)
	return lipgloss.JoinHorizontal(lipgloss.Top, films, actors)
}

func (m Model) topFilmLines(films []catalog.FilmSummary, width int) string {
	styles := m.theme.Styles()
	if len(films) == 0 {
		return styles.MutedText.Render("No films available.")
	}
	focused := m.home.pane == 0
	var lines []string
	for i, f := range films {
		row := fmt.Sprintf("%d. %s  %d rentals", i+1, f.Title, f.RentalCount)
		lines = append(lines, m.listRow(row, width, focused && i == m.home.filmCursor))

		var meta []string
		if kind := f.Kind(); kind != "" {
			meta = append(meta, kind)
		}
		if f.ReleaseYear > 0 {
			meta = append(meta, fmt.Sprintf("Released: %d", f.ReleaseYear))
		}
		if len(meta) > 0 {
			lines = append(lines, "   "+styles.MutedText.Render(strings.Join(meta, " · ")))
		}
		if f.Description != "" {
			lines = append(lines, "   "+styles.FaintText.Render(truncate(f.Description, width-3)))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) topActorLines(actors []catalog.ActorSummary, width int) string {
	styles := m.theme.Styles()
	if len(actors) == 0 {
		return styles.MutedText.Render("No actors available.")
	}
	focused := m.home.pane == 1
	var lines []string
	for i, a := range actors {
		row := fmt.Sprintf("%d. %s  %s", i+1, a.Name, plural(a.FilmCount, "film"))
		lines = append(lines, m.listRow(row, width, focused && i == m.home.actorCursor))
	}
	return strings.Join(lines, "\n")
}
