package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/rentdesk/internal/catalog"
	"github.com/five82/rentdesk/internal/workflow"
)

type actorState struct {
	id     int64
	loader *workflow.Loader[*catalog.Actor]
	cursor int
}

func newActorState(id int64) actorState {
	return actorState{
		id:     id,
		loader: workflow.NewLoader[*catalog.Actor]("Failed to load actor details"),
	}
}

type actorLoadedMsg struct {
	stamp
	actor *catalog.Actor
	err   error
}

func (m *Model) loadActor() tea.Cmd {
	st := m.stamp(m.actor.loader.Begin())
	ctx, svc, id := m.visit.ctx, m.svc, m.actor.id
	return func() tea.Msg {
		actor, err := svc.Actor(ctx, id)
		return actorLoadedMsg{stamp: st, actor: actor, err: err}
	}
}

func (m *Model) handleActorLoaded(msg actorLoadedMsg) {
	if !m.actor.loader.Resolve(msg.ticket, msg.actor, msg.err) {
		return
	}
	m.actor.cursor = 0
	if msg.err != nil {
		m.logger.Warn("actor load failed", zap.Int64("actor_id", m.actor.id), zap.Error(msg.err))
	}
}

func (m Model) handleActorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	actor := m.actor.loader.Data()
	if actor == nil {
		return m, nil
	}
	if key.Matches(msg, m.keys.Open) {
		if m.actor.cursor < len(actor.Films) {
			cmd := m.navigate(route{page: PageFilm, id: actor.Films[m.actor.cursor].ID})
			return m, cmd
		}
		return m, nil
	}
	m.actor.cursor, _ = m.moveCursor(msg, m.actor.cursor, len(actor.Films))
	return m, nil
}

func (m Model) renderActor() string {
	if view, ok := loadView(m, m.actor.loader, "actor details"); !ok {
		return view
	}
	actor := m.actor.loader.Data()
	if actor == nil {
		return m.renderNotFound("Actor")
	}

	styles := m.theme.Styles()
	width := m.width - 4
	label := func(s string) string { return styles.MutedText.Render(padRight(s, 14)) }

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Actor Information"))
	b.WriteString("\n")
	b.WriteString(label("First Name:") + styles.Text.Render(orNA(actor.FirstName)) + "\n")
	b.WriteString(label("Last Name:") + styles.Text.Render(orNA(actor.LastName)) + "\n")
	b.WriteString(label("Total Films:") + styles.Text.Render(fmt.Sprintf("%d films", len(actor.Films))) + "\n")

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Top 5 Recent Films"))
	b.WriteString("\n")
	if len(actor.Films) == 0 {
		b.WriteString(styles.MutedText.Render("No films listed."))
	}
	for i, f := range actor.Films {
		b.WriteString(m.listRow(filmRowText(f), width, i == m.actor.cursor))
		b.WriteString("\n")
		if f.Description != "" {
			b.WriteString("   " + styles.FaintText.Render(truncate(f.Description, width-3)))
			b.WriteString("\n")
		}
	}

	return m.renderTitledBox(actor.DisplayName(), strings.TrimRight(b.String(), "\n"), m.width, m.contentHeight(), true)
}
