package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/rentdesk/internal/catalog"
	"github.com/five82/rentdesk/internal/workflow"
)

type filmState struct {
	id        int64
	loader    *workflow.Loader[*catalog.Film]
	inventory *workflow.Loader[catalog.Inventory]
	gate      workflow.RentalGate
	input     textinput.Model
	invalid   string
	cursor    int
	noticeSeq int
}

func (m *Model) newFilmState(id int64) filmState {
	return filmState{
		id:        id,
		loader:    workflow.NewLoader[*catalog.Film]("Failed to load film details"),
		inventory: workflow.NewLoader[catalog.Inventory]("Failed to check availability"),
		input:     m.newInput("Customer ID", 10),
	}
}

type filmLoadedMsg struct {
	stamp
	film *catalog.Film
	err  error
}

type inventoryMsg struct {
	stamp
	inventory catalog.Inventory
	err       error
}

type rentDoneMsg struct {
	stamp
	customerID int64
	receipt    catalog.RentalReceipt
	err        error
}

// loadFilm fetches the film and its availability.
func (m *Model) loadFilm() tea.Cmd {
	st := m.stamp(m.film.loader.Begin())
	ctx, svc, id := m.visit.ctx, m.svc, m.film.id
	m.film.invalid = ""
	load := func() tea.Msg {
		film, err := svc.Film(ctx, id)
		return filmLoadedMsg{stamp: st, film: film, err: err}
	}
	return tea.Batch(load, m.loadInventory())
}

// loadInventory re-queries availability. The rent controls stay disabled
// until it answers.
func (m *Model) loadInventory() tea.Cmd {
	m.film.gate.Forget()
	st := m.stamp(m.film.inventory.Begin())
	ctx, svc, id := m.visit.ctx, m.svc, m.film.id
	return func() tea.Msg {
		inv, err := svc.FilmInventory(ctx, id)
		return inventoryMsg{stamp: st, inventory: inv, err: err}
	}
}

func (m *Model) handleFilmLoaded(msg filmLoadedMsg) {
	if !m.film.loader.Resolve(msg.ticket, msg.film, msg.err) {
		return
	}
	if msg.err != nil {
		m.logger.Warn("film load failed", zap.Int64("film_id", m.film.id), zap.Error(msg.err))
		return
	}
	if msg.film == nil {
		return
	}
	if err := msg.film.Validate(); err != nil {
		m.film.invalid = err.Error()
		m.logger.Warn("film payload failed validation", zap.Error(err))
	}
}

func (m *Model) handleInventory(msg inventoryMsg) {
	if !m.film.inventory.Resolve(msg.ticket, msg.inventory, msg.err) {
		return
	}
	if msg.err != nil {
		m.logger.Warn("inventory check failed", zap.Int64("film_id", m.film.id), zap.Error(msg.err))
		return
	}
	m.film.gate.SetAvailability(msg.inventory)
	if !m.film.gate.Available() {
		m.film.input.Blur()
	}
}

// rent submits the customer id typed into the rent input.
func (m *Model) rent() tea.Cmd {
	customerID, err := m.film.gate.Begin(m.film.input.Value())
	if err != nil {
		if workflow.IsValidation(err) {
			m.logger.Debug("rent rejected", zap.Error(err))
		}
		return nil
	}
	st := m.stamp(0)
	ctx, svc, filmID := m.visit.ctx, m.svc, m.film.id
	return func() tea.Msg {
		receipt, err := svc.RentFilm(ctx, filmID, customerID)
		return rentDoneMsg{stamp: st, customerID: customerID, receipt: receipt, err: err}
	}
}

func (m *Model) handleRentDone(msg rentDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.film.gate.Fail(msg.err)
		m.logger.Warn("rent failed",
			zap.Int64("film_id", m.film.id),
			zap.Int64("customer_id", msg.customerID),
			zap.Error(msg.err))
		return nil
	}
	m.film.gate.Succeed(msg.receipt)
	m.logger.Info("film rented",
		zap.Int64("film_id", m.film.id),
		zap.Int64("customer_id", msg.customerID),
		zap.Int64("rental_id", msg.receipt.RentalID))
	m.film.input.Reset()
	m.film.input.Blur()
	m.film.noticeSeq++
	return tea.Batch(
		m.loadInventory(),
		m.schedule(workflow.RentalNoticeDelay, clearRentNotice, m.film.noticeSeq),
	)
}

func (m Model) handleFilmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.film.input.Focused() {
		// The input is locked while a rental is in flight.
		if m.film.gate.InFlight() && msg.Type != tea.KeyEsc {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyEnter:
			cmd := m.rent()
			return m, cmd
		case tea.KeyEsc:
			m.film.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.film.input, cmd = m.film.input.Update(msg)
		return m, cmd
	}

	film := m.film.loader.Data()
	if film == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Rent):
		if !m.film.gate.CanSubmit() {
			return m, nil
		}
		cmd := m.film.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Open):
		if m.film.cursor < len(film.Actors) {
			cmd := m.navigate(route{page: PageActor, id: film.Actors[m.film.cursor].ID})
			return m, cmd
		}
		return m, nil
	}

	m.film.cursor, _ = m.moveCursor(msg, m.film.cursor, len(film.Actors))
	return m, nil
}

func (m Model) renderFilm() string {
	if view, ok := loadView(m, m.film.loader, "film details"); !ok {
		return view
	}
	film := m.film.loader.Data()
	if film == nil {
		return m.renderNotFound("Film")
	}

	height := m.contentHeight()
	if m.width < LayoutCompactWidth {
		info := m.renderTitledBox(film.Title, m.filmInfo(*film, m.width-4), m.width, 0, false)
		side := m.renderTitledBox("Cast & Rental", m.filmSide(*film, m.width-4), m.width, 0, true)
		return lipgloss.JoinVertical(lipgloss.Left, info, side)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth
	info := m.renderTitledBox(film.Title, m.filmInfo(*film, leftWidth-4), leftWidth, height, false)
	side := m.renderTitledBox("Cast & Rental", m.filmSide(*film, rightWidth-4), rightWidth, height, true)
	return lipgloss.JoinHorizontal(lipgloss.Top, info, side)
}

func (m Model) filmInfo(f catalog.Film, width int) string {
	styles := m.theme.Styles()
	label := func(s string) string { return styles.MutedText.Render(padRight(s, 18)) }

	var b strings.Builder
	if m.film.invalid != "" {
		b.WriteString(styles.WarningText.Render("Film data looks inconsistent: " + m.film.invalid))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.AccentText.Bold(true).Render("Film Information"))
	b.WriteString("\n")
	if f.Description != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Foreground(lipgloss.Color(m.theme.Text)).Render(f.Description))
		b.WriteString("\n")
	}
	rows := [][2]string{
		{"Release Year:", fmt.Sprint(f.ReleaseYear)},
		{"Rating:", orNA(f.Rating)},
		{"Length:", fmt.Sprintf("%d minutes", f.Length)},
		{"Category:", orNA(f.Kind())},
		{"Language:", orNA(f.Language)},
	}
	for _, r := range rows {
		b.WriteString(label(r[0]) + styles.Text.Render(r[1]) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Rental Information"))
	b.WriteString("\n")
	rows = [][2]string{
		{"Rental Rate:", f.RentalRate.String()},
		{"Rental Duration:", plural(f.RentalDuration, "day")},
		{"Replacement Cost:", f.ReplacementCost.String()},
	}
	for _, r := range rows {
		b.WriteString(label(r[0]) + styles.Text.Render(r[1]) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) filmSide(f catalog.Film, width int) string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render("Cast"))
	b.WriteString("\n")
	if len(f.Actors) == 0 {
		b.WriteString(styles.MutedText.Render("No cast listed."))
		b.WriteString("\n")
	}
	for i, a := range f.Actors {
		b.WriteString(m.listRow(a.Name, width, i == m.film.cursor && !m.film.input.Focused()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Rent This Film"))
	b.WriteString("\n")

	switch {
	case m.film.inventory.Loading():
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Checking availability..."))
	case m.film.inventory.Failed():
		b.WriteString(styles.DangerText.Render(m.film.inventory.Message()))
	case !m.film.gate.Known():
		b.WriteString(styles.MutedText.Render("Checking availability..."))
	case m.film.gate.Available():
		b.WriteString(styles.StatusStyle("available").Render("Available"))
	default:
		b.WriteString(styles.StatusStyle("unavailable").Render("Not available"))
	}
	b.WriteString("\n")

	if m.film.gate.Available() || m.film.input.Focused() {
		b.WriteString(m.film.input.View())
		b.WriteString("\n")
		switch {
		case m.film.gate.InFlight():
			b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Renting..."))
		case !m.film.input.Focused():
			b.WriteString(styles.FaintText.Render("R to enter a customer ID"))
		}
		b.WriteString("\n")
	}

	if text := m.film.gate.ErrorText(); text != "" {
		b.WriteString(styles.DangerText.Render(text))
		b.WriteString("\n")
	}
	if text := m.film.gate.Notice(); text != "" {
		b.WriteString(styles.SuccessText.Render(text))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
