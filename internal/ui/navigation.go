package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rentdesk/internal/workflow"
)

// Page identifies a screen.
type Page int

const (
	PageHome Page = iota
	PageFilms
	PageFilm
	PageActor
	PageCustomers
	PageCustomerNew
	PageCustomerEdit
	PageRentals
	PageDiagnostics
)

// String returns the page title shown in the header.
func (p Page) String() string {
	switch p {
	case PageHome:
		return "Home"
	case PageFilms:
		return "Films"
	case PageFilm:
		return "Film"
	case PageActor:
		return "Actor"
	case PageCustomers:
		return "Customers"
	case PageCustomerNew:
		return "Add Customer"
	case PageCustomerEdit:
		return "Edit Customer"
	case PageRentals:
		return "Rental History"
	case PageDiagnostics:
		return "Diagnostics"
	default:
		return "Unknown"
	}
}

// maxTrail bounds the back stack.
const maxTrail = 32

// route is a page plus the record it shows, if any.
type route struct {
	page Page
	id   int64
}

// visit is one stay on a page. Leaving the page cancels ctx, which aborts
// its in-flight requests; results stamped with an older id are dropped.
type visit struct {
	id     uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// stamp ties an async result to the visit and load that issued it.
type stamp struct {
	visit  uint64
	ticket workflow.Ticket
}

func (s stamp) visitID() uint64 { return s.visit }

// visitMsg is implemented by every message that embeds a stamp.
type visitMsg interface {
	visitID() uint64
}

// delayedAction names a follow-up scheduled with Model.after.
type delayedAction int

const (
	afterCreate delayedAction = iota
	afterUpdate
	afterDelete
	clearRentNotice
)

// delayedMsg is delivered when a scheduled follow-up is due.
type delayedMsg struct {
	stamp
	action delayedAction
	seq    int
}

// stamp returns a stamp for the current visit.
func (m *Model) stamp(ticket workflow.Ticket) stamp {
	return stamp{visit: m.visit.id, ticket: ticket}
}

// schedule delivers action after d unless the visit ends first.
func (m *Model) schedule(d time.Duration, action delayedAction, seq int) tea.Cmd {
	return m.after(d, delayedMsg{stamp: m.stamp(0), action: action, seq: seq})
}

func (m *Model) openVisit() {
	m.visits++
	ctx, cancel := context.WithCancel(m.ctx)
	m.visit = visit{id: m.visits, ctx: ctx, cancel: cancel}
}

func (m *Model) closeVisit() {
	if m.visit.cancel != nil {
		m.visit.cancel()
	}
}

// navigate pushes the current page and opens r.
func (m *Model) navigate(r route) tea.Cmd {
	m.trail = append(m.trail, m.route)
	if len(m.trail) > maxTrail {
		m.trail = m.trail[len(m.trail)-maxTrail:]
	}
	return m.enter(r)
}

// back returns to the previous page, or home when there is none.
func (m *Model) back() tea.Cmd {
	if len(m.trail) == 0 {
		if m.route.page == PageHome {
			return nil
		}
		return m.enter(route{page: PageHome})
	}
	prev := m.trail[len(m.trail)-1]
	m.trail = m.trail[:len(m.trail)-1]
	return m.enter(prev)
}

// origin returns the page the operator came from.
func (m *Model) origin() (Page, bool) {
	if len(m.trail) == 0 {
		return PageHome, false
	}
	return m.trail[len(m.trail)-1].page, true
}

// enter ends the current visit and starts a fresh one on r.
func (m *Model) enter(r route) tea.Cmd {
	m.closeVisit()
	m.openVisit()
	m.route = r
	m.modal = nil

	switch r.page {
	case PageHome:
		m.home = newHomeState()
	case PageFilms:
		m.films = m.newFilmsState()
	case PageFilm:
		m.film = m.newFilmState(r.id)
	case PageActor:
		m.actor = newActorState(r.id)
	case PageCustomers:
		m.customers = m.newCustomersState()
		m.sizeCustomerTable()
	case PageCustomerNew, PageCustomerEdit:
		m.form = m.newFormState(r)
	case PageRentals:
		m.rentals = newRentalsState(r.id)
	case PageDiagnostics:
		m.diag = newDiagState()
		m.sizeLogViewport()
	}
	return m.reload()
}

// styleWidgets applies the theme to long-lived widgets.
func (m *Model) styleWidgets() {
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted))
	m.help.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint))
	switch m.route.page {
	case PageCustomers:
		m.customers.table.SetStyles(m.tableStyles())
	case PageDiagnostics:
		m.sizeLogViewport()
	}
}

// newInput builds a text input in the current theme.
func (m *Model) newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = "› "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint))
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}
