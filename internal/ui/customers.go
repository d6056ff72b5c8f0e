package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/rentdesk/internal/catalog"
	"github.com/five82/rentdesk/internal/workflow"
)

type customersState struct {
	loader *workflow.Loader[catalog.CustomerPage]
	table  table.Model
	input  textinput.Model
	search string // submitted term
	page   int
}

func (m *Model) newCustomersState() customersState {
	return customersState{
		loader: workflow.NewLoader[catalog.CustomerPage]("Failed to load customers"),
		table: table.New(
			table.WithColumns(customerColumns(m.width-4)),
			table.WithFocused(true),
			table.WithStyles(m.tableStyles()),
		),
		input: m.newInput("Search by customer ID, first name, or last name...", 100),
		page:  1,
	}
}

type customersLoadedMsg struct {
	stamp
	page catalog.CustomerPage
	err  error
}

func (m *Model) loadCustomers() tea.Cmd {
	st := m.stamp(m.customers.loader.Begin())
	ctx, svc := m.visit.ctx, m.svc
	query := catalog.CustomerQuery{
		Page:   m.customers.page,
		Limit:  m.pageSize,
		Search: m.customers.search,
	}
	return func() tea.Msg {
		page, err := svc.Customers(ctx, query)
		return customersLoadedMsg{stamp: st, page: page, err: err}
	}
}

func (m *Model) handleCustomersLoaded(msg customersLoadedMsg) {
	if !m.customers.loader.Resolve(msg.ticket, msg.page, msg.err) {
		return
	}
	if msg.err != nil {
		m.logger.Warn("customer list load failed",
			zap.Int("page", m.customers.page),
			zap.String("search", m.customers.search),
			zap.Error(msg.err))
		m.customers.table.SetRows(nil)
		return
	}
	if p := msg.page.Pagination.CurrentPage; p > 0 {
		m.customers.page = p
	}
	m.customers.table.SetRows(customerRows(msg.page.Customers))
	m.customers.table.SetCursor(0)
}

// customerColumns sizes the list columns to width.
func customerColumns(width int) []table.Column {
	const fixed = 6 + 9 + 13
	const padding = 8 * 2
	flex := max(width-fixed-padding, 50)
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: flex * 20 / 100},
		{Title: "Email", Width: flex * 28 / 100},
		{Title: "Address", Width: flex * 24 / 100},
		{Title: "City", Width: flex * 14 / 100},
		{Title: "Country", Width: flex * 14 / 100},
		{Title: "Status", Width: 9},
		{Title: "Member Since", Width: 13},
	}
}

func customerRows(customers []catalog.Customer) []table.Row {
	rows := make([]table.Row, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, table.Row{
			strconv.FormatInt(c.ID, 10),
			c.FullName(),
			c.Email,
			c.Address,
			c.City,
			c.Country,
			activeLabel(bool(c.Active)),
			formatDate(c.ParsedCreateDate()),
		})
	}
	return rows
}

func (m *Model) sizeCustomerTable() {
	width := max(m.width-4, 20)
	m.customers.table.SetColumns(customerColumns(width))
	m.customers.table.SetWidth(width)
	m.customers.table.SetHeight(max(m.contentHeight()-6, 3))
}

// selectedCustomer returns the customer under the cursor.
func (m Model) selectedCustomer() (catalog.Customer, bool) {
	customers := m.customers.loader.Data().Customers
	i := m.customers.table.Cursor()
	if !m.customers.loader.Loaded() || i < 0 || i >= len(customers) {
		return catalog.Customer{}, false
	}
	return customers[i], true
}

func (m Model) handleCustomersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.customers.input.Focused() {
		switch msg.Type {
		case tea.KeyEnter:
			m.customers.search = strings.TrimSpace(m.customers.input.Value())
			m.customers.page = 1
			m.customers.input.Blur()
			cmd := m.loadCustomers()
			return m, cmd
		case tea.KeyEsc:
			m.customers.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.customers.input, cmd = m.customers.input.Update(msg)
		return m, cmd
	}

	pagination := m.customers.loader.Data().Pagination

	switch {
	case key.Matches(msg, m.keys.Search):
		cmd := m.customers.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		m.customers.input.Reset()
		m.customers.search = ""
		m.customers.page = 1
		cmd := m.loadCustomers()
		return m, cmd

	case key.Matches(msg, m.keys.PrevPage):
		if !m.customers.loader.Loaded() || !pagination.HasPrev {
			return m, nil
		}
		m.customers.page = pagination.CurrentPage - 1
		cmd := m.loadCustomers()
		return m, cmd

	case key.Matches(msg, m.keys.NextPage):
		if !m.customers.loader.Loaded() || !pagination.HasNext {
			return m, nil
		}
		m.customers.page = pagination.CurrentPage + 1
		cmd := m.loadCustomers()
		return m, cmd

	case key.Matches(msg, m.keys.Add):
		cmd := m.navigate(route{page: PageCustomerNew})
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		if c, ok := m.selectedCustomer(); ok {
			cmd := m.navigate(route{page: PageCustomerEdit, id: c.ID})
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if c, ok := m.selectedCustomer(); ok {
			cmd := m.navigate(route{page: PageRentals, id: c.ID})
			return m, cmd
		}
		return m, nil
	}

	if cursor, ok := m.moveCursor(msg, m.customers.table.Cursor(), len(m.customers.table.Rows())); ok {
		m.customers.table.SetCursor(cursor)
	}
	return m, nil
}

func (m Model) renderCustomers() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.customers.input.View())
	b.WriteString("\n")

	view, ok := loadView(m, m.customers.loader, "customers")
	if !ok {
		b.WriteString("\n")
		b.WriteString(m.renderTitledBox("Customers", view, m.width, max(m.contentHeight()-2, 3), false))
		return b.String()
	}

	data := m.customers.loader.Data()
	count := fmt.Sprintf("Showing %d of %d customers", len(data.Customers), data.Pagination.TotalCustomers)
	b.WriteString(styles.MutedText.Render(count))
	if m.customers.search != "" {
		b.WriteString(styles.AccentText.Render(fmt.Sprintf(" (filtered by %q)", m.customers.search)))
	}
	b.WriteString("\n")

	var content string
	if len(data.Customers) == 0 {
		content = styles.MutedText.Render("No customers found.")
	} else {
		content = m.customers.table.View()
	}
	if p := data.Pagination; p.TotalPages > 1 {
		nav := fmt.Sprintf("Page %d of %d", p.CurrentPage, p.TotalPages)
		if p.HasPrev {
			nav = "[ " + nav
		}
		if p.HasNext {
			nav += " ]"
		}
		content += "\n" + styles.FaintText.Render(nav)
	}
	b.WriteString(m.renderTitledBox("Customers", content, m.width, max(m.contentHeight()-2, 3), !m.customers.input.Focused()))
	return b.String()
}
