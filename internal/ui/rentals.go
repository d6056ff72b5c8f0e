package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/rentdesk/internal/catalog"
	"github.com/five82/rentdesk/internal/workflow"
)

const msgReturnFailed = "Failed to return film"

// rentalsData is the rental history payload. Customer and history load
// together; either failing fails both.
type rentalsData struct {
	customer *catalog.Customer
	active   []catalog.Rental
	returned []catalog.Rental
}

type rentalsState struct {
	id        int64
	loader    *workflow.Loader[rentalsData]
	cursor    int
	returning bool
	notice    string
	errText   string
}

func newRentalsState(id int64) rentalsState {
	return rentalsState{
		id:     id,
		loader: workflow.NewLoader[rentalsData]("Failed to load rental history"),
	}
}

type rentalsLoadedMsg struct {
	stamp
	data rentalsData
	err  error
}

type returnDoneMsg struct {
	stamp
	rental catalog.Rental
	err    error
}

// loadRentals fetches the customer and their history concurrently.
func (m *Model) loadRentals() tea.Cmd {
	st := m.stamp(m.rentals.loader.Begin())
	ctx, svc, id := m.visit.ctx, m.svc, m.rentals.id
	return func() tea.Msg {
		var (
			customer *catalog.Customer
			history  []catalog.Rental
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			c, err := svc.Customer(gctx, id)
			customer = c
			return err
		})
		g.Go(func() error {
			h, err := svc.RentalHistory(gctx, id)
			history = h
			return err
		})
		if err := g.Wait(); err != nil {
			return rentalsLoadedMsg{stamp: st, err: err}
		}
		active, returned := catalog.SplitRentals(history)
		return rentalsLoadedMsg{stamp: st, data: rentalsData{customer: customer, active: active, returned: returned}}
	}
}

func (m *Model) handleRentalsLoaded(msg rentalsLoadedMsg) {
	if !m.rentals.loader.Resolve(msg.ticket, msg.data, msg.err) {
		return
	}
	if msg.err != nil {
		m.logger.Warn("rental history load failed", zap.Int64("customer_id", m.rentals.id), zap.Error(msg.err))
		return
	}
	m.rentals.cursor = min(m.rentals.cursor, max(len(msg.data.active)-1, 0))
}

// returnRental marks the selected active rental as returned.
func (m *Model) returnRental() tea.Cmd {
	active := m.rentals.loader.Data().active
	if m.rentals.returning || m.rentals.cursor >= len(active) {
		return nil
	}
	rental := active[m.rentals.cursor]
	m.rentals.returning = true
	m.rentals.notice = ""
	m.rentals.errText = ""
	st := m.stamp(0)
	ctx, svc := m.visit.ctx, m.svc
	return func() tea.Msg {
		return returnDoneMsg{stamp: st, rental: rental, err: svc.ReturnFilm(ctx, rental.RentalID)}
	}
}

func (m *Model) handleReturnDone(msg returnDoneMsg) tea.Cmd {
	m.rentals.returning = false
	if msg.err != nil {
		m.rentals.errText = catalog.Message(msg.err, msgReturnFailed)
		m.logger.Warn("return failed", zap.Int64("rental_id", msg.rental.RentalID), zap.Error(msg.err))
		return nil
	}
	m.rentals.notice = fmt.Sprintf("Returned %s (rental %d).", msg.rental.FilmTitle, msg.rental.RentalID)
	m.logger.Info("film returned",
		zap.Int64("customer_id", m.rentals.id),
		zap.Int64("rental_id", msg.rental.RentalID))
	return m.loadRentals()
}

func (m Model) handleRentalsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	data := m.rentals.loader.Data()
	if data.customer == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Return):
		cmd := m.returnRental()
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		cmd := m.navigate(route{page: PageCustomerEdit, id: data.customer.ID})
		return m, cmd
	}
	m.rentals.cursor, _ = m.moveCursor(msg, m.rentals.cursor, len(data.active))
	return m, nil
}

func (m Model) renderRentals() string {
	data := m.rentals.loader.Data()
	if data.customer == nil {
		if view, ok := loadView(m, m.rentals.loader, "rental history"); !ok {
			return view
		}
		return m.renderNotFound("Customer")
	}

	styles := m.theme.Styles()
	width := m.width - 4
	c := data.customer
	label := func(s string) string { return styles.MutedText.Render(padRight(s, 14)) }

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Customer Information"))
	b.WriteString("\n")
	address := strings.Join(nonEmpty(c.Address, c.City, c.Country), ", ")
	rows := [][2]string{
		{"Name:", c.FullName()},
		{"Email:", orNA(c.Email)},
		{"Customer ID:", strconv.FormatInt(c.ID, 10)},
		{"Phone:", orNA(c.Phone)},
		{"Address:", orNA(address)},
	}
	for _, r := range rows {
		b.WriteString(label(r[0]) + styles.Text.Render(r[1]) + "\n")
	}
	status := "inactive"
	if c.Active {
		status = "active"
	}
	b.WriteString(label("Status:") + styles.StatusStyle(status).Render(activeLabel(bool(c.Active))) + "\n")

	if m.rentals.returning {
		b.WriteString("\n" + m.spinner.View() + " " + styles.MutedText.Render("Returning..."))
	}
	if m.rentals.errText != "" {
		b.WriteString("\n" + styles.DangerText.Render(m.rentals.errText))
	}
	if m.rentals.notice != "" {
		b.WriteString("\n" + styles.SuccessText.Render(m.rentals.notice))
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Active Rentals (%d)", len(data.active))))
	b.WriteString("\n")
	if len(data.active) == 0 {
		b.WriteString(styles.MutedText.Render("No active rentals."))
		b.WriteString("\n")
	} else {
		b.WriteString(styles.FaintText.Render(rentalRow("Film", "Rental Date", "Days Out", "Expected Duration", "Rate", "Status")))
		b.WriteString("\n")
		for i, r := range data.active {
			row := rentalRow(r.FilmTitle, formatDate(r.ParsedRentalDate()), plural(r.DaysRented, "day"),
				plural(r.RentalDuration, "day"), r.RentalRate.String(), orNA(r.Status))
			b.WriteString(m.listRow(row, width, i == m.rentals.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Past Rentals (%d)", len(data.returned))))
	b.WriteString("\n")
	if len(data.returned) == 0 {
		b.WriteString(styles.MutedText.Render("No past rentals."))
	} else {
		b.WriteString(styles.FaintText.Render(rentalRow("Film", "Rental Date", "Return Date", "Days Rented", "Rate", "Status")))
		for _, r := range data.returned {
			b.WriteString("\n")
			b.WriteString(styles.Text.Render(rentalRow(r.FilmTitle, formatDate(r.ParsedRentalDate()),
				formatDate(r.ParsedReturnDate()), plural(r.DaysRented, "day"), r.RentalRate.String(), orNA(r.Status))))
		}
	}

	return m.renderTitledBox("Rental History", b.String(), m.width, m.contentHeight(), true)
}

// rentalRow lays out one history row in fixed columns.
func rentalRow(film, rented, third, fourth, rate, status string) string {
	return padRight(truncate(film, 28), 30) +
		padRight(rented, 14) +
		padRight(third, 14) +
		padRight(fourth, 19) +
		padRight(rate, 8) +
		status
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
