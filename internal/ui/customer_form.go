package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/rentdesk/internal/catalog"
	"github.com/five82/rentdesk/internal/workflow"
)

// Form field order. The text inputs come first.
const (
	fieldFirstName = iota
	fieldLastName
	fieldEmail
	fieldPhone
	fieldAddress
	fieldDistrict
	fieldCity
	fieldCountry
	fieldActive
	fieldCount
)

const deleteWarning = "This action cannot be undone. All customer data will be permanently removed."

var fieldLabels = [fieldCount]string{
	"First Name *",
	"Last Name *",
	"Email Address *",
	"Phone Number",
	"Street Address *",
	"District/State *",
	"City *",
	"Country *",
	"Active Customer",
}

var fieldPlaceholders = [fieldCountry]string{
	"Enter first name",
	"Enter last name",
	"Enter email address",
	"Enter phone number (optional)",
	"Enter street address",
	"Enter district or state",
	"Enter city name",
}

type formState struct {
	mode      Page
	id        int64
	loader    *workflow.Loader[*catalog.Customer]
	countries *workflow.Loader[[]catalog.Country]
	fallback  bool
	inputs    []textinput.Model
	country   int // index into the options, -1 for none
	pending   int64
	active    bool
	focus     int
	submit    workflow.Submission
	deletion  workflow.Deletion
}

func (m *Model) newFormState(r route) formState {
	f := formState{
		mode:      r.page,
		id:        r.id,
		loader:    workflow.NewLoader[*catalog.Customer]("Failed to load customer"),
		countries: workflow.NewLoader[[]catalog.Country](""),
		country:   -1,
		active:    workflow.NewCustomerForm().Active,
	}
	f.inputs = make([]textinput.Model, fieldCountry)
	for i := range f.inputs {
		f.inputs[i] = m.newInput(fieldPlaceholders[i], 100)
	}
	f.inputs[fieldFirstName].Focus()
	return f
}

// ready reports whether the form has something to edit.
func (f formState) ready() bool {
	return f.mode == PageCustomerNew || f.loader.Data() != nil
}

func (f formState) options() []catalog.Country {
	return f.countries.Data()
}

func (f *formState) setFocus(i int) {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// selectCountry picks the option with id, or none.
func (f *formState) selectCountry(id int64) {
	f.country = -1
	for i, c := range f.options() {
		if c.ID == id {
			f.country = i
			return
		}
	}
}

// values collects the raw field values.
func (f formState) values() workflow.CustomerForm {
	form := workflow.CustomerForm{
		FirstName: f.inputs[fieldFirstName].Value(),
		LastName:  f.inputs[fieldLastName].Value(),
		Email:     f.inputs[fieldEmail].Value(),
		Phone:     f.inputs[fieldPhone].Value(),
		Address:   f.inputs[fieldAddress].Value(),
		District:  f.inputs[fieldDistrict].Value(),
		City:      f.inputs[fieldCity].Value(),
		Active:    f.active,
	}
	if opts := f.options(); f.country >= 0 && f.country < len(opts) {
		form.CountryID = strconv.FormatInt(opts[f.country].ID, 10)
	}
	return form
}

// fill copies an existing customer into the fields.
func (f *formState) fill(c catalog.Customer) {
	form := workflow.FormFromCustomer(c)
	f.inputs[fieldFirstName].SetValue(form.FirstName)
	f.inputs[fieldLastName].SetValue(form.LastName)
	f.inputs[fieldEmail].SetValue(form.Email)
	f.inputs[fieldPhone].SetValue(form.Phone)
	f.inputs[fieldAddress].SetValue(form.Address)
	f.inputs[fieldDistrict].SetValue(form.District)
	f.inputs[fieldCity].SetValue(form.City)
	f.active = form.Active
	f.pending = c.CountryID
	if f.countries.Loaded() {
		f.selectCountry(c.CountryID)
	}
}

type customerLoadedMsg struct {
	stamp
	customer *catalog.Customer
	err      error
}

type countriesMsg struct {
	stamp
	countries []catalog.Country
	err       error
}

type saveDoneMsg struct {
	stamp
	created bool
	err     error
}

type checkDoneMsg struct {
	stamp
	check catalog.RentalCheck
	err   error
}

type deleteDoneMsg struct {
	stamp
	err error
}

// loadForm fetches the country options and, when editing, the customer.
func (m *Model) loadForm() tea.Cmd {
	m.form.deletion.Reset()
	cmds := []tea.Cmd{m.loadCountries()}
	if m.form.mode == PageCustomerEdit {
		cmds = append(cmds, m.loadCustomer())
	}
	return tea.Batch(cmds...)
}

func (m *Model) loadCountries() tea.Cmd {
	st := m.stamp(m.form.countries.Begin())
	ctx, svc := m.visit.ctx, m.svc
	return func() tea.Msg {
		countries, err := svc.Countries(ctx)
		return countriesMsg{stamp: st, countries: countries, err: err}
	}
}

func (m *Model) loadCustomer() tea.Cmd {
	if m.form.mode != PageCustomerEdit {
		return nil
	}
	st := m.stamp(m.form.loader.Begin())
	ctx, svc, id := m.visit.ctx, m.svc, m.form.id
	return func() tea.Msg {
		customer, err := svc.Customer(ctx, id)
		return customerLoadedMsg{stamp: st, customer: customer, err: err}
	}
}

func (m *Model) handleCountries(msg countriesMsg) {
	opts, fallback := workflow.CountryOptions(msg.countries, msg.err)
	if !m.form.countries.Resolve(msg.ticket, opts, nil) {
		return
	}
	m.form.fallback = fallback
	if fallback {
		m.logger.Info("using fallback country list", zap.NamedError("cause", msg.err))
	}
	if m.form.pending > 0 {
		m.form.selectCountry(m.form.pending)
	}
}

func (m *Model) handleCustomerLoaded(msg customerLoadedMsg) {
	if !m.form.loader.Resolve(msg.ticket, msg.customer, msg.err) {
		return
	}
	if msg.err != nil {
		m.logger.Warn("customer load failed", zap.Int64("customer_id", m.form.id), zap.Error(msg.err))
		return
	}
	if msg.customer != nil {
		m.form.fill(*msg.customer)
	}
}

// submitForm validates the fields and issues one create or update.
func (m *Model) submitForm() tea.Cmd {
	if !m.form.ready() || m.form.submit.Saving() || m.form.deletion.Busy() {
		return nil
	}
	input, err := m.form.values().Validate()
	if err != nil {
		m.form.submit.Reject(err)
		return nil
	}
	if !m.form.submit.Start() {
		return nil
	}

	st := m.stamp(0)
	ctx, svc, id := m.visit.ctx, m.svc, m.form.id
	create := m.form.mode == PageCustomerNew
	return func() tea.Msg {
		var err error
		if create {
			err = svc.CreateCustomer(ctx, input)
		} else {
			err = svc.UpdateCustomer(ctx, id, input)
		}
		return saveDoneMsg{stamp: st, created: create, err: err}
	}
}

func (m *Model) handleSaveDone(msg saveDoneMsg) tea.Cmd {
	fallback, notice, next := workflow.MsgUpdateFailed, workflow.MsgUpdated, afterUpdate
	if msg.created {
		fallback, notice, next = workflow.MsgCreateFailed, workflow.MsgCreated, afterCreate
	}
	if msg.err != nil {
		m.form.submit.Fail(msg.err, fallback)
		m.logger.Warn("customer save failed",
			zap.Bool("create", msg.created),
			zap.Int64("customer_id", m.form.id),
			zap.Error(msg.err))
		return nil
	}
	m.form.submit.Succeed(notice)
	m.logger.Info("customer saved", zap.Bool("create", msg.created), zap.Int64("customer_id", m.form.id))
	return m.schedule(workflow.SaveDelay, next, 0)
}

// requestDelete starts the active-rental check.
func (m *Model) requestDelete() tea.Cmd {
	customer := m.form.loader.Data()
	if m.form.mode != PageCustomerEdit || customer == nil {
		return nil
	}
	if !m.form.deletion.Request(customer.FullName()) {
		return nil
	}
	st := m.stamp(0)
	ctx, svc, id := m.visit.ctx, m.svc, m.form.id
	return func() tea.Msg {
		check, err := svc.CustomerRentals(ctx, id)
		return checkDoneMsg{stamp: st, check: check, err: err}
	}
}

func (m *Model) handleCheckDone(msg checkDoneMsg) {
	if m.form.deletion.Phase() != workflow.DeleteChecking {
		return
	}
	m.form.deletion.Checked(msg.check, msg.err)
	switch m.form.deletion.Phase() {
	case workflow.DeleteConfirmPending:
		m.modal = confirmModal{
			stamp:   m.stamp(0),
			title:   "Confirm Customer Deletion",
			prompt:  m.form.deletion.Prompt(),
			warning: deleteWarning,
		}
	case workflow.DeleteBlocked:
		m.logger.Info("customer delete blocked",
			zap.Int64("customer_id", m.form.id),
			zap.Int("active_rentals", msg.check.ActiveRentalCount))
	case workflow.DeleteFailed:
		m.logger.Warn("rental check failed", zap.Int64("customer_id", m.form.id), zap.Error(msg.err))
	}
}

func (m Model) handleConfirm(msg confirmMsg) (tea.Model, tea.Cmd) {
	if !msg.confirmed {
		m.form.deletion.Cancel()
		return m, nil
	}
	if !m.form.deletion.Confirm() {
		return m, nil
	}
	st := m.stamp(0)
	ctx, svc, id := m.visit.ctx, m.svc, m.form.id
	return m, func() tea.Msg {
		return deleteDoneMsg{stamp: st, err: svc.DeleteCustomer(ctx, id)}
	}
}

func (m *Model) handleDeleteDone(msg deleteDoneMsg) tea.Cmd {
	m.form.deletion.Deleted(msg.err)
	if msg.err != nil {
		m.logger.Warn("customer delete failed", zap.Int64("customer_id", m.form.id), zap.Error(msg.err))
		return nil
	}
	m.logger.Info("customer deleted", zap.Int64("customer_id", m.form.id))
	return m.schedule(workflow.DeleteDelay, afterDelete, 0)
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.form.ready() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		cmd := m.back()
		return m, cmd

	case key.Matches(msg, m.keys.Submit):
		cmd := m.submitForm()
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		cmd := m.requestDelete()
		return m, cmd

	case key.Matches(msg, m.keys.Tab), msg.Type == tea.KeyDown:
		m.form.setFocus(m.form.focus + 1)
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab), msg.Type == tea.KeyUp:
		m.form.setFocus(m.form.focus - 1)
		return m, nil
	}

	switch m.form.focus {
	case fieldCountry:
		n := len(m.form.options())
		switch {
		case key.Matches(msg, m.keys.OptionLeft):
			m.form.country--
			if m.form.country < -1 {
				m.form.country = n - 1
			}
			m.form.submit.Edited()
		case key.Matches(msg, m.keys.OptionRight):
			m.form.country++
			if m.form.country >= n {
				m.form.country = -1
			}
			m.form.submit.Edited()
		}
		return m, nil

	case fieldActive:
		if key.Matches(msg, m.keys.Toggle) {
			m.form.active = !m.form.active
			m.form.submit.Edited()
		}
		return m, nil
	}

	before := m.form.inputs[m.form.focus].Value()
	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	if m.form.inputs[m.form.focus].Value() != before {
		m.form.submit.Edited()
	}
	return m, cmd
}

func (m Model) renderForm() string {
	editing := m.form.mode == PageCustomerEdit
	if editing {
		if m.form.loader.Data() == nil {
			if view, ok := loadView(m, m.form.loader, "customer"); !ok {
				return view
			}
			return m.renderNotFound("Customer")
		}
	}

	styles := m.theme.Styles()
	title := "Add New Customer"
	if editing {
		title = "Edit Customer"
	}

	var sections []string
	if editing {
		sections = append(sections, m.customerInfo(*m.form.loader.Data()))
	}
	sections = append(sections, m.formFields())

	var status []string
	if m.form.submit.Saving() {
		label := "Saving..."
		if !editing {
			label = "Creating Customer..."
		}
		status = append(status, m.spinner.View()+" "+styles.MutedText.Render(label))
	}
	if text := m.form.submit.ErrorText(); text != "" {
		status = append(status, styles.DangerText.Render(text))
	}
	if text := m.form.submit.Notice(); text != "" {
		status = append(status, styles.SuccessText.Render(text))
	}
	switch m.form.deletion.Phase() {
	case workflow.DeleteChecking:
		status = append(status, m.spinner.View()+" "+styles.MutedText.Render("Checking rentals..."))
	case workflow.DeleteDeleting:
		status = append(status, m.spinner.View()+" "+styles.MutedText.Render("Deleting..."))
	case workflow.DeleteBlocked, workflow.DeleteFailed:
		status = append(status, styles.DangerText.Render(m.form.deletion.Message()))
	case workflow.DeleteDeleted:
		status = append(status, styles.SuccessText.Render(m.form.deletion.Message()))
	}
	if m.form.fallback {
		status = append(status, styles.FaintText.Render("Showing the default country list."))
	}
	if len(status) > 0 {
		sections = append(sections, strings.Join(status, "\n"))
	}
	sections = append(sections, m.help.ShortHelpView(m.keys.formHelp(editing)))

	content := strings.Join(sections, "\n\n")
	return m.renderTitledBox(title, content, m.width, m.contentHeight(), true)
}

func (m Model) customerInfo(c catalog.Customer) string {
	styles := m.theme.Styles()
	label := func(s string) string { return styles.MutedText.Render(padRight(s, 16)) }
	rows := [][2]string{
		{"Customer ID:", strconv.FormatInt(c.ID, 10)},
		{"Address:", orNA(c.Address)},
		{"District/State:", orNA(c.District)},
		{"City:", orNA(c.City)},
		{"Country:", orNA(m.countryLabel(c))},
		{"Member Since:", formatDate(c.ParsedCreateDate())},
	}
	lines := []string{styles.AccentText.Bold(true).Render("Customer Information")}
	for _, r := range rows {
		lines = append(lines, label(r[0])+styles.Text.Render(r[1]))
	}
	return strings.Join(lines, "\n")
}

// countryLabel names the customer's country, looking the id up in the
// options when the record carries no name.
func (m Model) countryLabel(c catalog.Customer) string {
	if c.Country != "" {
		return c.Country
	}
	return workflow.CountryName(m.form.options(), c.CountryID)
}

func (m Model) formFields() string {
	styles := m.theme.Styles()
	heading := "Customer Details"
	if m.form.mode == PageCustomerEdit {
		heading = "Editable Details"
	}

	lines := []string{styles.AccentText.Bold(true).Render(heading)}
	for i := 0; i < fieldCount; i++ {
		labelStyle := styles.MutedText
		if i == m.form.focus {
			labelStyle = styles.AccentText
		}
		label := labelStyle.Render(padRight(fieldLabels[i], 18))

		var value string
		switch i {
		case fieldCountry:
			value = m.countryPicker()
		case fieldActive:
			box := "[ ]"
			if m.form.active {
				box = "[x]"
			}
			value = styles.Text.Render(box)
		default:
			value = m.form.inputs[i].View()
		}
		lines = append(lines, label+value)
	}
	return strings.Join(lines, "\n")
}

func (m Model) countryPicker() string {
	styles := m.theme.Styles()
	if m.form.countries.Loading() {
		return m.spinner.View() + " " + styles.MutedText.Render("Loading countries...")
	}
	opts := m.form.options()
	name := "Select a country"
	if m.form.country >= 0 && m.form.country < len(opts) {
		name = opts[m.form.country].Name
	}
	style := styles.Text
	if m.form.focus == fieldCountry {
		style = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.SelectionText)).
			Background(lipgloss.Color(m.theme.SelectionBg))
	}
	return style.Render(fmt.Sprintf("‹ %s ›", name))
}
