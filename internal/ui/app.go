package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/rentdesk/internal/catalog"
	"github.com/five82/rentdesk/internal/config"
	"github.com/five82/rentdesk/internal/prefs"
	"github.com/five82/rentdesk/internal/state"
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Service    catalog.Service
	Store      *state.Store
	Config     *config.Config
	Logger     *zap.Logger
	ThemeName  string
	SearchType catalog.SearchType
	PrefsPath  string
	LogPath    string
	PageSize   int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	svc       catalog.Service
	store     *state.Store
	config    *config.Config
	logger    *zap.Logger
	prefsPath string
	logPath   string
	pageSize  int
	keys      keyMap
	after     func(time.Duration, tea.Msg) tea.Cmd

	// UI state
	theme      Theme
	searchType catalog.SearchType
	width      int
	height     int
	ready      bool
	showHelp   bool
	modal      Modal
	spinner    spinner.Model
	help       help.Model

	// Connectivity
	snapshot state.Snapshot

	// Navigation
	route  route
	trail  []route
	visit  visit
	visits uint64

	// Pages
	home      homeState
	films     filmsState
	film      filmState
	actor     actorState
	customers customersState
	form      formState
	rentals   rentalsState
	diag      diagState
}

// New creates a new Bubble Tea model showing the home page.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	pageSize := opts.PageSize
	if pageSize <= 0 && opts.Config != nil {
		pageSize = opts.Config.PageSize
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	logPath := opts.LogPath
	if logPath == "" && opts.Config != nil {
		logPath = opts.Config.LogPath()
	}

	searchType := opts.SearchType
	if searchType == "" {
		searchType = catalog.SearchByTitle
	}

	m := Model{
		ctx:        ctx,
		svc:        opts.Service,
		store:      opts.Store,
		config:     opts.Config,
		logger:     logger,
		prefsPath:  prefsPath,
		logPath:    logPath,
		pageSize:   pageSize,
		keys:       DefaultKeyMap(),
		after:      delay,
		theme:      GetTheme(themeName),
		searchType: searchType,
		spinner:    spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		help:       help.New(),
	}
	m.styleWidgets()
	m.openVisit()
	m.route = route{page: PageHome}
	m.home = newHomeState()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(DefaultUIInterval),
		m.spinner.Tick,
		m.reload(),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Results of a page the operator has since left are dropped here.
	if vm, ok := msg.(visitMsg); ok && vm.visitID() != m.visit.id {
		m.logger.Debug("dropped result of an ended visit", zap.String("msg", fmt.Sprintf("%T", msg)))
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case confirmMsg:
		return m.handleConfirm(msg)

	case delayedMsg:
		return m.handleDelayed(msg)

	case homeLoadedMsg:
		m.handleHomeLoaded(msg)
		return m, nil

	case recentLoadedMsg:
		m.handleRecentLoaded(msg)
		return m, nil

	case searchDoneMsg:
		m.handleSearchDone(msg)
		return m, nil

	case filmLoadedMsg:
		m.handleFilmLoaded(msg)
		return m, nil

	case inventoryMsg:
		m.handleInventory(msg)
		return m, nil

	case rentDoneMsg:
		cmd := m.handleRentDone(msg)
		return m, cmd

	case actorLoadedMsg:
		m.handleActorLoaded(msg)
		return m, nil

	case customersLoadedMsg:
		m.handleCustomersLoaded(msg)
		return m, nil

	case customerLoadedMsg:
		m.handleCustomerLoaded(msg)
		return m, nil

	case countriesMsg:
		m.handleCountries(msg)
		return m, nil

	case saveDoneMsg:
		cmd := m.handleSaveDone(msg)
		return m, cmd

	case checkDoneMsg:
		m.handleCheckDone(msg)
		return m, nil

	case deleteDoneMsg:
		cmd := m.handleDeleteDone(msg)
		return m, cmd

	case rentalsLoadedMsg:
		m.handleRentalsLoaded(msg)
		return m, nil

	case returnDoneMsg:
		cmd := m.handleReturnDone(msg)
		return m, cmd

	case logLoadedMsg:
		m.handleLogLoaded(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input: overlays first, then global keys,
// then the current page.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if msg.String() == "ctrl+c" {
		m.closeVisit()
		return m, tea.Quit
	}

	// Letters belong to the focused input.
	if m.typing() {
		return m.handlePageKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.closeVisit()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.styleWidgets()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.trail = nil
		cmd := m.enter(route{page: PageHome})
		return m, cmd

	case key.Matches(msg, m.keys.Films):
		cmd := m.navigate(route{page: PageFilms})
		return m, cmd

	case key.Matches(msg, m.keys.Customers):
		cmd := m.navigate(route{page: PageCustomers})
		return m, cmd

	case key.Matches(msg, m.keys.Diagnostics):
		cmd := m.navigate(route{page: PageDiagnostics})
		return m, cmd

	case key.Matches(msg, m.keys.Back):
		cmd := m.back()
		return m, cmd

	case key.Matches(msg, m.keys.Retry):
		cmd := m.reload()
		return m, cmd
	}

	return m.handlePageKey(msg)
}

// handlePageKey routes a key to the current page.
func (m Model) handlePageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.route.page {
	case PageHome:
		return m.handleHomeKey(msg)
	case PageFilms:
		return m.handleFilmsKey(msg)
	case PageFilm:
		return m.handleFilmKey(msg)
	case PageActor:
		return m.handleActorKey(msg)
	case PageCustomers:
		return m.handleCustomersKey(msg)
	case PageCustomerNew, PageCustomerEdit:
		return m.handleFormKey(msg)
	case PageRentals:
		return m.handleRentalsKey(msg)
	case PageDiagnostics:
		return m.handleDiagKey(msg)
	}
	return m, nil
}

// typing reports whether the page owns the keyboard, leaving global keys
// to esc and ctrl+c. A loaded customer form owns it on every field.
func (m Model) typing() bool {
	switch m.route.page {
	case PageFilms:
		return m.films.input.Focused()
	case PageFilm:
		return m.film.input.Focused()
	case PageCustomers:
		return m.customers.input.Focused()
	case PageCustomerNew, PageCustomerEdit:
		return m.form.ready()
	}
	return false
}

// reload (re)issues the current page's loads. It backs the retry key.
func (m *Model) reload() tea.Cmd {
	switch m.route.page {
	case PageHome:
		return m.loadHome()
	case PageFilms:
		return m.loadFilms()
	case PageFilm:
		return m.loadFilm()
	case PageActor:
		return m.loadActor()
	case PageCustomers:
		return m.loadCustomers()
	case PageCustomerNew, PageCustomerEdit:
		return m.loadForm()
	case PageRentals:
		return m.loadRentals()
	case PageDiagnostics:
		return m.loadLog()
	}
	return nil
}

// handleTick processes the UI refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	if m.route.page == PageDiagnostics && m.diag.follow {
		if cmd := m.loadLog(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, tickCmd(DefaultUIInterval))
	return m, tea.Batch(cmds...)
}

// handleDelayed runs a scheduled follow-up for the current visit.
func (m Model) handleDelayed(msg delayedMsg) (tea.Model, tea.Cmd) {
	switch msg.action {
	case afterCreate, afterDelete:
		m.trail = []route{{page: PageHome}}
		cmd := m.enter(route{page: PageCustomers})
		return m, cmd

	case afterUpdate:
		m.form.submit.Settle()
		cmd := m.loadCustomer()
		return m, cmd

	case clearRentNotice:
		if msg.seq == m.film.noticeSeq {
			m.film.gate.ClearNotice()
		}
		return m, nil
	}
	return m, nil
}

// savePrefs persists theme and search type. Failures only reach the log.
func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, SearchType: string(m.searchType)}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences failed", zap.Error(err))
	}
}

// resize propagates the window size to size-dependent widgets.
func (m *Model) resize() {
	switch m.route.page {
	case PageCustomers:
		m.sizeCustomerTable()
	case PageDiagnostics:
		m.sizeLogViewport()
	}
}

// renderMain renders header, command bar and the current page.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on the current page.
func (m Model) renderContent() string {
	switch m.route.page {
	case PageHome:
		return m.renderHome()
	case PageFilms:
		return m.renderFilms()
	case PageFilm:
		return m.renderFilm()
	case PageActor:
		return m.renderActor()
	case PageCustomers:
		return m.renderCustomers()
	case PageCustomerNew, PageCustomerEdit:
		return m.renderForm()
	case PageRentals:
		return m.renderRentals()
	case PageDiagnostics:
		return m.renderDiag()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// delay delivers msg after d.
func delay(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return msg
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.closeVisit()
	}
	return err
}
