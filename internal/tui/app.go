// Package tui is the interactive client: a bubbletea program that owns the
// session's result store and runs every database round trip as a tea.Cmd.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/perruls/internal/app"
	"github.com/joacominatel/perruls/internal/config"
	"github.com/joacominatel/perruls/internal/database"
	"github.com/joacominatel/perruls/internal/reports"
	"github.com/joacominatel/perruls/internal/tui/editor"
	"github.com/joacominatel/perruls/internal/tui/explorer"
	"github.com/joacominatel/perruls/internal/tui/results"
	"github.com/joacominatel/perruls/internal/tui/statusbar"
)

// Pane identifies a focusable area.
type Pane int

const (
	PaneExplorer Pane = iota
	PaneEditor
	PaneResults
)

func (p Pane) String() string {
	switch p {
	case PaneExplorer:
		return "explorer"
	case PaneEditor:
		return "editor"
	case PaneResults:
		return "results"
	default:
		return "unknown"
	}
}

// Mode tracks which screen is shown.
type Mode int

const (
	ModeSelectConnection Mode = iota // saved profiles
	ModeConnect                      // connection form
	ModeMain
)

// Options configures the client.
type Options struct {
	Service *app.Service
	Config  *config.Config
	// Params pre-fills the connection form.
	Params database.ConnParams
	// AutoConnect connects with Params on start.
	AutoConnect bool
	Logger      *slog.Logger
	// ConfigDir is where successful connections are saved as profiles.
	ConfigDir string
	// SaveProfile persists a successful connection. Nil saves to ConfigDir.
	SaveProfile func(*config.Config, config.Connection) error
}

// Model is the top-level bubbletea model orchestrating all components.
type Model struct {
	service     *app.Service
	cfg         *config.Config
	logger      *slog.Logger
	saveProfile func(*config.Config, config.Connection) error

	explorer  explorer.Model
	editor    editor.Model
	results   results.Model
	statusbar statusbar.Model
	form      connectForm
	prompt    prompt

	activePane Pane
	mode       Mode
	width      int
	height     int
	showHelp   bool
	err        error

	autoConnect bool
	connCursor  int
	// profile is the saved profile the session was opened from, if any.
	profile string
}

// New creates the top-level model.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	save := opts.SaveProfile
	if save == nil {
		save = func(cfg *config.Config, conn config.Connection) error {
			return config.SaveConnection(opts.ConfigDir, cfg, conn)
		}
	}

	mode := ModeConnect
	if !opts.AutoConnect && len(opts.Config.Connections) > 0 {
		mode = ModeSelectConnection
	}

	return Model{
		service:     opts.Service,
		cfg:         opts.Config,
		logger:      logger,
		saveProfile: save,
		explorer:    explorer.New(reports.QuickActions),
		editor:      editor.New(),
		results:     results.New(opts.Service.Results()),
		statusbar:   statusbar.New(),
		form:        newConnectForm(opts.Params),
		activePane:  PaneExplorer,
		mode:        mode,
		autoConnect: opts.AutoConnect,
	}
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	if m.autoConnect {
		params, err := m.form.params()
		if err == nil {
			return m.connectCmd(params, "")
		}
	}
	return m.form.focusCmd()
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.statusbar, cmd = m.statusbar.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case ModeSelectConnection:
			return m.updateSelectConnection(msg)
		case ModeConnect:
			return m.updateConnect(msg)
		default:
			return m.updateMain(msg)
		}

	case connectedMsg:
		return m.onConnected(msg)

	case profileSavedMsg:
		if msg.err != nil {
			m.logger.Warn("could not save profile", slog.Any("error", msg.err))
			m.statusbar.SetError("Could not save connection: " + msg.err.Error())
		}
		return m, nil

	case tablesLoadedMsg:
		if msg.err != nil {
			m.explorer.SetLoading(false)
			m.statusbar.SetError("Failed to list tables: " + errorText(msg.err))
			return m, nil
		}
		m.explorer.SetTables(msg.tables)
		m.editor.SetTableNames(msg.tables)
		return m, nil

	case columnsLoadedMsg:
		if msg.err != nil {
			m.statusbar.SetError("Failed to load columns: " + errorText(msg.err))
			return m, nil
		}
		m.explorer.SetColumns(msg.table, msg.columns)
		return m, nil

	case queryDoneMsg:
		return m.onQueryDone(msg)

	case exportedMsg:
		if msg.err != nil {
			m.statusbar.SetError(exportErrorText(msg.err))
			return m, nil
		}
		m.statusbar.SetMessage(exportedText(msg.rows, msg.path))
		return m, nil

	case disconnectedMsg:
		return m.onDisconnected(msg)

	case results.NoticeMsg:
		if msg.Err {
			m.statusbar.SetError(msg.Text)
		} else {
			m.statusbar.SetMessage(msg.Text)
		}
		return m, nil

	case results.PageSizeRequestMsg:
		cmd := m.prompt.openPageSize(m.service.Results().PageSize())
		return m, cmd

	case results.ExportRequestMsg:
		cmd := m.prompt.openExport(msg.Scope, timeNow())
		return m, cmd

	case explorer.RunReportMsg:
		m.editor.SetQuery(msg.Report.SQL)
		cmd := m.runReport(msg.Report)
		return m, cmd

	case explorer.RequestColumnsMsg:
		return m, m.loadColumnsCmd(msg.Table)

	case editor.ExecuteQueryMsg:
		cmd := m.runSQL(msg.Query)
		return m, cmd
	}

	if m.mode == ModeMain {
		return m.updateComponents(msg)
	}
	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt.active() {
		return m.updatePrompt(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	key := msg.String()
	switch key {
	case "ctrl+d":
		return m, m.disconnectCmd()
	case "tab":
		if m.activePane == PaneEditor && m.editor.CanComplete() {
			return m.updateComponents(msg)
		}
		m.cyclePane(1)
		return m, nil
	case "shift+tab":
		m.cyclePane(-1)
		return m, nil
	}

	if m.activePane != PaneEditor {
		switch key {
		case "q":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "s":
			if table, ok := m.explorer.SelectedTable(); ok {
				cmd := m.showSchema(table)
				return m, cmd
			}
			m.statusbar.SetMessage("Select a table first")
			return m, nil
		case "b":
			if table, ok := m.explorer.SelectedTable(); ok {
				cmd := m.browseTable(table)
				return m, cmd
			}
			m.statusbar.SetMessage("Select a table first")
			return m, nil
		case "r":
			m.explorer.SetLoading(true)
			return m, m.loadTablesCmd()
		}
	}

	return m.updateComponents(msg)
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.activePane {
	case PaneExplorer:
		m.explorer, cmd = m.explorer.Update(msg)
	case PaneEditor:
		m.editor, cmd = m.editor.Update(msg)
	case PaneResults:
		m.results, cmd = m.results.Update(msg)
		m.statusbar.SetPager(m.results.Summary())
	}

	return m, cmd
}

func (m Model) onConnected(msg connectedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		m.statusbar.SetError(errorText(msg.err))
		return m, nil
	}

	m.err = nil
	m.mode = ModeMain
	m.profile = msg.profile
	m.statusbar.SetTarget(msg.params.Display())
	m.statusbar.SetMessage("Connected")
	m.explorer.SetLoading(true)
	m.setFocus(PaneEditor)
	m.layout()

	cmds := []tea.Cmd{m.loadTablesCmd()}
	if msg.profile == "" {
		cmds = append(cmds, m.saveProfileCmd(msg.params))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) onQueryDone(msg queryDoneMsg) (tea.Model, tea.Cmd) {
	store := m.service.Results()

	if msg.err != nil {
		if !store.Discard(msg.ticket) {
			m.logger.Debug("dropping stale failure", slog.String("source", msg.title))
			return m, nil
		}
		m.syncBusy()
		m.results.SetError(msg.err)
		m.statusbar.SetError(errorText(msg.err))
		return m, nil
	}

	if !store.Apply(msg.ticket, msg.result) {
		m.logger.Debug("dropping stale result", slog.String("source", msg.title))
		return m, nil
	}
	m.syncBusy()
	m.results.ShowResult(msg.title)
	m.statusbar.SetPager(m.results.Summary())
	m.statusbar.SetMessage(doneText(msg.result))
	return m, nil
}

func (m Model) onDisconnected(msg disconnectedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("disconnect", slog.Any("error", msg.err))
	}
	m.service.ClearResults()
	m.explorer.Reset()
	m.editor.SetTableNames(nil)
	m.results.Reset()
	m.syncBusy()
	m.statusbar.SetTarget("")
	m.statusbar.SetPager("")
	m.statusbar.SetMessage("Disconnected")
	m.profile = ""

	m.mode = ModeConnect
	if len(m.cfg.Connections) > 0 {
		m.mode = ModeSelectConnection
	}
	return m, m.form.focusCmd()
}

func (m *Model) cyclePane(step int) {
	next := (int(m.activePane) + step + 3) % 3
	m.setFocus(Pane(next))
}

func (m *Model) setFocus(pane Pane) {
	m.activePane = pane
	m.explorer.SetFocused(pane == PaneExplorer)
	m.editor.SetFocused(pane == PaneEditor)
	m.results.SetFocused(pane == PaneResults)
	m.statusbar.SetActivePane(pane.String())
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	avail := m.height - 1
	explorerWidth := min(max(m.width/4, 24), 38)
	rightWidth := m.width - explorerWidth
	editorHeight := max(avail*35/100, 6)
	resultsHeight := avail - editorHeight

	m.explorer.SetSize(explorerWidth-2, avail-2)
	m.editor.SetSize(rightWidth-2, editorHeight-2)
	m.results.SetSize(rightWidth-2, resultsHeight-2)
	m.statusbar.SetWidth(m.width)
	m.form.setWidth(min(m.width-10, 60))
}
