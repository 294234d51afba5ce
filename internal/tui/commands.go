package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/perruls/internal/app"
	"github.com/joacominatel/perruls/internal/config"
	"github.com/joacominatel/perruls/internal/database"
	"github.com/joacominatel/perruls/internal/export"
	"github.com/joacominatel/perruls/internal/reports"
	"github.com/joacominatel/perruls/internal/resultset"
	"github.com/joacominatel/perruls/internal/tui/explorer"
)

const (
	connectTimeout = 10 * time.Second
	metaTimeout    = 15 * time.Second
	queryTimeout   = 60 * time.Second
)

var timeNow = time.Now

// Messages returned by background commands.
type (
	connectedMsg struct {
		params  database.ConnParams
		profile string
		err     error
	}
	profileSavedMsg struct {
		err error
	}
	tablesLoadedMsg struct {
		tables []string
		err    error
	}
	columnsLoadedMsg struct {
		table   string
		columns []explorer.Column
		err     error
	}
	queryDoneMsg struct {
		ticket resultset.Ticket
		title  string
		result *database.QueryResult
		err    error
	}
	exportedMsg struct {
		path string
		rows int
		err  error
	}
	disconnectedMsg struct {
		err error
	}
)

func (m Model) connectCmd(params database.ConnParams, profile string) tea.Cmd {
	service := m.service
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		err := service.Connect(ctx, params)
		return connectedMsg{params: params, profile: profile, err: err}
	}
}

func (m Model) saveProfileCmd(params database.ConnParams) tea.Cmd {
	cfg := m.cfg
	save := m.saveProfile
	return func() tea.Msg {
		return profileSavedMsg{err: save(cfg, config.FromParams(params))}
	}
}

func (m Model) disconnectCmd() tea.Cmd {
	service := m.service
	return func() tea.Msg {
		return disconnectedMsg{err: service.Disconnect()}
	}
}

func (m Model) loadTablesCmd() tea.Cmd {
	service := m.service
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), metaTimeout)
		defer cancel()
		tables, err := service.ListTables(ctx)
		return tablesLoadedMsg{tables: tables, err: err}
	}
}

func (m Model) loadColumnsCmd(table string) tea.Cmd {
	service := m.service
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), metaTimeout)
		defer cancel()
		result, err := service.TableSchema(ctx, table)
		if err != nil {
			return columnsLoadedMsg{table: table, err: err}
		}
		return columnsLoadedMsg{table: table, columns: schemaColumns(result)}
	}
}

// schemaColumns reads the column_name, data_type, is_nullable rows of a
// schema result.
func schemaColumns(r *database.QueryResult) []explorer.Column {
	cols := make([]explorer.Column, 0, len(r.Rows))
	for _, row := range r.Rows {
		if len(row) < 3 {
			continue
		}
		cols = append(cols, explorer.Column{
			Name:     database.TextValue(row[0]),
			DataType: database.TextValue(row[1]),
			Nullable: database.TextValue(row[2]) == "YES",
		})
	}
	return cols
}

// startQuery claims the in-flight slot and runs fn in the background. The
// completion is applied only if no newer request was started meanwhile.
func (m *Model) startQuery(title string, fn func(context.Context) (*database.QueryResult, error)) tea.Cmd {
	if !m.service.IsConnected() {
		m.statusbar.SetError(database.ErrNotConnected.Error())
		return nil
	}

	ticket := m.service.Results().Begin()
	m.results.SetLoading(true)
	m.statusbar.SetMessage("Executing...")
	spin := m.syncBusy()

	return tea.Batch(spin, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		result, err := fn(ctx)
		return queryDoneMsg{ticket: ticket, title: title, result: result, err: err}
	})
}

// syncBusy mirrors the store's in-flight slot on the status bar spinner.
func (m *Model) syncBusy() tea.Cmd {
	return m.statusbar.SetBusy(m.service.Results().Pending())
}

func (m *Model) runSQL(query string) tea.Cmd {
	service := m.service
	return m.startQuery("Results", func(ctx context.Context) (*database.QueryResult, error) {
		return service.Execute(ctx, query)
	})
}

func (m *Model) runReport(r reports.Report) tea.Cmd {
	service := m.service
	return m.startQuery(r.Title, func(ctx context.Context) (*database.QueryResult, error) {
		return service.RunReport(ctx, r)
	})
}

func (m *Model) showSchema(table string) tea.Cmd {
	service := m.service
	return m.startQuery("Schema: "+table, func(ctx context.Context) (*database.QueryResult, error) {
		return service.TableSchema(ctx, table)
	})
}

func (m *Model) browseTable(table string) tea.Cmd {
	service := m.service
	return m.startQuery(table, func(ctx context.Context) (*database.QueryResult, error) {
		return service.BrowseTable(ctx, table)
	})
}

// exportCmd snapshots the rows on the update loop and writes them in the
// background.
func (m Model) exportCmd(scope export.Scope, path string) tea.Cmd {
	service := m.service
	snap := service.SnapshotExport(scope)
	return func() tea.Msg {
		n, err := service.WriteCSV(snap, path)
		return exportedMsg{path: path, rows: n, err: err}
	}
}

func doneText(r *database.QueryResult) string {
	if len(r.Columns) == 0 {
		return fmt.Sprintf("Statement executed in %s", r.Duration.Round(time.Millisecond))
	}
	return fmt.Sprintf("%d rows in %s", r.RowCount, r.Duration.Round(time.Millisecond))
}

func exportedText(rows int, path string) string {
	return fmt.Sprintf("Exported %d rows to %s", rows, path)
}

func exportErrorText(err error) string {
	if errors.Is(err, export.ErrNoData) {
		return "No data to export"
	}
	return "Export failed: " + err.Error()
}

// errorText prefers the backend's own message for rejected statements.
func errorText(err error) string {
	var qe *app.ErrQuery
	if errors.As(err, &qe) {
		if code := qe.SQLState(); code != "" {
			return fmt.Sprintf("%s (%s)", qe.Message(), code)
		}
		return qe.Message()
	}
	return err.Error()
}
