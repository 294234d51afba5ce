// Package app holds the session object shared by every front end: one
// connection, one result store.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joacominatel/perruls/internal/database"
	"github.com/joacominatel/perruls/internal/export"
	"github.com/joacominatel/perruls/internal/reports"
	"github.com/joacominatel/perruls/internal/resultset"
)

// Service is a session: it owns the driver (one connection at a time) and
// the result store. Database calls are safe from background workers; the
// store must only be touched from the goroutine that owns the session.
type Service struct {
	driver  database.Driver
	results *resultset.Store
	logger  *slog.Logger
}

// NewService creates a session. If logger is nil, logs are discarded.
func NewService(driver database.Driver, pageSize int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		driver:  driver,
		results: resultset.New(pageSize),
		logger:  logger,
	}
}

// Results returns the session's result store.
func (s *Service) Results() *resultset.Store {
	return s.results
}

// Connect replaces the session connection.
func (s *Service) Connect(ctx context.Context, params database.ConnParams) error {
	if err := s.driver.Connect(ctx, params); err != nil {
		return &ErrConnection{Target: params.Display(), Cause: err}
	}
	s.logger.Info("connected", slog.String("target", params.Display()))
	return nil
}

// Disconnect closes the connection. The caller clears the store from the
// owning goroutine with ClearResults.
func (s *Service) Disconnect() error {
	return s.driver.Close()
}

// ClearResults drops the held result after a disconnect.
func (s *Service) ClearResults() {
	s.results.Clear()
}

// IsConnected reports whether the session has an open connection.
func (s *Service) IsConnected() bool {
	return s.driver.IsConnected()
}

// Params returns the active connection parameters.
func (s *Service) Params() database.ConnParams {
	return s.driver.Params()
}

// Execute runs a statement. ErrNotConnected is returned unchanged; any
// other failure is wrapped in ErrQuery.
func (s *Service) Execute(ctx context.Context, query string, args ...any) (*database.QueryResult, error) {
	result, err := s.driver.Execute(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryErr(query, err)
	}
	return result, nil
}

// ListTables returns the public tables sorted by name.
func (s *Service) ListTables(ctx context.Context) ([]string, error) {
	tables, err := s.driver.ListTables(ctx)
	if err != nil {
		return nil, wrapQueryErr("list tables", err)
	}
	return tables, nil
}

// TableSchema returns column metadata for a table.
func (s *Service) TableSchema(ctx context.Context, table string) (*database.QueryResult, error) {
	result, err := s.driver.TableSchema(ctx, table)
	if err != nil {
		return nil, wrapQueryErr("schema "+table, err)
	}
	return result, nil
}

// BrowseTable returns every row of a table ordered by its first column.
func (s *Service) BrowseTable(ctx context.Context, table string) (*database.QueryResult, error) {
	ident, err := database.QuoteIdentifier(table)
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY 1", ident))
}

// RunReport executes a canned report.
func (s *Service) RunReport(ctx context.Context, r reports.Report, args ...any) (*database.QueryResult, error) {
	s.logger.Debug("running report", slog.String("report", r.Key))
	return s.Execute(ctx, r.SQL, args...)
}

// ExportSnapshot is the slice of the held result chosen for an export.
type ExportSnapshot struct {
	Scope   export.Scope
	Columns []string
	Rows    [][]any
}

// SnapshotExport captures the columns and the rows selected by scope. It
// reads the result store, so it must run on the goroutine that owns it.
func (s *Service) SnapshotExport(scope export.Scope) ExportSnapshot {
	snap := ExportSnapshot{Scope: scope, Columns: s.results.Columns()}
	if scope == export.ScopePage {
		snap.Rows = s.results.View().Rows
	} else {
		snap.Rows = s.results.AllRows()
	}
	return snap
}

// WriteCSV writes a snapshot to path and returns the number of data rows.
// It does not touch the result store and is safe to call from a worker.
func (s *Service) WriteCSV(snap ExportSnapshot, path string) (int, error) {
	if err := export.ToFile(path, snap.Columns, snap.Rows); err != nil {
		s.logger.Warn("export failed", slog.String("path", path), slog.Any("error", err))
		return 0, err
	}
	s.logger.Info("exported csv",
		slog.String("path", path),
		slog.String("scope", string(snap.Scope)),
		slog.Int("rows", len(snap.Rows)))
	return len(snap.Rows), nil
}

// ExportCSV writes the current page, or every held row, to path.
func (s *Service) ExportCSV(scope export.Scope, path string) (int, error) {
	return s.WriteCSV(s.SnapshotExport(scope), path)
}

func wrapQueryErr(query string, err error) error {
	if errors.Is(err, database.ErrNotConnected) {
		return err
	}
	return &ErrQuery{Query: query, Cause: err}
}
