// Package postgres implements database.Driver on top of database/sql and
// the pgx stdlib driver, holding at most one open connection.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/joacominatel/perruls/internal/database"
)

// Opener opens and verifies a database handle for a DSN.
type Opener func(ctx context.Context, dsn string) (*sql.DB, error)

// Driver implements database.Driver for PostgreSQL.
type Driver struct {
	mu     sync.RWMutex
	db     *sql.DB
	params database.ConnParams
	open   Opener
	logger *slog.Logger
}

// New creates a PostgreSQL driver. If logger is nil, logs are discarded.
func New(logger *slog.Logger) *Driver {
	return NewWithOpener(openSingleConn, logger)
}

// NewWithOpener creates a driver that uses open to establish connections.
func NewWithOpener(open Opener, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{open: open, logger: logger}
}

// openSingleConn opens a pgx-backed handle capped at one physical
// connection; there is no pooling.
func openSingleConn(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// Connect replaces the current connection with a new one.
func (d *Driver) Connect(ctx context.Context, params database.ConnParams) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.closeLocked(); err != nil {
		d.logger.Warn("close previous connection", slog.String("error", err.Error()))
	}

	if err := params.Validate(); err != nil {
		return err
	}

	d.logger.Info("connecting", slog.String("host", params.Host), slog.Int("port", params.Port), slog.String("database", params.Database))

	db, err := d.open(ctx, params.DSN())
	if err != nil {
		d.logger.Warn("connect failed", slog.String("error", err.Error()))
		return err
	}

	d.db = db
	d.params = params
	return nil
}

// Close closes the connection. Calling it while disconnected is a no-op.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeLocked()
}

func (d *Driver) closeLocked() error {
	if d.db == nil {
		return nil
	}
	d.logger.Info("closing connection", slog.String("database", d.params.Database))
	err := d.db.Close()
	d.db = nil
	d.params = database.ConnParams{}
	return err
}

// IsConnected reports whether a connection is open.
func (d *Driver) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db != nil
}

// Params returns the parameters of the active connection.
func (d *Driver) Params() database.ConnParams {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.params
}

func (d *Driver) handle() *sql.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db
}

// Execute runs a statement and collects every row.
func (d *Driver) Execute(ctx context.Context, query string, args ...any) (*database.QueryResult, error) {
	db := d.handle()
	if db == nil {
		return nil, database.ErrNotConnected
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		d.logger.Warn("query failed", slog.String("sql", query), slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	if columns == nil {
		columns = []string{}
	}

	resultRows := [][]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		resultRows = append(resultRows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	d.logger.Debug("query executed",
		slog.String("sql", query),
		slog.Int("args", len(args)),
		slog.Int("rows", len(resultRows)),
		slog.Duration("duration", elapsed),
	)

	return &database.QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
		Duration: elapsed,
	}, nil
}

// ListTables returns the table names of the public schema.
func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	result, err := d.Execute(ctx, queryListTables)
	if err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		if len(row) > 0 {
			tables = append(tables, database.TextValue(row[0]))
		}
	}
	return tables, nil
}

// TableSchema returns name, data type, nullability and default for each
// column of a public table, in ordinal order.
func (d *Driver) TableSchema(ctx context.Context, table string) (*database.QueryResult, error) {
	return d.Execute(ctx, queryTableSchema, table)
}
