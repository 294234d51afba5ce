package database

import "context"

// Driver is the single-connection database handle used by a session.
// Implementations must be safe for concurrent use: queries are issued from
// background workers while the interactive loop reads connection state.
type Driver interface {
	// Connect closes any open connection, then opens a new one.
	// A failed connect leaves the driver disconnected.
	Connect(ctx context.Context, params ConnParams) error

	// Close is idempotent.
	Close() error

	// IsConnected reports whether an open connection exists.
	IsConnected() bool

	// Execute runs a statement with positional parameters bound by the driver.
	// Statements that return no rows yield an empty result, not an error.
	Execute(ctx context.Context, query string, args ...any) (*QueryResult, error)

	// ListTables returns the base tables of the public schema, sorted by name.
	ListTables(ctx context.Context) ([]string, error)

	// TableSchema returns column metadata for a table as a regular result.
	TableSchema(ctx context.Context, table string) (*QueryResult, error)

	// Params returns the parameters of the active connection.
	Params() ConnParams
}
