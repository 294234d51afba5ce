package database

import "time"

// QueryResult holds the outcome of one statement. Each row is aligned
// positionally with Columns; values keep the type the driver produced.
type QueryResult struct {
	Columns  []string
	Rows     [][]any
	RowCount int
	Duration time.Duration
}

// Empty reports whether the result has nothing to show or export.
func (r *QueryResult) Empty() bool {
	return r == nil || len(r.Columns) == 0 || len(r.Rows) == 0
}
