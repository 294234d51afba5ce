// Package export writes query results to CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joacominatel/perruls/internal/database"
)

// ErrNoData is returned when there is nothing to export. It is a user-facing
// validation, not a failure of the exporter.
var ErrNoData = errors.New("no data to export")

// ErrExport is returned when the destination cannot be written.
type ErrExport struct {
	Path  string
	Cause error
}

func (e *ErrExport) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Cause)
}

func (e *ErrExport) Unwrap() error {
	return e.Cause
}

// Scope selects which rows of the held result are exported.
type Scope string

const (
	ScopePage Scope = "page"
	ScopeAll  Scope = "all"
)

// DefaultFilename returns a timestamped file name for an export.
func DefaultFilename(scope Scope, now time.Time) string {
	return fmt.Sprintf("perruls_%s_%s.csv", scope, now.Format("20060102_150405"))
}

// Write writes a header row followed by one record per row. NULL values
// become empty fields.
func Write(w io.Writer, columns []string, rows [][]any) error {
	if len(columns) == 0 || len(rows) == 0 {
		return ErrNoData
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(database.TextRow(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToFile exports to path as UTF-8 CSV. Nothing is created when there is
// no data.
func ToFile(path string, columns []string, rows [][]any) (err error) {
	if len(columns) == 0 || len(rows) == 0 {
		return ErrNoData
	}

	f, err := os.Create(path)
	if err != nil {
		return &ErrExport{Path: path, Cause: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &ErrExport{Path: path, Cause: cerr}
		}
	}()

	if err := Write(f, columns, rows); err != nil {
		return &ErrExport{Path: path, Cause: err}
	}
	return nil
}
