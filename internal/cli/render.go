package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/joacominatel/perruls/internal/database"
)

var timeNow = time.Now

// newTable returns a light-style table that keeps header text as given.
// Column names are case-sensitive, so the default upper-casing is off.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	return t
}

func renderTable(w io.Writer, cols []string, rows [][]any) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := newTable(w)

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, r := range rows {
		row := make(table.Row, len(cols))
		for i := range cols {
			if i < len(r) {
				row[i] = database.FormatValue(r[i])
			}
		}
		t.AppendRow(row)
	}

	t.Render()
}
