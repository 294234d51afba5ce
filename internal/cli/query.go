package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/joacominatel/perruls/internal/app"
	"github.com/joacominatel/perruls/internal/database"
	"github.com/joacominatel/perruls/internal/export"
	"github.com/spf13/cobra"
)

// pageOptions selects which page of a result to print and what to export.
type pageOptions struct {
	Page int
	CSV  string
	All  bool
}

func (o *pageOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.Page, "page", 1, "page number to print")
	cmd.Flags().StringVar(&o.CSV, "csv", "", "export to this CSV file (\"auto\" picks a timestamped name)")
	cmd.Flags().BoolVar(&o.All, "all", false, "export every row instead of the printed page")
}

func newQueryCommand(sess *session) *cobra.Command {
	opts := &pageOptions{}

	cmd := &cobra.Command{
		Use:   "query SQL",
		Short: "Execute a statement and print a page of the result",
		Example: `  # First page of a query
  perruls query "SELECT * FROM mascota"

  # Third page, 20 rows per page
  perruls query "SELECT * FROM vacuna" --page 3 --page-size 20

  # Export every row
  perruls query "SELECT * FROM inventario" --csv inventario.csv --all`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := sess.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Disconnect() }()

			result, err := svc.Execute(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printResult(cmd, svc, result, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func newTablesCommand(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the public schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := sess.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Disconnect() }()

			tables, err := svc.ListTables(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, t := range tables {
				_, _ = fmt.Fprintln(w, t)
			}
			return nil
		},
	}
}

func newSchemaCommand(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "schema TABLE",
		Short: "Show the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := sess.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Disconnect() }()

			result, err := svc.TableSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderTable(cmd.OutOrStdout(), result.Columns, result.Rows)
			return nil
		},
	}
}

func newBrowseCommand(sess *session) *cobra.Command {
	opts := &pageOptions{}

	cmd := &cobra.Command{
		Use:   "browse TABLE",
		Short: "Print a page of a table's rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := sess.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Disconnect() }()

			result, err := svc.BrowseTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, svc, result, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

// printResult stores result in the session, prints the requested page and
// runs the export if one was asked for.
func printResult(cmd *cobra.Command, svc *app.Service, result *database.QueryResult, opts *pageOptions) error {
	w := cmd.OutOrStdout()

	if len(result.Columns) == 0 {
		_, _ = fmt.Fprintf(w, "OK (%s)\n", result.Duration.Round(time.Millisecond))
		return nil
	}

	store := svc.Results()
	store.SetResult(result)
	view := store.PageAt(store.PageSize(), opts.Page)

	renderTable(w, view.Columns, view.Rows)
	_, _ = fmt.Fprintln(w, view.Summary())

	if opts.CSV == "" {
		return nil
	}

	scope := export.ScopePage
	if opts.All {
		scope = export.ScopeAll
	}
	path := opts.CSV
	if path == "auto" {
		path = export.DefaultFilename(scope, timeNow())
	}
	n, err := svc.ExportCSV(scope, path)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Exported %d rows to %s\n", n, path)
	return nil
}
