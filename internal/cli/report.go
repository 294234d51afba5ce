package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joacominatel/perruls/internal/reports"
	"github.com/spf13/cobra"
)

func newReportCommand(sess *session) *cobra.Command {
	opts := &pageOptions{}

	cmd := &cobra.Command{
		Use:   "report [KEY] [ARGS...]",
		Short: "List or run the canned reports",
		Example: `  # List reports
  perruls report

  # Run one
  perruls report stock-critico`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				t := newTable(cmd.OutOrStdout())
				t.AppendHeader(table.Row{"key", "title"})
				for _, r := range reports.QuickActions {
					t.AppendRow(table.Row{r.Key, r.Title})
				}
				t.Render()
				return nil
			}

			rep, ok := reports.ByKey(args[0])
			if !ok {
				return fmt.Errorf("unknown report %q", args[0])
			}
			params := args[1:]
			if len(params) != rep.Params {
				return fmt.Errorf("report %q takes %d argument(s), got %d", rep.Key, rep.Params, len(params))
			}
			bound := make([]any, len(params))
			for i, p := range params {
				bound[i] = p
			}

			svc, err := sess.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Disconnect() }()

			result, err := svc.RunReport(cmd.Context(), rep, bound...)
			if err != nil {
				return err
			}
			return printResult(cmd, svc, result, opts)
		},
	}
	opts.register(cmd)
	return cmd
}
