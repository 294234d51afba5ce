package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joacominatel/perruls/internal/api"
	"github.com/spf13/cobra"
)

func newServeCommand(sess *session) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reports as a read-only JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("listen") {
				sess.cfg.API.Listen = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := sess.connect(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Disconnect() }()

			srv := api.NewServer(api.Config{
				Querier:        svc,
				Listen:         sess.cfg.API.Listen,
				AllowedOrigins: sess.cfg.API.AllowedOrigins,
				Logger:         sess.logger,
			})
			return srv.Serve(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default from config, :8000)")
	return cmd
}
