package cli

import (
	"log/slog"

	"github.com/joacominatel/perruls/internal/app"
	"github.com/joacominatel/perruls/internal/tui"
	"github.com/spf13/cobra"
)

func newTUICommand(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive client (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, sess)
		},
	}
}

func runTUI(cmd *cobra.Command, sess *session) error {
	logFile, err := openLogFile(sess.dir)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := newLogger(logFile, sess.verbose)

	svc := app.NewService(sess.opts.driver(logger), sess.cfg.Preferences.PageSize, logger)
	defer func() { _ = svc.Disconnect() }()

	f := cmd.Flags()
	explicit := f.Changed("dsn") || f.Changed("profile") || f.Changed("host") || f.Changed("db")

	logger.Info("starting interactive client", slog.String("target", sess.params.Display()))
	return tui.Run(cmd.Context(), tui.Options{
		Service:     svc,
		Config:      sess.cfg,
		Params:      sess.params,
		AutoConnect: explicit,
		Logger:      logger,
		ConfigDir:   sess.dir,
	})
}
