// Package cli provides the command-line interface for perruls.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joacominatel/perruls/internal/app"
	"github.com/joacominatel/perruls/internal/config"
	"github.com/joacominatel/perruls/internal/database"
	"github.com/joacominatel/perruls/internal/database/postgres"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var Version = "0.1.0"

// Options customizes the command tree.
type Options struct {
	// Open replaces the pgx connection opener. Nil uses the real driver.
	Open postgres.Opener
}

// session is the state resolved once per invocation.
type session struct {
	opts    Options
	dir     string
	cfg     *config.Config
	params  database.ConnParams
	logger  *slog.Logger
	verbose bool
}

func (o Options) driver(logger *slog.Logger) database.Driver {
	if o.Open != nil {
		return postgres.NewWithOpener(o.Open, logger)
	}
	return postgres.New(logger)
}

// connect opens a session against the resolved connection parameters.
func (s *session) connect(ctx context.Context) (*app.Service, error) {
	svc := app.NewService(s.opts.driver(s.logger), s.cfg.Preferences.PageSize, s.logger)
	if err := svc.Connect(ctx, s.params); err != nil {
		return nil, err
	}
	return svc, nil
}

// NewRootCmd creates and returns the root command.
func NewRootCmd(opts Options) *cobra.Command {
	sess := &session{opts: opts}
	flags := &connFlags{}

	rootCmd := &cobra.Command{
		Use:   "perruls",
		Short: "perruls - query and browse the shelter database",
		Long: `perruls runs ad-hoc SQL against the shelter PostgreSQL database and
pages through the results.

Without a subcommand it starts the interactive client.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return sess.init(cmd, flags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, sess)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags.register(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().BoolVarP(&sess.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newTUICommand(sess))
	rootCmd.AddCommand(newQueryCommand(sess))
	rootCmd.AddCommand(newTablesCommand(sess))
	rootCmd.AddCommand(newSchemaCommand(sess))
	rootCmd.AddCommand(newBrowseCommand(sess))
	rootCmd.AddCommand(newReportCommand(sess))
	rootCmd.AddCommand(newServeCommand(sess))

	return rootCmd
}

// init loads configuration and applies flag overrides.
func (s *session) init(cmd *cobra.Command, flags *connFlags) error {
	var (
		cfg *config.Config
		err error
	)
	s.logger = newLogger(cmd.ErrOrStderr(), s.verbose)
	s.dir = flags.configDir
	if s.dir == "" {
		if s.dir, err = config.Dir(); err != nil {
			return &app.ErrConfig{Cause: err}
		}
	}
	cfg, err = config.LoadFrom(s.dir, s.logger)
	if err != nil {
		return &app.ErrConfig{Cause: err}
	}

	conn, err := flags.resolve(cmd.Flags(), cfg)
	if err != nil {
		return &app.ErrConfig{Cause: err}
	}

	s.cfg = cfg
	s.params = conn.Params()
	return nil
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd(Options{})
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
