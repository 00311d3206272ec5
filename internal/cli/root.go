package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/authcore/internal/config"
	"github.com/mrlokans/authcore/internal/redact"
)

// options are the flags shared by every subcommand. Non-empty values
// override the environment.
type options struct {
	databasePath string
	logLevel     string
}

func (o *options) load() *config.Config {
	cfg := config.NewConfig()
	if o.databasePath != "" {
		cfg.Database.Path = o.databasePath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg
}

// NewRootCmd creates the root command. Without a subcommand it serves HTTP.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "authcore",
		Short: "authcore - user accounts, sessions and request authentication",
		Long: `authcore stores users with bcrypt password hashes, issues sessions
and password reset tokens, and guards an HTTP API with a configurable
authentication strategy (AUTH_TYPE).`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			redact.SetDefault(opts.load().Log.Level)
		},
		RunE: func(*cobra.Command, []string) error {
			return runServe(opts, version)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.databasePath, "database", "", "database path (overrides DATABASE_PATH)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	cmd.AddCommand(newServeCmd(opts, version))
	cmd.AddCommand(newUserCmd(opts))
	cmd.AddCommand(newEventsCmd(opts))

	return cmd
}
