package cli

import (
	"github.com/Freeeeeet/agenda_service/internal/app"
	"github.com/Freeeeeet/agenda_service/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
}

// NewRootCommand creates the agenda command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "agenda",
		Short:         "Municipal appointment scheduling service",
		Long:          "Time slots, appointments, notifications and reminders for department and school profiles.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewRemindCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// bootstrap loads configuration and builds the logger shared by commands
func bootstrap(opts *RootOptions, requireDB bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(config.Options{EnvFile: opts.EnvFile, RequireDB: requireDB})
	if err != nil {
		return nil, nil, err
	}
	return cfg, app.NewLogger(cfg.Environment), nil
}
