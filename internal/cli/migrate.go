package cli

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/agenda_service/internal/app"
	"github.com/spf13/cobra"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), rootOpts, func(mg *app.Migrator) error {
				return mg.Up(cmd.Context())
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), rootOpts, func(mg *app.Migrator) error {
				return mg.Down(cmd.Context())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), rootOpts, func(mg *app.Migrator) error {
				v, err := mg.Version(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(ctx context.Context, rootOpts *RootOptions, fn func(mg *app.Migrator) error) error {
	cfg, logger, err := bootstrap(rootOpts, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pool, err := app.Connect(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	mg, err := app.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	defer mg.Close()

	return fn(mg)
}
