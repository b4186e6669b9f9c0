package cli

import (
	"context"
	"encoding/json"

	"github.com/Freeeeeet/agenda_service/internal/app"
	"github.com/spf13/cobra"
)

func NewRemindCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run the reminder dispatcher once and print what it sent",
		Long: `Run one reminder pass against the database and exit.

Meant for cron or any external scheduler. Overlapping runs are safe,
each reminder is claimed before it is sent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(rootOpts, true)
			if err != nil {
				return err
			}
			defer logger.Sync()

			a, err := app.New(cmd.Context(), cfg, logger, app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if cfg.ReminderTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.ReminderTimeout)
				defer cancel()
			}

			res, err := a.Reminders.Run(ctx)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}
