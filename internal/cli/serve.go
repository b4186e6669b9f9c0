package cli

import (
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/agenda_service/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var memory bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the optional bot and the optional reminder ticker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(rootOpts, !memory)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("Starting agenda service",
				zap.String("environment", cfg.Environment),
				zap.String("addr", cfg.HTTPAddr),
				zap.Bool("memory", memory),
				zap.Duration("reminder_interval", cfg.ReminderInterval),
				zap.Bool("telegram", cfg.TelegramToken != ""),
			)

			a, err := app.New(ctx, cfg, logger, app.Options{Memory: memory})
			if err != nil {
				return err
			}
			defer a.Close()

			return a.Serve(ctx)
		},
	}

	cmd.Flags().BoolVar(&memory, "memory", false, "keep data in process memory instead of Postgres")

	return cmd
}
