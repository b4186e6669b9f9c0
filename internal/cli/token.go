package cli

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/config"
	"github.com/Freeeeeet/agenda_service/internal/httpapi"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewTokenCommand signs a bearer token for a profile, for local testing
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <profile-id>",
		Short: "Sign an API token for a profile with JWT_HMAC_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("profile id: %w", err)
			}

			cfg, err := config.Load(config.Options{EnvFile: rootOpts.EnvFile})
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_HMAC_SECRET is required but not set")
			}

			token, err := httpapi.IssueToken(cfg.JWTSecret, id, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
