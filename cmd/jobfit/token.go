package main

import (
	"fmt"

	"github.com/jonathan/jobfit-kit/internal/config"
	"github.com/jonathan/jobfit-kit/internal/server"
	"github.com/jonathan/jobfit-kit/internal/storage"
	"github.com/spf13/cobra"
)

func newTokenCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a workspace",
		Long: `Issue a bearer token whose subject is the workspace given with --workspace.
Requires JWT_SECRET; JWT_EXPIRATION_HOURS and JWT_ISSUER are optional.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			jwtCfg, err := config.NewJWTConfig()
			if err != nil {
				return err
			}

			workspace := cfg.Workspace
			if workspace == "" {
				workspace = storage.DefaultWorkspace
			}
			token, err := server.NewJWTService(jwtCfg).GenerateToken(workspace)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}
