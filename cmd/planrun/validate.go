package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasvautier/planrun/internal/config"
)

func newValidateCmd(root *rootFlags) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfigPath(configPath); err != nil {
				return err
			}

			cfg, err := config.ParseConfig(configPath)
			if err != nil {
				return err
			}
			if err := config.ValidateConfig(cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d scenario(s)\n", configPath, len(cfg.Scenarios))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}
