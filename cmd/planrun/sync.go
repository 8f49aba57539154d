package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lucasvautier/planrun/internal/catalog"
	"github.com/lucasvautier/planrun/internal/logger"
)

type syncOptions struct {
	url    string
	branch string
	dest   string
}

func newSyncCmd(root *rootFlags) *cobra.Command {
	opts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync the scenario catalog from a git repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := "info"
			if root.verbose {
				level = "debug"
			}
			log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
			if err != nil {
				return err
			}

			dest := opts.dest
			if dest == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("determine home directory: %w", err)
				}
				dest = filepath.Join(home, ".planrun", "catalog")
			}

			cat, err := catalog.New(opts.url, opts.branch, dest, log)
			if err != nil {
				return err
			}

			status, err := cat.Sync(cmd.Context())
			if err != nil {
				return err
			}

			configs, err := cat.Configs()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "catalog %s at %s: %d config(s)\n", status, dest, len(configs))
			for _, c := range configs {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", c)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "Catalog repository URL")
	cmd.Flags().StringVar(&opts.branch, "branch", "", "Branch to track (defaults to the remote default branch)")
	cmd.Flags().StringVar(&opts.dest, "dest", "", "Local checkout directory (defaults to ~/.planrun/catalog)")
	cmd.MarkFlagRequired("url") //nolint:errcheck

	return cmd
}
