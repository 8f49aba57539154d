package main

import (
	"github.com/spf13/cobra"

	"github.com/lucasvautier/planrun/internal/stage"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd(registry *stage.Registry) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "planrun",
		Short:         "planrun executes hierarchical driving scenarios from declarative configs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newRunCmd(flags, registry))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newListCmd(flags, registry))
	cmd.AddCommand(newSyncCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
