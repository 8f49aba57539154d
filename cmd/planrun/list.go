package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lucasvautier/planrun/internal/config"
	"github.com/lucasvautier/planrun/internal/stage"
)

type listOptions struct {
	configPath string
	jsonOutput bool
}

type scenarioInfo struct {
	ScenarioType string   `json:"scenario_type"`
	Description  string   `json:"description,omitempty"`
	Stages       []string `json:"stages"`
}

type listOutput struct {
	Scenarios  []scenarioInfo `json:"scenarios"`
	StageTypes []string       `json:"stage_types"`
}

func newListCmd(root *rootFlags, registry *stage.Registry) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured scenarios and registered stage types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfigPath(opts.configPath); err != nil {
				return err
			}

			cfg, err := config.ParseConfig(opts.configPath)
			if err != nil {
				return err
			}
			if err := config.ValidateConfig(cfg); err != nil {
				return err
			}

			return runList(cmd, opts, cfg, registry)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runList(cmd *cobra.Command, opts *listOptions, cfg *config.Config, registry *stage.Registry) error {
	out := listOutput{StageTypes: stageTypeNames(registry)}
	for _, sc := range cfg.Scenarios {
		out.Scenarios = append(out.Scenarios, scenarioInfo{
			ScenarioType: sc.ScenarioType,
			Description:  sc.Description,
			Stages:       sc.Stages,
		})
	}

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tSTAGES\tDESCRIPTION")
	for _, sc := range out.Scenarios {
		fmt.Fprintf(w, "%s\t%s\t%s\n", sc.ScenarioType, strings.Join(sc.Stages, " → "), sc.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nregistered stage types: %s\n", strings.Join(out.StageTypes, ", "))
	return nil
}

func stageTypeNames(registry *stage.Registry) []string {
	types := registry.Types()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return names
}
