package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lucasvautier/planrun/internal/config"
	"github.com/lucasvautier/planrun/internal/driver"
	"github.com/lucasvautier/planrun/internal/logger"
	"github.com/lucasvautier/planrun/internal/metrics"
	"github.com/lucasvautier/planrun/internal/planning"
	"github.com/lucasvautier/planrun/internal/stage"
	"github.com/lucasvautier/planrun/internal/tui"
	planrunerrors "github.com/lucasvautier/planrun/pkg/errors"
)

type runOptions struct {
	ConfigPath     string
	Scenario       string
	MetricsAddr    string
	Watch          bool
	Verbose        bool
	NonInteractive bool
}

func newRunCmd(root *rootFlags, registry *stage.Registry) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario from a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			opts.NonInteractive = !term.IsTerminal(int(os.Stdout.Fd()))

			if err := validateConfigPath(opts.ConfigPath); err != nil {
				return err
			}

			return runScenario(opts, registry)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVarP(&opts.Scenario, "scenario", "s", "", "Scenario type to run (defaults to the first configured scenario)")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Restart the run when the configuration file changes")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runScenario(opts runOptions, registry *stage.Registry) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	for {
		restart, err := runOnce(ctx, opts, registry)
		if !restart {
			return err
		}
	}
}

type runOutcome struct {
	result *driver.Result
	err    error
}

func runOnce(ctx context.Context, opts runOptions, registry *stage.Registry) (bool, error) {
	cfg, err := config.ParseConfig(opts.ConfigPath)
	if err != nil {
		return false, err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return false, err
	}

	level := "info"
	if opts.Verbose || cfg.Settings.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return false, err
	}

	scenarioCfg, err := resolveScenario(cfg, opts.Scenario)
	if err != nil {
		return false, err
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	var mtr *metrics.Metrics
	addr := opts.MetricsAddr
	if addr == "" {
		addr = cfg.Settings.MetricsAddr
	}
	if addr != "" {
		mtr = metrics.New()
		go func() {
			if err := mtr.Serve(runCtx, addr, log); err != nil {
				log.Error(err, "metrics server stopped")
			}
		}()
	}

	var watchEvents <-chan struct{}
	if opts.Watch {
		watcher, err := config.NewWatcher(opts.ConfigPath, 0, log)
		if err != nil {
			return false, err
		}
		if err := watcher.Start(runCtx); err != nil {
			return false, err
		}
		defer watcher.Stop() //nolint:errcheck
		watchEvents = watcher.Events()
	}

	rate := cfg.Settings.CycleRateHz
	if rate <= 0 {
		rate = 100
	}
	source := driver.NewSimSource(time.Second / time.Duration(rate))

	events := make(chan driver.Event, 64)
	drv := driver.New(cfg, registry, planning.NewInjector(planning.NewContext(), log), log, driver.Options{
		Metrics: mtr,
		Events:  events,
	})

	interactive := !opts.NonInteractive
	modelState := tui.NewModel(scenarioCfg.ScenarioType, scenarioCfg.Stages)

	var program *tea.Program
	var programErr error
	programDone := make(chan struct{})

	if interactive {
		program = tea.NewProgram(modelState)
		go func() {
			_, programErr = program.Run()
			cancelRun()
			close(programDone)
		}()
	}

	outcomes := make(chan runOutcome, 1)
	go func() {
		res, err := drv.Run(runCtx, scenarioCfg.ScenarioType, source)
		outcomes <- runOutcome{result: res, err: err}
	}()

	for {
		select {
		case ev := <-events:
			dispatchTuiMessage(interactive, program, &modelState, tui.CycleMsg{Event: ev})
		case <-watchEvents:
			log.Info("configuration changed, restarting run")
			cancelRun()
			<-outcomes
			if interactive {
				program.Send(tea.QuitMsg{})
				<-programDone
			}
			return true, nil
		case outcome := <-outcomes:
			dispatchTuiMessage(interactive, program, &modelState, tui.DoneMsg{Result: outcome.result, Err: outcome.err})
			if interactive {
				<-programDone
				if programErr != nil {
					return false, programErr
				}
			} else {
				fmt.Fprintln(os.Stdout, modelState.View())
			}
			if errors.Is(outcome.err, context.Canceled) {
				return false, nil
			}
			return false, outcome.err
		}
	}
}

func resolveScenario(cfg *config.Config, scenarioType string) (*config.ScenarioConfig, error) {
	if scenarioType == "" {
		return &cfg.Scenarios[0], nil
	}
	if sc, ok := config.ScenarioMap(cfg.Scenarios)[scenarioType]; ok {
		return sc, nil
	}
	return nil, planrunerrors.NewValidationError("scenario", fmt.Sprintf("unknown scenario type %q", scenarioType), nil)
}

func dispatchTuiMessage(interactive bool, program *tea.Program, state *tui.Model, msg tea.Msg) {
	if interactive {
		if program != nil {
			program.Send(msg)
		}
		return
	}

	updated, _ := state.Update(msg)
	if m, ok := updated.(tui.Model); ok {
		*state = m
	}
}
