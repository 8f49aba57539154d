// Package driver owns the planning loop: it constructs a scenario
// controller from configuration, advances it once per cycle, and reacts to
// the aggregate status the controller reports.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lucasvautier/planrun/internal/config"
	"github.com/lucasvautier/planrun/internal/logger"
	"github.com/lucasvautier/planrun/internal/metrics"
	"github.com/lucasvautier/planrun/internal/planning"
	"github.com/lucasvautier/planrun/internal/scenario"
	"github.com/lucasvautier/planrun/internal/stage"
	planrunerrors "github.com/lucasvautier/planrun/pkg/errors"
)

const defaultMaxCycles = 100000

// FrameSource produces the seed point and frame for each planning cycle.
type FrameSource interface {
	Next(seq uint64) (*planning.TrajectoryPoint, *planning.Frame)
	// Observe lets the source consume the cycle's planning output, e.g. to
	// advance a simulated vehicle along the published trajectory.
	Observe(frame *planning.Frame)
}

// Event describes one completed planning cycle.
type Event struct {
	Cycle    uint64
	Scenario string
	Stage    string
	Status   scenario.Status
}

// Transition records a stage handover observed during a run.
type Transition struct {
	Cycle uint64
	From  string
	To    string
}

// Result summarises a finished run.
type Result struct {
	RunID       string
	Scenario    string
	Cycles      uint64
	FinalStatus scenario.Status
	Transitions []Transition
	Duration    time.Duration
}

// Options tunes the planning loop.
type Options struct {
	// CycleRateHz is the loop frequency; zero runs cycles back to back.
	CycleRateHz int
	// MaxCycles bounds the run; the controller itself never times out a
	// stuck stage, so the budget is enforced here.
	MaxCycles int
	// Metrics receives per-cycle counters when non-nil.
	Metrics *metrics.Metrics
	// Events receives one event per cycle when non-nil; sends never block.
	Events chan<- Event
}

// Driver runs scenarios from a validated configuration document.
type Driver struct {
	cfg      *config.Config
	registry *stage.Registry
	injector *planning.Injector
	log      *logger.Logger
	opts     Options
}

// New constructs a driver.
func New(cfg *config.Config, registry *stage.Registry, injector *planning.Injector, log *logger.Logger, opts Options) *Driver {
	if opts.MaxCycles <= 0 {
		opts.MaxCycles = cfg.Settings.MaxCycles
	}
	if opts.MaxCycles <= 0 {
		opts.MaxCycles = defaultMaxCycles
	}
	if opts.CycleRateHz <= 0 {
		opts.CycleRateHz = cfg.Settings.CycleRateHz
	}
	return &Driver{cfg: cfg, registry: registry, injector: injector, log: log, opts: opts}
}

// Run drives the named scenario to completion. An empty scenarioType selects
// the first configured scenario. The returned Result is non-nil whenever the
// run got past Init, including aborted runs.
func (d *Driver) Run(ctx context.Context, scenarioType string, source FrameSource) (*Result, error) {
	scenarioCfg, err := d.selectScenario(scenarioType)
	if err != nil {
		return nil, err
	}

	scenarioCtx := &scenario.Context{VehicleID: d.cfg.Name}
	sc := scenario.New(scenarioCfg, scenarioCtx, d.registry, d.injector, d.log)
	if err := sc.Init(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:    uuid.New().String(),
		Scenario: sc.Name(),
	}
	d.log.WithFields(map[string]any{
		"run_id":   result.RunID,
		"scenario": sc.Name(),
	}).Info("run started")

	var ticker *time.Ticker
	if d.opts.CycleRateHz > 0 {
		ticker = time.NewTicker(time.Second / time.Duration(d.opts.CycleRateHz))
		defer ticker.Stop()
	}

	start := time.Now()
	prevStage := stageName(sc)
	if d.opts.Metrics != nil && prevStage != "" {
		d.opts.Metrics.ActiveStage.WithLabelValues(sc.Name(), prevStage).Set(1)
	}

	for cycle := uint64(0); cycle < uint64(d.opts.MaxCycles); cycle++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				result.Duration = time.Since(start)
				return result, ctx.Err()
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			result.Duration = time.Since(start)
			return result, ctx.Err()
		}

		point, frame := source.Next(cycle)

		cycleStart := time.Now()
		status := sc.Process(point, frame)
		if d.opts.Metrics != nil {
			d.opts.Metrics.CycleTime.Observe(time.Since(cycleStart).Seconds())
			d.opts.Metrics.Cycles.WithLabelValues(sc.Name(), status.String()).Inc()
		}

		source.Observe(frame)

		current := stageName(sc)
		if current != prevStage {
			result.Transitions = append(result.Transitions, Transition{
				Cycle: cycle,
				From:  prevStage,
				To:    current,
			})
			if d.opts.Metrics != nil {
				d.opts.Metrics.Transitions.WithLabelValues(sc.Name(), prevStage, current).Inc()
				if prevStage != "" {
					d.opts.Metrics.ActiveStage.WithLabelValues(sc.Name(), prevStage).Set(0)
				}
				if current != "" {
					d.opts.Metrics.ActiveStage.WithLabelValues(sc.Name(), current).Set(1)
				}
			}
			prevStage = current
		}

		result.Cycles = cycle + 1
		result.FinalStatus = status
		d.emit(Event{Cycle: cycle, Scenario: sc.Name(), Stage: current, Status: status})

		switch status {
		case scenario.StatusDone:
			result.Duration = time.Since(start)
			d.log.WithFields(map[string]any{
				"run_id": result.RunID,
				"cycles": result.Cycles,
			}).Info("scenario complete")
			return result, nil
		case scenario.StatusUnknown:
			result.Duration = time.Since(start)
			return result, planrunerrors.NewScenarioError(sc.Name(),
				fmt.Errorf("scenario entered unknown status at cycle %d", cycle))
		}
	}

	result.Duration = time.Since(start)
	return result, planrunerrors.NewScenarioError(sc.Name(),
		fmt.Errorf("cycle budget of %d exhausted", d.opts.MaxCycles))
}

func (d *Driver) selectScenario(scenarioType string) (*config.ScenarioConfig, error) {
	if len(d.cfg.Scenarios) == 0 {
		return nil, planrunerrors.NewValidationError("scenarios", "no scenarios configured", nil)
	}
	if scenarioType == "" {
		return &d.cfg.Scenarios[0], nil
	}
	if sc, ok := config.ScenarioMap(d.cfg.Scenarios)[scenarioType]; ok {
		return sc, nil
	}
	return nil, planrunerrors.NewValidationError("scenarios",
		fmt.Sprintf("scenario %q is not configured", scenarioType), nil)
}

func (d *Driver) emit(ev Event) {
	if d.opts.Events == nil {
		return
	}
	select {
	case d.opts.Events <- ev:
	default:
	}
}

func stageName(sc *scenario.Scenario) string {
	if sc.Current() == nil {
		return ""
	}
	return sc.Current().Name()
}
