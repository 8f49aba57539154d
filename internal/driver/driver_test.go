package driver

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/lucasvautier/planrun/internal/config"
	"github.com/lucasvautier/planrun/internal/logger"
	"github.com/lucasvautier/planrun/internal/metrics"
	"github.com/lucasvautier/planrun/internal/planning"
	"github.com/lucasvautier/planrun/internal/scenario"
	"github.com/lucasvautier/planrun/internal/stage"
	"github.com/lucasvautier/planrun/internal/stages"
	planrunerrors "github.com/lucasvautier/planrun/pkg/errors"
)

func testDriver(t *testing.T, cfg *config.Config, opts Options) *Driver {
	t.Helper()

	log, err := logger.New(logger.Options{Level: "error", Writer: io.Discard})
	require.NoError(t, err)

	registry := stage.NewRegistry()
	require.NoError(t, stages.RegisterDefaults(registry))

	injector := planning.NewInjector(planning.NewContext(), log)
	return New(cfg, registry, injector, log, opts)
}

func cruiseScenario(distance float64, next string) config.ScenarioConfig {
	return config.ScenarioConfig{
		ScenarioType: "lane_follow",
		Stages:       []string{"cruise"},
		StageConfigs: []config.StageConfig{{
			StageType: "cruise",
			Cruise:    &config.CruiseStage{CruiseSpeed: 10, Distance: distance, Next: next},
		}},
	}
}

func TestDriver_RunsCruiseScenarioToCompletion(t *testing.T) {
	cfg := &config.Config{
		Name:      "test",
		Scenarios: []config.ScenarioConfig{cruiseScenario(1, "")},
	}
	d := testDriver(t, cfg, Options{MaxCycles: 100})

	result, err := d.Run(context.Background(), "", NewSimSource(100*time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, scenario.StatusDone, result.FinalStatus)
	require.Equal(t, "lane_follow", result.Scenario)
	require.NotEmpty(t, result.RunID)
	require.Greater(t, result.Cycles, uint64(0))
}

func TestDriver_ApproachStopChain(t *testing.T) {
	cfg := &config.Config{
		Name: "test",
		Scenarios: []config.ScenarioConfig{{
			ScenarioType: "stop_sign",
			Stages:       []string{"approach", "stop"},
			StageConfigs: []config.StageConfig{
				{
					StageType: "approach",
					Approach:  &config.ApproachStage{ApproachSpeed: 5, StopLine: 2},
				},
				{
					StageType: "stop",
					Stop:      &config.StopStage{HoldSeconds: 0.3},
				},
			},
		}},
	}
	d := testDriver(t, cfg, Options{MaxCycles: 200})

	result, err := d.Run(context.Background(), "stop_sign", NewSimSource(100*time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, scenario.StatusDone, result.FinalStatus)

	require.NotEmpty(t, result.Transitions)
	require.Equal(t, "approach", result.Transitions[0].From)
	require.Equal(t, "stop", result.Transitions[0].To)
}

func TestDriver_UnknownScenarioType(t *testing.T) {
	cfg := &config.Config{
		Name:      "test",
		Scenarios: []config.ScenarioConfig{cruiseScenario(1, "")},
	}
	d := testDriver(t, cfg, Options{MaxCycles: 10})

	_, err := d.Run(context.Background(), "valet_parking", NewSimSource(0))
	require.Error(t, err)
	var validationErr *planrunerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestDriver_AbortsOnUnknownStatus(t *testing.T) {
	// The cruise stage names a successor that has no configuration block;
	// the controller reports unknown and the driver aborts the run.
	cfg := &config.Config{
		Name:      "test",
		Scenarios: []config.ScenarioConfig{cruiseScenario(1, "ghost")},
	}
	d := testDriver(t, cfg, Options{MaxCycles: 100})

	result, err := d.Run(context.Background(), "", NewSimSource(100*time.Millisecond))
	require.Error(t, err)
	var scenarioErr *planrunerrors.ScenarioError
	require.ErrorAs(t, err, &scenarioErr)
	require.NotNil(t, result)
	require.Equal(t, scenario.StatusUnknown, result.FinalStatus)
}

func TestDriver_CycleBudget(t *testing.T) {
	cfg := &config.Config{
		Name:      "test",
		Scenarios: []config.ScenarioConfig{cruiseScenario(1e9, "")},
	}
	d := testDriver(t, cfg, Options{MaxCycles: 5})

	result, err := d.Run(context.Background(), "", NewSimSource(100*time.Millisecond))
	require.Error(t, err)
	require.Equal(t, uint64(5), result.Cycles)
}

func TestDriver_EmitsCycleEvents(t *testing.T) {
	cfg := &config.Config{
		Name:      "test",
		Scenarios: []config.ScenarioConfig{cruiseScenario(1, "")},
	}
	events := make(chan Event, 256)
	d := testDriver(t, cfg, Options{MaxCycles: 100, Events: events})

	result, err := d.Run(context.Background(), "", NewSimSource(100*time.Millisecond))
	require.NoError(t, err)
	require.Len(t, events, int(result.Cycles))

	first := <-events
	require.Equal(t, uint64(0), first.Cycle)
	require.Equal(t, "lane_follow", first.Scenario)
}

func TestDriver_RecordsMetrics(t *testing.T) {
	cfg := &config.Config{
		Name:      "test",
		Scenarios: []config.ScenarioConfig{cruiseScenario(1, "")},
	}
	m := metrics.New()
	d := testDriver(t, cfg, Options{MaxCycles: 100, Metrics: m})

	result, err := d.Run(context.Background(), "", NewSimSource(100*time.Millisecond))
	require.NoError(t, err)

	done := testutil.ToFloat64(m.Cycles.WithLabelValues("lane_follow", "done"))
	processing := testutil.ToFloat64(m.Cycles.WithLabelValues("lane_follow", "processing"))
	require.Equal(t, float64(result.Cycles), done+processing)
}

func TestDriver_ContextCancellation(t *testing.T) {
	cfg := &config.Config{
		Name:      "test",
		Settings:  config.Settings{CycleRateHz: 10},
		Scenarios: []config.ScenarioConfig{cruiseScenario(1e9, "")},
	}
	d := testDriver(t, cfg, Options{MaxCycles: 1000})

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	_, err := d.Run(ctx, "", NewSimSource(100*time.Millisecond))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
