package cruisestage

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucasvautier/planrun/internal/config"
	"github.com/lucasvautier/planrun/internal/logger"
	"github.com/lucasvautier/planrun/internal/planning"
	"github.com/lucasvautier/planrun/internal/stage"
)

func testInjector(t *testing.T) *planning.Injector {
	t.Helper()
	log, err := logger.New(logger.Options{Level: "error", Writer: io.Discard})
	require.NoError(t, err)
	return planning.NewInjector(planning.NewContext(), log)
}

func cruiseConfig(distance float64, next string) *config.StageConfig {
	return &config.StageConfig{
		StageType: "cruise",
		Cruise:    &config.CruiseStage{CruiseSpeed: 10, Distance: distance, Next: next},
	}
}

func frameAt(seq uint64, odometer float64) *planning.Frame {
	return planning.NewFrame(seq, planning.VehicleState{Odometer: odometer})
}

func TestCruise_RequiresConfigBlock(t *testing.T) {
	_, err := New(&config.StageConfig{StageType: "cruise"}, testInjector(t))
	require.Error(t, err)
}

func TestCruise_PublishesStageIdentity(t *testing.T) {
	injector := testInjector(t)
	_, err := New(cruiseConfig(100, ""), injector)
	require.NoError(t, err)
	require.Equal(t, "cruise", injector.PlanningContext().Stage())
}

func TestCruise_RunsUntilDistanceCovered(t *testing.T) {
	st, err := New(cruiseConfig(100, ""), testInjector(t))
	require.NoError(t, err)

	point := &planning.TrajectoryPoint{Velocity: 10}

	require.Equal(t, stage.ResultRunning, st.Process(point, frameAt(0, 0)))
	require.Equal(t, stage.ResultRunning, st.Process(point, frameAt(1, 50)))
	require.Equal(t, stage.ResultFinished, st.Process(point, frameAt(2, 100)))
	require.Equal(t, stage.TypeNone, st.NextStage())
}

func TestCruise_DistanceIsRelativeToStageStart(t *testing.T) {
	st, err := New(cruiseConfig(100, ""), testInjector(t))
	require.NoError(t, err)

	point := &planning.TrajectoryPoint{Velocity: 10}

	// The odometer already reads 500 when the stage begins.
	require.Equal(t, stage.ResultRunning, st.Process(point, frameAt(0, 500)))
	require.Equal(t, stage.ResultRunning, st.Process(point, frameAt(1, 590)))
	require.Equal(t, stage.ResultFinished, st.Process(point, frameAt(2, 600)))
}

func TestCruise_ConfiguredSuccessor(t *testing.T) {
	st, err := New(cruiseConfig(10, "approach"), testInjector(t))
	require.NoError(t, err)

	point := &planning.TrajectoryPoint{Velocity: 10}
	require.Equal(t, stage.ResultRunning, st.Process(point, frameAt(0, 0)))
	require.Equal(t, stage.ResultFinished, st.Process(point, frameAt(1, 10)))
	require.Equal(t, stage.Type("cruise"), st.Type())
	require.Equal(t, stage.Type("approach"), st.NextStage())
}

func TestCruise_WritesTrajectory(t *testing.T) {
	st, err := New(cruiseConfig(100, ""), testInjector(t))
	require.NoError(t, err)

	frame := frameAt(0, 0)
	st.Process(&planning.TrajectoryPoint{Velocity: 10}, frame)
	require.NotEmpty(t, frame.Trajectory)
	require.InDelta(t, 10.0, frame.Trajectory[0].Velocity, 1e-9)
}

func TestCruise_NilInputs(t *testing.T) {
	st, err := New(cruiseConfig(100, ""), testInjector(t))
	require.NoError(t, err)

	require.Equal(t, stage.ResultError, st.Process(nil, frameAt(0, 0)))
	require.Equal(t, stage.ResultError, st.Process(&planning.TrajectoryPoint{}, nil))
}
