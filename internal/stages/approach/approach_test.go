package approachstage

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

func approachConfig(stopLine float64, next string) *config.StageConfig {
	return &config.StageConfig{
		StageType: "approach",
		Approach:  &config.ApproachStage{ApproachSpeed: 5, StopLine: stopLine, Next: next},
	}
}

func frameAt(seq uint64, odometer float64) *planning.Frame {
	return planning.NewFrame(seq, planning.VehicleState{Odometer: odometer})
}

func TestApproach_RequiresConfigBlock(t *testing.T) {
	_, err := New(&config.StageConfig{StageType: "approach"}, testInjector(t))
	require.Error(t, err)
}

func TestApproach_FinishesAtStopLine(t *testing.T) {
	st, err := New(approachConfig(20, ""), testInjector(t))
	require.NoError(t, err)

	point := &planning.TrajectoryPoint{Velocity: 5}

	require.Equal(t, stage.ResultRunning, st.Process(point, frameAt(0, 0)))
	require.Equal(t, stage.ResultRunning, st.Process(point, frameAt(1, 10)))
	require.Equal(t, stage.ResultFinished, st.Process(point, frameAt(2, 19.8)))
	require.Equal(t, stage.Type("stop"), st.NextStage(), "default successor is the stop stage")
}

func TestApproach_SpeedRampsDown(t *testing.T) {
	st, err := New(approachConfig(20, ""), testInjector(t))
	require.NoError(t, err)

	point := &planning.TrajectoryPoint{Velocity: 5}

	far := frameAt(0, 0)
	st.Process(point, far)
	near := frameAt(1, 15)
	st.Process(point, near)

	require.NotEmpty(t, far.Trajectory)
	require.NotEmpty(t, near.Trajectory)
	require.Greater(t, far.Trajectory[0].Velocity, near.Trajectory[0].Velocity)
}

func TestApproach_ConfiguredSuccessor(t *testing.T) {
	st, err := New(approachConfig(5, "creep"), testInjector(t))
	require.NoError(t, err)

	point := &planning.TrajectoryPoint{Velocity: 5}
	require.Equal(t, stage.ResultRunning, st.Process(point, frameAt(0, 0)))
	require.Equal(t, stage.ResultFinished, st.Process(point, frameAt(1, 5)))
	require.Equal(t, stage.Type("creep"), st.NextStage())
}

func TestApproach_NilInputs(t *testing.T) {
	st, err := New(approachConfig(20, ""), testInjector(t))
	require.NoError(t, err)

	require.Equal(t, stage.ResultError, st.Process(nil, frameAt(0, 0)))
	require.Equal(t, stage.ResultError, st.Process(&planning.TrajectoryPoint{}, nil))
}
