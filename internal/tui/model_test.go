package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/lucasvautier/planrun/internal/driver"
	"github.com/lucasvautier/planrun/internal/scenario"
)

func TestNewModel(t *testing.T) {
	t.Parallel()

	m := NewModel("lane_follow", []string{"cruise", "stop"})
	require.Equal(t, "lane_follow", m.scenarioName)
	require.Equal(t, []string{"cruise", "stop"}, m.stages)
	require.False(t, m.IsFinished())
	require.Empty(t, m.CurrentStage())
	require.Nil(t, m.Init())
}

func TestUpdateCycleMsg(t *testing.T) {
	t.Parallel()

	m := NewModel("lane_follow", []string{"cruise", "stop"})
	updated, cmd := m.Update(CycleMsg{Event: driver.Event{
		Cycle:    0,
		Scenario: "lane_follow",
		Stage:    "cruise",
		Status:   scenario.StatusProcessing,
	}})
	require.Nil(t, cmd)

	model := updated.(Model)
	require.Equal(t, uint64(1), model.cycle)
	require.Equal(t, "cruise", model.CurrentStage())
	require.True(t, model.visited["cruise"])
	require.False(t, model.IsFinished())
}

func TestUpdateDoneMsg(t *testing.T) {
	t.Parallel()

	t.Run("success quits with result", func(t *testing.T) {
		t.Parallel()
		m := NewModel("lane_follow", []string{"cruise"})
		updated, cmd := m.Update(DoneMsg{Result: &driver.Result{
			Scenario:    "lane_follow",
			Cycles:      12,
			FinalStatus: scenario.StatusDone,
			Duration:    120 * time.Millisecond,
		}})
		require.NotNil(t, cmd)

		model := updated.(Model)
		require.True(t, model.IsFinished())
		require.False(t, model.IsCancelled())
		require.NoError(t, model.err)
	})

	t.Run("failure records error", func(t *testing.T) {
		t.Parallel()
		m := NewModel("lane_follow", []string{"cruise"})
		updated, _ := m.Update(DoneMsg{Err: errors.New("stage fault")})

		model := updated.(Model)
		require.True(t, model.IsFinished())
		require.Error(t, model.err)
	})
}

func TestUpdateCtrlC(t *testing.T) {
	t.Parallel()

	m := NewModel("lane_follow", []string{"cruise"})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)

	model := updated.(Model)
	require.True(t, model.IsCancelled())
	require.True(t, model.IsFinished())
}

func TestViewRendersStagesAndSummary(t *testing.T) {
	t.Parallel()

	m := NewModel("lane_follow", []string{"cruise", "stop"})
	updated, _ := m.Update(CycleMsg{Event: driver.Event{
		Cycle:  3,
		Stage:  "cruise",
		Status: scenario.StatusProcessing,
	}})
	model := updated.(Model)

	view := model.View()
	require.Contains(t, view, "lane_follow")
	require.Contains(t, view, "cruise")
	require.Contains(t, view, "stop")
	require.Contains(t, view, "cycle 4")

	done, _ := model.Update(DoneMsg{Result: &driver.Result{
		Cycles:      4,
		FinalStatus: scenario.StatusDone,
		Duration:    time.Second,
	}})
	view = done.(Model).View()
	require.Contains(t, view, "scenario complete in 4 cycles")
}

func TestCompletedStages(t *testing.T) {
	t.Parallel()

	m := NewModel("lane_follow", []string{"cruise", "stop"})
	require.Equal(t, 0, m.completedStages())

	updated, _ := m.Update(CycleMsg{Event: driver.Event{Stage: "cruise", Status: scenario.StatusProcessing}})
	updated, _ = updated.(Model).Update(CycleMsg{Event: driver.Event{Stage: "stop", Status: scenario.StatusProcessing}})
	model := updated.(Model)
	require.Equal(t, 1, model.completedStages())

	done, _ := model.Update(DoneMsg{Result: &driver.Result{FinalStatus: scenario.StatusDone}})
	require.Equal(t, 2, done.(Model).completedStages())
}
