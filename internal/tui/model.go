package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lucasvautier/planrun/internal/driver"
	"github.com/lucasvautier/planrun/internal/scenario"
	"github.com/lucasvautier/planrun/internal/tui/components"
)

// CycleMsg carries one completed planning cycle into the monitor.
type CycleMsg struct {
	Event driver.Event
}

// DoneMsg reports that the run has ended.
type DoneMsg struct {
	Result *driver.Result
	Err    error
}

// Model contains the Bubbletea state for the live run monitor.
type Model struct {
	scenarioName string
	stages       []string
	current      string
	visited      map[string]bool
	cycle        uint64
	status       scenario.Status
	result       *driver.Result
	err          error
	finished     bool
	cancelled    bool
	progress     components.Progress
}

// NewModel constructs a monitor for a scenario with the given declared
// stage order.
func NewModel(scenarioName string, stages []string) Model {
	return Model{
		scenarioName: scenarioName,
		stages:       stages,
		visited:      make(map[string]bool),
		progress:     components.NewProgress(len(stages)),
	}
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return nil
}

// IsFinished reports whether the run has ended.
func (m Model) IsFinished() bool {
	return m.finished
}

// IsCancelled reports whether the user interrupted the run.
func (m Model) IsCancelled() bool {
	return m.cancelled
}

// CurrentStage returns the stage executing in the most recent cycle.
func (m Model) CurrentStage() string {
	return m.current
}

func (m Model) completedStages() int {
	count := 0
	for _, s := range m.stages {
		if m.visited[s] && s != m.current {
			count++
		}
	}
	if m.finished && m.err == nil {
		count = len(m.stages)
	}
	return count
}
