package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CycleMsg:
		m.cycle = msg.Event.Cycle + 1
		m.status = msg.Event.Status
		if msg.Event.Stage != "" {
			m.current = msg.Event.Stage
			m.visited[msg.Event.Stage] = true
		}
		return m, nil
	case DoneMsg:
		m.finished = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	}

	return m, nil
}
