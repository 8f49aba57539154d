package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lucasvautier/planrun/internal/scenario"
)

// View renders the current state of the monitor.
func (m Model) View() string {
	var sections []string

	title := titleStyle.Render(fmt.Sprintf("planrun • %s", m.scenarioName))
	sections = append(sections, title)

	sections = append(sections, sectionStyle.Render("Stages"), m.renderStages())

	progress := m.progress.View(m.completedStages())
	sections = append(sections, sectionStyle.Render("Progress"), progress)

	cycleLine := fmt.Sprintf(" cycle %d: %s", m.cycle, m.renderStatus())
	sections = append(sections, sectionStyle.Render("Cycle"), cycleLine)

	if m.finished {
		sections = append(sections, summaryStyle.Render(m.renderSummary()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStages() string {
	var lines []string
	for _, s := range m.stages {
		icon := pendingStyle.Render("…")
		switch {
		case s == m.current && !m.finished:
			icon = runningStyle.Render("⏳")
		case m.visited[s]:
			icon = doneStyle.Render("✓")
		}
		lines = append(lines, fmt.Sprintf(" %s %s", icon, s))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	switch m.status {
	case scenario.StatusProcessing:
		return runningStyle.Render(m.status.String())
	case scenario.StatusDone:
		return doneStyle.Render(m.status.String())
	default:
		return failureStyle.Render(m.status.String())
	}
}

func (m Model) renderSummary() string {
	switch {
	case m.cancelled:
		return failureStyle.Render("run cancelled")
	case m.err != nil:
		return failureStyle.Render(fmt.Sprintf("run failed: %v", m.err))
	case m.result != nil:
		return doneStyle.Render(fmt.Sprintf("scenario complete in %d cycles (%s)",
			m.result.Cycles, m.result.Duration.Truncate(10*time.Millisecond)))
	default:
		return doneStyle.Render("run finished")
	}
}
