package planning

import "sync"

// Context is the process-wide planning status shared with subsystems outside
// the planning loop (HMI, diagnostics, metrics). The planning loop is the
// single writer per cycle; concurrent readers take the lock only because
// they run outside the cycle discipline.
type Context struct {
	mu       sync.RWMutex
	scenario string
	stage    string
}

// NewContext returns an empty shared planning context.
func NewContext() *Context {
	return &Context{}
}

// SetScenario clears the scenario identity and records the given type as the
// currently active scenario.
func (c *Context) SetScenario(scenarioType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scenario = scenarioType
	c.stage = ""
}

// SetStage records the currently active stage type.
func (c *Context) SetStage(stageType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stage = stageType
}

// Scenario returns the currently active scenario type.
func (c *Context) Scenario() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scenario
}

// Stage returns the currently active stage type.
func (c *Context) Stage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stage
}
