package planning

import "github.com/lucasvautier/planrun/internal/logger"

// Injector carries the cross-cutting dependencies handed to every
// constructed stage. It is owned by the planning loop; scenarios and stages
// borrow it for their lifetime.
type Injector struct {
	planningContext *Context
	log             *logger.Logger
}

// NewInjector builds an injector around the shared planning context.
func NewInjector(ctx *Context, log *logger.Logger) *Injector {
	if ctx == nil {
		ctx = NewContext()
	}
	return &Injector{planningContext: ctx, log: log}
}

// PlanningContext returns the shared planning context.
func (i *Injector) PlanningContext() *Context {
	return i.planningContext
}

// Logger returns the shared logger.
func (i *Injector) Logger() *logger.Logger {
	return i.log
}
