// Package stages wires the built-in stage implementations into a registry.
package stages

import (
	"github.com/lucasvautier/planrun/internal/stage"
	approachstage "github.com/lucasvautier/planrun/internal/stages/approach"
	creepstage "github.com/lucasvautier/planrun/internal/stages/creep"
	cruisestage "github.com/lucasvautier/planrun/internal/stages/cruise"
	stopstage "github.com/lucasvautier/planrun/internal/stages/stop"
)

// RegisterDefaults registers every built-in stage type.
func RegisterDefaults(r *stage.Registry) error {
	if err := r.Register("cruise", cruisestage.New); err != nil {
		return err
	}
	if err := r.Register("approach", approachstage.New); err != nil {
		return err
	}
	if err := r.Register("stop", stopstage.New); err != nil {
		return err
	}
	if err := r.Register("creep", creepstage.New); err != nil {
		return err
	}
	return nil
}
