package main

import (
	"github.com/lucasvautier/planrun/internal/stage"
	"github.com/lucasvautier/planrun/internal/stages"
)

// registerStages installs the built-in stage implementations into the
// registry the CLI hands to every command.
func registerStages(registry *stage.Registry) error {
	return stages.RegisterDefaults(registry)
}
