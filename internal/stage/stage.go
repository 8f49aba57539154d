package stage

import (
	"github.com/lucasvautier/planrun/internal/planning"
)

// Type identifies a concrete stage variant.
type Type string

// TypeNone is the reserved "no stage" sentinel. A stage that names it as
// successor declares its scenario complete; it is never a constructible
// stage type.
const TypeNone Type = "none"

// Result is a stage's own per-cycle progress report, opaque to the scenario
// controller beyond the transition policy it triggers.
type Result int

// Stage process outcomes.
const (
	ResultError Result = iota
	ResultRunning
	ResultFinished
)

// SuccessorOr resolves a configured successor tag, falling back when the
// configuration leaves it empty.
func SuccessorOr(configured string, fallback Type) Type {
	if configured == "" {
		return fallback
	}
	return Type(configured)
}

func (r Result) String() string {
	switch r {
	case ResultError:
		return "error"
	case ResultRunning:
		return "running"
	case ResultFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Stage is a single executable behavior unit within a scenario, advanced
// once per planning cycle.
//
// NextStage is meaningful only after Process has returned ResultFinished; a
// stage may pick its successor from its own runtime state, so the controller
// never precomputes it. A stage that returns its own type restarts logically
// without being reconstructed; it must re-arm its internal state before
// returning ResultFinished.
type Stage interface {
	// Process advances the stage by one planning cycle.
	Process(point *planning.TrajectoryPoint, frame *planning.Frame) Result

	// NextStage returns the self-declared successor stage type.
	NextStage() Type

	// Type returns the stage's type tag.
	Type() Type

	// Name returns the stage's display name.
	Name() string
}
