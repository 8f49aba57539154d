package cruisestage

import (
	"fmt"

	"github.com/lucasvautier/planrun/internal/config"
	"github.com/lucasvautier/planrun/internal/planning"
	"github.com/lucasvautier/planrun/internal/stage"
)

const (
	trajectoryHorizon = 8.0
	trajectoryStep    = 0.1
)

// cruiseStage follows the lane at a configured speed until it has covered
// the configured distance, then hands over to its configured successor.
type cruiseStage struct {
	cfg      *config.CruiseStage
	injector *planning.Injector

	next     stage.Type
	started  bool
	startOdo float64
}

// New creates a cruise stage from its configuration block.
func New(cfg *config.StageConfig, injector *planning.Injector) (stage.Stage, error) {
	if cfg.Cruise == nil {
		return nil, fmt.Errorf("cruise configuration missing")
	}

	if injector != nil {
		injector.PlanningContext().SetStage(cfg.StageType)
	}

	return &cruiseStage{
		cfg:      cfg.Cruise,
		injector: injector,
		next:     "cruise",
	}, nil
}

var _ stage.Stage = (*cruiseStage)(nil)

func (s *cruiseStage) Process(point *planning.TrajectoryPoint, frame *planning.Frame) stage.Result {
	if point == nil || frame == nil {
		return stage.ResultError
	}

	if !s.started {
		s.started = true
		s.startOdo = frame.Vehicle.Odometer
	}

	frame.Trajectory = planning.Rollout(*point, s.cfg.CruiseSpeed, trajectoryHorizon, trajectoryStep)

	if frame.Vehicle.Odometer-s.startOdo >= s.cfg.Distance {
		s.next = stage.SuccessorOr(s.cfg.Next, stage.TypeNone)
		return stage.ResultFinished
	}

	return stage.ResultRunning
}

func (s *cruiseStage) NextStage() stage.Type { return s.next }
func (s *cruiseStage) Type() stage.Type      { return "cruise" }
func (s *cruiseStage) Name() string          { return "cruise" }
