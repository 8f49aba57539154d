package creepstage

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

// creepStage inches forward at low speed until the configured distance has
// been covered, clearing an occluded view before normal driving resumes.
type creepStage struct {
	cfg      *config.CreepStage
	injector *planning.Injector

	next     stage.Type
	started  bool
	startOdo float64
}

// New creates a creep stage from its configuration block.
func New(cfg *config.StageConfig, injector *planning.Injector) (stage.Stage, error) {
	if cfg.Creep == nil {
		return nil, fmt.Errorf("creep configuration missing")
	}

	if injector != nil {
		injector.PlanningContext().SetStage(cfg.StageType)
	}

	return &creepStage{
		cfg:      cfg.Creep,
		injector: injector,
		next:     "creep",
	}, nil
}

var _ stage.Stage = (*creepStage)(nil)

func (s *creepStage) Process(point *planning.TrajectoryPoint, frame *planning.Frame) stage.Result {
	if point == nil || frame == nil {
		return stage.ResultError
	}

	if !s.started {
		s.started = true
		s.startOdo = frame.Vehicle.Odometer
	}

	frame.Trajectory = planning.Rollout(*point, s.cfg.CreepSpeed, trajectoryHorizon, trajectoryStep)

	if frame.Vehicle.Odometer-s.startOdo >= s.cfg.CreepDistance {
		s.next = stage.SuccessorOr(s.cfg.Next, stage.TypeNone)
		return stage.ResultFinished
	}

	return stage.ResultRunning
}

func (s *creepStage) NextStage() stage.Type { return s.next }
func (s *creepStage) Type() stage.Type      { return "creep" }
func (s *creepStage) Name() string          { return "creep" }
