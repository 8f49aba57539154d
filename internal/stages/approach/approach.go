package approachstage

import (
	"fmt"

	"github.com/lucasvautier/planrun/internal/config"
	"github.com/lucasvautier/planrun/internal/planning"
	"github.com/lucasvautier/planrun/internal/stage"
)

const (
	trajectoryHorizon = 8.0
	trajectoryStep    = 0.1
	defaultTolerance  = 0.5
)

// approachStage decelerates toward a stop line a fixed distance ahead of
// where the stage began. It finishes once the vehicle is within tolerance
// of the line and hands over to the stop stage unless configured otherwise.
type approachStage struct {
	cfg      *config.ApproachStage
	injector *planning.Injector

	next      stage.Type
	tolerance float64
	started   bool
	startOdo  float64
}

// New creates an approach stage from its configuration block.
func New(cfg *config.StageConfig, injector *planning.Injector) (stage.Stage, error) {
	if cfg.Approach == nil {
		return nil, fmt.Errorf("approach configuration missing")
	}

	tolerance := cfg.Approach.Tolerance
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}

	if injector != nil {
		injector.PlanningContext().SetStage(cfg.StageType)
	}

	return &approachStage{
		cfg:       cfg.Approach,
		injector:  injector,
		next:      "approach",
		tolerance: tolerance,
	}, nil
}

var _ stage.Stage = (*approachStage)(nil)

func (s *approachStage) Process(point *planning.TrajectoryPoint, frame *planning.Frame) stage.Result {
	if point == nil || frame == nil {
		return stage.ResultError
	}

	if !s.started {
		s.started = true
		s.startOdo = frame.Vehicle.Odometer
	}

	remaining := s.cfg.StopLine - (frame.Vehicle.Odometer - s.startOdo)
	if remaining <= s.tolerance {
		frame.Trajectory = planning.Rollout(*point, 0, trajectoryHorizon, trajectoryStep)
		s.next = stage.SuccessorOr(s.cfg.Next, "stop")
		return stage.ResultFinished
	}

	// Ramp the speed down linearly with remaining distance so the vehicle
	// arrives at the line near standstill.
	speed := s.cfg.ApproachSpeed * remaining / s.cfg.StopLine
	frame.Trajectory = planning.Rollout(*point, speed, trajectoryHorizon, trajectoryStep)

	return stage.ResultRunning
}

func (s *approachStage) NextStage() stage.Type { return s.next }
func (s *approachStage) Type() stage.Type      { return "approach" }
func (s *approachStage) Name() string          { return "approach" }
