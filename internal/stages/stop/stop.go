package stopstage

import (
	"fmt"
	"time"

	"github.com/lucasvautier/planrun/internal/config"
	"github.com/lucasvautier/planrun/internal/planning"
	"github.com/lucasvautier/planrun/internal/stage"
)

const (
	trajectoryHorizon = 8.0
	trajectoryStep    = 0.1
)

// stopStage holds the vehicle at standstill for the configured duration.
// The hold timer only runs while the vehicle actually reports standstill;
// rolling through the line resets it.
type stopStage struct {
	cfg      *config.StopStage
	injector *planning.Injector

	next      stage.Type
	holdSince time.Time
}

// New creates a stop stage from its configuration block.
func New(cfg *config.StageConfig, injector *planning.Injector) (stage.Stage, error) {
	if cfg.Stop == nil {
		return nil, fmt.Errorf("stop configuration missing")
	}

	if injector != nil {
		injector.PlanningContext().SetStage(cfg.StageType)
	}

	return &stopStage{
		cfg:      cfg.Stop,
		injector: injector,
		next:     "stop",
	}, nil
}

var _ stage.Stage = (*stopStage)(nil)

func (s *stopStage) Process(point *planning.TrajectoryPoint, frame *planning.Frame) stage.Result {
	if point == nil || frame == nil {
		return stage.ResultError
	}

	frame.Trajectory = planning.Rollout(*point, 0, trajectoryHorizon, trajectoryStep)

	if !frame.Vehicle.Standstill {
		s.holdSince = time.Time{}
		return stage.ResultRunning
	}

	if s.holdSince.IsZero() {
		s.holdSince = frame.Timestamp
		return stage.ResultRunning
	}

	held := frame.Timestamp.Sub(s.holdSince).Seconds()
	if held >= s.cfg.HoldSeconds {
		s.next = stage.SuccessorOr(s.cfg.Next, stage.TypeNone)
		return stage.ResultFinished
	}

	return stage.ResultRunning
}

func (s *stopStage) NextStage() stage.Type { return s.next }
func (s *stopStage) Type() stage.Type      { return "stop" }
func (s *stopStage) Name() string          { return "stop" }
