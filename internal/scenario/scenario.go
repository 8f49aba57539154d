package scenario

import (
	"fmt"

	"github.com/lucasvautier/planrun/internal/config"
	"github.com/lucasvautier/planrun/internal/logger"
	"github.com/lucasvautier/planrun/internal/planning"
	"github.com/lucasvautier/planrun/internal/stage"
	planrunerrors "github.com/lucasvautier/planrun/pkg/errors"
)

// Context carries read-only environment facts scenarios may consult. It is
// owned by the planning loop and shared across scenario instances.
type Context struct {
	VehicleID string
	MapName   string
}

// Scenario drives one declared driving behavior through its ordered stages,
// advancing exactly one stage execution per planning cycle.
//
// A Scenario borrows its configuration and the injector; it exclusively owns
// at most one live stage instance at a time, constructed lazily: the entry
// stage at Init, each successor only at the moment of transition.
type Scenario struct {
	cfg         *config.ScenarioConfig
	scenarioCtx *Context
	registry    *stage.Registry
	injector    *planning.Injector
	log         *logger.Logger

	name         string
	stageConfigs map[stage.Type]*config.StageConfig
	current      stage.Stage
	status       Status
}

// New constructs a scenario controller. No validation happens here; Init
// performs the configuration checks.
func New(cfg *config.ScenarioConfig, scenarioCtx *Context, registry *stage.Registry, injector *planning.Injector, log *logger.Logger) *Scenario {
	name := ""
	if cfg != nil {
		name = cfg.ScenarioType
	}
	return &Scenario{
		cfg:         cfg,
		scenarioCtx: scenarioCtx,
		registry:    registry,
		injector:    injector,
		log:         log.WithScenario(name),
		name:        name,
		status:      StatusUnknown,
	}
}

// Init validates the scenario configuration, publishes the scenario identity
// to the shared planning context, builds the stage-configuration index, and
// constructs the entry stage. It must be called exactly once before Process.
//
// An empty declared stage list or a declared stage type with no config block
// is a configuration-authoring defect and returned as a ValidationError;
// startup must stop on it. A factory failure for the entry stage is the
// runtime tier: the scenario starts with no live stage and Process reports
// StatusUnknown until the caller reacts.
func (s *Scenario) Init() error {
	if s.cfg == nil {
		return planrunerrors.NewValidationError("scenario", "configuration is nil", nil)
	}
	if len(s.cfg.Stages) == 0 {
		return planrunerrors.NewValidationError(s.name, "scenario declares no stages", nil)
	}

	s.injector.PlanningContext().SetScenario(s.cfg.ScenarioType)

	s.stageConfigs = make(map[stage.Type]*config.StageConfig, len(s.cfg.StageConfigs))
	for i := range s.cfg.StageConfigs {
		sc := &s.cfg.StageConfigs[i]
		s.stageConfigs[stage.Type(sc.StageType)] = sc
	}

	for _, declared := range s.cfg.Stages {
		if _, ok := s.stageConfigs[stage.Type(declared)]; !ok {
			return planrunerrors.NewValidationError(s.name,
				fmt.Sprintf("stage type %q has no config", declared), nil)
		}
	}

	entry := stage.Type(s.cfg.Stages[0])
	s.log.WithFields(map[string]any{"stage": string(entry)}).Debug("init stage")

	st, err := s.registry.Create(s.stageConfigs[entry], s.injector)
	if err != nil {
		s.log.Error(err, "failed to create entry stage")
		s.current = nil
		return nil
	}
	s.current = st

	return nil
}

// Process advances the current stage by one planning cycle and applies the
// transition policy to its outcome.
func (s *Scenario) Process(point *planning.TrajectoryPoint, frame *planning.Frame) Status {
	if s.current == nil {
		s.log.Warn("current stage is nil")
		return StatusUnknown
	}
	if s.current.Type() == stage.TypeNone {
		s.status = StatusDone
		return s.status
	}

	ret := s.current.Process(point, frame)
	switch ret {
	case stage.ResultError:
		s.log.WithFields(map[string]any{"stage": s.current.Name()}).
			Error(nil, "stage returned error")
		s.status = StatusUnknown
	case stage.ResultRunning:
		s.status = StatusProcessing
	case stage.ResultFinished:
		next := s.current.NextStage()
		if next != s.current.Type() {
			s.log.WithFields(map[string]any{
				"from": s.current.Name(),
				"to":   string(next),
			}).Info("switch stage")
			if next == stage.TypeNone {
				s.status = StatusDone
				return s.status
			}
			nextCfg, ok := s.stageConfigs[next]
			if !ok {
				s.log.WithFields(map[string]any{"stage": string(next)}).
					Error(nil, "no config for next stage")
				s.status = StatusUnknown
				return s.status
			}
			st, err := s.registry.Create(nextCfg, s.injector)
			if err != nil {
				s.log.Error(err, "failed to create next stage")
				s.current = nil
				return StatusUnknown
			}
			s.current = st
		}
		if s.current != nil && s.current.Type() != stage.TypeNone {
			s.status = StatusProcessing
		} else {
			s.status = StatusDone
		}
	default:
		s.log.WithFields(map[string]any{"result": ret.String()}).
			Warn("unexpected stage result")
		s.status = StatusUnknown
	}

	return s.status
}

// Name returns the scenario's display name, fixed at construction.
func (s *Scenario) Name() string {
	return s.name
}

// Current returns the live stage instance, or nil when construction failed.
func (s *Scenario) Current() stage.Stage {
	return s.current
}
