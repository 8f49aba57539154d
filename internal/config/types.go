package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the full planner configuration document.
type Config struct {
	Version     string           `yaml:"version" validate:"required,semver"`
	Name        string           `yaml:"name" validate:"required,min=1,max=100"`
	Description string           `yaml:"description,omitempty"`
	Settings    Settings         `yaml:"settings,omitempty"`
	Scenarios   []ScenarioConfig `yaml:"scenarios" validate:"required,min=1,dive"`
}

// Settings holds global planning-loop parameters.
type Settings struct {
	CycleRateHz int    `yaml:"cycle_rate_hz,omitempty" validate:"omitempty,min=1,max=1000"`
	MaxCycles   int    `yaml:"max_cycles,omitempty" validate:"omitempty,min=1"`
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
	Verbose     bool   `yaml:"verbose,omitempty"`
}

// ScenarioConfig describes one driving scenario: its type, the declared
// stage traversal order, and the per-stage configuration blocks. The first
// entry of Stages is the entry stage.
type ScenarioConfig struct {
	ScenarioType string        `yaml:"scenario_type" validate:"required,type_tag"`
	Description  string        `yaml:"description,omitempty"`
	Stages       []string      `yaml:"stages" validate:"required,min=1,dive,type_tag"`
	StageConfigs []StageConfig `yaml:"stage_configs" validate:"required,min=1,dive"`
}

// StageConfig describes an individual stage of a scenario.
type StageConfig struct {
	StageType string `yaml:"stage_type" validate:"required,oneof=cruise approach stop creep"`
	Name      string `yaml:"name,omitempty"`

	Cruise   *CruiseStage   `yaml:",inline,omitempty"`
	Approach *ApproachStage `yaml:",inline,omitempty"`
	Stop     *StopStage     `yaml:",inline,omitempty"`
	Creep    *CreepStage    `yaml:",inline,omitempty"`
}

// UnmarshalYAML customises stage decoding to populate type-specific
// structures without conflicts.
func (s *StageConfig) UnmarshalYAML(value *yaml.Node) error {
	type baseStage struct {
		StageType string `yaml:"stage_type"`
		Name      string `yaml:"name"`
	}

	var base baseStage
	if err := value.Decode(&base); err != nil {
		return err
	}

	s.StageType = base.StageType
	s.Name = base.Name

	s.Cruise = nil
	s.Approach = nil
	s.Stop = nil
	s.Creep = nil

	switch base.StageType {
	case "cruise":
		var cruise CruiseStage
		if err := value.Decode(&cruise); err != nil {
			return err
		}
		s.Cruise = &cruise
	case "approach":
		var approach ApproachStage
		if err := value.Decode(&approach); err != nil {
			return err
		}
		s.Approach = &approach
	case "stop":
		var stop StopStage
		if err := value.Decode(&stop); err != nil {
			return err
		}
		s.Stop = &stop
	case "creep":
		var creep CreepStage
		if err := value.Decode(&creep); err != nil {
			return err
		}
		s.Creep = &creep
	}

	return nil
}

// CruiseStage follows the lane at a target speed for a set distance.
type CruiseStage struct {
	CruiseSpeed float64 `yaml:"cruise_speed" validate:"required,gt=0"`
	Distance    float64 `yaml:"distance" validate:"required,gt=0"`
	Next        string  `yaml:"next,omitempty" validate:"omitempty,next_tag"`
}

// ApproachStage decelerates toward a stop point.
type ApproachStage struct {
	ApproachSpeed float64 `yaml:"approach_speed" validate:"required,gt=0"`
	StopLine      float64 `yaml:"stop_line" validate:"required,gt=0"`
	Tolerance     float64 `yaml:"tolerance,omitempty" validate:"omitempty,gt=0"`
	Next          string  `yaml:"next,omitempty" validate:"omitempty,next_tag"`
}

// StopStage holds the vehicle at standstill for a duration.
type StopStage struct {
	HoldSeconds float64 `yaml:"hold_seconds" validate:"required,gt=0"`
	Next        string  `yaml:"next,omitempty" validate:"omitempty,next_tag"`
}

// CreepStage inches forward at low speed to clear an occlusion.
type CreepStage struct {
	CreepSpeed    float64 `yaml:"creep_speed" validate:"required,gt=0"`
	CreepDistance float64 `yaml:"creep_distance" validate:"required,gt=0"`
	Next          string  `yaml:"next,omitempty" validate:"omitempty,next_tag"`
}

// UnmarshalYAML applies the stop stage hold default.
func (s *StopStage) UnmarshalYAML(value *yaml.Node) error {
	type rawStop StopStage
	var temp rawStop
	if err := value.Decode(&temp); err != nil {
		return err
	}
	*s = StopStage(temp)
	if !hasYAMLKey(value, "hold_seconds") {
		s.HoldSeconds = 3.0
	}
	return nil
}

// ScenarioMap builds a lookup table for scenarios by type.
func ScenarioMap(scenarios []ScenarioConfig) map[string]*ScenarioConfig {
	out := make(map[string]*ScenarioConfig, len(scenarios))
	for i := range scenarios {
		out[scenarios[i].ScenarioType] = &scenarios[i]
	}
	return out
}

func hasYAMLKey(node *yaml.Node, key string) bool {
	if node == nil || node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i < len(node.Content); i += 2 {
		k := node.Content[i]
		if strings.EqualFold(k.Value, key) {
			return true
		}
	}
	return false
}
