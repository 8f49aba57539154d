package config

import (
	"fmt"

	planrunerrors "github.com/lucasvautier/planrun/pkg/errors"
)

// ValidateConfig performs structural and cross-field validation on an entire
// configuration document.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return planrunerrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	scenarioIndex := make(map[string]int, len(cfg.Scenarios))

	for i := range cfg.Scenarios {
		scenario := &cfg.Scenarios[i]
		if _, exists := scenarioIndex[scenario.ScenarioType]; exists {
			return planrunerrors.NewValidationError(fieldForScenario(i, "scenario_type"),
				fmt.Sprintf("duplicate scenario type %q", scenario.ScenarioType), nil)
		}

		if err := ValidateScenario(scenario, i); err != nil {
			return err
		}

		scenarioIndex[scenario.ScenarioType] = i
	}

	return nil
}

// ValidateScenario validates a single scenario configuration: stage blocks
// are well-formed, no stage type is configured twice, and every declared
// stage type has a configuration block. The controller re-checks the stage
// coverage invariant at Init; catching it here surfaces the defect with the
// document position attached.
func ValidateScenario(scenario *ScenarioConfig, index int) error {
	configured := make(map[string]struct{}, len(scenario.StageConfigs))
	for j := range scenario.StageConfigs {
		sc := &scenario.StageConfigs[j]
		if _, exists := configured[sc.StageType]; exists {
			return planrunerrors.NewValidationError(fieldForStage(index, j, "stage_type"),
				fmt.Sprintf("duplicate stage config for type %q", sc.StageType), nil)
		}
		configured[sc.StageType] = struct{}{}

		if err := validateStageBlock(sc, index, j); err != nil {
			return err
		}
	}

	for _, declared := range scenario.Stages {
		if _, ok := configured[declared]; !ok {
			return planrunerrors.NewValidationError(fieldForScenario(index, "stages"),
				fmt.Sprintf("declared stage type %q has no config block", declared), nil)
		}
	}

	return nil
}

func validateStageBlock(sc *StageConfig, scenarioIdx, stageIdx int) error {
	v := validatorInstance()

	switch sc.StageType {
	case "cruise":
		if sc.Cruise == nil {
			return planrunerrors.NewValidationError(fieldForStage(scenarioIdx, stageIdx, "cruise"),
				"cruise configuration is required", nil)
		}
		if err := v.Struct(sc.Cruise); err != nil {
			return convertValidationError(err)
		}
	case "approach":
		if sc.Approach == nil {
			return planrunerrors.NewValidationError(fieldForStage(scenarioIdx, stageIdx, "approach"),
				"approach configuration is required", nil)
		}
		if err := v.Struct(sc.Approach); err != nil {
			return convertValidationError(err)
		}
	case "stop":
		if sc.Stop == nil {
			return planrunerrors.NewValidationError(fieldForStage(scenarioIdx, stageIdx, "stop"),
				"stop configuration is required", nil)
		}
		if err := v.Struct(sc.Stop); err != nil {
			return convertValidationError(err)
		}
	case "creep":
		if sc.Creep == nil {
			return planrunerrors.NewValidationError(fieldForStage(scenarioIdx, stageIdx, "creep"),
				"creep configuration is required", nil)
		}
		if err := v.Struct(sc.Creep); err != nil {
			return convertValidationError(err)
		}
	default:
		return planrunerrors.NewValidationError(fieldForStage(scenarioIdx, stageIdx, "stage_type"),
			fmt.Sprintf("unknown stage type %q", sc.StageType), nil)
	}

	return nil
}
