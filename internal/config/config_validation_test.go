package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	planrunerrors "github.com/lucasvautier/planrun/pkg/errors"
)

func validConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Name:    "test",
		Scenarios: []ScenarioConfig{{
			ScenarioType: "lane_follow",
			Stages:       []string{"cruise"},
			StageConfigs: []StageConfig{{
				StageType: "cruise",
				Cruise:    &CruiseStage{CruiseSpeed: 10, Distance: 100},
			}},
		}},
	}
}

func requireValidationError(t *testing.T, err error, fragment string) {
	t.Helper()
	require.Error(t, err)
	var validationErr *planrunerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.True(t, strings.Contains(err.Error(), fragment),
		"expected %q in %q", fragment, err.Error())
}

func TestValidateConfig_Valid(t *testing.T) {
	require.NoError(t, ValidateConfig(validConfig()))
}

func TestValidateConfig_Nil(t *testing.T) {
	require.Error(t, ValidateConfig(nil))
}

func TestValidateConfig_RequiresScenarios(t *testing.T) {
	cfg := validConfig()
	cfg.Scenarios = nil
	require.Error(t, ValidateConfig(cfg))
}

func TestValidateConfig_DuplicateScenarioType(t *testing.T) {
	cfg := validConfig()
	cfg.Scenarios = append(cfg.Scenarios, cfg.Scenarios[0])
	requireValidationError(t, ValidateConfig(cfg), "duplicate scenario type")
}

func TestValidateConfig_DeclaredStageWithoutConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Scenarios[0].Stages = append(cfg.Scenarios[0].Stages, "stop")
	requireValidationError(t, ValidateConfig(cfg), "no config block")
}

func TestValidateConfig_DuplicateStageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Scenarios[0].StageConfigs = append(cfg.Scenarios[0].StageConfigs,
		cfg.Scenarios[0].StageConfigs[0])
	requireValidationError(t, ValidateConfig(cfg), "duplicate stage config")
}

func TestValidateConfig_MissingStageBlock(t *testing.T) {
	cfg := validConfig()
	cfg.Scenarios[0].StageConfigs[0].Cruise = nil
	requireValidationError(t, ValidateConfig(cfg), "cruise configuration is required")
}

func TestValidateConfig_RejectsSentinelAsDeclaredStage(t *testing.T) {
	cfg := validConfig()
	cfg.Scenarios[0].Stages = []string{"none"}
	require.Error(t, ValidateConfig(cfg))
}

func TestValidateConfig_RejectsNonPositiveSpeeds(t *testing.T) {
	cfg := validConfig()
	cfg.Scenarios[0].StageConfigs[0].Cruise.CruiseSpeed = 0
	require.Error(t, ValidateConfig(cfg))
}
