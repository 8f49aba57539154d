package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	planrunerrors "github.com/lucasvautier/planrun/pkg/errors"
)

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return planrunerrors.NewValidationError(field, msg, err)
	}

	return planrunerrors.NewValidationError("config", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}

func fieldForScenario(index int, field string) string {
	return fmt.Sprintf("scenarios[%d].%s", index, field)
}

func fieldForStage(scenarioIdx, stageIdx int, field string) string {
	return fmt.Sprintf("scenarios[%d].stage_configs[%d].%s", scenarioIdx, stageIdx, field)
}
