package config

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern  = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	typeTagPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// SentinelStage is the reserved "no stage" tag. A stage naming it as its
// successor ends the scenario; it is never a declarable stage type.
const SentinelStage = "none"

// validatorInstance configures and returns the shared validator instance
// used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("type_tag", func(fl validator.FieldLevel) bool {
			tag := fl.Field().String()
			if tag == SentinelStage {
				return false
			}
			return typeTagPattern.MatchString(tag)
		})

		// Successor tags may additionally name the sentinel.
		_ = v.RegisterValidation("next_tag", func(fl validator.FieldLevel) bool {
			return typeTagPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns the configured validator instance for use outside the
// config package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}
