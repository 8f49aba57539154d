package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration-authoring defects. This is the
// fatal tier: a scenario carrying a ValidationError must not start.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StageError indicates a failure registering or constructing a stage.
type StageError struct {
	StageType string
	Message   string
	Err       error
}

// NewStageError constructs a StageError for the given stage type.
func NewStageError(stageType string, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &StageError{StageType: stageType, Message: message, Err: err}
}

func (e *StageError) Error() string {
	if e == nil {
		return ""
	}
	if e.StageType != "" {
		return fmt.Sprintf("stage error [%s]: %s", e.StageType, e.Message)
	}
	return fmt.Sprintf("stage error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ScenarioError represents a runtime fault while driving a scenario.
type ScenarioError struct {
	Scenario string
	Err      error
}

// NewScenarioError constructs a ScenarioError.
func NewScenarioError(scenario string, err error) error {
	return &ScenarioError{Scenario: scenario, Err: err}
}

func (e *ScenarioError) Error() string {
	if e == nil {
		return ""
	}
	if e.Scenario != "" {
		return fmt.Sprintf("scenario error on %s: %v", e.Scenario, e.Err)
	}
	return fmt.Sprintf("scenario error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ScenarioError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
