// Package config reads and writes the declarative project description
// (YAML, JSON or HCL), validates it, and turns it into a structure.Model
// ready for generation.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/munjed-ab/djcraft/internal/structure"
)

// Sentinel errors for configuration operations.
var (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrUnsupportedFormat indicates a file extension other than
	// .yaml, .yml, .json or .hcl.
	ErrUnsupportedFormat = errors.New("config: unsupported format, use .yaml, .yml, .json or .hcl")

	// ErrInvalidSyntax indicates the file could not be parsed.
	ErrInvalidSyntax = errors.New("config: invalid syntax")
)

// ValidationError represents a single validation error with field context.
type ValidationError struct {
	Field   string
	Message string
	Value   any
	Wrapped error // underlying sentinel error for errors.Is support
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil && e.Value != "" {
		return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}

// ValidationErrors is every problem found in one document.
type ValidationErrors struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation: no errors"
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation failed with %d error(s): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Is matches ErrInvalidConfig, structure.ErrConfiguration, and the
// wrapped error of any contained ValidationError.
func (e *ValidationErrors) Is(target error) bool {
	if target == ErrInvalidConfig || target == structure.ErrConfiguration {
		return true
	}
	for _, ve := range e.Errors {
		if ve.Wrapped != nil && errors.Is(ve.Wrapped, target) {
			return true
		}
	}
	return false
}

// Messages returns one line per error, in order.
func (e *ValidationErrors) Messages() []string {
	out := make([]string, len(e.Errors))
	for i := range e.Errors {
		out[i] = e.Errors[i].Error()
	}
	return out
}
