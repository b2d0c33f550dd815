// Package catalog is the static registry of services a generated
// project can enable, with their option schemas, default options, and
// declared dependencies. It also resolves those dependencies against a
// set of registered services.
package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog operations.
var (
	// ErrUnknownService indicates a service name is not in the catalog.
	ErrUnknownService = errors.New("catalog: unknown service")

	// ErrDependency indicates a service dependency is not registered.
	ErrDependency = errors.New("catalog: missing service dependency")

	// ErrInvalidOption indicates a service option value is outside its schema.
	ErrInvalidOption = errors.New("catalog: invalid service option")
)

// DependencyError reports that Service needs Dependency, which is absent
// from the registered service set.
type DependencyError struct {
	Service    string
	Dependency string
}

// Error implements the error interface.
func (e *DependencyError) Error() string {
	return fmt.Sprintf("%v: service %q requires %q, which is not configured", ErrDependency, e.Service, e.Dependency)
}

// Unwrap returns ErrDependency.
func (e *DependencyError) Unwrap() error {
	return ErrDependency
}

// OptionError reports a rejected option value.
type OptionError struct {
	Service string
	Option  string
	Value   any
	Reason  string
}

// Error implements the error interface.
func (e *OptionError) Error() string {
	return fmt.Sprintf("%v: %s.%s = %v: %s", ErrInvalidOption, e.Service, e.Option, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidOption.
func (e *OptionError) Unwrap() error {
	return ErrInvalidOption
}
