// Package generator turns a validated structure.Model into a Django
// project on disk. Generators run in a fixed order: base files, core
// files, apps, services, and finally the requirements file.
package generator

import (
	"errors"
	"fmt"
)

// Sentinel errors for generation.
var (
	// ErrInvalidStructure indicates the model failed ValidateStructure.
	ErrInvalidStructure = errors.New("generator: invalid project structure")

	// ErrStageFailed indicates a structural stage (base or core files) failed
	// and generation stopped.
	ErrStageFailed = errors.New("generator: stage failed")

	// ErrUnknownFeature indicates an unsupported app feature name.
	ErrUnknownFeature = errors.New("generator: unknown app feature")

	// errSettingsMissing is returned by patchSettings when the settings
	// module has not been written.
	errSettingsMissing = errors.New("generator: settings module missing")
)

// Stage names a generation step.
type Stage string

const (
	StageBase         Stage = "base"
	StageCore         Stage = "core"
	StageApps         Stage = "apps"
	StageServices     Stage = "services"
	StageRequirements Stage = "requirements"
)

// ItemError records the failure of one app or service. Generation
// continues past an ItemError.
type ItemError struct {
	Stage Stage
	Item  string
	Err   error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Stage, e.Item, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ItemError) Unwrap() error {
	return e.Err
}
