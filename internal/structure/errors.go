// Package structure models the layout of a generated Django project:
// its directory tree, app registry, core location, and service list.
// Every mutation enforces the containment rules eagerly, and
// ValidateStructure re-checks them all without failing fast.
package structure

import (
	"errors"
	"fmt"
)

// Sentinel errors for structure operations. Concrete failures are
// reported as *Error values that unwrap to one of these.
var (
	// ErrInvalidProjectName indicates a project name failed validation.
	ErrInvalidProjectName = errors.New("structure: invalid project name")

	// ErrInvalidAppName indicates an app name failed validation.
	ErrInvalidAppName = errors.New("structure: invalid app name")

	// ErrInvalidDirectoryName indicates a directory name failed validation.
	ErrInvalidDirectoryName = errors.New("structure: invalid directory name")

	// ErrInvalidPath indicates a referenced directory path does not exist
	// or is malformed.
	ErrInvalidPath = errors.New("structure: invalid path")

	// ErrStructureValidation indicates a containment or uniqueness rule
	// was violated.
	ErrStructureValidation = errors.New("structure: validation failed")

	// ErrConfiguration indicates an unsupported setting value, such as an
	// unknown core location type or service name.
	ErrConfiguration = errors.New("structure: invalid configuration")
)

// Error describes a single structure rule violation.
type Error struct {
	Kind    error  // one of the sentinel errors above
	Subject string // offending name or path, may be empty
	Reason  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%v %q: %s", e.Kind, e.Subject, e.Reason)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

// Unwrap returns the sentinel kind for errors.Is support.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, subject, format string, args ...any) *Error {
	return &Error{Kind: kind, Subject: subject, Reason: fmt.Sprintf(format, args...)}
}
