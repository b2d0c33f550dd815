// Package template renders the embedded Django project templates and
// writes the results under a project root.
package template

import (
	"errors"
	"fmt"
)

// Sentinel errors for template operations.
var (
	// ErrTemplateNotFound indicates the named template is not in the filesystem.
	ErrTemplateNotFound = errors.New("template: not found")

	// ErrMissingTemplateKey indicates template execution referenced missing data.
	ErrMissingTemplateKey = errors.New("template: missing key")

	// ErrUnexpandedToken indicates Go template tokens survived rendering.
	ErrUnexpandedToken = errors.New("template: unexpanded token")

	// ErrPathTraversal indicates an output path escapes the project root.
	ErrPathTraversal = errors.New("template: path escapes project root")

	// ErrTemplateRender is wrapped by every *RenderError.
	ErrTemplateRender = errors.New("template: render failed")
)

// RenderError reports a failed render, with the template and, for file
// renders, the output path. It unwraps to both ErrTemplateRender and the
// underlying cause.
type RenderError struct {
	Template string
	Path     string
	Err      error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("render %s -> %s: %v", e.Template, e.Path, e.Err)
	}
	return fmt.Sprintf("render %s: %v", e.Template, e.Err)
}

// Unwrap supports errors.Is for ErrTemplateRender and the cause.
func (e *RenderError) Unwrap() []error {
	return []error{ErrTemplateRender, e.Err}
}
