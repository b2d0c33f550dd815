package config

import (
	"github.com/munjed-ab/djcraft/internal/defs"
	"github.com/munjed-ab/djcraft/internal/structure"
)

// Default values applied to missing fields.
const (
	DefaultEnv          = "dev"
	DefaultCoreLocation = string(structure.CoreRoot)
	DefaultCorePath     = defs.DefaultCorePath
)

// NewDefaultDocument returns a document for an empty project with every
// default filled in.
func NewDefaultDocument() *Document {
	return &Document{
		ProjectName: defs.DefaultProjectName,
		Core:        &CoreSpec{Location: DefaultCoreLocation, Path: DefaultCorePath},
		Env:         DefaultEnv,
	}
}

// applyDefaults fills missing env and core values in place.
func applyDefaults(doc *Document) {
	if doc.Env == "" {
		doc.Env = DefaultEnv
	}
	if doc.Core == nil {
		doc.Core = &CoreSpec{}
	}
	if doc.Core.Location == "" {
		doc.Core.Location = DefaultCoreLocation
	}
	if doc.Core.Path == "" && doc.Core.Location == DefaultCoreLocation {
		doc.Core.Path = DefaultCorePath
	}
}
