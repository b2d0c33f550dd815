package config

import (
	"github.com/zclconf/go-cty/cty"
)

// Document is the declarative project description. The same struct is
// read from YAML and JSON; HCL goes through hclDocument.
type Document struct {
	ProjectName string          `yaml:"project_name" json:"project_name" validate:"required"`
	Core        *CoreSpec       `yaml:"core,omitempty" json:"core,omitempty"`
	Directories []DirectorySpec `yaml:"directories,omitempty" json:"directories,omitempty" validate:"dive"`
	Apps        []AppSpec       `yaml:"apps,omitempty" json:"apps,omitempty" validate:"dive"`
	Services    []ServiceSpec   `yaml:"services,omitempty" json:"services,omitempty" validate:"dive"`
	Env         string          `yaml:"env,omitempty" json:"env,omitempty" validate:"omitempty,oneof=dev prod"`
}

// CoreSpec places the core settings package.
type CoreSpec struct {
	Location string `yaml:"location" json:"location" hcl:"location,optional" validate:"omitempty,oneof=root custom"`
	Path     string `yaml:"path" json:"path" hcl:"path,optional"`
}

// DirectorySpec declares a plain directory. Parent is the parent's
// path, empty for the project root.
type DirectorySpec struct {
	Name   string `yaml:"name" json:"name" hcl:"name,label" validate:"required"`
	Parent string `yaml:"parent" json:"parent" hcl:"parent,optional"`
}

// AppSpec declares a Django app inside Directory.
type AppSpec struct {
	Name      string   `yaml:"name" json:"name" hcl:"name,label" validate:"required"`
	Directory string   `yaml:"directory" json:"directory" hcl:"directory,optional"`
	Features  []string `yaml:"features,omitempty" json:"features,omitempty" hcl:"features,optional" validate:"dive,oneof=forms signals model_views"`
}

// ServiceSpec enables a catalog service. Options are merged over the
// catalog defaults.
type ServiceSpec struct {
	Name    string         `yaml:"name" json:"name" validate:"required"`
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// hclDocument is the HCL shape of Document:
//
//	project_name = "shop"
//	env          = "dev"
//	core { location = "root" }
//	directory "apps" {}
//	app "billing" { directory = "apps" }
//	service "redis" { options = { port = 6380 } }
type hclDocument struct {
	ProjectName string          `hcl:"project_name"`
	Env         string          `hcl:"env,optional"`
	Core        *CoreSpec       `hcl:"core,block"`
	Directories []DirectorySpec `hcl:"directory,block"`
	Apps        []AppSpec       `hcl:"app,block"`
	Services    []hclService    `hcl:"service,block"`
}

type hclService struct {
	Name    string    `hcl:"name,label"`
	Options cty.Value `hcl:"options,optional"`
}
