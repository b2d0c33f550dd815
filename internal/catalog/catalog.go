package catalog

import (
	"maps"
	"slices"
)

// Service names known to the default catalog.
const (
	Docker         = "docker"
	Celery         = "celery"
	Redis          = "redis"
	Authentication = "authentication"
	RestAPI        = "rest_api"
	DBRouter       = "db_router"
)

// Service describes one optional project feature.
type Service struct {
	Name         string
	Description  string
	Dependencies []string
	Options      []OptionSpec
	Defaults     map[string]any
}

// Option returns the schema entry for key.
func (s Service) Option(key string) (OptionSpec, bool) {
	for _, o := range s.Options {
		if o.Key == key {
			return o, true
		}
	}
	return OptionSpec{}, false
}

// Catalog is an immutable, ordered set of services.
type Catalog struct {
	services map[string]Service
	order    []string
}

// New builds a catalog from the given services, keeping their order.
// A later service with a duplicate name replaces the earlier one.
func New(services ...Service) *Catalog {
	c := &Catalog{services: make(map[string]Service, len(services))}
	for _, s := range services {
		if _, dup := c.services[s.Name]; !dup {
			c.order = append(c.order, s.Name)
		}
		c.services[s.Name] = s
	}
	return c
}

// Default returns the built-in service catalog.
func Default() *Catalog {
	return New(
		Service{
			Name:        Docker,
			Description: "Dockerfile, docker-compose.yml and .dockerignore with a Postgres database",
			Options: []OptionSpec{
				{Key: "python_version", Kind: KindChoice, Choices: []string{"3.8", "3.9", "3.10", "3.11"}},
				{Key: "postgres_version", Kind: KindChoice, Choices: []string{"13", "14", "15"}},
			},
			Defaults: map[string]any{"python_version": "3.9", "postgres_version": "13"},
		},
		Service{
			Name:         Celery,
			Description:  "Celery worker app wired into the core package",
			Dependencies: []string{Redis},
			Options: []OptionSpec{
				{Key: "broker", Kind: KindChoice, Choices: []string{"redis", "rabbitmq"}},
				{Key: "use_flower", Kind: KindBool},
			},
			Defaults: map[string]any{"broker": "redis", "use_flower": false},
		},
		Service{
			Name:        Redis,
			Description: "django-redis cache and session backend",
			Options: []OptionSpec{
				{Key: "use_for_cache", Kind: KindBool},
				{Key: "use_for_sessions", Kind: KindBool},
				{Key: "host", Kind: KindString},
				{Key: "port", Kind: KindInt},
			},
			Defaults: map[string]any{"use_for_cache": true, "use_for_sessions": true, "host": "redis", "port": 6379},
		},
		Service{
			Name:        Authentication,
			Description: "Custom user model app and AUTH_USER_MODEL setting",
			Options: []OptionSpec{
				{Key: "custom_user", Kind: KindBool},
				{Key: "custom_user_app_name", Kind: KindString},
				{Key: "custom_user_app_directory", Kind: KindString},
			},
			Defaults: map[string]any{"custom_user": true, "custom_user_app_name": "users", "custom_user_app_directory": ""},
		},
		Service{
			Name:        RestAPI,
			Description: "Django REST framework with a project-level API router",
			Options: []OptionSpec{
				{Key: "framework", Kind: KindChoice, Choices: []string{"drf"}},
				{Key: "use_jwt", Kind: KindBool},
			},
			Defaults: map[string]any{"framework": "drf", "use_jwt": false},
		},
		Service{
			Name:        DBRouter,
			Description: "Per-app database router",
			Options: []OptionSpec{
				{Key: "db_types", Kind: KindMultiChoice, Choices: []string{"postgres", "mysql", "sqlite"}},
				{Key: "app_routing_map", Kind: KindMapping},
			},
			Defaults: map[string]any{"db_types": []any{"postgres"}, "app_routing_map": map[string]any{}},
		},
	)
}

// Known reports whether name is a catalog service.
func (c *Catalog) Known(name string) bool {
	_, ok := c.services[name]
	return ok
}

// Lookup returns the service registered under name.
func (c *Catalog) Lookup(name string) (Service, bool) {
	s, ok := c.services[name]
	return s, ok
}

// Names returns all service names in catalog order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.order)
}

// Dependencies returns the declared dependencies of name.
func (c *Catalog) Dependencies(name string) []string {
	return slices.Clone(c.services[name].Dependencies)
}

// DefaultOptions returns a copy of the default options of name.
func (c *Catalog) DefaultOptions(name string) map[string]any {
	s, ok := c.services[name]
	if !ok {
		return map[string]any{}
	}
	return cloneOptions(s.Defaults)
}

// MergeOptions layers options over the defaults of name. The merge is
// shallow: a user value replaces the default for its key entirely.
func (c *Catalog) MergeOptions(name string, options map[string]any) map[string]any {
	merged := c.DefaultOptions(name)
	for k, v := range options {
		merged[k] = cloneValue(v)
	}
	return merged
}

func cloneOptions(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneOptions(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return slices.Clone(t)
	case map[string]string:
		return maps.Clone(t)
	default:
		return v
	}
}
