package template

import (
	"maps"
	"slices"

	"github.com/munjed-ab/djcraft/internal/catalog"
)

// DjangoDefaultApps are listed first in INSTALLED_APPS.
var DjangoDefaultApps = []string{
	"django.contrib.admin",
	"django.contrib.auth",
	"django.contrib.contenttypes",
	"django.contrib.sessions",
	"django.contrib.messages",
	"django.contrib.staticfiles",
}

// DjangoDefaultMiddleware is the MIDDLEWARE list of a fresh project.
var DjangoDefaultMiddleware = []string{
	"django.middleware.security.SecurityMiddleware",
	"django.contrib.sessions.middleware.SessionMiddleware",
	"django.middleware.common.CommonMiddleware",
	"django.middleware.csrf.CsrfViewMiddleware",
	"django.contrib.auth.middleware.AuthenticationMiddleware",
	"django.contrib.messages.middleware.MessageMiddleware",
	"django.middleware.clickjacking.XFrameOptionsMiddleware",
}

// AppContext describes one Django app to the templates.
type AppContext struct {
	Name       string
	ImportPath string // dotted, e.g. "apps.billing"
	Path       string // slash-separated, relative to the project root
	Variant    string // standard, api, auth
	Features   []string
	HasURLs    bool
}

// Context is the data every Django template is rendered with.
// All fields are exported for use with Go's text/template package.
type Context struct {
	// Project
	ProjectName string
	ProjectRoot string
	Env         string // "dev" or "prod"
	Version     string // djcraft version that generated the project

	// Core package
	CoreModule string // dotted, e.g. "config.core"
	CorePath   string // slash-separated

	// Settings lists
	DjangoApps    []string
	InstalledApps []string // project app import paths, in registration order
	Middleware    []string

	// Apps
	Apps []AppContext
	App  AppContext // the app being rendered, zero for project files

	// Services
	Services    []string
	UseCelery   bool
	UseRedis    bool
	UseAuth     bool
	UseRestAPI  bool
	UseDocker   bool
	UseDBRouter bool
	Options     map[string]any // merged options of the service being rendered
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// NewContext creates a Context with Django defaults, then applies opts.
func NewContext(opts ...ContextOption) *Context {
	ctx := &Context{
		Env:        "dev",
		CoreModule: "core",
		CorePath:   "core",
		DjangoApps: slices.Clone(DjangoDefaultApps),
		Middleware: slices.Clone(DjangoDefaultMiddleware),
		Options:    map[string]any{},
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// With returns a copy of c with opts applied. Slices and maps set by
// opts do not alias c.
func (c *Context) With(opts ...ContextOption) *Context {
	cp := *c
	cp.DjangoApps = slices.Clone(c.DjangoApps)
	cp.InstalledApps = slices.Clone(c.InstalledApps)
	cp.Middleware = slices.Clone(c.Middleware)
	cp.Apps = slices.Clone(c.Apps)
	cp.Services = slices.Clone(c.Services)
	cp.Options = maps.Clone(c.Options)
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// WithProject sets the project name and root.
func WithProject(name, root string) ContextOption {
	return func(c *Context) {
		c.ProjectName = name
		c.ProjectRoot = root
	}
}

// WithEnv sets the settings environment. Empty values are ignored.
func WithEnv(env string) ContextOption {
	return func(c *Context) {
		if env != "" {
			c.Env = env
		}
	}
}

// WithVersion sets the generator version stamp.
func WithVersion(v string) ContextOption {
	return func(c *Context) {
		c.Version = v
	}
}

// WithCore sets the core package location.
func WithCore(module, path string) ContextOption {
	return func(c *Context) {
		c.CoreModule = module
		c.CorePath = path
	}
}

// WithApps sets every app and derives InstalledApps from them.
func WithApps(apps []AppContext) ContextOption {
	return func(c *Context) {
		c.Apps = slices.Clone(apps)
		c.InstalledApps = make([]string, 0, len(apps))
		for _, a := range apps {
			c.InstalledApps = append(c.InstalledApps, a.ImportPath)
		}
	}
}

// WithApp sets the app currently being rendered.
func WithApp(app AppContext) ContextOption {
	return func(c *Context) {
		c.App = app
	}
}

// WithServices records the enabled services and sets the Use* flags.
func WithServices(names []string) ContextOption {
	return func(c *Context) {
		c.Services = slices.Clone(names)
		c.UseCelery = slices.Contains(names, catalog.Celery)
		c.UseRedis = slices.Contains(names, catalog.Redis)
		c.UseAuth = slices.Contains(names, catalog.Authentication)
		c.UseRestAPI = slices.Contains(names, catalog.RestAPI)
		c.UseDocker = slices.Contains(names, catalog.Docker)
		c.UseDBRouter = slices.Contains(names, catalog.DBRouter)
	}
}

// WithOptions sets the options of the service being rendered.
func WithOptions(opts map[string]any) ContextOption {
	return func(c *Context) {
		c.Options = maps.Clone(opts)
		if c.Options == nil {
			c.Options = map[string]any{}
		}
	}
}
