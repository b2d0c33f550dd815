package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/munjed-ab/djcraft/internal/catalog"
	"github.com/munjed-ab/djcraft/internal/defs"
	"github.com/munjed-ab/djcraft/internal/structure"
	"github.com/munjed-ab/djcraft/internal/template"
)

// ProgressFunc is called as each stage and item starts. item is empty
// for stage-level events.
type ProgressFunc func(stage Stage, item string)

// Options configures an Orchestrator.
type Options struct {
	Env      string               // "dev" or "prod"; default "dev"
	Version  string               // stamped into README.md
	Features map[string][]Feature // per-app feature add-ons, keyed by app name
	Logger   *slog.Logger
	Progress ProgressFunc
}

// Result describes a finished run.
type Result struct {
	CreatedDirs  []string
	CreatedFiles []string
	Packages     []string
	Warnings     []string
	Failures     []*ItemError
}

// Orchestrator runs every generator over one model in a fixed order.
type Orchestrator struct {
	catalog  *catalog.Catalog
	resolver *catalog.Resolver
	renderer template.Renderer
	deployer template.Deployer
	opts     Options
	logger   *slog.Logger
}

// New creates an Orchestrator. The deployer decides where, and whether,
// files are written.
func New(cat *catalog.Catalog, renderer template.Renderer, deployer template.Deployer, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Env == "" {
		opts.Env = "dev"
	}
	return &Orchestrator{
		catalog:  cat,
		resolver: catalog.NewResolver(cat),
		renderer: renderer,
		deployer: deployer,
		opts:     opts,
		logger:   logger,
	}
}

// Run generates the project described by m.
//
// Base and core files are prerequisites: a failure there stops the run
// and is returned wrapped in ErrStageFailed. A failing app or service is
// recorded in Result.Failures and the run continues. Services whose
// dependencies are missing are skipped the same way.
func (o *Orchestrator) Run(ctx context.Context, m *structure.Model) (*Result, error) {
	if errs := m.ValidateStructure(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStructure, errors.Join(errs...))
	}

	res := &Result{}
	reqs := NewRequirements()
	registered := m.ServiceNames()

	// Dependency checks and structural preparation run before any file is
	// written so that apps added by services appear in the settings.
	skipped := make(map[string]bool)
	for _, svc := range m.Services() {
		if err := o.resolver.Check(svc.Name, registered); err != nil {
			o.fail(res, StageServices, svc.Name, err)
			skipped[svc.Name] = true
			continue
		}
		if _, ok := serviceGenerators[svc.Name]; !ok {
			o.fail(res, StageServices, svc.Name, fmt.Errorf("%w: no generator registered", catalog.ErrUnknownService))
			skipped[svc.Name] = true
			continue
		}
		if err := PrepareService(m, svc.Name); err != nil {
			o.fail(res, StageServices, svc.Name, err)
			skipped[svc.Name] = true
		}
	}

	// Skipped services stay out of settings, compose and the README.
	var enabled []string
	for _, name := range registered {
		if !skipped[name] {
			enabled = append(enabled, name)
		}
	}

	builders := o.appBuilders(m)
	tctx := o.baseContext(m, builders, enabled)

	steps := []struct {
		stage Stage
		run   func() error
	}{
		{StageBase, func() error { return o.generateBase(ctx, tctx) }},
		{StageCore, func() error { return o.generateCore(ctx, m, tctx, reqs) }},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return o.finish(res, reqs), err
		}
		o.progress(step.stage, "")
		if err := step.run(); err != nil {
			o.logger.Error("generation stage failed", "stage", step.stage, "error", err)
			return o.finish(res, reqs), fmt.Errorf("%w: %s: %w", ErrStageFailed, step.stage, err)
		}
	}

	o.progress(StageApps, "")
	for _, b := range builders {
		if err := ctx.Err(); err != nil {
			return o.finish(res, reqs), err
		}
		o.progress(StageApps, b.app.Name)
		if err := b.Build(ctx, o.deployer, tctx); err != nil {
			o.fail(res, StageApps, b.app.Name, err)
			continue
		}
		o.logger.Info("app generated", "app", b.app.Name, "variant", b.variant)
	}

	o.progress(StageServices, "")
	for _, svc := range m.Services() {
		if skipped[svc.Name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return o.finish(res, reqs), err
		}
		o.progress(StageServices, svc.Name)
		opts := o.catalog.Normalize(svc.Name, svc.Options)
		env := &serviceEnv{
			ctx:      ctx,
			name:     svc.Name,
			model:    m,
			renderer: o.renderer,
			deployer: o.deployer,
			reqs:     reqs,
			tctx:     tctx.With(template.WithOptions(opts)),
			options:  catalog.Options(opts),
			logger:   o.logger,
			warnings: &res.Warnings,
		}
		if err := serviceGenerators[svc.Name].generate(env); err != nil {
			o.fail(res, StageServices, svc.Name, err)
			continue
		}
		o.logger.Info("service generated", "service", svc.Name)
	}

	o.progress(StageRequirements, "")
	if err := reqs.WriteFile(o.deployer); err != nil {
		return o.finish(res, reqs), fmt.Errorf("%w: %s: %w", ErrStageFailed, StageRequirements, err)
	}
	return o.finish(res, reqs), nil
}

func (o *Orchestrator) appBuilders(m *structure.Model) []*AppBuilder {
	userApp := ""
	if svc, ok := m.Service(catalog.Authentication); ok && catalog.Options(svc.Options).Bool("custom_user") {
		userApp, _ = authApp(catalog.Options(svc.Options))
	}

	apps := m.Apps()
	imports := m.ImportPaths()
	builders := make([]*AppBuilder, 0, len(apps))
	for _, app := range apps {
		b := NewAppBuilder(app)
		b.importPath = imports[app.Name]
		if app.Name == userApp {
			b.WithVariant(VariantAuth)
		}
		for _, f := range o.opts.Features[app.Name] {
			b.WithFeature(f)
		}
		builders = append(builders, b)
	}
	return builders
}

func (o *Orchestrator) baseContext(m *structure.Model, builders []*AppBuilder, services []string) *template.Context {
	apps := make([]template.AppContext, len(builders))
	for i, b := range builders {
		apps[i] = b.Context()
	}
	p := m.Project()
	return template.NewContext(
		template.WithProject(p.Name, p.RootPath),
		template.WithEnv(o.opts.Env),
		template.WithVersion(o.opts.Version),
		template.WithCore(m.CoreModule(), m.Core().Path),
		template.WithApps(apps),
		template.WithServices(services),
	)
}

func (o *Orchestrator) generateBase(ctx context.Context, tctx *template.Context) error {
	files := []PlannedFile{
		{"project/manage.py.tmpl", defs.ManagePy},
		{"project/gitignore.tmpl", defs.GitIgnore},
		{"project/README.md.tmpl", defs.ReadmeMD},
	}
	for _, f := range files {
		if err := o.deployer.RenderFile(ctx, f.Template, f.Path, tctx); err != nil {
			return err
		}
	}
	for _, dir := range defs.RequiredFolders {
		if err := o.deployer.EnsureDir(dir); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) generateCore(ctx context.Context, m *structure.Model, tctx *template.Context, reqs *Requirements) error {
	core := m.Core().Path
	settings := path.Join(core, defs.SettingsDir)
	files := []PlannedFile{
		{"core/__init__.py.tmpl", path.Join(core, defs.InitPy)},
		{"core/urls.py.tmpl", path.Join(core, defs.UrlsPy)},
		{"core/wsgi.py.tmpl", path.Join(core, defs.WsgiPy)},
		{"core/asgi.py.tmpl", path.Join(core, defs.AsgiPy)},
		{"core/settings/__init__.py.tmpl", path.Join(settings, defs.InitPy)},
		{"core/settings/base.py.tmpl", path.Join(settings, defs.BaseSettingsPy)},
		{"core/settings/dev.py.tmpl", path.Join(settings, defs.DevSettingsPy)},
		{"core/settings/prod.py.tmpl", path.Join(settings, defs.ProdSettingsPy)},
	}
	for _, f := range files {
		if err := o.deployer.RenderFile(ctx, f.Template, f.Path, tctx); err != nil {
			return err
		}
	}
	// Intermediate directories of a custom core path become packages too.
	for dir := path.Dir(core); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if err := o.deployer.RenderFile(ctx, "core/__init__.py.tmpl", path.Join(dir, defs.InitPy), tctx); err != nil {
			return err
		}
	}
	reqs.AddPackages(BaseRequirement)
	if tctx.Env == "prod" {
		reqs.AddPackages("psycopg2-binary>=2.9.3")
	}
	return nil
}

func (o *Orchestrator) fail(res *Result, stage Stage, item string, err error) {
	o.logger.Warn("generation item failed", "stage", stage, "item", item, "error", err)
	res.Failures = append(res.Failures, &ItemError{Stage: stage, Item: item, Err: err})
}

func (o *Orchestrator) progress(stage Stage, item string) {
	if o.opts.Progress != nil {
		o.opts.Progress(stage, item)
	}
}

func (o *Orchestrator) finish(res *Result, reqs *Requirements) *Result {
	res.CreatedDirs, res.CreatedFiles = o.deployer.Created()
	res.Packages = reqs.Packages()
	return res
}
