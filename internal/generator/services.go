package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/lithammer/dedent"

	"github.com/munjed-ab/djcraft/internal/catalog"
	"github.com/munjed-ab/djcraft/internal/defs"
	"github.com/munjed-ab/djcraft/internal/structure"
	"github.com/munjed-ab/djcraft/internal/template"
)

// serviceEnv is what a service generator works with.
type serviceEnv struct {
	ctx      context.Context
	name     string
	model    *structure.Model
	renderer template.Renderer
	deployer template.Deployer
	reqs     *Requirements
	tctx     *template.Context
	options  catalog.Options
	logger   *slog.Logger
	warnings *[]string
}

// serviceGenerator is registered per catalog service. prepare may add
// structure the service needs before any file is written; generate
// renders files, patches settings, and registers packages.
type serviceGenerator struct {
	prepare  func(m *structure.Model, opts catalog.Options) error
	generate func(env *serviceEnv) error
}

// serviceGenerators maps each catalog service to its generator.
var serviceGenerators = map[string]serviceGenerator{
	catalog.Docker:         {generate: generateDocker},
	catalog.Celery:         {generate: generateCelery},
	catalog.Redis:          {generate: generateRedis},
	catalog.Authentication: {prepare: prepareAuthentication, generate: generateAuthentication},
	catalog.RestAPI:        {generate: generateRestAPI},
	catalog.DBRouter:       {generate: generateDBRouter},
}

// PrepareService runs the structural preparation of a registered service,
// such as adding the custom user app. Repeated calls are no-ops.
func PrepareService(m *structure.Model, name string) error {
	svc, ok := m.Service(name)
	if !ok {
		return fmt.Errorf("%w: %s", catalog.ErrUnknownService, name)
	}
	gen, ok := serviceGenerators[name]
	if !ok || gen.prepare == nil {
		return nil
	}
	return gen.prepare(m, catalog.Options(svc.Options))
}

// Settings markers. A block is appended to settings/base.py only when
// its marker is absent.
const (
	markerCelery    = "CELERY_BROKER_URL"
	markerCeleryApp = "celery_app"
	markerRedis     = "REDIS_URL ="
	markerAuth      = "AUTH_USER_MODEL"
	markerRestAPI   = "REST_FRAMEWORK"
	markerDBRouter  = "DATABASE_ROUTERS"
)

var celeryImport = strings.TrimLeft(dedent.Dedent(`
	from .celery import app as celery_app

	__all__ = ('celery_app',)
`), "\n")

func (e *serviceEnv) render(templateName, relPath string) error {
	return e.deployer.RenderFile(e.ctx, templateName, relPath, e.tctx)
}

func (e *serviceEnv) corePath(name string) string {
	return path.Join(e.model.Core().Path, name)
}

// patchSettings renders templateName and appends it to the base settings
// module unless marker is already present. A missing settings module is
// a warning.
func (e *serviceEnv) patchSettings(templateName, marker string) error {
	block, err := e.renderer.Render(templateName, e.tctx)
	if err != nil {
		return err
	}
	target := settingsPath(e.model.Core().Path)
	changed, err := patchFile(e.deployer, target, marker, block)
	if errors.Is(err, errSettingsMissing) {
		msg := fmt.Sprintf("%s: %s not found, settings not patched", e.name, target)
		e.logger.Warn("settings module missing", "service", e.name, "path", target)
		*e.warnings = append(*e.warnings, msg)
		return nil
	}
	if err != nil {
		return err
	}
	if !changed {
		e.logger.Debug("settings already patched", "service", e.name, "marker", marker)
	}
	return nil
}

func generateCelery(e *serviceEnv) error {
	if err := e.render("services/celery/celery.py.tmpl", e.corePath(defs.CeleryPy)); err != nil {
		return err
	}
	if _, err := patchFile(e.deployer, e.corePath(defs.InitPy), markerCeleryApp, []byte(celeryImport)); err != nil {
		return fmt.Errorf("register celery app: %w", err)
	}
	if err := e.patchSettings("services/celery/settings.py.tmpl", markerCelery); err != nil {
		return err
	}

	pkgs := []string{"celery>=5.2.0", "django-celery-results>=2.4.0"}
	if e.options.String("broker") == "rabbitmq" {
		pkgs = append(pkgs, "kombu>=5.2.0")
	} else {
		pkgs = append(pkgs, "redis>=4.0.0")
	}
	if e.options.Bool("use_flower") {
		pkgs = append(pkgs, "flower>=1.0.0")
	}
	e.reqs.AddPackages(pkgs...)
	return nil
}

func generateRedis(e *serviceEnv) error {
	if err := e.patchSettings("services/redis/settings.py.tmpl", markerRedis); err != nil {
		return err
	}
	e.reqs.AddPackages("django-redis>=5.0.0", "redis>=4.0.0")
	return nil
}

// authApp returns the custom user app name and directory from options.
func authApp(opts catalog.Options) (string, string) {
	name := opts.String("custom_user_app_name")
	if name == "" {
		name = "users"
	}
	return name, strings.Trim(opts.String("custom_user_app_directory"), "/")
}

// prepareAuthentication makes sure the custom user app exists, creating
// its directory chain when needed.
func prepareAuthentication(m *structure.Model, opts catalog.Options) error {
	if !opts.Bool("custom_user") {
		return nil
	}
	name, dir := authApp(opts)
	if _, ok := m.App(name); ok {
		return nil
	}
	parent := ""
	if dir != "" {
		for _, seg := range strings.Split(dir, "/") {
			p, err := m.AddDirectory(seg, parent)
			if err != nil {
				return fmt.Errorf("custom user directory: %w", err)
			}
			parent = p
		}
	}
	if err := m.AddApp(name, parent); err != nil {
		return fmt.Errorf("custom user app: %w", err)
	}
	return nil
}

func generateAuthentication(e *serviceEnv) error {
	if !e.options.Bool("custom_user") {
		return nil
	}
	name, _ := authApp(e.options)
	app, ok := e.model.App(name)
	if !ok {
		return fmt.Errorf("custom user app %q is not registered", name)
	}

	b := NewAppBuilder(app).WithVariant(VariantAuth)
	b.importPath, _ = e.model.ImportPath(app.Name)
	if err := b.Build(e.ctx, e.deployer, e.tctx); err != nil {
		return err
	}

	e.tctx = e.tctx.With(template.WithApp(b.Context()))
	return e.patchSettings("services/authentication/settings.py.tmpl", markerAuth)
}

func generateRestAPI(e *serviceEnv) error {
	if err := e.render("services/rest_api/api_urls.py.tmpl", e.corePath(defs.APIUrlsPy)); err != nil {
		return err
	}
	if err := e.patchSettings("services/rest_api/settings.py.tmpl", markerRestAPI); err != nil {
		return err
	}
	e.reqs.AddPackages("djangorestframework>=3.12.0", "django-filter>=2.4.0")
	if e.options.Bool("use_jwt") {
		e.reqs.AddPackages("djangorestframework-simplejwt>=5.2.0")
	}
	return nil
}

func generateDBRouter(e *serviceEnv) error {
	if err := e.render("services/db_router/router.py.tmpl", e.corePath(defs.RouterPy)); err != nil {
		return err
	}
	if err := e.patchSettings("services/db_router/settings.py.tmpl", markerDBRouter); err != nil {
		return err
	}
	for _, db := range e.options.Strings("db_types") {
		switch db {
		case "postgres":
			e.reqs.AddPackages("psycopg2-binary>=2.9.3")
		case "mysql":
			e.reqs.AddPackages("mysqlclient>=2.1.0")
		}
	}
	return nil
}

func generateDocker(e *serviceEnv) error {
	files := []PlannedFile{
		{"services/docker/Dockerfile.tmpl", path.Join(defs.DockerDir, "Dockerfile")},
		{"services/docker/docker-compose.yml.tmpl", defs.DockerCompose},
		{"services/docker/dockerignore.tmpl", defs.DockerIgnore},
	}
	for _, f := range files {
		if err := e.render(f.Template, f.Path); err != nil {
			return err
		}
	}
	e.reqs.AddPackages("gunicorn>=20.1.0", "psycopg2-binary>=2.9.3")
	return nil
}
