package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/munjed-ab/djcraft/internal/config"
	"github.com/munjed-ab/djcraft/internal/ui"
	"github.com/munjed-ab/djcraft/pkg/version"
)

func headlessDeps() *Dependencies {
	hm := ui.NewHeadlessManager()
	hm.ForceHeadless(true)
	return &Dependencies{Headless: hm}
}

// execute runs the command tree with colors off and returns everything
// written to stdout and stderr.
func execute(t *testing.T, deps *Dependencies, args ...string) (string, error) {
	t.Helper()
	if deps == nil {
		deps = headlessDeps()
	}
	cmd := newRootCmd(deps)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return buf.String(), err
}

func assertFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(f))); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(got, w) {
			t.Errorf("output missing %q:\n%s", w, got)
		}
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd(&Dependencies{})
	for _, name := range []string{"create", "generate", "validate", "interactive", "services", "version"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"verbose", "log-format", "no-color"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestCreate_WritesProject(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	got, err := execute(t, nil, "create", "shop",
		"--output", out,
		"--dir", "apps",
		"--apps", "products,billing_api",
		"--app-dir", "products:apps",
		"--app-feature", "products:forms",
		"--services", "redis,celery",
		"--service-options", `{"redis": {"port": 6380}}`,
	)
	if err != nil {
		t.Fatalf("create: %v\n%s", err, got)
	}

	root := filepath.Join(out, "shop")
	assertFiles(t, root,
		"manage.py",
		"requirements.txt",
		"core/settings/base.py",
		"core/celery.py",
		"apps/products/models.py",
		"apps/products/forms.py",
		"billing_api/serializers.py",
	)
	assertContains(t, got, "Project generated at "+root, "[1/5] base", "[5/5] requirements", "celery>=5.2.0")

	base, err := os.ReadFile(filepath.Join(root, "core", "settings", "base.py"))
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, string(base), "'apps.products',", "6380")
}

func TestCreate_DryRunWritesNothing(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	got, err := execute(t, nil, "create", "shop", "--output", out, "--apps", "products", "--dry-run")
	if err != nil {
		t.Fatalf("create --dry-run: %v\n%s", err, got)
	}
	assertContains(t, got, "Dry run: shop", "products/ [app]", "core/ [core]", "Django>=4.2")

	if _, err := os.Stat(filepath.Join(out, "shop")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("dry run created the project directory (stat err = %v)", err)
	}
}

func TestCreate_ReportsEveryProblem(t *testing.T) {
	t.Parallel()

	got, err := execute(t, nil, "create", "shop", "--output", t.TempDir(), "--apps", "Bad", "--services", "celery")
	if !errors.Is(err, errReported) {
		t.Fatalf("error = %v, want errReported\n%s", err, got)
	}
	assertContains(t, got, "apps[0]", "redis")
}

func TestCreate_FlagErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"dir_without_name", []string{"--dir", ":apps"}, "--dir"},
		{"app_dir_without_dir", []string{"--app-dir", "products"}, "--app-dir"},
		{"feature_for_unknown_app", []string{"--app-feature", "ghost:forms"}, "ghost"},
		{"options_for_missing_service", []string{"--service-options", `{"redis": {}}`}, "not in --services"},
		{"options_not_json", []string{"--services", "redis", "--service-options", "{"}, "--service-options"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args := append([]string{"create", "shop", "--output", t.TempDir()}, tt.args...)
			_, err := execute(t, nil, args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestCreate_RefusesNonEmptyProjectDir(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	root := filepath.Join(out, "shop")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, nil, "create", "shop", "--output", out); !errors.Is(err, ErrProjectExists) {
		t.Fatalf("error = %v, want ErrProjectExists", err)
	}
	if got, err := execute(t, nil, "create", "shop", "--output", out, "--force"); err != nil {
		t.Fatalf("create --force: %v\n%s", err, got)
	}
	assertFiles(t, root, "notes.txt", "manage.py")
}

func TestCreate_SaveConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "shop.yaml")
	got, err := execute(t, nil, "create", "shop",
		"--output", dir,
		"--dir", "apps",
		"--app-dir", "products:apps",
		"--services", "redis",
		"--env", "prod",
		"--save-config", path,
		"--dry-run",
	)
	if err != nil {
		t.Fatalf("create: %v\n%s", err, got)
	}
	assertContains(t, got, "Configuration saved to "+path)

	doc, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load saved config: %v", err)
	}
	if doc.ProjectName != "shop" || doc.Env != "prod" {
		t.Errorf("doc = %+v, want shop/prod", doc)
	}
	if len(doc.Apps) != 1 || doc.Apps[0].Directory != "apps" {
		t.Errorf("Apps = %+v, want products in apps", doc.Apps)
	}
	if len(doc.Services) != 1 || doc.Services[0].Name != "redis" {
		t.Errorf("Services = %+v, want redis", doc.Services)
	}
}

const shopYAML = `project_name: shop
core:
  location: custom
  path: config/core
directories:
  - name: apps
apps:
  - name: products
    directory: apps
services:
  - name: rest_api
    options:
      use_jwt: true
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerate_FromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "shop.yaml", shopYAML)
	out := t.TempDir()
	got, err := execute(t, nil, "generate", path, "--output", out)
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, got)
	}

	root := filepath.Join(out, "shop")
	assertFiles(t, root, "config/core/settings/base.py", "config/core/api_urls.py", "apps/products/urls.py")

	reqs, err := os.ReadFile(filepath.Join(root, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, string(reqs), "djangorestframework>=3.12.0", "djangorestframework-simplejwt>=5.2.0")
}

func TestGenerate_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := execute(t, nil, "generate", filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "shop.yaml", shopYAML)
		got, err := execute(t, nil, "validate", path)
		if err != nil {
			t.Fatalf("validate: %v\n%s", err, got)
		}
		assertContains(t, got, path+" is valid")
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "bad.json", `{
  "project_name": "shop",
  "env": "staging",
  "apps": [{"name": "Products"}],
  "services": [{"name": "celery"}, {"name": "mailer"}]
}`)
		got, err := execute(t, nil, "validate", path)
		if !errors.Is(err, errReported) {
			t.Fatalf("error = %v, want errReported\n%s", err, got)
		}
		assertContains(t, got, "env", "apps[0]", "mailer", "redis")
	})
}

func TestServices(t *testing.T) {
	t.Parallel()

	got, err := execute(t, nil, "services")
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	assertContains(t, got, "# Services", "## celery", "Requires: `redis`", "| `port` |")
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	out, err := renderMarkdown("# Services\n\n## redis\n", true)
	if err != nil {
		t.Fatalf("renderMarkdown: %v", err)
	}
	assertContains(t, out, "Services", "redis")
	if strings.Contains(out, "\x1b[") {
		t.Error("no-color render contains escape sequences")
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	got, err := execute(t, nil, "version")
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, got, "djcraft "+version.GetVersion())
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := newLogger(globalFlags{}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("default logger wrote %q", buf.String())
	}

	logger, err = newLogger(globalFlags{verbose: true, logFormat: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("shown", "app", "products")
	assertContains(t, buf.String(), `"msg":"shown"`, `"app":"products"`)

	if _, err := newLogger(globalFlags{verbose: true, logFormat: "xml"}, &buf); err == nil {
		t.Error("unknown log format accepted")
	}
}
