package template

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

func TestRendererRender(t *testing.T) {
	t.Parallel()

	t.Run("successful_render", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"manage.py.tmpl": &fstest.MapFile{
				Data: []byte("os.environ.setdefault('DJANGO_SETTINGS_MODULE', '{{.CoreModule}}.settings')\n"),
			},
		}
		r := NewRenderer(fsys)

		result, err := r.Render("manage.py.tmpl", NewContext(WithCore("config.core", "config/core")))
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		expected := "os.environ.setdefault('DJANGO_SETTINGS_MODULE', 'config.core.settings')\n"
		if string(result) != expected {
			t.Errorf("Render result = %q, want %q", string(result), expected)
		}
	})

	t.Run("missing_key_strict_mode", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"test.tmpl": &fstest.MapFile{Data: []byte("{{.Name}} {{.Role}}")},
		}
		r := NewRenderer(fsys)

		_, err := r.Render("test.tmpl", map[string]string{"Name": "billing"})
		if !errors.Is(err, ErrMissingTemplateKey) {
			t.Errorf("expected ErrMissingTemplateKey, got: %v", err)
		}
		if !errors.Is(err, ErrTemplateRender) {
			t.Errorf("expected ErrTemplateRender, got: %v", err)
		}
		var re *RenderError
		if !errors.As(err, &re) || re.Template != "test.tmpl" {
			t.Errorf("expected *RenderError for test.tmpl, got: %v", err)
		}
	})

	t.Run("nonexistent_template", func(t *testing.T) {
		t.Parallel()
		r := NewRenderer(fstest.MapFS{})
		_, err := r.Render("nonexistent.tmpl", nil)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound, got: %v", err)
		}
	})

	t.Run("unexpanded_token", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"raw.tmpl": &fstest.MapFile{Data: []byte(`{{"{{.Leftover}}"}}`)},
		}
		r := NewRenderer(fsys)
		_, err := r.Render("raw.tmpl", nil)
		if !errors.Is(err, ErrUnexpandedToken) {
			t.Errorf("expected ErrUnexpandedToken, got: %v", err)
		}
	})

	t.Run("parse_error", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"bad.tmpl": &fstest.MapFile{Data: []byte("{{if .X}}")},
		}
		r := NewRenderer(fsys)
		_, err := r.Render("bad.tmpl", nil)
		if !errors.Is(err, ErrTemplateRender) {
			t.Errorf("expected ErrTemplateRender, got: %v", err)
		}
	})

	t.Run("empty_template", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{"empty.tmpl": &fstest.MapFile{Data: []byte("")}}
		result, err := NewRenderer(fsys).Render("empty.tmpl", nil)
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if len(result) != 0 {
			t.Errorf("expected empty result, got %d bytes", len(result))
		}
	})
}

func TestTemplateFuncs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"className_snake", `{{className "billing_api"}}`, "BillingApi"},
		{"className_single", `{{className "users"}}`, "Users"},
		{"module", `{{module "apps/commerce/billing/"}}`, "apps.commerce.billing"},
		{"pyBool_true", `{{pyBool true}}`, "True"},
		{"pyBool_false", `{{pyBool false}}`, "False"},
		{"pyStr_escapes", `{{pyStr "it's"}}`, `'it\'s'`},
		{"split_depth", `{{range split "config/core"}}.parent{{end}}`, ".parent.parent"},
		{"has", `{{has (split "a/b") "b"}}`, "true"},
		{"join", `{{join (split "a/b/c") ","}}`, "a,b,c"},
		{"quote", `{{quote "x"}}`, `"x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fsys := fstest.MapFS{"f.tmpl": &fstest.MapFile{Data: []byte(tt.tmpl)}}
			got, err := NewRenderer(fsys).Render("f.tmpl", nil)
			if err != nil {
				t.Fatalf("Render error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestEmbeddedTemplates renders every embedded template with a fully
// populated context to catch missing keys and leftover tokens.
func TestEmbeddedTemplates(t *testing.T) {
	t.Parallel()

	fsys, err := EmbeddedTemplates()
	if err != nil {
		t.Fatalf("EmbeddedTemplates: %v", err)
	}
	r := NewRenderer(fsys)

	app := AppContext{
		Name:       "billing_api",
		ImportPath: "apps.billing_api",
		Path:       "apps/billing_api",
		Variant:    "api",
		Features:   []string{"signals", "forms", "model_views"},
		HasURLs:    true,
	}
	ctx := NewContext(
		WithProject("shop", "/srv/shop"),
		WithVersion("v0.3.0"),
		WithCore("core", "core"),
		WithApps([]AppContext{app}),
		WithApp(app),
		WithServices([]string{"docker", "celery", "redis", "authentication", "rest_api", "db_router"}),
		WithOptions(map[string]any{
			"python_version":   "3.11",
			"postgres_version": "15",
			"broker":           "redis",
			"use_flower":       true,
			"use_for_cache":    true,
			"use_for_sessions": true,
			"host":             "redis",
			"port":             6379,
			"use_jwt":          true,
			"db_types":         []string{"postgres"},
			"app_routing_map":  map[string]string{"billing_api": "billing"},
		}),
	)

	names, err := listTemplates(fsys)
	if err != nil {
		t.Fatalf("listTemplates: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("no embedded templates")
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			out, err := r.Render(name, ctx)
			if err != nil {
				t.Fatalf("Render(%q): %v", name, err)
			}
			if strings.Contains(string(out), "<no value>") {
				t.Errorf("Render(%q) contains <no value>:\n%s", name, out)
			}
		})
	}
}

func listTemplates(fsys fs.FS) ([]string, error) {
	var names []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".tmpl") {
			names = append(names, p)
		}
		return nil
	})
	return names, err
}
