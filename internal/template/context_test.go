package template

import (
	"slices"
	"testing"
)

func TestNewContextDefaults(t *testing.T) {
	t.Parallel()

	ctx := NewContext()
	if ctx.Env != "dev" {
		t.Errorf("Env = %q, want dev", ctx.Env)
	}
	if ctx.CoreModule != "core" || ctx.CorePath != "core" {
		t.Errorf("core = %q/%q, want core/core", ctx.CoreModule, ctx.CorePath)
	}
	if !slices.Equal(ctx.DjangoApps, DjangoDefaultApps) {
		t.Errorf("DjangoApps = %v", ctx.DjangoApps)
	}
	if ctx.Options == nil {
		t.Error("Options is nil")
	}

	// Defaults must not alias the package-level lists.
	ctx.DjangoApps[0] = "changed"
	if DjangoDefaultApps[0] == "changed" {
		t.Error("NewContext aliases DjangoDefaultApps")
	}
}

func TestContextOptions(t *testing.T) {
	t.Parallel()

	apps := []AppContext{
		{Name: "products", ImportPath: "apps.products"},
		{Name: "billing_api", ImportPath: "apps.billing_api"},
	}
	ctx := NewContext(
		WithProject("shop", "/srv/shop"),
		WithEnv(""),
		WithApps(apps),
		WithServices([]string{"celery", "redis", "rest_api"}),
	)

	if ctx.Env != "dev" {
		t.Errorf("empty WithEnv changed Env to %q", ctx.Env)
	}
	if !slices.Equal(ctx.InstalledApps, []string{"apps.products", "apps.billing_api"}) {
		t.Errorf("InstalledApps = %v", ctx.InstalledApps)
	}
	if !ctx.UseCelery || !ctx.UseRedis || !ctx.UseRestAPI {
		t.Errorf("Use flags = celery:%v redis:%v rest:%v", ctx.UseCelery, ctx.UseRedis, ctx.UseRestAPI)
	}
	if ctx.UseDocker || ctx.UseAuth || ctx.UseDBRouter {
		t.Error("unregistered services flagged as in use")
	}
}

func TestContextWith(t *testing.T) {
	t.Parallel()

	base := NewContext(
		WithApps([]AppContext{{Name: "products", ImportPath: "products"}}),
		WithOptions(map[string]any{"port": 6379}),
	)
	derived := base.With(
		WithApp(AppContext{Name: "products"}),
		WithOptions(map[string]any{"broker": "redis"}),
	)
	derived.InstalledApps[0] = "changed"
	derived.Options["extra"] = true

	if base.App.Name != "" {
		t.Errorf("With modified base App: %+v", base.App)
	}
	if base.InstalledApps[0] != "products" {
		t.Error("With aliases InstalledApps")
	}
	if _, ok := base.Options["extra"]; ok {
		t.Error("With aliases Options")
	}
	if _, ok := derived.Options["port"]; ok {
		t.Error("WithOptions did not replace options")
	}
}

func TestWithOptionsNil(t *testing.T) {
	t.Parallel()

	ctx := NewContext(WithOptions(nil))
	if ctx.Options == nil {
		t.Fatal("Options is nil after WithOptions(nil)")
	}
}
