package generator

import (
	"errors"
	"slices"
	"testing"

	"github.com/munjed-ab/djcraft/internal/structure"
)

func TestSelectVariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want Variant
	}{
		{"users", VariantAuth},
		{"accounts", VariantAuth},
		{"authentication", VariantAuth},
		{"auth", VariantAuth},
		{"billing_api", VariantAPI},
		{"api_gateway", VariantAPI},
		{"public_api_v2", VariantAPI},
		{"rapid", VariantStandard},
		{"apiary", VariantStandard},
		{"products", VariantStandard},
		{"user", VariantStandard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SelectVariant(tt.name); got != tt.want {
				t.Errorf("SelectVariant(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseFeature(t *testing.T) {
	t.Parallel()

	for _, f := range Features {
		got, err := ParseFeature(" " + string(f) + " ")
		if err != nil || got != f {
			t.Errorf("ParseFeature(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFeature("graphql"); !errors.Is(err, ErrUnknownFeature) {
		t.Errorf("ParseFeature(graphql) err = %v, want ErrUnknownFeature", err)
	}
}

func planPaths(b *AppBuilder) []string {
	var out []string
	for _, f := range b.Plan() {
		out = append(out, f.Path)
	}
	return out
}

func TestAppBuilder_Plan(t *testing.T) {
	t.Parallel()

	t.Run("standard", func(t *testing.T) {
		t.Parallel()
		b := NewAppBuilder(structure.AppNode{Name: "products", Path: "apps/products"})
		got := planPaths(b)
		want := []string{
			"migrations/__init__.py", "tests/__init__.py",
			"__init__.py", "admin.py", "apps.py", "models.py", "views.py", "urls.py",
		}
		if !slices.Equal(got, want) {
			t.Errorf("Plan = %v, want %v", got, want)
		}
	})

	t.Run("api_adds_serializers", func(t *testing.T) {
		t.Parallel()
		b := NewAppBuilder(structure.AppNode{Name: "billing_api", Path: "billing_api"})
		got := planPaths(b)
		for _, f := range []string{"serializers.py", "api_urls.py", "views.py"} {
			if !slices.Contains(got, f) {
				t.Errorf("Plan missing %q: %v", f, got)
			}
		}
	})

	t.Run("auth_has_no_urls", func(t *testing.T) {
		t.Parallel()
		b := NewAppBuilder(structure.AppNode{Name: "users", Path: "users"})
		got := planPaths(b)
		if slices.Contains(got, "urls.py") || slices.Contains(got, "views.py") {
			t.Errorf("auth plan has url/view files: %v", got)
		}
		if !slices.Contains(got, "tests/test_models.py") {
			t.Errorf("auth plan missing tests/test_models.py: %v", got)
		}
		if b.Context().HasURLs {
			t.Error("auth context HasURLs = true")
		}
	})

	t.Run("features_once_in_order", func(t *testing.T) {
		t.Parallel()
		b := NewAppBuilder(structure.AppNode{Name: "shop", Path: "shop"}).
			WithFeature(FeatureModelViews).
			WithFeature(FeatureForms).
			WithFeature(FeatureModelViews)
		got := planPaths(b)
		tail := got[len(got)-2:]
		if !slices.Equal(tail, []string{"model_views.py", "forms.py"}) {
			t.Errorf("feature files = %v, want [model_views.py forms.py]", tail)
		}
		if f := b.Context().Features; !slices.Equal(f, []string{"model_views", "forms"}) {
			t.Errorf("Context().Features = %v", f)
		}
	})

	t.Run("override_variant", func(t *testing.T) {
		t.Parallel()
		b := NewAppBuilder(structure.AppNode{Name: "members", Path: "members"}).WithVariant(VariantAuth)
		if b.Variant() != VariantAuth {
			t.Errorf("Variant = %q, want auth", b.Variant())
		}
	})
}

func TestAppBuilder_ContextImportPath(t *testing.T) {
	t.Parallel()

	b := NewAppBuilder(structure.AppNode{Name: "billing", Path: "apps/commerce/billing"})
	ctx := b.Context()
	if ctx.ImportPath != "apps.commerce.billing" {
		t.Errorf("ImportPath = %q, want apps.commerce.billing", ctx.ImportPath)
	}
	if ctx.Variant != string(VariantStandard) {
		t.Errorf("Variant = %q", ctx.Variant)
	}
}
