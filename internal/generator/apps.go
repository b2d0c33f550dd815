package generator

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/munjed-ab/djcraft/internal/defs"
	"github.com/munjed-ab/djcraft/internal/structure"
	"github.com/munjed-ab/djcraft/internal/template"
)

// Variant is the inferred file set of an app.
type Variant string

const (
	VariantStandard Variant = "standard"
	VariantAPI      Variant = "api"
	VariantAuth     Variant = "auth"
)

// authAppNames select the auth variant.
var authAppNames = []string{"users", "accounts", "authentication", "auth"}

// SelectVariant infers the variant from an app name alone: auth for the
// well-known user app names, api when any underscore-separated token is
// "api", standard otherwise.
func SelectVariant(name string) Variant {
	if slices.Contains(authAppNames, name) {
		return VariantAuth
	}
	if slices.Contains(strings.Split(name, "_"), "api") {
		return VariantAPI
	}
	return VariantStandard
}

// Feature is an optional per-app add-on module.
type Feature string

const (
	FeatureForms      Feature = "forms"
	FeatureSignals    Feature = "signals"
	FeatureModelViews Feature = "model_views"
)

// Features lists every supported feature.
var Features = []Feature{FeatureForms, FeatureSignals, FeatureModelViews}

// ParseFeature validates a feature name.
func ParseFeature(s string) (Feature, error) {
	f := Feature(strings.TrimSpace(s))
	if !slices.Contains(Features, f) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFeature, s)
	}
	return f, nil
}

// PlannedFile is one file an app build will render. Path is relative to
// the app directory.
type PlannedFile struct {
	Template string
	Path     string
}

var (
	standardFiles = []PlannedFile{
		{"app/__init__.py.tmpl", defs.InitPy},
		{"app/admin.py.tmpl", defs.AdminPy},
		{"app/apps.py.tmpl", defs.AppsPy},
		{"app/models.py.tmpl", defs.ModelsPy},
		{"app/views.py.tmpl", defs.ViewsPy},
		{"app/urls.py.tmpl", defs.UrlsPy},
	}

	apiFiles = append(slices.Clone(standardFiles),
		PlannedFile{"app/api/serializers.py.tmpl", defs.SerializersPy},
		PlannedFile{"app/api/api_urls.py.tmpl", defs.APIUrlsPy},
	)

	authFiles = []PlannedFile{
		{"app/__init__.py.tmpl", defs.InitPy},
		{"app/auth/admin.py.tmpl", defs.AdminPy},
		{"app/auth/apps.py.tmpl", defs.AppsPy},
		{"app/auth/models.py.tmpl", defs.ModelsPy},
		{"app/auth/test_models.py.tmpl", path.Join(defs.TestsDir, defs.TestModelsPy)},
	}

	// packageFiles make migrations/ and tests/ importable in every app.
	packageFiles = []PlannedFile{
		{"app/__init__.py.tmpl", path.Join(defs.MigrationsDir, defs.InitPy)},
		{"app/__init__.py.tmpl", path.Join(defs.TestsDir, defs.InitPy)},
	}
)

var variantFiles = map[Variant][]PlannedFile{
	VariantStandard: standardFiles,
	VariantAPI:      apiFiles,
	VariantAuth:     authFiles,
}

var featureFiles = map[Feature]PlannedFile{
	FeatureForms:      {"app/features/forms.py.tmpl", defs.FormsPy},
	FeatureSignals:    {"app/features/signals.py.tmpl", defs.SignalsPy},
	FeatureModelViews: {"app/features/model_views.py.tmpl", defs.ModelViewsPy},
}

// AppBuilder accumulates the variant and features of one app, then
// renders the combined file plan.
type AppBuilder struct {
	app        structure.AppNode
	importPath string
	variant    Variant
	features   []Feature
}

// NewAppBuilder starts a build with the variant inferred from the name.
func NewAppBuilder(app structure.AppNode) *AppBuilder {
	return &AppBuilder{app: app, variant: SelectVariant(app.Name)}
}

// WithVariant overrides the inferred variant.
func (b *AppBuilder) WithVariant(v Variant) *AppBuilder {
	b.variant = v
	return b
}

// WithFeature adds a feature. Repeated features are ignored.
func (b *AppBuilder) WithFeature(f Feature) *AppBuilder {
	if !slices.Contains(b.features, f) {
		b.features = append(b.features, f)
	}
	return b
}

// Variant returns the selected variant.
func (b *AppBuilder) Variant() Variant { return b.variant }

// Plan lists the files to render: the package files, the variant's
// table, then one file per feature in the order features were added.
func (b *AppBuilder) Plan() []PlannedFile {
	plan := slices.Clone(packageFiles)
	plan = append(plan, variantFiles[b.variant]...)
	for _, f := range b.features {
		if pf, ok := featureFiles[f]; ok {
			plan = append(plan, pf)
		}
	}
	return plan
}

// Context returns the template view of the app being built.
func (b *AppBuilder) Context() template.AppContext {
	features := make([]string, len(b.features))
	for i, f := range b.features {
		features[i] = string(f)
	}
	importPath := b.importPath
	if importPath == "" {
		importPath = structure.ModulePath(b.app.Path)
	}
	return template.AppContext{
		Name:       b.app.Name,
		ImportPath: importPath,
		Path:       b.app.Path,
		Variant:    string(b.variant),
		Features:   features,
		HasURLs:    b.variant != VariantAuth,
	}
}

// Build renders every planned file under the app directory.
func (b *AppBuilder) Build(ctx context.Context, d template.Deployer, base *template.Context) error {
	tctx := base.With(template.WithApp(b.Context()))
	for _, f := range b.Plan() {
		if err := d.RenderFile(ctx, f.Template, path.Join(b.app.Path, f.Path), tctx); err != nil {
			return err
		}
	}
	return nil
}
