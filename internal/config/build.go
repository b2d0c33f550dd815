package config

import (
	"errors"
	"fmt"

	"github.com/munjed-ab/djcraft/internal/catalog"
	"github.com/munjed-ab/djcraft/internal/generator"
	"github.com/munjed-ab/djcraft/internal/structure"
)

// Plan is a document turned into a model plus the generation settings
// the document carries.
type Plan struct {
	Model    *structure.Model
	Env      string
	Features map[string][]generator.Feature
}

// Build validates doc and builds the model rooted at projectRoot. Every
// problem is returned together as *ValidationErrors.
func Build(doc *Document, cat *catalog.Catalog, projectRoot string) (*Plan, error) {
	plan, errs := build(doc, cat, projectRoot)
	if len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}
	return plan, nil
}

// build applies the document to a fresh model in dependency order:
// core, directories (parents first), apps, services. Each failing entry
// is recorded and skipped so later entries are still checked.
func build(doc *Document, cat *catalog.Catalog, projectRoot string) (*Plan, []ValidationError) {
	if doc == nil {
		return nil, []ValidationError{{Field: "document", Message: "is empty", Wrapped: ErrInvalidConfig}}
	}
	d := *doc
	if doc.Core != nil {
		core := *doc.Core
		d.Core = &core
	}
	applyDefaults(&d)

	errs := validateFields(&d)
	if d.ProjectName == "" {
		return nil, errs
	}

	m := structure.NewModel(d.ProjectName, projectRoot, cat)
	add := func(field string, value any, err error) {
		errs = append(errs, ValidationError{Field: field, Message: reason(err), Value: value, Wrapped: err})
	}

	if err := structure.ValidateProjectName(d.ProjectName); err != nil {
		add("project_name", nil, err)
	}

	// The core goes first: a custom path creates directories that
	// declared directories and apps may use as parents.
	if err := m.SetCoreLocation(structure.CoreLocation(d.Core.Location), d.Core.Path); err != nil {
		add("core", d.Core.Path, err)
	}

	var existing []string
	for _, dir := range m.Directories() {
		existing = append(existing, dir.Path)
	}
	for _, i := range directoryOrder(d.Directories, existing...) {
		dir := d.Directories[i]
		if dir.Name == "" {
			continue
		}
		if _, err := m.AddDirectory(dir.Name, dir.Parent); err != nil {
			add(fmt.Sprintf("directories[%d]", i), dir.Name, err)
		}
	}

	features := make(map[string][]generator.Feature)
	for i, app := range d.Apps {
		if app.Name == "" {
			continue
		}
		if err := m.AddApp(app.Name, app.Directory); err != nil {
			add(fmt.Sprintf("apps[%d]", i), app.Name, err)
			continue
		}
		for _, name := range app.Features {
			// Unknown names were already reported by the field rules.
			if f, err := generator.ParseFeature(name); err == nil {
				features[app.Name] = append(features[app.Name], f)
			}
		}
	}

	for i, svc := range d.Services {
		if svc.Name == "" {
			continue
		}
		field := fmt.Sprintf("services[%d]", i)
		if err := m.AddService(svc.Name, svc.Options); err != nil {
			add(field, svc.Name, err)
			continue
		}
		optErrs := cat.ValidateOptions(svc.Name, svc.Options)
		for _, err := range optErrs {
			add(field+".options", svc.Name, err)
		}
		if len(optErrs) > 0 {
			continue
		}
		// Services such as authentication add apps of their own.
		if err := generator.PrepareService(m, svc.Name); err != nil {
			add(field, subject(err, svc.Name), err)
		}
	}

	for _, err := range catalog.NewResolver(cat).CheckAll(m.ServiceNames()) {
		add("services", nil, err)
	}

	return &Plan{Model: m, Env: d.Env, Features: features}, errs
}

// directoryOrder returns indexes into dirs with every parent before its
// children. existing paths count as already placed. Entries whose parent is never declared keep their relative
// order at the end, where AddDirectory reports them as orphans.
func directoryOrder(dirs []DirectorySpec, existing ...string) []int {
	placed := make(map[string]bool, len(existing))
	for _, p := range existing {
		placed[p] = true
	}
	done := make([]bool, len(dirs))
	order := make([]int, 0, len(dirs))

	for progress := true; progress; {
		progress = false
		for i, dir := range dirs {
			if done[i] || (dir.Parent != "" && !placed[dir.Parent]) {
				continue
			}
			done[i] = true
			progress = true
			order = append(order, i)
			placed[joinPath(dir.Parent, dir.Name)] = true
		}
	}
	for i := range dirs {
		if !done[i] {
			order = append(order, i)
		}
	}
	return order
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// reason returns the human part of a structure error. The field and
// value of the ValidationError already name the subject.
func reason(err error) string {
	var se *structure.Error
	if errors.As(err, &se) {
		return se.Reason
	}
	return err.Error()
}

// subject returns the name a structure error is about, or fallback.
func subject(err error, fallback string) string {
	var se *structure.Error
	if errors.As(err, &se) && se.Subject != "" {
		return se.Subject
	}
	return fallback
}
