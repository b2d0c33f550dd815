package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"

	"github.com/munjed-ab/djcraft/internal/generator"
	"github.com/munjed-ab/djcraft/internal/structure"
)

// FromModel describes m as a document. Directories are sorted by path,
// apps by name, and services keep their insertion order.
func FromModel(m *structure.Model, env string, features map[string][]generator.Feature) *Document {
	if env == "" {
		env = DefaultEnv
	}
	core := m.Core()
	doc := &Document{
		ProjectName: m.Project().Name,
		Core:        &CoreSpec{Location: string(core.Location), Path: core.Path},
		Env:         env,
	}

	dirs := m.Directories()
	slices.SortFunc(dirs, func(a, b structure.DirectoryNode) int { return strings.Compare(a.Path, b.Path) })
	for _, d := range dirs {
		doc.Directories = append(doc.Directories, DirectorySpec{Name: d.Name, Parent: d.ParentPath})
	}

	apps := m.Apps()
	slices.SortFunc(apps, func(a, b structure.AppNode) int { return strings.Compare(a.Name, b.Name) })
	for _, a := range apps {
		spec := AppSpec{Name: a.Name, Directory: a.Directory}
		for _, f := range features[a.Name] {
			spec.Features = append(spec.Features, string(f))
		}
		doc.Apps = append(doc.Apps, spec)
	}

	for _, s := range m.Services() {
		doc.Services = append(doc.Services, ServiceSpec{Name: s.Name, Options: s.Options})
	}
	return doc
}

// Save writes doc to path in the format its extension names, creating
// parent directories as needed.
func Save(path string, doc *Document) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Marshal(doc, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Marshal encodes doc in format.
func Marshal(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return marshalYAML(doc)
	case FormatJSON:
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case FormatHCL:
		return marshalHCL(doc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// yamlSections are written one at a time, each under a comment.
var yamlSections = []struct {
	comment string
	value   func(*Document) (string, any)
}{
	{"Required: the name of your Django project", func(d *Document) (string, any) { return "project_name", d.ProjectName }},
	{"Optional: where the core settings package lives (root or custom)", func(d *Document) (string, any) { return "core", d.Core }},
	{"Optional: plain directories; parent is the parent's path", func(d *Document) (string, any) { return "directories", d.Directories }},
	{"Optional: apps and the directory each one lives in", func(d *Document) (string, any) { return "apps", d.Apps }},
	{"Optional: services and their options", func(d *Document) (string, any) { return "services", d.Services }},
	{"Optional: environment selected by settings/__init__.py (dev or prod)", func(d *Document) (string, any) { return "env", d.Env }},
}

func marshalYAML(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	for i, sec := range yamlSections {
		key, value := sec.value(doc)
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "# %s\n", sec.comment)

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any{key: value}); err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func marshalHCL(doc *Document) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue("project_name", cty.StringVal(doc.ProjectName))
	body.SetAttributeValue("env", cty.StringVal(doc.Env))

	if doc.Core != nil {
		body.AppendNewline()
		core := body.AppendNewBlock("core", nil).Body()
		core.SetAttributeValue("location", cty.StringVal(doc.Core.Location))
		core.SetAttributeValue("path", cty.StringVal(doc.Core.Path))
	}

	for _, d := range doc.Directories {
		body.AppendNewline()
		b := body.AppendNewBlock("directory", []string{d.Name}).Body()
		if d.Parent != "" {
			b.SetAttributeValue("parent", cty.StringVal(d.Parent))
		}
	}

	for _, a := range doc.Apps {
		body.AppendNewline()
		b := body.AppendNewBlock("app", []string{a.Name}).Body()
		if a.Directory != "" {
			b.SetAttributeValue("directory", cty.StringVal(a.Directory))
		}
		if len(a.Features) > 0 {
			vals := make([]cty.Value, len(a.Features))
			for i, f := range a.Features {
				vals[i] = cty.StringVal(f)
			}
			b.SetAttributeValue("features", cty.ListVal(vals))
		}
	}

	for _, s := range doc.Services {
		body.AppendNewline()
		b := body.AppendNewBlock("service", []string{s.Name}).Body()
		if len(s.Options) == 0 {
			continue
		}
		v, err := optionsToCty(s.Options)
		if err != nil {
			return nil, fmt.Errorf("service %q options: %w", s.Name, err)
		}
		b.SetAttributeValue("options", v)
	}
	return f.Bytes(), nil
}

// optionsToCty converts plain Go option values to a cty object by way of
// JSON, the inverse of ctyToOptions.
func optionsToCty(opts map[string]any) (cty.Value, error) {
	b, err := json.Marshal(opts)
	if err != nil {
		return cty.NilVal, err
	}
	ty, err := ctyjson.ImpliedType(b)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(b, ty)
}
