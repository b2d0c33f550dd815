package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads a document from path. The format follows the extension.
// Missing env and core values are filled with defaults.
func Load(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(filepath.Base(path), data, format)
}

// Parse decodes data in the given format. filename is only used in
// diagnostics.
func Parse(filename string, data []byte, format Format) (*Document, error) {
	doc := &Document{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, doc)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(doc)
	case FormatHCL:
		doc, err = parseHCL(filename, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSyntax, filename, err)
	}
	applyDefaults(doc)
	return doc, nil
}

func parseHCL(filename string, data []byte) (*Document, error) {
	if !strings.HasSuffix(filename, ".hcl") {
		filename += ".hcl"
	}
	var raw hclDocument
	if err := hclsimple.Decode(filename, data, nil, &raw); err != nil {
		return nil, err
	}

	doc := &Document{
		ProjectName: raw.ProjectName,
		Env:         raw.Env,
		Core:        raw.Core,
		Directories: raw.Directories,
		Apps:        raw.Apps,
	}
	for _, svc := range raw.Services {
		spec := ServiceSpec{Name: svc.Name}
		if !svc.Options.IsNull() {
			opts, err := ctyToOptions(svc)
			if err != nil {
				return nil, err
			}
			spec.Options = opts
		}
		doc.Services = append(doc.Services, spec)
	}
	return doc, nil
}

// ctyToOptions converts an HCL object to plain Go values by way of JSON,
// so numbers arrive as float64 exactly as they do from a JSON file.
func ctyToOptions(svc hclService) (map[string]any, error) {
	if !svc.Options.Type().IsObjectType() && !svc.Options.Type().IsMapType() {
		return nil, fmt.Errorf("service %q: options must be an object", svc.Name)
	}
	b, err := ctyjson.Marshal(svc.Options, svc.Options.Type())
	if err != nil {
		return nil, fmt.Errorf("service %q options: %w", svc.Name, err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("service %q options: %w", svc.Name, err)
	}
	return out, nil
}
