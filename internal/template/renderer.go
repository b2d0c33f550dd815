package template

import (
	"bytes"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// templateFuncMap provides custom functions available in all templates.
var templateFuncMap = template.FuncMap{
	// className turns a snake_case app name into a CamelCase class prefix.
	"className": className,
	// module converts a slash path to a dotted Python module path.
	"module": func(s string) string {
		return strings.ReplaceAll(strings.Trim(s, "/"), "/", ".")
	},
	// pyBool prints a Go bool as a Python literal.
	"pyBool": func(b bool) string {
		if b {
			return "True"
		}
		return "False"
	},
	// pyStr quotes a string as a Python literal.
	"pyStr": func(s string) string {
		return "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "'", `\'`) + "'"
	},
	// split breaks a slash path into segments.
	"split": func(s string) []string {
		return strings.Split(strings.Trim(s, "/"), "/")
	},
	// has reports whether list contains s.
	"has": func(list []string, s string) bool {
		return slices.Contains(list, s)
	},
	"quote": strconv.Quote,
	"join":  strings.Join,
}

// unexpandedTokenPattern detects Go template actions left in rendered output.
var unexpandedTokenPattern = regexp.MustCompile(`\{\{\.?[A-Za-z_][A-Za-z0-9_.]*\}\}`)

// Renderer renders Go text/template files with strict mode enabled.
type Renderer interface {
	// Render parses the named template and executes it with data. Failures
	// are returned as *RenderError.
	Render(templateName string, data any) ([]byte, error)
}

// renderer is the concrete implementation of Renderer.
type renderer struct {
	fsys fs.FS
}

// NewRenderer creates a Renderer backed by the given filesystem.
func NewRenderer(fsys fs.FS) Renderer {
	return &renderer{fsys: fsys}
}

// Render parses and executes a template with strict mode (missingkey=error).
func (r *renderer) Render(templateName string, data any) ([]byte, error) {
	content, err := fs.ReadFile(r.fsys, templateName)
	if err != nil {
		return nil, &RenderError{Template: templateName, Err: fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)}
	}

	tmpl, err := template.New(templateName).
		Funcs(templateFuncMap).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, &RenderError{Template: templateName, Err: fmt.Errorf("parse: %w", err)}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, &RenderError{Template: templateName, Err: fmt.Errorf("%w: %v", ErrMissingTemplateKey, err)}
	}

	result := buf.Bytes()
	if loc := unexpandedTokenPattern.Find(result); loc != nil {
		return nil, &RenderError{Template: templateName, Err: fmt.Errorf("%w: found %q", ErrUnexpandedToken, string(loc))}
	}

	return result, nil
}

func className(name string) string {
	caser := cases.Title(language.English)
	var b strings.Builder
	for _, p := range strings.Split(name, "_") {
		b.WriteString(caser.String(p))
	}
	return b.String()
}
