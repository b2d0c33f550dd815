package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// OptionKind is the value shape an option accepts.
type OptionKind int

const (
	KindString OptionKind = iota
	KindInt
	KindBool
	KindChoice      // one of Choices
	KindMultiChoice // list drawn from Choices
	KindMapping     // string-keyed mapping
)

// String returns the schema name of the kind.
func (k OptionKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindChoice:
		return "choice"
	case KindMultiChoice:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// OptionSpec declares one option of a service.
type OptionSpec struct {
	Key     string
	Kind    OptionKind
	Choices []string
}

// ValidateOptions checks options against the schema of name and returns
// every violation. Keys without a schema entry are accepted as-is.
func (c *Catalog) ValidateOptions(name string, options map[string]any) []error {
	svc, ok := c.services[name]
	if !ok {
		return []error{fmt.Errorf("%w: %s", ErrUnknownService, name)}
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		spec, ok := svc.Option(key)
		if !ok {
			continue
		}
		if reason := spec.check(options[key]); reason != "" {
			errs = append(errs, &OptionError{Service: name, Option: key, Value: options[key], Reason: reason})
		}
	}
	return errs
}

func (o OptionSpec) check(v any) string {
	switch o.Kind {
	case KindString:
		if _, ok := v.(string); !ok {
			return "expected a string"
		}
	case KindInt:
		if _, ok := toInt(v); !ok {
			return "expected an integer"
		}
	case KindBool:
		if _, ok := toBool(v); !ok {
			return "expected true or false"
		}
	case KindChoice:
		if !slices.Contains(o.Choices, scalarString(v)) {
			return "must be one of " + strings.Join(o.Choices, ", ")
		}
	case KindMultiChoice:
		items, ok := toStrings(v)
		if !ok {
			return "expected a list"
		}
		for _, it := range items {
			if !slices.Contains(o.Choices, it) {
				return fmt.Sprintf("%q is not one of %s", it, strings.Join(o.Choices, ", "))
			}
		}
	case KindMapping:
		if _, ok := toStringMap(v); !ok {
			return "expected a mapping of strings"
		}
	}
	return ""
}

// Options wraps a service option mapping with typed accessors. Missing
// or mistyped values yield the zero value.
type Options map[string]any

// String returns the option as a string.
func (o Options) String(key string) string {
	v, ok := o[key]
	if !ok || v == nil {
		return ""
	}
	return scalarString(v)
}

// Bool returns the option as a bool.
func (o Options) Bool(key string) bool {
	b, _ := toBool(o[key])
	return b
}

// Int returns the option as an int.
func (o Options) Int(key string) int {
	n, _ := toInt(o[key])
	return n
}

// Strings returns a list option.
func (o Options) Strings(key string) []string {
	s, _ := toStrings(o[key])
	return s
}

// Map returns a mapping option with string values.
func (o Options) Map(key string) map[string]string {
	m, _ := toStringMap(o[key])
	return m
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(t)
		return b, err == nil
	default:
		return false, false
	}
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	case string:
		n, err := strconv.Atoi(t)
		return n, err == nil
	default:
		return 0, false
	}
}

func toStrings(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t), true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, scalarString(e))
		}
		return out, true
	case string:
		if t == "" {
			return nil, true
		}
		parts := strings.Split(t, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, true
	default:
		return nil, false
	}
}

func toStringMap(v any) (map[string]string, bool) {
	switch t := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out, true
	case map[string]any:
		out := make(map[string]string, len(t))
		for k, e := range t {
			out[k] = scalarString(e)
		}
		return out, true
	default:
		return nil, false
	}
}

// Normalize converts every schema-declared option of name to its Go
// type: bool, int, string, []string, or map[string]string. Unknown keys
// are copied unchanged.
func (c *Catalog) Normalize(name string, options map[string]any) map[string]any {
	out := cloneOptions(options)
	svc, ok := c.services[name]
	if !ok {
		return out
	}
	opts := Options(options)
	for _, spec := range svc.Options {
		if _, present := options[spec.Key]; !present {
			continue
		}
		switch spec.Kind {
		case KindBool:
			out[spec.Key] = opts.Bool(spec.Key)
		case KindInt:
			out[spec.Key] = opts.Int(spec.Key)
		case KindString, KindChoice:
			out[spec.Key] = opts.String(spec.Key)
		case KindMultiChoice:
			out[spec.Key] = opts.Strings(spec.Key)
		case KindMapping:
			m := opts.Map(spec.Key)
			if m == nil {
				m = map[string]string{}
			}
			out[spec.Key] = m
		}
	}
	return out
}
