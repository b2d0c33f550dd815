package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Markdown describes every service as a markdown document: one section
// per service with its dependencies and an option table.
func (c *Catalog) Markdown() string {
	var b strings.Builder
	b.WriteString("# Services\n\n")
	for _, name := range c.order {
		svc := c.services[name]
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", svc.Name, svc.Description)
		if len(svc.Dependencies) > 0 {
			fmt.Fprintf(&b, "Requires: `%s`\n\n", strings.Join(svc.Dependencies, "`, `"))
		}
		if len(svc.Options) == 0 {
			continue
		}
		b.WriteString("| option | type | allowed | default |\n|---|---|---|---|\n")
		for _, o := range svc.Options {
			allowed := "-"
			if len(o.Choices) > 0 {
				allowed = strings.Join(o.Choices, ", ")
			}
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n", o.Key, o.Kind, allowed, formatDefault(svc.Defaults[o.Key]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatDefault(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		if t == "" {
			return `""`
		}
		return "`" + t + "`"
	case map[string]any:
		if len(t) == 0 {
			return "{}"
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "`" + strings.Join(keys, ", ") + "`"
	default:
		return fmt.Sprintf("`%v`", v)
	}
}
