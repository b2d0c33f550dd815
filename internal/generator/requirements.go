package generator

import (
	"slices"
	"strings"

	"github.com/munjed-ab/djcraft/internal/defs"
	"github.com/munjed-ab/djcraft/internal/template"
)

// BaseRequirement is always the first line of requirements.txt.
const BaseRequirement = "Django>=4.2"

// Requirements collects pip requirement lines in first-seen order.
// Duplicates are collapsed by exact string match only, so "pkg>=1.0"
// and "pkg>=2.0" are both kept.
type Requirements struct {
	seen  map[string]struct{}
	order []string
}

// NewRequirements creates an empty aggregator.
func NewRequirements() *Requirements {
	return &Requirements{seen: make(map[string]struct{})}
}

// AddPackages appends each package not already present.
func (r *Requirements) AddPackages(pkgs ...string) {
	for _, p := range pkgs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := r.seen[p]; ok {
			continue
		}
		r.seen[p] = struct{}{}
		r.order = append(r.order, p)
	}
}

// Packages returns the collected lines in order.
func (r *Requirements) Packages() []string {
	return slices.Clone(r.order)
}

// WriteFile flushes the collected lines to requirements.txt.
func (r *Requirements) WriteFile(d template.Deployer) error {
	content := strings.Join(r.order, "\n")
	if content != "" {
		content += "\n"
	}
	return d.WriteFile(defs.RequirementsTxt, []byte(content), 0o644)
}
