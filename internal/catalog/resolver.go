package catalog

import (
	"fmt"
	"slices"
)

// Resolver checks declared service dependencies against the full set of
// registered services. Registration order is irrelevant: a dependency
// added after its dependent still satisfies it.
type Resolver struct {
	catalog *Catalog
}

// NewResolver creates a Resolver over catalog.
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Check returns a *DependencyError for the first dependency of service
// missing from registered.
func (r *Resolver) Check(service string, registered []string) error {
	svc, ok := r.catalog.Lookup(service)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownService, service)
	}
	for _, dep := range svc.Dependencies {
		if !slices.Contains(registered, dep) {
			return &DependencyError{Service: service, Dependency: dep}
		}
	}
	return nil
}

// CheckAll checks every registered service and returns all missing
// dependencies, one error per (service, dependency) pair.
func (r *Resolver) CheckAll(registered []string) []error {
	var errs []error
	for _, name := range registered {
		svc, ok := r.catalog.Lookup(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownService, name))
			continue
		}
		for _, dep := range svc.Dependencies {
			if !slices.Contains(registered, dep) {
				errs = append(errs, &DependencyError{Service: name, Dependency: dep})
			}
		}
	}
	return errs
}
