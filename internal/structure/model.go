package structure

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/munjed-ab/djcraft/internal/defs"
)

// CoreLocation says where the core configuration package lives.
type CoreLocation string

const (
	// CoreRoot places the core package directly under the project root.
	CoreRoot CoreLocation = "root"
	// CoreCustom places the core package at a nested slash-separated path.
	CoreCustom CoreLocation = "custom"
)

// Project identifies the generated project.
type Project struct {
	Name     string
	RootPath string
}

// DirectoryNode is a plain folder in the project tree. ParentPath is the
// key of the parent node, or "" for top-level directories.
type DirectoryNode struct {
	Path       string
	Name       string
	ParentPath string
	ChildApps  []string
	ChildDirs  []string
}

// AppNode is a Django app. Directory is the containing DirectoryNode
// path, or "" for apps at the project root.
type AppNode struct {
	Name      string
	Path      string
	Directory string
}

// CoreConfig locates the core package.
type CoreConfig struct {
	Location CoreLocation
	Path     string
}

// ServiceEntry is a registered service with its effective options.
type ServiceEntry struct {
	Name    string
	Options map[string]any
}

// ServiceCatalog is the part of the service catalog the model consults
// when services are registered.
type ServiceCatalog interface {
	Known(name string) bool
	MergeOptions(name string, options map[string]any) map[string]any
}

// Model holds the full structure of one project. Directories and apps
// are kept in insertion order and keyed by path and name respectively;
// parents are referenced by path key, never by pointer.
//
// Model is not safe for concurrent use.
type Model struct {
	project  Project
	catalog  ServiceCatalog
	dirs     map[string]*DirectoryNode
	dirOrder []string
	apps     map[string]*AppNode
	appOrder []string
	core     CoreConfig
	services []ServiceEntry
}

// NewModel creates an empty model. The project name is not rejected here
// so that validate-only callers can report it alongside other problems;
// ValidateStructure re-checks it.
func NewModel(name, rootPath string, catalog ServiceCatalog) *Model {
	return &Model{
		project: Project{Name: name, RootPath: rootPath},
		catalog: catalog,
		dirs:    make(map[string]*DirectoryNode),
		apps:    make(map[string]*AppNode),
		core:    CoreConfig{Location: CoreRoot, Path: defs.DefaultCorePath},
	}
}

// Project returns the project identity.
func (m *Model) Project() Project { return m.project }

// Core returns the current core configuration.
func (m *Model) Core() CoreConfig { return m.core }

// AddDirectory registers a directory under parentPath and returns its
// composed path. Adding an existing path is a no-op that returns the same
// path. A non-empty parentPath must name a known directory.
func (m *Model) AddDirectory(name, parentPath string) (string, error) {
	if err := ValidateDirectoryName(name); err != nil {
		return "", err
	}
	parentPath = strings.Trim(parentPath, "/")
	if parentPath != "" {
		if _, ok := m.dirs[parentPath]; !ok {
			return "", newError(ErrInvalidPath, parentPath, "parent directory does not exist")
		}
	}

	path := joinPath(parentPath, name)
	if _, ok := m.dirs[path]; ok {
		return path, nil
	}

	m.dirs[path] = &DirectoryNode{Path: path, Name: name, ParentPath: parentPath}
	m.dirOrder = append(m.dirOrder, path)
	if parent, ok := m.dirs[parentPath]; ok {
		parent.ChildDirs = append(parent.ChildDirs, name)
	}
	return path, nil
}

// AddApp registers an app inside directoryPath ("" for the project root).
// App names are unique project-wide and apps never nest inside each other
// or around the core package.
func (m *Model) AddApp(name, directoryPath string) error {
	if err := ValidateAppName(name); err != nil {
		return err
	}
	if _, ok := m.apps[name]; ok {
		return newError(ErrStructureValidation, name, "app already exists")
	}

	directoryPath = strings.Trim(directoryPath, "/")
	if directoryPath != "" {
		if _, ok := m.dirs[directoryPath]; !ok {
			return newError(ErrInvalidPath, directoryPath, "directory does not exist")
		}
		if owner, ok := m.appContaining(directoryPath); ok {
			return newError(ErrStructureValidation, name,
				"cannot place app inside directory %q of app %q", directoryPath, owner)
		}
	}

	path := joinPath(directoryPath, name)
	for _, other := range m.appOrder {
		otherPath := m.apps[other].Path
		if containsPath(otherPath, path) || containsPath(path, otherPath) {
			return newError(ErrStructureValidation, name,
				"app path %q overlaps app %q at %q", path, other, otherPath)
		}
	}
	if containsPath(path, m.core.Path) {
		return newError(ErrStructureValidation, name,
			"app path %q would contain the core package at %q", path, m.core.Path)
	}

	m.apps[name] = &AppNode{Name: name, Path: path, Directory: directoryPath}
	m.appOrder = append(m.appOrder, name)
	if dir, ok := m.dirs[directoryPath]; ok {
		dir.ChildApps = append(dir.ChildApps, name)
	}
	return nil
}

// SetCoreLocation moves the core package. For CoreCustom every missing
// intermediate directory along path is created. The previous core
// setting is always replaced on success.
func (m *Model) SetCoreLocation(location CoreLocation, path string) error {
	path = strings.Trim(path, "/")

	switch location {
	case CoreRoot:
		if path == "" {
			path = defs.DefaultCorePath
		}
		if strings.Contains(path, "/") {
			return newError(ErrConfiguration, path, "root core path must be a single directory name")
		}
		if err := ValidateDirectoryName(path); err != nil {
			return err
		}
		if owner, ok := m.appContaining(path); ok {
			return newError(ErrStructureValidation, path, "core path is inside app %q", owner)
		}
		m.core = CoreConfig{Location: CoreRoot, Path: path}
		return nil

	case CoreCustom:
		if path == "" {
			return newError(ErrConfiguration, "", "custom core location requires a path")
		}
		segments := strings.Split(path, "/")
		for _, seg := range segments {
			if seg == "" || seg == "." || seg == ".." {
				return newError(ErrInvalidPath, path, "malformed path segment %q", seg)
			}
			if err := ValidateDirectoryName(seg); err != nil {
				return err
			}
		}
		if owner, ok := m.appContaining(path); ok {
			return newError(ErrStructureValidation, path, "core path is inside app %q", owner)
		}

		parent := ""
		for _, seg := range segments {
			created, err := m.AddDirectory(seg, parent)
			if err != nil {
				return fmt.Errorf("create core directory %q: %w", seg, err)
			}
			parent = created
		}
		m.core = CoreConfig{Location: CoreCustom, Path: path}
		return nil

	default:
		return newError(ErrConfiguration, string(location), "core location must be %q or %q", CoreRoot, CoreCustom)
	}
}

// AddService registers a catalog service. Options are merged over the
// catalog defaults. Dependencies are not checked here; see
// catalog.Resolver.
func (m *Model) AddService(name string, options map[string]any) error {
	if m.catalog == nil || !m.catalog.Known(name) {
		return newError(ErrConfiguration, name, "unknown service")
	}
	if m.HasService(name) {
		return newError(ErrStructureValidation, name, "service already added")
	}
	m.services = append(m.services, ServiceEntry{
		Name:    name,
		Options: m.catalog.MergeOptions(name, options),
	})
	return nil
}

// ValidateStructure re-checks every structural invariant and returns all
// violations found. It never stops at the first problem. Service
// dependencies are not part of this check.
func (m *Model) ValidateStructure() []error {
	var errs []error

	if err := ValidateProjectName(m.project.Name); err != nil {
		errs = append(errs, err)
	}

	for _, path := range m.dirOrder {
		dir := m.dirs[path]
		if err := ValidateDirectoryName(dir.Name); err != nil {
			errs = append(errs, err)
		}
		if dir.ParentPath != "" {
			if _, ok := m.dirs[dir.ParentPath]; !ok {
				errs = append(errs, newError(ErrInvalidPath, path, "parent directory %q does not exist", dir.ParentPath))
			}
		}
	}

	for _, name := range m.appOrder {
		if err := ValidateAppName(name); err != nil {
			errs = append(errs, err)
		}
	}

	for i, a := range m.appOrder {
		for _, b := range m.appOrder[i+1:] {
			pa, pb := m.apps[a].Path, m.apps[b].Path
			switch {
			case isStrictSubpath(pa, pb):
				errs = append(errs, newError(ErrStructureValidation, b, "app is nested inside app %q", a))
			case isStrictSubpath(pb, pa):
				errs = append(errs, newError(ErrStructureValidation, a, "app is nested inside app %q", b))
			case pa == pb:
				errs = append(errs, newError(ErrStructureValidation, b, "app shares path %q with app %q", pa, a))
			}
		}
	}

	if owner, ok := m.appContaining(m.core.Path); ok {
		errs = append(errs, newError(ErrStructureValidation, m.core.Path, "core path is inside app %q", owner))
	}

	return errs
}

// Directory returns the node stored at path.
func (m *Model) Directory(path string) (DirectoryNode, bool) {
	d, ok := m.dirs[path]
	if !ok {
		return DirectoryNode{}, false
	}
	return cloneDir(d), true
}

// Directories returns all directories in creation order.
func (m *Model) Directories() []DirectoryNode {
	out := make([]DirectoryNode, 0, len(m.dirOrder))
	for _, p := range m.dirOrder {
		out = append(out, cloneDir(m.dirs[p]))
	}
	return out
}

// App returns the app registered under name.
func (m *Model) App(name string) (AppNode, bool) {
	a, ok := m.apps[name]
	if !ok {
		return AppNode{}, false
	}
	return *a, true
}

// Apps returns all apps in registration order.
func (m *Model) Apps() []AppNode {
	out := make([]AppNode, 0, len(m.appOrder))
	for _, n := range m.appOrder {
		out = append(out, *m.apps[n])
	}
	return out
}

// HasService reports whether name has been registered.
func (m *Model) HasService(name string) bool {
	_, ok := m.Service(name)
	return ok
}

// Service returns the registered entry for name.
func (m *Model) Service(name string) (ServiceEntry, bool) {
	for _, s := range m.services {
		if s.Name == name {
			return cloneService(s), true
		}
	}
	return ServiceEntry{}, false
}

// Services returns registered services in insertion order.
func (m *Model) Services() []ServiceEntry {
	out := make([]ServiceEntry, len(m.services))
	for i, s := range m.services {
		out[i] = cloneService(s)
	}
	return out
}

// ServiceNames returns the registered service names in insertion order.
func (m *Model) ServiceNames() []string {
	names := make([]string, len(m.services))
	for i, s := range m.services {
		names[i] = s.Name
	}
	return names
}

// CorePath returns the filesystem path of the core package.
func (m *Model) CorePath() string {
	return filepath.Join(m.project.RootPath, filepath.FromSlash(m.core.Path))
}

// CoreModule returns the dotted Python module path of the core package.
func (m *Model) CoreModule() string {
	return ModulePath(m.core.Path)
}

// ImportPath returns the dotted Python import path of the named app.
func (m *Model) ImportPath(app string) (string, bool) {
	a, ok := m.apps[app]
	if !ok {
		return "", false
	}
	return ModulePath(a.Path), true
}

// ImportPaths maps every app name to its dotted Python import path.
func (m *Model) ImportPaths() map[string]string {
	out := make(map[string]string, len(m.apps))
	for name, a := range m.apps {
		out[name] = ModulePath(a.Path)
	}
	return out
}

// ModulePath converts a slash-separated project path to a dotted module path.
func ModulePath(path string) string {
	return strings.ReplaceAll(strings.Trim(path, "/"), "/", ".")
}

// appContaining returns the app whose path equals or contains path.
func (m *Model) appContaining(path string) (string, bool) {
	for _, name := range m.appOrder {
		if containsPath(m.apps[name].Path, path) {
			return name, true
		}
	}
	return "", false
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// containsPath reports whether inner equals outer or lies below it,
// comparing whole path segments.
func containsPath(outer, inner string) bool {
	return inner == outer || isStrictSubpath(outer, inner)
}

func isStrictSubpath(outer, inner string) bool {
	return strings.HasPrefix(inner, outer+"/")
}

func cloneDir(d *DirectoryNode) DirectoryNode {
	c := *d
	c.ChildApps = append([]string(nil), d.ChildApps...)
	c.ChildDirs = append([]string(nil), d.ChildDirs...)
	return c
}

func cloneService(s ServiceEntry) ServiceEntry {
	return ServiceEntry{Name: s.Name, Options: maps.Clone(s.Options)}
}
