package template

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Deployer writes rendered templates and raw content under a project
// root and records every directory and file it creates.
type Deployer interface {
	// RenderFile renders templateName with data and writes it to relPath.
	// Failures are returned as *RenderError.
	RenderFile(ctx context.Context, templateName, relPath string, data any) error

	// WriteFile writes content to relPath, creating parent directories.
	WriteFile(relPath string, content []byte, perm fs.FileMode) error

	// AppendFile appends content to an existing file at relPath.
	AppendFile(relPath string, content []byte) error

	// ReadFile returns the current content of relPath.
	ReadFile(relPath string) ([]byte, error)

	// EnsureDir creates relPath and its parents if missing.
	EnsureDir(relPath string) error

	// Root returns the project root this deployer writes into.
	Root() string

	// Created returns the project-relative directories and files created
	// so far, in creation order.
	Created() (dirs, files []string)
}

// executableFiles get 0o755 regardless of the requested mode.
var executableFiles = []string{"manage.py"}

// deployer writes to the real filesystem.
type deployer struct {
	root     string
	renderer Renderer
	dirs     []string
	files    []string
}

// NewDeployer creates a Deployer that renders with renderer and writes
// under projectRoot.
func NewDeployer(projectRoot string, renderer Renderer) Deployer {
	return &deployer{root: filepath.Clean(projectRoot), renderer: renderer}
}

func (d *deployer) Root() string { return d.root }

func (d *deployer) Created() ([]string, []string) {
	return slices.Clone(d.dirs), slices.Clone(d.files)
}

// RenderFile renders a template and writes the result to relPath.
func (d *deployer) RenderFile(ctx context.Context, templateName, relPath string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	content, err := d.renderer.Render(templateName, data)
	if err != nil {
		var re *RenderError
		if errors.As(err, &re) {
			re.Path = relPath
			return re
		}
		return &RenderError{Template: templateName, Path: relPath, Err: err}
	}
	if err := d.WriteFile(relPath, content, 0o644); err != nil {
		return &RenderError{Template: templateName, Path: relPath, Err: err}
	}
	return nil
}

// WriteFile writes content, creating parent directories as needed.
func (d *deployer) WriteFile(relPath string, content []byte, perm fs.FileMode) error {
	destPath, err := d.resolve(relPath)
	if err != nil {
		return err
	}
	if err := d.EnsureDir(path.Dir(filepath.ToSlash(relPath))); err != nil {
		return err
	}
	if slices.Contains(executableFiles, path.Base(filepath.ToSlash(relPath))) {
		perm = 0o755
	}

	_, statErr := os.Stat(destPath)
	if err := os.WriteFile(destPath, content, perm); err != nil {
		return fmt.Errorf("write %q: %w", relPath, err)
	}
	// os.WriteFile keeps the mode of an existing file.
	if err := os.Chmod(destPath, perm); err != nil {
		return fmt.Errorf("chmod %q: %w", relPath, err)
	}
	if os.IsNotExist(statErr) {
		d.files = append(d.files, filepath.ToSlash(filepath.Clean(relPath)))
	}
	return nil
}

// AppendFile appends content to an existing file.
func (d *deployer) AppendFile(relPath string, content []byte) error {
	destPath, err := d.resolve(relPath)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(destPath, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("append %q: %w", relPath, err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("append %q: %w", relPath, err)
	}
	return f.Close()
}

// ReadFile reads a file under the project root.
func (d *deployer) ReadFile(relPath string) ([]byte, error) {
	destPath, err := d.resolve(relPath)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(destPath)
}

// EnsureDir creates relPath with 0o755, recording each new directory.
func (d *deployer) EnsureDir(relPath string) error {
	relPath = filepath.ToSlash(filepath.Clean(filepath.FromSlash(relPath)))
	if relPath == "." || relPath == "" {
		return os.MkdirAll(d.root, 0o755)
	}
	destPath, err := d.resolve(relPath)
	if err != nil {
		return err
	}
	if info, err := os.Stat(destPath); err == nil && info.IsDir() {
		return nil
	}

	// Record missing ancestors from the top down.
	var missing []string
	for p := relPath; p != "." && p != ""; p = path.Dir(p) {
		if _, err := os.Stat(filepath.Join(d.root, filepath.FromSlash(p))); err == nil {
			break
		}
		missing = append(missing, p)
	}
	if err := os.MkdirAll(destPath, 0o755); err != nil {
		return fmt.Errorf("mkdir %q: %w", relPath, err)
	}
	for i := len(missing) - 1; i >= 0; i-- {
		d.dirs = append(d.dirs, missing[i])
	}
	return nil
}

func (d *deployer) resolve(relPath string) (string, error) {
	if err := validateDeployPath(d.root, relPath); err != nil {
		return "", err
	}
	return filepath.Join(d.root, filepath.FromSlash(relPath)), nil
}

// memoryDeployer keeps everything in memory. It backs dry runs.
type memoryDeployer struct {
	root     string
	renderer Renderer
	content  map[string][]byte
	dirSet   map[string]bool
	dirs     []string
	files    []string
}

// NewMemoryDeployer creates a Deployer that renders normally but never
// touches the filesystem.
func NewMemoryDeployer(projectRoot string, renderer Renderer) Deployer {
	return &memoryDeployer{
		root:     filepath.Clean(projectRoot),
		renderer: renderer,
		content:  make(map[string][]byte),
		dirSet:   make(map[string]bool),
	}
}

func (m *memoryDeployer) Root() string { return m.root }

func (m *memoryDeployer) Created() ([]string, []string) {
	return slices.Clone(m.dirs), slices.Clone(m.files)
}

func (m *memoryDeployer) RenderFile(ctx context.Context, templateName, relPath string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	content, err := m.renderer.Render(templateName, data)
	if err != nil {
		var re *RenderError
		if errors.As(err, &re) {
			re.Path = relPath
			return re
		}
		return &RenderError{Template: templateName, Path: relPath, Err: err}
	}
	return m.WriteFile(relPath, content, 0o644)
}

func (m *memoryDeployer) WriteFile(relPath string, content []byte, _ fs.FileMode) error {
	key, err := m.key(relPath)
	if err != nil {
		return err
	}
	if err := m.EnsureDir(path.Dir(key)); err != nil {
		return err
	}
	if _, ok := m.content[key]; !ok {
		m.files = append(m.files, key)
	}
	m.content[key] = slices.Clone(content)
	return nil
}

func (m *memoryDeployer) AppendFile(relPath string, content []byte) error {
	key, err := m.key(relPath)
	if err != nil {
		return err
	}
	existing, ok := m.content[key]
	if !ok {
		return fmt.Errorf("append %q: %w", relPath, fs.ErrNotExist)
	}
	m.content[key] = append(existing, content...)
	return nil
}

func (m *memoryDeployer) ReadFile(relPath string) ([]byte, error) {
	key, err := m.key(relPath)
	if err != nil {
		return nil, err
	}
	c, ok := m.content[key]
	if !ok {
		return nil, fmt.Errorf("read %q: %w", relPath, fs.ErrNotExist)
	}
	return slices.Clone(c), nil
}

func (m *memoryDeployer) EnsureDir(relPath string) error {
	key, err := m.key(relPath)
	if err != nil {
		return err
	}
	var missing []string
	for p := key; p != "." && p != "" && !m.dirSet[p]; p = path.Dir(p) {
		missing = append(missing, p)
	}
	for i := len(missing) - 1; i >= 0; i-- {
		m.dirSet[missing[i]] = true
		m.dirs = append(m.dirs, missing[i])
	}
	return nil
}

func (m *memoryDeployer) key(relPath string) (string, error) {
	if err := validateDeployPath(m.root, relPath); err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Clean(filepath.FromSlash(relPath))), nil
}

// validateDeployPath ensures a relative path does not escape projectRoot.
func validateDeployPath(projectRoot, relPath string) error {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, relPath)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: parent reference in %q", ErrPathTraversal, relPath)
	}

	absProjectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}
	absPath := filepath.Join(absProjectRoot, cleaned)
	if !strings.HasPrefix(absPath, absProjectRoot+string(filepath.Separator)) && absPath != absProjectRoot {
		return fmt.Errorf("%w: %q escapes project root", ErrPathTraversal, relPath)
	}
	return nil
}
