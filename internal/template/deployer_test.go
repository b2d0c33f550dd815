package template

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"manage.py.tmpl":   &fstest.MapFile{Data: []byte("#!/usr/bin/env python\n# {{.ProjectName}}\n")},
		"urls.py.tmpl":     &fstest.MapFile{Data: []byte("# {{.App.Name}}\n")},
		"broken.py.tmpl":   &fstest.MapFile{Data: []byte("{{.Missing}}")},
		"settings.py.tmpl": &fstest.MapFile{Data: []byte("DEBUG = False\n")},
	}
}

func TestDeployerRenderFile(t *testing.T) {
	t.Parallel()

	t.Run("writes_and_records", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		d := NewDeployer(root, NewRenderer(testFS()))
		data := NewContext(WithProject("shop", root), WithApp(AppContext{Name: "billing"}))

		if err := d.RenderFile(context.Background(), "urls.py.tmpl", "apps/billing/urls.py", data); err != nil {
			t.Fatalf("RenderFile error: %v", err)
		}
		got, err := os.ReadFile(filepath.Join(root, "apps", "billing", "urls.py"))
		if err != nil {
			t.Fatalf("ReadFile error: %v", err)
		}
		if string(got) != "# billing\n" {
			t.Errorf("content = %q", got)
		}

		dirs, files := d.Created()
		if !slices.Equal(dirs, []string{"apps", "apps/billing"}) {
			t.Errorf("dirs = %v, want [apps apps/billing]", dirs)
		}
		if !slices.Equal(files, []string{"apps/billing/urls.py"}) {
			t.Errorf("files = %v", files)
		}
	})

	t.Run("manage_py_is_executable", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		d := NewDeployer(root, NewRenderer(testFS()))
		if err := d.RenderFile(context.Background(), "manage.py.tmpl", "manage.py", NewContext()); err != nil {
			t.Fatalf("RenderFile error: %v", err)
		}
		info, err := os.Stat(filepath.Join(root, "manage.py"))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o755 {
			t.Errorf("manage.py mode = %v, want 0755", info.Mode().Perm())
		}
	})

	t.Run("overwrite_not_recorded_twice", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		d := NewDeployer(root, NewRenderer(testFS()))
		for range 2 {
			if err := d.RenderFile(context.Background(), "settings.py.tmpl", "core/settings/base.py", nil); err != nil {
				t.Fatal(err)
			}
		}
		if _, files := d.Created(); len(files) != 1 {
			t.Errorf("files = %v, want one entry", files)
		}
	})

	t.Run("render_error_carries_path", func(t *testing.T) {
		t.Parallel()
		d := NewDeployer(t.TempDir(), NewRenderer(testFS()))
		err := d.RenderFile(context.Background(), "broken.py.tmpl", "core/broken.py", NewContext())
		var re *RenderError
		if !errors.As(err, &re) {
			t.Fatalf("err = %v, want *RenderError", err)
		}
		if re.Path != "core/broken.py" || re.Template != "broken.py.tmpl" {
			t.Errorf("RenderError = %+v", re)
		}
	})

	t.Run("cancelled_context", func(t *testing.T) {
		t.Parallel()
		d := NewDeployer(t.TempDir(), NewRenderer(testFS()))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := d.RenderFile(ctx, "settings.py.tmpl", "x.py", nil); !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestDeployerPathTraversal(t *testing.T) {
	t.Parallel()

	paths := []string{"../escape.py", "a/../../escape.py", "/etc/passwd"}
	for _, mk := range []struct {
		name string
		new  func(root string) Deployer
	}{
		{"disk", func(root string) Deployer { return NewDeployer(root, NewRenderer(testFS())) }},
		{"memory", func(root string) Deployer { return NewMemoryDeployer(root, NewRenderer(testFS())) }},
	} {
		for _, p := range paths {
			t.Run(mk.name+"/"+p, func(t *testing.T) {
				t.Parallel()
				d := mk.new(t.TempDir())
				if err := d.WriteFile(p, []byte("x"), 0o644); !errors.Is(err, ErrPathTraversal) {
					t.Errorf("WriteFile(%q) err = %v, want ErrPathTraversal", p, err)
				}
			})
		}
	}
}

func TestDeployerAppendFile(t *testing.T) {
	t.Parallel()

	for _, mk := range []struct {
		name string
		new  func(root string) Deployer
	}{
		{"disk", func(root string) Deployer { return NewDeployer(root, nil) }},
		{"memory", func(root string) Deployer { return NewMemoryDeployer(root, nil) }},
	} {
		t.Run(mk.name, func(t *testing.T) {
			t.Parallel()
			d := mk.new(t.TempDir())

			if err := d.AppendFile("core/settings/base.py", []byte("X = 1\n")); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("AppendFile on missing file err = %v, want fs.ErrNotExist", err)
			}

			if err := d.WriteFile("core/settings/base.py", []byte("DEBUG = False\n"), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := d.AppendFile("core/settings/base.py", []byte("X = 1\n")); err != nil {
				t.Fatal(err)
			}
			got, err := d.ReadFile("core/settings/base.py")
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != "DEBUG = False\nX = 1\n" {
				t.Errorf("content = %q", got)
			}
		})
	}
}

func TestMemoryDeployerNeverTouchesDisk(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	d := NewMemoryDeployer(root, NewRenderer(testFS()))
	if err := d.RenderFile(context.Background(), "manage.py.tmpl", "manage.py", NewContext()); err != nil {
		t.Fatal(err)
	}
	if err := d.EnsureDir("static"); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("memory deployer wrote %d entries to disk", len(entries))
	}
	dirs, files := d.Created()
	if !slices.Equal(dirs, []string{"static"}) || !slices.Equal(files, []string{"manage.py"}) {
		t.Errorf("Created = %v, %v", dirs, files)
	}
	if d.Root() != filepath.Clean(root) {
		t.Errorf("Root = %q", d.Root())
	}
}
