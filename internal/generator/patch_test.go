package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/munjed-ab/djcraft/internal/template"
)

func TestPatchFile(t *testing.T) {
	t.Parallel()

	const settings = "core/settings/base.py"
	block := []byte(`
		# Redis
		REDIS_URL = 'redis://redis:6379/1'
	`)

	t.Run("appends_once", func(t *testing.T) {
		t.Parallel()
		d := template.NewMemoryDeployer("/srv/app", nil)
		if err := d.WriteFile(settings, []byte("DEBUG = False"), 0o644); err != nil {
			t.Fatal(err)
		}
		for i, want := range []bool{true, false} {
			changed, err := patchFile(d, settings, markerRedis, block)
			if err != nil {
				t.Fatalf("patch %d: %v", i, err)
			}
			if changed != want {
				t.Errorf("patch %d changed = %v, want %v", i, changed, want)
			}
		}
		got, _ := d.ReadFile(settings)
		if n := strings.Count(string(got), markerRedis); n != 1 {
			t.Errorf("marker occurs %d times, want 1:\n%s", n, got)
		}
		if !strings.HasPrefix(string(got), "DEBUG = False\n") {
			t.Errorf("existing content not newline-terminated before block:\n%s", got)
		}
		if !strings.Contains(string(got), "\nREDIS_URL = ") {
			t.Errorf("block was not dedented:\n%s", got)
		}
	})

	t.Run("missing_file", func(t *testing.T) {
		t.Parallel()
		d := template.NewMemoryDeployer("/srv/app", nil)
		_, err := patchFile(d, settings, markerRedis, block)
		if !errors.Is(err, errSettingsMissing) {
			t.Errorf("err = %v, want errSettingsMissing", err)
		}
	})
}

func TestSettingsPath(t *testing.T) {
	t.Parallel()

	if got := settingsPath("config/core"); got != "config/core/settings/base.py" {
		t.Errorf("settingsPath = %q", got)
	}
}
