package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/lithammer/dedent"

	"github.com/munjed-ab/djcraft/internal/defs"
	"github.com/munjed-ab/djcraft/internal/template"
)

// patchFile appends block to relPath unless marker already occurs in the
// file. Re-running against an already patched tree is a no-op, but a
// block with different option values does not replace the old one.
// It reports whether the file was changed.
func patchFile(d template.Deployer, relPath, marker string, block []byte) (bool, error) {
	current, err := d.ReadFile(relPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%w: %s", errSettingsMissing, relPath)
		}
		return false, err
	}
	if strings.Contains(string(current), marker) {
		return false, nil
	}

	text := dedent.Dedent(string(block))
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if len(current) > 0 && !strings.HasSuffix(string(current), "\n") {
		text = "\n" + text
	}
	if err := d.AppendFile(relPath, []byte(text)); err != nil {
		return false, err
	}
	return true, nil
}

// settingsPath returns the base settings module under corePath.
func settingsPath(corePath string) string {
	return path.Join(corePath, defs.SettingsDir, defs.BaseSettingsPy)
}
