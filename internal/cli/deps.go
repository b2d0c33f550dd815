// Package cli provides the cobra command tree for djcraft. This file
// defines Dependencies, the one place where concrete types are built and
// wired together for the commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/munjed-ab/djcraft/internal/catalog"
	"github.com/munjed-ab/djcraft/internal/cli/wizard"
	"github.com/munjed-ab/djcraft/internal/template"
	"github.com/munjed-ab/djcraft/internal/ui"
)

// Dependencies holds the services used by the commands. Fields left nil
// are filled by setup; tests preset the ones they need to control.
type Dependencies struct {
	Logger   *slog.Logger
	Catalog  *catalog.Catalog
	Renderer template.Renderer
	Headless *ui.HeadlessManager
	Theme    *ui.Theme
	Progress ui.Progress

	// Ask runs interactive questions. Defaults to wizard.Run.
	Ask func([]wizard.Question) (wizard.Answers, error)
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbose   bool
	logFormat string
	noColor   bool
}

// setup fills every missing dependency. stderr receives log output and
// progress lines.
func (d *Dependencies) setup(flags globalFlags, stderr io.Writer) error {
	if d.Logger == nil {
		logger, err := newLogger(flags, stderr)
		if err != nil {
			return err
		}
		d.Logger = logger
	}
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Renderer == nil {
		fsys, err := template.EmbeddedTemplates()
		if err != nil {
			return fmt.Errorf("load templates: %w", err)
		}
		d.Renderer = template.NewRenderer(fsys)
	}
	if d.Headless == nil {
		d.Headless = ui.NewHeadlessManager()
	}
	if d.Theme == nil {
		d.Theme = ui.NewTheme(flags.noColor)
	}
	if d.Progress == nil {
		d.Progress = ui.NewProgress(d.Theme, d.Headless, stderr)
	}
	if d.Ask == nil {
		d.Ask = wizard.Run
	}
	return nil
}

// newLogger discards logs unless --verbose is set, in which case debug
// records go to w as text or JSON.
func newLogger(flags globalFlags, w io.Writer) (*slog.Logger, error) {
	if !flags.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
	}
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	switch strings.ToLower(flags.logFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q, use text or json", flags.logFormat)
	}
}
