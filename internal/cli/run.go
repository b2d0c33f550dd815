package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/munjed-ab/djcraft/internal/config"
	"github.com/munjed-ab/djcraft/internal/generator"
	"github.com/munjed-ab/djcraft/internal/template"
	"github.com/munjed-ab/djcraft/internal/ui"
	"github.com/munjed-ab/djcraft/pkg/version"
)

// ErrProjectExists is returned when the project directory already has
// content and --force was not given.
var ErrProjectExists = errors.New("cli: project directory is not empty")

// generateFlags are shared by create, generate and interactive.
type generateFlags struct {
	output string
	dryRun bool
	force  bool
}

func (f *generateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", ".", "Directory the project folder is created in")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Validate and preview without writing files")
	cmd.Flags().BoolVar(&f.force, "force", false, "Write into an existing non-empty project directory")
}

var generationStages = []generator.Stage{
	generator.StageBase,
	generator.StageCore,
	generator.StageApps,
	generator.StageServices,
	generator.StageRequirements,
}

// stageProgress advances bar once per stage and shows the current item
// in its title.
func stageProgress(bar ui.ProgressBar) generator.ProgressFunc {
	return func(stage generator.Stage, item string) {
		if item == "" {
			bar.SetTitle(string(stage))
			bar.Increment(1)
			return
		}
		bar.SetTitle(fmt.Sprintf("%s: %s", stage, item))
	}
}

// generate runs the orchestrator for plan and prints the outcome. A dry
// run renders everything in memory and prints the tree instead.
func (d *Dependencies) generate(cmd *cobra.Command, plan *config.Plan, flags generateFlags) error {
	out := cmd.OutOrStdout()
	m := plan.Model
	root := m.Project().RootPath

	var deployer template.Deployer
	if flags.dryRun {
		deployer = template.NewMemoryDeployer(root, d.Renderer)
	} else {
		if err := checkTarget(root, flags.force); err != nil {
			return err
		}
		deployer = template.NewDeployer(root, d.Renderer)
	}

	opts := generator.Options{
		Env:      plan.Env,
		Version:  version.GetVersion(),
		Features: plan.Features,
		Logger:   d.Logger,
	}
	var bar ui.ProgressBar
	if !flags.dryRun {
		bar = d.Progress.Start("Generating "+m.Project().Name, len(generationStages))
		opts.Progress = stageProgress(bar)
	}

	d.Logger.Info("generating project", "project", m.Project().Name, "root", root, "dry_run", flags.dryRun)
	res, err := generator.New(d.Catalog, d.Renderer, deployer, opts).Run(cmd.Context(), m)
	if bar != nil {
		bar.Done()
	}
	if err != nil {
		if res != nil {
			renderFailures(out, d.Theme, res)
		}
		return err
	}

	if flags.dryRun {
		renderDryRun(out, d.Theme, m, res)
	} else {
		renderResult(out, d.Theme, root, res)
	}
	if len(res.Failures) > 0 {
		renderFailures(out, d.Theme, res)
		return errReported
	}
	return nil
}

// checkTarget refuses a non-empty project directory unless force is set.
func checkTarget(root string, force bool) error {
	if force {
		return nil
	}
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("inspect %s: %w", root, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrProjectExists, root)
	}
	return nil
}

// reportValidation prints every message of a *config.ValidationErrors
// to w and converts it to errReported. Other errors pass through.
func (d *Dependencies) reportValidation(w io.Writer, err error) error {
	var verrs *config.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	renderValidationErrors(w, d.Theme, verrs.Messages())
	return errReported
}
