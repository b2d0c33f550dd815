package cli

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/munjed-ab/djcraft/internal/cli/wizard"
	"github.com/munjed-ab/djcraft/internal/config"
)

type createFlags struct {
	generateFlags
	apps           []string
	dirs           []string
	appDirs        []string
	appFeatures    []string
	coreLocation   string
	corePath       string
	services       []string
	serviceOptions string
	env            string
	saveConfig     string
}

func newCreateCmd(deps *Dependencies) *cobra.Command {
	var flags createFlags

	cmd := &cobra.Command{
		Use:   "create <project_name>",
		Short: "Create a Django project from flags",
		Example: `  djcraft create shop --apps products,billing_api
  djcraft create shop --dir apps --app-dir products:apps --services redis,celery
  djcraft create shop --core-location custom --core-path config/core --env prod --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := flags.document(args[0])
			if err != nil {
				return err
			}
			return deps.buildAndGenerate(cmd, doc, flags.generateFlags, flags.saveConfig)
		},
	}

	flags.register(cmd)
	f := cmd.Flags()
	f.StringSliceVar(&flags.apps, "apps", nil, "Apps to create, comma separated")
	f.StringArrayVar(&flags.dirs, "dir", nil, "Directory to add as name[:parent] (repeatable)")
	f.StringArrayVar(&flags.appDirs, "app-dir", nil, "Place an app in a directory as app:directory (repeatable)")
	f.StringArrayVar(&flags.appFeatures, "app-feature", nil, "Enable forms, signals or model_views for an app as app:feature (repeatable)")
	f.StringVar(&flags.coreLocation, "core-location", config.DefaultCoreLocation, "Core settings location: root or custom")
	f.StringVar(&flags.corePath, "core-path", "", "Core package path when --core-location is custom")
	f.StringSliceVar(&flags.services, "services", nil, "Services to include, comma separated (see djcraft services)")
	f.StringVar(&flags.serviceOptions, "service-options", "", `Service options as JSON, e.g. {"redis":{"port":6380}}`)
	f.StringVar(&flags.env, "env", config.DefaultEnv, "Settings module selected by default: dev or prod")
	f.StringVar(&flags.saveConfig, "save-config", "", "Also write the project description to this .yaml, .json or .hcl file")
	return cmd
}

// document turns the flags into the same description a config file holds.
func (f *createFlags) document(name string) (*config.Document, error) {
	doc := config.NewDefaultDocument()
	doc.ProjectName = wizard.Normalize(name)
	doc.Core.Location = wizard.Normalize(f.coreLocation)
	doc.Core.Path = wizard.Normalize(f.corePath)
	doc.Env = wizard.Normalize(f.env)

	for _, d := range f.dirs {
		dir, parent, err := splitPair("dir", d, true)
		if err != nil {
			return nil, err
		}
		doc.Directories = append(doc.Directories, config.DirectorySpec{Name: dir, Parent: parent})
	}

	index := make(map[string]int)
	addApp := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		doc.Apps = append(doc.Apps, config.AppSpec{Name: name})
		index[name] = len(doc.Apps) - 1
		return index[name]
	}
	for _, a := range normalizeList(f.apps) {
		addApp(a)
	}
	for _, p := range f.appDirs {
		app, dir, err := splitPair("app-dir", p, false)
		if err != nil {
			return nil, err
		}
		doc.Apps[addApp(app)].Directory = dir
	}
	for _, p := range f.appFeatures {
		app, feature, err := splitPair("app-feature", p, false)
		if err != nil {
			return nil, err
		}
		i, ok := index[app]
		if !ok {
			return nil, fmt.Errorf("--app-feature %q: app %q is not being created", p, app)
		}
		if !slices.Contains(doc.Apps[i].Features, feature) {
			doc.Apps[i].Features = append(doc.Apps[i].Features, feature)
		}
	}

	options, err := parseServiceOptions(f.serviceOptions)
	if err != nil {
		return nil, err
	}
	services := normalizeList(f.services)
	for name := range options {
		if !slices.Contains(services, name) {
			return nil, fmt.Errorf("--service-options: service %q is not in --services", name)
		}
	}
	for _, s := range services {
		doc.Services = append(doc.Services, config.ServiceSpec{Name: s, Options: options[s]})
	}
	return doc, nil
}

// buildAndGenerate validates doc, optionally saves it, and generates the
// project under <output>/<project_name>.
func (d *Dependencies) buildAndGenerate(cmd *cobra.Command, doc *config.Document, flags generateFlags, savePath string) error {
	root := filepath.Join(flags.output, doc.ProjectName)
	plan, err := config.Build(doc, d.Catalog, root)
	if err != nil {
		return d.reportValidation(cmd.ErrOrStderr(), err)
	}

	if savePath != "" {
		if err := config.Save(savePath, config.FromModel(plan.Model, plan.Env, plan.Features)); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration saved to %s\n", d.Theme.Check(), savePath)
	}
	return d.generate(cmd, plan, flags)
}
