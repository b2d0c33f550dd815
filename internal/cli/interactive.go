package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/munjed-ab/djcraft/internal/catalog"
	"github.com/munjed-ab/djcraft/internal/cli/wizard"
	"github.com/munjed-ab/djcraft/internal/config"
	"github.com/munjed-ab/djcraft/internal/defs"
	"github.com/munjed-ab/djcraft/internal/generator"
	"github.com/munjed-ab/djcraft/internal/structure"
)

// ErrNotInteractive is returned by the interactive command without a TTY.
var ErrNotInteractive = errors.New("cli: interactive mode needs a terminal, use create or generate instead")

// Menu actions.
const (
	actionCore      = "core"
	actionDirectory = "directory"
	actionApp       = "app"
	actionService   = "service"
	actionEnv       = "env"
	actionPreview   = "preview"
	actionSave      = "save"
	actionGenerate  = "generate"
	actionQuit      = "quit"
)

var menuOptions = []wizard.Option{
	{Label: "Set core location", Value: actionCore},
	{Label: "Add directory", Value: actionDirectory},
	{Label: "Add app", Value: actionApp},
	{Label: "Add service", Value: actionService},
	{Label: "Choose environment", Value: actionEnv},
	{Label: "Preview structure", Value: actionPreview},
	{Label: "Save configuration", Value: actionSave},
	{Label: "Generate project", Value: actionGenerate},
	{Label: "Quit", Value: actionQuit},
}

func newInteractiveCmd(deps *Dependencies) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Build a project step by step from a menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.Headless.IsHeadless() {
				return ErrNotInteractive
			}
			s, err := newSession(deps, cmd, flags)
			if err != nil {
				if errors.Is(err, wizard.ErrCancelled) {
					return nil
				}
				return err
			}
			return s.run()
		},
	}
	flags.register(cmd)
	return cmd
}

// session is one interactive build over a single model.
type session struct {
	deps     *Dependencies
	cmd      *cobra.Command
	out      io.Writer
	flags    generateFlags
	model    *structure.Model
	env      string
	features map[string][]generator.Feature
}

func newSession(deps *Dependencies, cmd *cobra.Command, flags generateFlags) (*session, error) {
	answers, err := deps.Ask([]wizard.Question{{
		ID:       "project_name",
		Type:     wizard.QuestionTypeInput,
		Title:    "Project name",
		Default:  defs.DefaultProjectName,
		Required: true,
		Validate: structure.ValidateProjectName,
	}})
	if err != nil {
		return nil, err
	}
	name := answers["project_name"]
	return &session{
		deps:     deps,
		cmd:      cmd,
		out:      cmd.OutOrStdout(),
		flags:    flags,
		model:    structure.NewModel(name, filepath.Join(flags.output, name), deps.Catalog),
		env:      config.DefaultEnv,
		features: make(map[string][]generator.Feature),
	}, nil
}

// run shows the menu until the user generates or quits. Errors from a
// single action are printed and the menu comes back.
func (s *session) run() error {
	th := s.deps.Theme
	_, _ = fmt.Fprintln(s.out, th.Card("djcraft", "Building "+s.model.Project().Name+". Pick an action; nothing is written until you generate."))

	for {
		answers, err := s.deps.Ask([]wizard.Question{{
			ID:      "action",
			Type:    wizard.QuestionTypeSelect,
			Title:   "What next?",
			Options: menuOptions,
			Default: actionApp,
		}})
		if errors.Is(err, wizard.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}

		action := answers["action"]
		switch action {
		case actionQuit:
			return nil
		case actionGenerate:
			done, err := s.generate()
			if done || (err != nil && !errors.Is(err, wizard.ErrCancelled)) {
				return err
			}
			continue
		}

		if err := s.do(action); err != nil && !errors.Is(err, wizard.ErrCancelled) {
			_, _ = fmt.Fprintf(s.out, "%s %v\n", th.Cross(), err)
		}
	}
}

func (s *session) do(action string) error {
	switch action {
	case actionCore:
		return s.setCore()
	case actionDirectory:
		return s.addDirectory()
	case actionApp:
		return s.addApp()
	case actionService:
		return s.addService()
	case actionEnv:
		return s.chooseEnv()
	case actionPreview:
		return s.preview()
	case actionSave:
		return s.save()
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func (s *session) setCore() error {
	current := s.model.Core()
	path := current.Path
	if current.Location == structure.CoreRoot {
		path = "config/core"
	}
	answers, err := s.deps.Ask([]wizard.Question{
		{
			ID:      "location",
			Type:    wizard.QuestionTypeSelect,
			Title:   "Where should the core settings package live?",
			Default: string(current.Location),
			Options: []wizard.Option{
				{Label: "root", Value: string(structure.CoreRoot), Desc: "<project>/" + defs.DefaultCorePath},
				{Label: "custom", Value: string(structure.CoreCustom), Desc: "a nested path such as config/core"},
			},
		},
		{
			ID:        "path",
			Type:      wizard.QuestionTypeInput,
			Title:     "Core path",
			Default:   path,
			Required:  true,
			Condition: func(a wizard.Answers) bool { return a["location"] == string(structure.CoreCustom) },
		},
	})
	if err != nil {
		return err
	}
	if err := s.model.SetCoreLocation(structure.CoreLocation(answers["location"]), answers["path"]); err != nil {
		return err
	}
	s.ok("Core set to " + s.model.CorePath())
	return nil
}

func (s *session) addDirectory() error {
	answers, err := s.deps.Ask([]wizard.Question{
		{
			ID:       "name",
			Type:     wizard.QuestionTypeInput,
			Title:    "Directory name",
			Required: true,
			Validate: structure.ValidateDirectoryName,
		},
		s.directoryQuestion("parent", "Parent directory"),
	})
	if err != nil {
		return err
	}
	path, err := s.model.AddDirectory(answers["name"], answers["parent"])
	if err != nil {
		return err
	}
	s.ok("Added directory " + path)
	return nil
}

func (s *session) addApp() error {
	answers, err := s.deps.Ask([]wizard.Question{
		{
			ID:       "name",
			Type:     wizard.QuestionTypeInput,
			Title:    "App name",
			Required: true,
			Validate: structure.ValidateAppName,
		},
		s.directoryQuestion("directory", "Directory"),
		{
			ID:          "features",
			Type:        wizard.QuestionTypeInput,
			Title:       "Extra modules",
			Description: "Comma separated: forms, signals, model_views. Leave empty for none.",
			Validate: func(v string) error {
				_, err := parseFeatures(v)
				return err
			},
		},
	})
	if err != nil {
		return err
	}
	features, err := parseFeatures(answers["features"])
	if err != nil {
		return err
	}
	name := answers["name"]
	if err := s.model.AddApp(name, answers["directory"]); err != nil {
		return err
	}
	if len(features) > 0 {
		s.features[name] = features
	}
	s.ok(fmt.Sprintf("Added app %s (%s)", name, generator.SelectVariant(name)))
	return nil
}

func (s *session) addService() error {
	cat := s.deps.Catalog
	var opts []wizard.Option
	for _, name := range cat.Names() {
		if s.model.HasService(name) {
			continue
		}
		svc, _ := cat.Lookup(name)
		desc := svc.Description
		if len(svc.Dependencies) > 0 {
			desc += " (needs " + strings.Join(svc.Dependencies, ", ") + ")"
		}
		opts = append(opts, wizard.Option{Label: name, Value: name, Desc: desc})
	}
	if len(opts) == 0 {
		s.ok("Every service is already added")
		return nil
	}

	answers, err := s.deps.Ask([]wizard.Question{
		{
			ID:      "service",
			Type:    wizard.QuestionTypeSelect,
			Title:   "Service",
			Options: opts,
		},
		{
			ID:          "options",
			Type:        wizard.QuestionTypeInput,
			Title:       "Options",
			Description: `JSON object, e.g. {"port": 6380}. Leave empty for the defaults.`,
			Validate: func(v string) error {
				_, err := parseOptionsObject(v)
				return err
			},
		},
	})
	if err != nil {
		return err
	}

	name := answers["service"]
	options, err := parseOptionsObject(answers["options"])
	if err != nil {
		return err
	}
	if errs := cat.ValidateOptions(name, options); len(errs) > 0 {
		return errors.Join(errs...)
	}
	if err := s.model.AddService(name, options); err != nil {
		return err
	}
	s.ok("Added service " + name)

	if err := catalog.NewResolver(cat).Check(name, s.model.ServiceNames()); err != nil {
		_, _ = fmt.Fprintf(s.out, "%s %v; add it before generating\n", s.deps.Theme.Bang(), err)
	}
	return nil
}

func (s *session) chooseEnv() error {
	answers, err := s.deps.Ask([]wizard.Question{{
		ID:      "env",
		Type:    wizard.QuestionTypeSelect,
		Title:   "Default settings module",
		Default: s.env,
		Options: []wizard.Option{
			{Label: "dev", Value: "dev"},
			{Label: "prod", Value: "prod"},
		},
	}})
	if err != nil {
		return err
	}
	s.env = answers["env"]
	s.ok("Environment set to " + s.env)
	return nil
}

func (s *session) preview() error {
	var tree strings.Builder
	if err := s.model.Tree(&tree); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, s.deps.Theme.Card("Structure", strings.TrimRight(tree.String(), "\n")))
	return nil
}

func (s *session) save() error {
	answers, err := s.deps.Ask([]wizard.Question{{
		ID:       "path",
		Type:     wizard.QuestionTypeInput,
		Title:    "Save configuration to",
		Default:  s.model.Project().Name + "_config.yaml",
		Required: true,
		Validate: func(v string) error {
			_, err := config.FormatOf(v)
			return err
		},
	}})
	if err != nil {
		return err
	}
	path := answers["path"]
	if err := config.Save(path, s.document()); err != nil {
		return err
	}
	s.ok("Configuration saved to " + path)
	return nil
}

// generate validates the whole model and, once confirmed, generates it.
// done reports whether the session is over.
func (s *session) generate() (done bool, err error) {
	root := s.model.Project().RootPath
	plan, err := config.Build(s.document(), s.deps.Catalog, root)
	if err != nil {
		_ = s.deps.reportValidation(s.out, err)
		return false, nil
	}

	answers, err := s.deps.Ask([]wizard.Question{{
		ID:      "confirm",
		Type:    wizard.QuestionTypeConfirm,
		Title:   "Generate " + s.model.Project().Name + " in " + root + "?",
		Default: "true",
	}})
	if err != nil {
		return false, err
	}
	if !answers.Bool("confirm") {
		return false, nil
	}
	return true, s.deps.generate(s.cmd, plan, s.flags)
}

func (s *session) document() *config.Document {
	return config.FromModel(s.model, s.env, s.features)
}

// directoryQuestion selects an existing directory or the project root.
func (s *session) directoryQuestion(id, title string) wizard.Question {
	opts := []wizard.Option{{Label: "(project root)", Value: ""}}
	for _, d := range s.model.Directories() {
		opts = append(opts, wizard.Option{Label: d.Path, Value: d.Path})
	}
	return wizard.Question{ID: id, Type: wizard.QuestionTypeSelect, Title: title, Options: opts}
}

func (s *session) ok(msg string) {
	_, _ = fmt.Fprintf(s.out, "%s %s\n", s.deps.Theme.Check(), msg)
}

// parseFeatures reads a comma separated feature list.
func parseFeatures(v string) ([]generator.Feature, error) {
	var out []generator.Feature
	for _, part := range strings.Split(v, ",") {
		part = wizard.Normalize(part)
		if part == "" {
			continue
		}
		f, err := generator.ParseFeature(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}
