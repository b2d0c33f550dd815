package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/munjed-ab/djcraft/pkg/version"
)

// errReported marks a failure whose details were already printed.
var errReported = errors.New("cli: errors reported")

// Execute builds the command tree and runs it against os.Args. An
// interrupt cancels generation between items.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd(&Dependencies{}).ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func newRootCmd(deps *Dependencies) *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "djcraft",
		Short: "Generate Django project boilerplate from a structure description",
		Long: `djcraft builds a Django project from a description of its structure:
where the core settings live, which directories and apps exist, and which
services (docker, celery, redis, authentication, rest_api, db_router) to wire in.

Describe the project with flags (create), a YAML, JSON or HCL file
(generate, validate), or step by step (interactive).`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return deps.setup(flags, cmd.ErrOrStderr())
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("djcraft %s\n", version.GetVersion()))

	pf := root.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log generation details to stderr")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log format with --verbose: text or json")
	pf.BoolVar(&flags.noColor, "no-color", os.Getenv("NO_COLOR") != "", "Disable colors and animations")

	root.AddCommand(
		newCreateCmd(deps),
		newGenerateCmd(deps),
		newValidateCmd(deps),
		newInteractiveCmd(deps),
		newServicesCmd(deps),
		newVersionCmd(),
	)
	return root
}
