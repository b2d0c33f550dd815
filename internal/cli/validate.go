package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/munjed-ab/djcraft/internal/config"
)

func newValidateCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Check a project description without generating anything",
		Long: `Validate loads a YAML, JSON or HCL project description and reports every
problem at once: names, paths, directory containment, unknown services,
service options and missing service dependencies. It exits with status 1
when any problem is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := config.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := config.Validate(doc, deps.Catalog); err != nil {
				return deps.reportValidation(out, err)
			}
			_, _ = fmt.Fprintf(out, "%s %s is valid\n", deps.Theme.Check(), args[0])
			return nil
		},
	}
}
