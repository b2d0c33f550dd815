package cli

import (
	"github.com/spf13/cobra"

	"github.com/munjed-ab/djcraft/internal/config"
)

func newGenerateCmd(deps *Dependencies) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate <config-file>",
		Short: "Generate a Django project from a YAML, JSON or HCL description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := config.Load(args[0])
			if err != nil {
				return err
			}
			deps.Logger.Debug("configuration loaded", "path", args[0], "project", doc.ProjectName)
			return deps.buildAndGenerate(cmd, doc, flags, "")
		},
	}
	flags.register(cmd)
	return cmd
}
