package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/munjed-ab/djcraft/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the djcraft version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "djcraft %s\n", version.GetFullVersion())
		},
	}
}
