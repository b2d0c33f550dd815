package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newServicesCmd(deps *Dependencies) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "services",
		Short: "List the available services, their dependencies and options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			md := deps.Catalog.Markdown()
			if raw || deps.Headless.IsHeadless() {
				_, err := io.WriteString(cmd.OutOrStdout(), md)
				return err
			}
			out, err := renderMarkdown(md, deps.Theme.NoColor)
			if err != nil {
				return fmt.Errorf("render services: %w", err)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "markdown", false, "Print plain markdown")
	return cmd
}

func renderMarkdown(md string, noColor bool) (string, error) {
	style := glamour.WithAutoStyle()
	if noColor {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
