package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/munjed-ab/djcraft/internal/generator"
	"github.com/munjed-ab/djcraft/internal/structure"
	"github.com/munjed-ab/djcraft/internal/ui"
)

func renderResult(w io.Writer, th *ui.Theme, root string, res *generator.Result) {
	details := []string{
		fmt.Sprintf("%d directories, %d files", len(res.CreatedDirs), len(res.CreatedFiles)),
	}
	if len(res.Packages) > 0 {
		details = append(details, "", th.Muted("requirements.txt"), th.List(res.Packages))
	}
	_, _ = fmt.Fprintln(w, th.SuccessCard("Project generated at "+root, details...))
	renderWarnings(w, th, res.Warnings)
}

func renderDryRun(w io.Writer, th *ui.Theme, m *structure.Model, res *generator.Result) {
	var tree strings.Builder
	if err := m.Tree(&tree); err != nil {
		tree.WriteString(th.Error(err.Error()))
	}

	var body strings.Builder
	body.WriteString(strings.TrimRight(tree.String(), "\n"))
	fmt.Fprintf(&body, "\n\n%s", th.Muted(fmt.Sprintf("would create %d directories, %d files", len(res.CreatedDirs), len(res.CreatedFiles))))
	if len(res.Packages) > 0 {
		fmt.Fprintf(&body, "\n\n%s\n%s", th.Muted("requirements.txt"), th.List(res.Packages))
	}
	_, _ = fmt.Fprintln(w, th.Card("Dry run: "+m.Project().Name, body.String()))
	renderWarnings(w, th, res.Warnings)
}

func renderWarnings(w io.Writer, th *ui.Theme, warnings []string) {
	for _, msg := range warnings {
		_, _ = fmt.Fprintf(w, "%s %s\n", th.Bang(), msg)
	}
}

func renderFailures(w io.Writer, th *ui.Theme, res *generator.Result) {
	if len(res.Failures) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, th.Error(fmt.Sprintf("%d item(s) failed:", len(res.Failures))))
	for _, f := range res.Failures {
		_, _ = fmt.Fprintf(w, "  %s %s\n", th.Cross(), f.Error())
	}
}

func renderValidationErrors(w io.Writer, th *ui.Theme, msgs []string) {
	_, _ = fmt.Fprintln(w, th.Error(fmt.Sprintf("Found %d problem(s):", len(msgs))))
	for _, msg := range msgs {
		_, _ = fmt.Fprintf(w, "  %s %s\n", th.Cross(), msg)
	}
}
