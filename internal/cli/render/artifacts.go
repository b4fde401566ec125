package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trebuchet-org/artigen/internal/usecase"
)

// ArtifactsRenderer renders artifact lists
type ArtifactsRenderer struct {
	out    io.Writer
	format Format
}

// NewArtifactsRenderer creates a new artifacts renderer
func NewArtifactsRenderer(out io.Writer, format Format) *ArtifactsRenderer {
	return &ArtifactsRenderer{out: out, format: format}
}

// Render prints the lookup keys of every artifact
func (r *ArtifactsRenderer) Render(result *usecase.ListArtifactsResult) error {
	if r.format != FormatTable {
		return encode(r.out, r.format, result)
	}

	if len(result.Artifacts) == 0 {
		fmt.Fprintln(r.out, "No contract artifacts found. Run `artigen compile` first.")
		return nil
	}

	t := newPlainTable()
	t.AppendHeader(table.Row{"NAME", "FULLY QUALIFIED NAME", "KIND"})
	for _, a := range result.Artifacts {
		name := contractStyle.Sprint(a.ContractName)
		if !a.ShortName {
			name = ambiguousStyle.Sprint(a.ContractName + "*")
		}
		t.AppendRow(table.Row{name, pathStyle.Sprint(a.FullyQualifiedName), kind(a)})
	}
	fmt.Fprintln(r.out, t.Render())

	if len(result.Ambiguous) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, faintStyle.Sprint("* declared in several files; look up by fully qualified name"))
	}
	return nil
}

func kind(a usecase.ArtifactSummary) string {
	switch {
	case !a.Deployable:
		return faintStyle.Sprint("abstract")
	case a.Linked:
		return "needs linking"
	default:
		return "deployable"
	}
}
