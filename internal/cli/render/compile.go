package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

var (
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	contractStyle      = color.New(color.FgWhite, color.Bold)
	ambiguousStyle     = color.New(color.FgYellow)
	pathStyle          = color.New(color.FgBlue)
	faintStyle         = color.New(color.Faint)
)

// CompileRenderer renders compile results
type CompileRenderer struct {
	out io.Writer
}

// NewCompileRenderer creates a new compile renderer
func NewCompileRenderer(out io.Writer) *CompileRenderer {
	return &CompileRenderer{out: out}
}

// Render prints one row per generated package, the names left out of the
// short-name table and any removed output directories.
func (r *CompileRenderer) Render(result *usecase.CompileResult) error {
	if len(result.Emitted) == 0 {
		fmt.Fprintln(r.out, FormatWarning("No contract artifacts found"))
		return nil
	}

	dups := result.Duplicates
	t := newPlainTable()
	t.AppendHeader(table.Row{"SOURCE", "PACKAGE", "CONTRACTS"})
	for _, file := range result.Emitted {
		names := make([]string, 0, len(file.ContractNames))
		for _, name := range file.ContractNames {
			if dups != nil && dups.Contains(name) {
				names = append(names, ambiguousStyle.Sprint(name+"*"))
				continue
			}
			names = append(names, contractStyle.Sprint(name))
		}
		t.AppendRow(table.Row{
			pathStyle.Sprint(file.SourceName),
			faintStyle.Sprint(domain.SourceOutputDir(file.SourceName)),
			strings.Join(names, ", "),
		})
	}
	fmt.Fprintln(r.out, t.Render())

	if dups != nil && dups.Len() > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Ambiguous names (fully qualified lookup only):"))
		for _, name := range dups.Names() {
			fmt.Fprintf(r.out, "  %s %s\n", ambiguousStyle.Sprint(name+"*"), faintStyle.Sprint(strings.Join(dups.Candidates(name), ", ")))
		}
	}

	if len(result.Removed) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Removed stale outputs:"))
		for _, dir := range result.Removed {
			fmt.Fprintf(r.out, "  - %s\n", filepath.Join(result.OutputDir, filepath.FromSlash(dir)))
		}
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Generated %d artifacts from %d sources into %s (%s)",
		len(result.FullyQualifiedNames), len(result.Emitted), result.OutputDir, result.Duration.Round(time.Millisecond))))
	return nil
}

// newPlainTable returns a borderless table
func newPlainTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Format.Header = text.FormatDefault
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	return t
}
