package codegen

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/usecase"
	"github.com/trebuchet-org/artigen/pkg/artifacts"
)

// artifactTypeName is the Go type of every generated artifact variable.
const artifactTypeName = "*artifacts.Artifact"

var funcs = template.FuncMap{
	"quote": strconv.Quote,
}

var fragmentTemplate = template.Must(template.New("fragment").Funcs(funcs).Parse(
	`// {{.Ident}}JSON is the compiled artifact of {{.FullyQualifiedName}}.
const {{.Ident}}JSON = {{.Literal}}

// {{.Ident}} is the compiled artifact of {{.FullyQualifiedName}}.
var {{.Ident}} = artifacts.MustParse([]byte({{.Ident}}JSON))
`))

var contractTemplate = template.Must(template.New("contract").Funcs(funcs).Parse(
	`{{.Header}}

package {{.Package.Name}}

import "{{.RuntimeImport}}"

{{.Fragment.Declaration}}`))

var indexTemplate = template.Must(template.New("index").Funcs(funcs).Parse(
	`{{.Header}}

// Package {{.Package.Name}} holds the compiled artifacts of {{.Package.SourceName}}.
package {{.Package.Name}}

import "{{.RuntimeImport}}"

// SourceName is the source file these artifacts were compiled from.
const SourceName = {{quote .Package.SourceName}}

// All lists the artifacts compiled from SourceName, sorted by contract name.
var All = []{{.TypeName}}{
{{- range .Fragments}}
	{{.Ident}},
{{- end}}
}
`))

var lookupTemplate = template.Must(template.New("lookup").Funcs(funcs).Parse(
	`{{.Header}}

package {{.Package.Name}}

import "{{.RuntimeImport}}"

// Register adds the artifacts of SourceName to t. Short names shared with
// another source file are registered by fully-qualified name only.
func Register(t *artifacts.Table) {
{{- range .Entries}}
	t.Register({{quote .FullyQualifiedName}}, {{.Ident}})
{{- if .Short}}
	t.RegisterShort({{quote .ContractName}}, {{.Ident}})
{{- end}}
{{- end}}
}
`))

var projectTemplate = template.Must(template.New("project").Funcs(funcs).Parse(
	`{{.Header}}

// Package {{.PackageName}} indexes every compiled artifact of the project.
package {{.PackageName}}

import (
	"{{.RuntimeImport}}"
{{range .Imports}}
	{{.Alias}} {{quote .Path}}
{{- end}}
)

// Ambiguous maps each short name declared in more than one source file to
// the fully-qualified names carrying it. These names resolve by
// fully-qualified name only.
var Ambiguous = map[string][]string{
{{- range .Ambiguous}}
	{{quote .Name}}: { {{- range $i, $c := .Candidates}}{{if $i}}, {{end}}{{quote $c}}{{end -}} },
{{- end}}
{{- if .Ambiguous}}
{{end -}}
}

// NewTable returns a lookup table holding every artifact of the project.
func NewTable() *artifacts.Table {
	t := artifacts.NewTable()
	for name, fqns := range Ambiguous {
		t.MarkAmbiguous(name, fqns...)
	}
{{- range .Imports}}
	{{.Alias}}.Register(t)
{{- end}}
	return t
}
`))

// Aliases the project file cannot give to an imported package.
var reservedAliases = map[string]struct{}{
	"artifacts": {},
	"t":         {},
	"name":      {},
	"fqns":      {},
}

// Renderer renders artifacts into Go source using text/template. Output is
// gofmt-formatted so regeneration from the same input is byte-identical.
type Renderer struct {
	runtimeImport string
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{runtimeImport: artifacts.ImportPath}
}

// RenderFragment renders the constant and variable declaring one artifact.
func (r *Renderer) RenderFragment(a *artifacts.Artifact, ident string) (*domain.Fragment, error) {
	data, err := a.MarshalIndent()
	if err != nil {
		return nil, err
	}

	literal := "`" + string(data) + "`"
	if strings.ContainsAny(string(data), "`\r") {
		literal = strconv.Quote(string(data))
	}

	var buf bytes.Buffer
	err = fragmentTemplate.Execute(&buf, map[string]string{
		"Ident":              ident,
		"FullyQualifiedName": a.FullyQualifiedName(),
		"Literal":            literal,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute fragment template: %w", err)
	}

	return &domain.Fragment{
		ContractName:       a.ContractName,
		FullyQualifiedName: a.FullyQualifiedName(),
		Ident:              ident,
		TypeName:           artifactTypeName,
		Declaration:        buf.String(),
	}, nil
}

// RenderContractFile renders the file holding a single fragment.
func (r *Renderer) RenderContractFile(pkg domain.SourcePackage, frag *domain.Fragment) ([]byte, error) {
	return r.execute(contractTemplate, pkg.Dir+"/"+domain.ContractFileName(frag.Ident), map[string]any{
		"Header":        domain.GeneratedHeader,
		"Package":       pkg,
		"RuntimeImport": r.runtimeImport,
		"Fragment":      frag,
	})
}

// RenderIndex renders the aggregate file re-exporting every fragment of a
// source file.
func (r *Renderer) RenderIndex(pkg domain.SourcePackage, frags []*domain.Fragment) ([]byte, error) {
	return r.execute(indexTemplate, pkg.Dir+"/"+domain.IndexFileName, map[string]any{
		"Header":        domain.GeneratedHeader,
		"Package":       pkg,
		"RuntimeImport": r.runtimeImport,
		"TypeName":      artifactTypeName,
		"Fragments":     frags,
	})
}

type lookupEntry struct {
	*domain.Fragment
	Short bool
}

// RenderLookup renders the Register function of a source file. Contracts
// whose short name is in dups are registered by fully-qualified name only.
func (r *Renderer) RenderLookup(pkg domain.SourcePackage, frags []*domain.Fragment, dups *domain.DuplicateSet) ([]byte, error) {
	entries := make([]lookupEntry, 0, len(frags))
	for _, frag := range frags {
		entries = append(entries, lookupEntry{Fragment: frag, Short: !dups.Contains(frag.ContractName)})
	}
	return r.execute(lookupTemplate, pkg.Dir+"/"+domain.LookupFileName, map[string]any{
		"Header":        domain.GeneratedHeader,
		"Package":       pkg,
		"RuntimeImport": r.runtimeImport,
		"Entries":       entries,
	})
}

type projectImport struct {
	Alias string
	Path  string
}

type ambiguousEntry struct {
	Name       string
	Candidates []string
}

// RenderProject renders the project-level file that imports every source
// package and builds the complete lookup table.
func (r *Renderer) RenderProject(packageName, importPath string, pkgs []domain.SourcePackage, dups *domain.DuplicateSet) ([]byte, error) {
	sorted := append([]domain.SourcePackage(nil), pkgs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Dir < sorted[j].Dir })

	taken := make(map[string]struct{}, len(sorted)+len(reservedAliases))
	for alias := range reservedAliases {
		taken[alias] = struct{}{}
	}
	importList := make([]projectImport, 0, len(sorted))
	for _, pkg := range sorted {
		alias := pkg.Alias
		for i := 2; ; i++ {
			if _, ok := taken[alias]; !ok {
				break
			}
			alias = pkg.Alias + strconv.Itoa(i)
		}
		taken[alias] = struct{}{}
		importList = append(importList, projectImport{
			Alias: alias,
			Path:  strings.TrimSuffix(importPath, "/") + "/" + pkg.Dir,
		})
	}

	ambiguous := make([]ambiguousEntry, 0, dups.Len())
	for _, name := range dups.Names() {
		ambiguous = append(ambiguous, ambiguousEntry{Name: name, Candidates: dups.Candidates(name)})
	}

	return r.execute(projectTemplate, domain.ProjectFileName, map[string]any{
		"Header":        domain.GeneratedHeader,
		"PackageName":   packageName,
		"RuntimeImport": r.runtimeImport,
		"Imports":       importList,
		"Ambiguous":     ambiguous,
	})
}

func (r *Renderer) execute(t *template.Template, filename string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute %s template: %w", t.Name(), err)
	}

	out, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", filename, err)
	}
	return out, nil
}

// Ensure the renderer implements the interface
var _ usecase.CodeRenderer = (*Renderer)(nil)
