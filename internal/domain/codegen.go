package domain

import (
	"fmt"
	"go/token"
	"path"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// GeneratedHeader starts every file artigen writes.
const GeneratedHeader = "// Code generated by artigen. DO NOT EDIT."

// Generated file names inside a per-source output directory.
const (
	IndexFileName   = "index.go"
	LookupFileName  = "lookup.go"
	ProjectFileName = "artifacts.go"
	// ContractFileSuffix ends the file name of every per-contract file.
	ContractFileSuffix = "_artifact.go"
)

// EmittedFile is one compiled source file and the contracts emitted for it.
type EmittedFile struct {
	SourceName    string
	ContractNames []string
}

// Fragment is the rendered declaration of one contract artifact.
type Fragment struct {
	ContractName       string
	FullyQualifiedName string
	// Ident is the exported Go identifier of the artifact variable.
	Ident string
	// TypeName is the Go type of the artifact variable.
	TypeName string
	// Declaration is the Go source of the constant and variable.
	Declaration string
}

// GeneratedFile is a file to write, relative to the output directory.
type GeneratedFile struct {
	Path    string
	Content []byte
}

// SourcePackage describes the Go package generated for one source file.
type SourcePackage struct {
	SourceName string
	// Dir is the slash-separated package directory relative to the output directory.
	Dir string
	// Name is the Go package name.
	Name string
	// Alias is the import alias used by the project-level lookup file.
	Alias string
}

// NewSourcePackage derives the package layout for a source file.
func NewSourcePackage(sourceName string) SourcePackage {
	dir := SourceOutputDir(sourceName)
	return SourcePackage{
		SourceName: sourceName,
		Dir:        dir,
		Name:       packageName(path.Base(dir)),
		Alias:      packageName(strings.ReplaceAll(dir, "/", "_")),
	}
}

// SourcePackages derives the packages of the given source files, sorted by
// directory. Output directories are compared case-insensitively so the
// layout also works on case-insensitive file systems.
func SourcePackages(sourceNames []string) ([]SourcePackage, error) {
	pkgs := make([]SourcePackage, 0, len(sourceNames))
	seen := make(map[string]string, len(sourceNames))
	for _, name := range sourceNames {
		pkg := NewSourcePackage(name)
		key := strings.ToLower(pkg.Dir)
		if other, ok := seen[key]; ok {
			if other == name {
				continue
			}
			return nil, fmt.Errorf("%w: %s and %s", ErrOutputCollision, other, name)
		}
		seen[key] = name
		pkgs = append(pkgs, pkg)
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Dir < pkgs[j].Dir })
	return pkgs, nil
}

// SourceOutputDir maps a source name onto a directory usable as a Go import
// path suffix. Characters outside [A-Za-z0-9._-] become '_', as does a
// leading dot.
func SourceOutputDir(sourceName string) string {
	elems := strings.Split(path.Clean(strings.ReplaceAll(sourceName, "\\", "/")), "/")
	out := make([]string, 0, len(elems))
	for _, elem := range elems {
		if elem == "" || elem == "." {
			continue
		}
		if elem == ".." {
			elem = "__"
		}
		var b strings.Builder
		for i, r := range elem {
			switch {
			case r == '.' && i == 0:
				b.WriteByte('_')
			case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-'):
				b.WriteRune(r)
			default:
				b.WriteByte('_')
			}
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "/")
}

// packageName keeps the lower-cased ASCII letters and digits of s.
func packageName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) || token.IsKeyword(name) {
		name = "c" + name
	}
	return name
}

// Identifiers every generated source package declares besides the artifacts.
var reservedIdents = map[string]struct{}{
	"SourceName": {},
	"All":        {},
	"Register":   {},
}

// ContractIdent is the exported Go identifier for a contract name. '$' is
// not valid in Go and becomes '_'; names that cannot be exported as-is are
// prefixed with 'X'.
func ContractIdent(contractName string) string {
	runes := []rune(strings.ReplaceAll(contractName, "$", "_"))
	if len(runes) == 0 {
		return "X"
	}
	switch {
	case unicode.IsUpper(runes[0]):
	case unicode.IsLower(runes[0]):
		runes[0] = unicode.ToUpper(runes[0])
	default:
		runes = append([]rune{'X'}, runes...)
	}
	return string(runes)
}

// AssignIdents maps every contract name of one source file to a distinct
// identifier. Names are processed in sorted order so the assignment is
// deterministic; a clash gets a numeric suffix. An identifier X also
// reserves XJSON for its constant. Clashes are case-insensitive because the
// identifier also names the contract's file.
func AssignIdents(contractNames []string) map[string]string {
	names := append([]string(nil), contractNames...)
	sort.Strings(names)

	taken := make(map[string]struct{}, len(names)*2+len(reservedIdents))
	for ident := range reservedIdents {
		taken[strings.ToLower(ident)] = struct{}{}
	}
	free := func(ident string) bool {
		_, a := taken[strings.ToLower(ident)]
		_, b := taken[strings.ToLower(ident+"JSON")]
		return !a && !b
	}

	out := make(map[string]string, len(names))
	for _, name := range names {
		base := ContractIdent(name)
		ident := base
		for i := 2; !free(ident); i++ {
			ident = base + strconv.Itoa(i)
		}
		taken[strings.ToLower(ident)] = struct{}{}
		taken[strings.ToLower(ident+"JSON")] = struct{}{}
		out[name] = ident
	}
	return out
}

// ContractFileName is the file holding a contract's fragment. The suffix
// keeps names like "Foo_test" or "Foo_linux" from changing build semantics.
func ContractFileName(ident string) string {
	return strings.ToLower(ident) + ContractFileSuffix
}
