package domain

import (
	"fmt"
	"strings"
)

// FullyQualifiedName identifies a contract as "<sourceName>:<contractName>".
type FullyQualifiedName struct {
	SourceName   string
	ContractName string
}

// String returns the canonical "<source>:<contract>" form.
func (f FullyQualifiedName) String() string {
	return FormatFullyQualifiedName(f.SourceName, f.ContractName)
}

// FormatFullyQualifiedName joins a source name and a contract name.
func FormatFullyQualifiedName(sourceName, contractName string) string {
	return sourceName + ":" + contractName
}

// ParseFullyQualifiedName splits on the last colon, so source names that
// contain colons still parse.
func ParseFullyQualifiedName(fqn string) (FullyQualifiedName, error) {
	idx := strings.LastIndex(fqn, ":")
	if idx <= 0 || idx == len(fqn)-1 {
		return FullyQualifiedName{}, fmt.Errorf("%w: %q", ErrInvalidFullyQualifiedName, fqn)
	}
	return FullyQualifiedName{SourceName: fqn[:idx], ContractName: fqn[idx+1:]}, nil
}

// IsFullyQualifiedName reports whether s has the "<source>:<contract>" shape.
func IsFullyQualifiedName(s string) bool {
	_, err := ParseFullyQualifiedName(s)
	return err == nil
}

// SourceNames returns the distinct source names of the given fully-qualified
// names. Malformed names are skipped.
func SourceNames(fqns []string) map[string]struct{} {
	out := make(map[string]struct{}, len(fqns))
	for _, fqn := range fqns {
		parsed, err := ParseFullyQualifiedName(fqn)
		if err != nil {
			continue
		}
		out[parsed.SourceName] = struct{}{}
	}
	return out
}
