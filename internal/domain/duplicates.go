package domain

import (
	"sort"

	"github.com/samber/lo"
)

// DuplicateSet holds the contract short names that occur in more than one
// source file, together with the fully-qualified names sharing each.
type DuplicateSet struct {
	candidates map[string][]string
}

// NewDuplicateSet groups fully-qualified names by short name. Any short name
// carried by more than one distinct fully-qualified name is a duplicate.
func NewDuplicateSet(fqns []string) *DuplicateSet {
	parsed := lo.FilterMap(lo.Uniq(fqns), func(fqn string, _ int) (FullyQualifiedName, bool) {
		name, err := ParseFullyQualifiedName(fqn)
		return name, err == nil
	})
	groups := lo.GroupBy(parsed, func(name FullyQualifiedName) string {
		return name.ContractName
	})

	set := &DuplicateSet{candidates: make(map[string][]string)}
	for name, group := range groups {
		if len(group) < 2 {
			continue
		}
		fq := lo.Map(group, func(n FullyQualifiedName, _ int) string { return n.String() })
		sort.Strings(fq)
		set.candidates[name] = fq
	}
	return set
}

// Contains reports whether name is ambiguous.
func (d *DuplicateSet) Contains(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.candidates[name]
	return ok
}

// Names returns the ambiguous short names, sorted.
func (d *DuplicateSet) Names() []string {
	if d == nil {
		return nil
	}
	names := lo.Keys(d.candidates)
	sort.Strings(names)
	return names
}

// Candidates returns the sorted fully-qualified names sharing name.
func (d *DuplicateSet) Candidates(name string) []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.candidates[name]...)
}

// Len returns the number of ambiguous short names.
func (d *DuplicateSet) Len() int {
	if d == nil {
		return 0
	}
	return len(d.candidates)
}
