package artifacts

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// AmbiguousNameError is returned when a short name is shared by several
// contracts. Candidates holds their fully-qualified names.
type AmbiguousNameError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("%s: %q matches %s; use a fully-qualified name",
		ErrAmbiguousName, e.Name, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousNameError) Unwrap() error { return ErrAmbiguousName }

// Table is a keyed lookup from contract short name or fully-qualified name
// to its artifact. Short names marked ambiguous are never resolvable; the
// fully-qualified form always is.
type Table struct {
	mu        sync.RWMutex
	byFQN     map[string]*Artifact
	byName    map[string]*Artifact
	ambiguous map[string][]string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		byFQN:     make(map[string]*Artifact),
		byName:    make(map[string]*Artifact),
		ambiguous: make(map[string][]string),
	}
}

// Register adds an artifact under its fully-qualified name.
func (t *Table) Register(fqn string, a *Artifact) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byFQN[fqn] = a
}

// RegisterShort adds an artifact under its short name. It is a no-op for
// names already marked ambiguous.
func (t *Table) RegisterShort(name string, a *Artifact) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.ambiguous[name]; ok {
		return
	}
	t.byName[name] = a
}

// MarkAmbiguous hides a short name and records the contracts sharing it.
func (t *Table) MarkAmbiguous(name string, candidates ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byName, name)
	merged := append(t.ambiguous[name], candidates...)
	sort.Strings(merged)
	t.ambiguous[name] = dedupSorted(merged)
}

// Lookup resolves a short name or a fully-qualified name.
func (t *Table) Lookup(nameOrFQN string) (*Artifact, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if a, ok := t.byFQN[nameOrFQN]; ok {
		return a, nil
	}
	if candidates, ok := t.ambiguous[nameOrFQN]; ok {
		return nil, &AmbiguousNameError{Name: nameOrFQN, Candidates: append([]string(nil), candidates...)}
	}
	if a, ok := t.byName[nameOrFQN]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, nameOrFQN)
}

// MustLookup is like Lookup but panics on error.
func (t *Table) MustLookup(nameOrFQN string) *Artifact {
	a, err := t.Lookup(nameOrFQN)
	if err != nil {
		panic(err)
	}
	return a
}

// Names returns the resolvable short names, sorted.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return sortedKeys(t.byName)
}

// FullyQualifiedNames returns every registered fully-qualified name, sorted.
func (t *Table) FullyQualifiedNames() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return sortedKeys(t.byFQN)
}

// Ambiguous returns the hidden short names with their candidates.
func (t *Table) Ambiguous() map[string][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string][]string, len(t.ambiguous))
	for name, candidates := range t.ambiguous {
		out[name] = append([]string(nil), candidates...)
	}
	return out
}

// Len returns the number of registered contracts.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byFQN)
}

func sortedKeys(m map[string]*Artifact) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dedupSorted(in []string) []string {
	out := in[:0]
	for i, s := range in {
		if i > 0 && s == in[i-1] {
			continue
		}
		out = append(out, s)
	}
	return out
}
