package artifacts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArtifact(source, name string) *Artifact {
	return &Artifact{ContractName: name, SourceName: source, ABI: []byte("[]")}
}

func TestTableLookup(t *testing.T) {
	fooA := newArtifact("contracts/A.sol", "Foo")
	fooB := newArtifact("contracts/B.sol", "Foo")
	bar := newArtifact("contracts/B.sol", "Bar")

	table := NewTable()
	table.MarkAmbiguous("Foo", fooA.FullyQualifiedName(), fooB.FullyQualifiedName())
	for _, a := range []*Artifact{fooA, fooB, bar} {
		table.Register(a.FullyQualifiedName(), a)
		table.RegisterShort(a.ContractName, a)
	}

	got, err := table.Lookup("Bar")
	require.NoError(t, err)
	assert.Same(t, bar, got)

	got, err = table.Lookup("contracts/A.sol:Foo")
	require.NoError(t, err)
	assert.Same(t, fooA, got)

	got, err = table.Lookup("contracts/B.sol:Foo")
	require.NoError(t, err)
	assert.Same(t, fooB, got)

	_, err = table.Lookup("Foo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAmbiguousName))
	var ambiguous *AmbiguousNameError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, []string{"contracts/A.sol:Foo", "contracts/B.sol:Foo"}, ambiguous.Candidates)

	_, err = table.Lookup("Baz")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Equal(t, []string{"Bar"}, table.Names())
	assert.Equal(t, []string{"contracts/A.sol:Foo", "contracts/B.sol:Bar", "contracts/B.sol:Foo"}, table.FullyQualifiedNames())
	assert.Equal(t, 3, table.Len())
}

func TestTableMarkAmbiguousAfterRegister(t *testing.T) {
	foo := newArtifact("a.sol", "Foo")
	table := NewTable()
	table.RegisterShort("Foo", foo)
	table.MarkAmbiguous("Foo", "b.sol:Foo")
	table.MarkAmbiguous("Foo", "a.sol:Foo", "b.sol:Foo")

	_, err := table.Lookup("Foo")
	assert.True(t, errors.Is(err, ErrAmbiguousName))
	assert.Equal(t, map[string][]string{"Foo": {"a.sol:Foo", "b.sol:Foo"}}, table.Ambiguous())
	assert.Empty(t, table.Names())
}

func TestTableMustLookup(t *testing.T) {
	table := NewTable()
	assert.Panics(t, func() { table.MustLookup("Nope") })
}
