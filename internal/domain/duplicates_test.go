package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDuplicateSet(t *testing.T) {
	t.Run("example project", func(t *testing.T) {
		set := NewDuplicateSet([]string{
			"contracts/A.sol:Foo",
			"contracts/B.sol:Foo",
			"contracts/B.sol:Bar",
		})

		assert.True(t, set.Contains("Foo"))
		assert.False(t, set.Contains("Bar"))
		assert.Equal(t, []string{"Foo"}, set.Names())
		assert.Equal(t, []string{"contracts/A.sol:Foo", "contracts/B.sol:Foo"}, set.Candidates("Foo"))
		assert.Equal(t, 1, set.Len())
	})

	t.Run("three way collision hides every occurrence", func(t *testing.T) {
		set := NewDuplicateSet([]string{"c.sol:X", "a.sol:X", "b.sol:X"})
		assert.Equal(t, []string{"a.sol:X", "b.sol:X", "c.sol:X"}, set.Candidates("X"))
	})

	t.Run("repeated fqn is not a duplicate", func(t *testing.T) {
		set := NewDuplicateSet([]string{"a.sol:X", "a.sol:X"})
		assert.False(t, set.Contains("X"))
	})

	t.Run("no duplicates", func(t *testing.T) {
		set := NewDuplicateSet([]string{"a.sol:A", "b.sol:B"})
		assert.Empty(t, set.Names())
		assert.Equal(t, 0, set.Len())
	})

	t.Run("nil set", func(t *testing.T) {
		var set *DuplicateSet
		assert.False(t, set.Contains("A"))
		assert.Nil(t, set.Names())
	})
}
