package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSourcePackage(t *testing.T) {
	tests := []struct {
		source string
		dir    string
		name   string
		alias  string
	}{
		{source: "contracts/A.sol", dir: "contracts/A.sol", name: "asol", alias: "contractsasol"},
		{source: "src/tokens/ERC20.sol", dir: "src/tokens/ERC20.sol", name: "erc20sol", alias: "srctokenserc20sol"},
		{source: "@openzeppelin/contracts/access/Ownable.sol", dir: "_openzeppelin/contracts/access/Ownable.sol", name: "ownablesol", alias: "openzeppelincontractsaccessownablesol"},
		{source: "lib/forge-std/src/Test.sol", dir: "lib/forge-std/src/Test.sol", name: "testsol", alias: "libforgestdsrctestsol"},
		{source: ".hidden/1inch.sol", dir: "_hidden/1inch.sol", name: "c1inchsol", alias: "hidden1inchsol"},
		{source: "../outside/X.sol", dir: "__/outside/X.sol", name: "xsol", alias: "outsidexsol"},
		{source: "contracts/My Token.sol", dir: "contracts/My_Token.sol", name: "mytokensol", alias: "contractsmytokensol"},
		{source: "go", dir: "go", name: "cgo", alias: "cgo"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			pkg := NewSourcePackage(tt.source)
			assert.Equal(t, tt.source, pkg.SourceName)
			assert.Equal(t, tt.dir, pkg.Dir)
			assert.Equal(t, tt.name, pkg.Name)
			assert.Equal(t, tt.alias, pkg.Alias)
		})
	}
}

func TestContractIdent(t *testing.T) {
	assert.Equal(t, "Foo", ContractIdent("Foo"))
	assert.Equal(t, "Foo", ContractIdent("foo"))
	assert.Equal(t, "X_internal", ContractIdent("_internal"))
	assert.Equal(t, "X_dollar", ContractIdent("$dollar"))
	assert.Equal(t, "A_b", ContractIdent("A$b"))
}

func TestAssignIdents(t *testing.T) {
	got := AssignIdents([]string{"foo", "Foo", "FooJSON", "All", "Bar"})

	assert.Equal(t, map[string]string{
		"All":     "All2",
		"Bar":     "Bar",
		"Foo":     "Foo",
		"FooJSON": "FooJSON2",
		"foo":     "Foo2",
	}, got)

	// Order of the input does not matter
	assert.Equal(t, got, AssignIdents([]string{"Bar", "All", "FooJSON", "Foo", "foo"}))
}

func TestContractFileName(t *testing.T) {
	assert.Equal(t, "foo_test_artifact.go", ContractFileName("Foo_test"))
}

func TestSourcePackages(t *testing.T) {
	pkgs, err := SourcePackages([]string{"contracts/B.sol", "contracts/A.sol", "contracts/B.sol"})
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, "contracts/A.sol", pkgs[0].Dir)
	assert.Equal(t, "contracts/B.sol", pkgs[1].Dir)

	_, err = SourcePackages([]string{"contracts/My Token.sol", "contracts/my_token.sol"})
	assert.ErrorIs(t, err, ErrOutputCollision)
}
