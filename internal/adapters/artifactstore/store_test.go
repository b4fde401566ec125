package artifactstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/pkg/artifacts"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func foundryJSON(source, name string) string {
	return fmt.Sprintf(`{
  "abi": [{"type":"function","name":"run","inputs":[],"outputs":[],"stateMutability":"nonpayable"}],
  "bytecode": {"object": "0x6080", "sourceMap": "", "linkReferences": {}},
  "deployedBytecode": {"object": "0x60", "sourceMap": "", "linkReferences": {}},
  "methodIdentifiers": {"run()": "c0406226"},
  "metadata": {"settings": {"compilationTarget": {%q: %q}}}
}`, source, name)
}

func hardhatJSON(source, name string) string {
	return fmt.Sprintf(`{
  "_format": "hh-sol-artifact-1",
  "contractName": %q,
  "sourceName": %q,
  "abi": [],
  "bytecode": "0x6080",
  "deployedBytecode": "0x60",
  "linkReferences": {},
  "deployedLinkReferences": {}
}`, name, source)
}

func TestFoundryStore(t *testing.T) {
	ctx := context.Background()
	out := t.TempDir()

	writeFile(t, filepath.Join(out, "A.sol", "Foo.json"), foundryJSON("contracts/A.sol", "Foo"))
	writeFile(t, filepath.Join(out, "B.sol", "Foo.json"), foundryJSON("contracts/B.sol", "Foo"))
	writeFile(t, filepath.Join(out, "B.sol", "Bar.json"), foundryJSON("contracts/B.sol", "Bar"))
	writeFile(t, filepath.Join(out, "B.sol", "Bar.0.8.19.json"), foundryJSON("contracts/B.sol", "Bar"))
	writeFile(t, filepath.Join(out, "build-info", "abc.json"), `{"id": "abc"}`)
	writeFile(t, filepath.Join(out, "notes.json"), `{"hello": "world"}`)

	store := NewFoundryStore(out, discard)

	fqns, err := store.AllFullyQualifiedNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"contracts/A.sol:Foo", "contracts/B.sol:Bar", "contracts/B.sol:Foo"}, fqns)

	files, err := store.EmittedFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.EmittedFile{
		{SourceName: "contracts/A.sol", ContractNames: []string{"Foo"}},
		{SourceName: "contracts/B.sol", ContractNames: []string{"Bar", "Foo"}},
	}, files)

	bar, err := store.ReadArtifact(ctx, "Bar")
	require.NoError(t, err)
	assert.Equal(t, artifacts.FormatFoundry, bar.Format)
	assert.Equal(t, "0x6080", bar.Bytecode)
	assert.Equal(t, artifacts.LinkReferences{}, bar.LinkReferences)

	_, err = store.ReadArtifact(ctx, "Foo")
	var amb *artifacts.AmbiguousNameError
	require.True(t, errors.As(err, &amb))
	assert.Equal(t, []string{"contracts/A.sol:Foo", "contracts/B.sol:Foo"}, amb.Candidates)

	foo, err := store.ReadArtifact(ctx, "contracts/B.sol:Foo")
	require.NoError(t, err)
	assert.Equal(t, "contracts/B.sol", foo.SourceName)

	_, err = store.ReadArtifact(ctx, "Missing")
	assert.ErrorIs(t, err, artifacts.ErrNotFound)

	t.Run("reset picks up new output", func(t *testing.T) {
		writeFile(t, filepath.Join(out, "C.sol", "Baz.json"), foundryJSON("contracts/C.sol", "Baz"))

		fqns, err := store.AllFullyQualifiedNames(ctx)
		require.NoError(t, err)
		assert.Len(t, fqns, 3)

		store.Reset()
		fqns, err = store.AllFullyQualifiedNames(ctx)
		require.NoError(t, err)
		assert.Contains(t, fqns, "contracts/C.sol:Baz")
	})
}

func TestFoundryStoreMissingDir(t *testing.T) {
	store := NewFoundryStore(filepath.Join(t.TempDir(), "out"), discard)
	_, err := store.AllFullyQualifiedNames(context.Background())
	assert.Error(t, err)
}

func TestHardhatStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "contracts", "A.sol", "Foo.json"), hardhatJSON("contracts/A.sol", "Foo"))
	writeFile(t, filepath.Join(dir, "contracts", "A.sol", "Foo.dbg.json"), `{"_format": "hh-sol-dbg-1", "buildInfo": "x"}`)
	writeFile(t, filepath.Join(dir, "contracts", "B.sol", "Foo.json"), hardhatJSON("contracts/B.sol", "Foo"))
	writeFile(t, filepath.Join(dir, "contracts", "B.sol", "Bar.json"), hardhatJSON("contracts/B.sol", "Bar"))
	writeFile(t, filepath.Join(dir, "build-info", "abc.json"), `{"_format": "hh-sol-build-info-1"}`)

	store := NewHardhatStore(dir, discard)

	fqns, err := store.AllFullyQualifiedNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"contracts/A.sol:Foo", "contracts/B.sol:Bar", "contracts/B.sol:Foo"}, fqns)

	a, err := store.ReadArtifact(ctx, "contracts/A.sol:Foo")
	require.NoError(t, err)
	assert.Equal(t, artifacts.FormatHardhat, a.Format)
	assert.JSONEq(t, "[]", string(a.ABI))
}

func TestMalformedArtifacts(t *testing.T) {
	ctx := context.Background()

	t.Run("foundry truncated json", func(t *testing.T) {
		out := t.TempDir()
		writeFile(t, filepath.Join(out, "A.sol", "Foo.json"), foundryJSON("contracts/A.sol", "Foo"))
		full := foundryJSON("contracts/B.sol", "Bar")
		writeFile(t, filepath.Join(out, "B.sol", "Bar.json"), full[:len(full)/2])

		_, err := NewFoundryStore(out, discard).AllFullyQualifiedNames(ctx)
		assert.ErrorContains(t, err, "malformed artifact")
		assert.ErrorContains(t, err, "Bar.json")
	})

	t.Run("foundry artifact with invalid abi", func(t *testing.T) {
		out := t.TempDir()
		writeFile(t, filepath.Join(out, "B.sol", "Bar.json"), `{
  "abi": {"not": "a list"},
  "bytecode": {"object": "0x6080"},
  "metadata": {"settings": {"compilationTarget": {"contracts/B.sol": "Bar"}}}
}`)

		_, err := NewFoundryStore(out, discard).AllFullyQualifiedNames(ctx)
		assert.ErrorContains(t, err, "malformed artifact")
	})

	t.Run("hardhat truncated json", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "contracts", "A.sol", "Foo.json"), hardhatJSON("contracts/A.sol", "Foo"))
		full := hardhatJSON("contracts/B.sol", "Bar")
		writeFile(t, filepath.Join(dir, "contracts", "B.sol", "Bar.json"), full[:len(full)/2])

		_, err := NewHardhatStore(dir, discard).AllFullyQualifiedNames(ctx)
		assert.ErrorContains(t, err, "malformed artifact")
		assert.ErrorContains(t, err, "Bar.json")
	})

	t.Run("hardhat artifact without contract name", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "contracts", "B.sol", "Bar.json"), `{"_format": "hh-sol-artifact-1", "sourceName": "contracts/B.sol", "abi": []}`)

		_, err := NewHardhatStore(dir, discard).AllFullyQualifiedNames(ctx)
		assert.ErrorContains(t, err, "missing contractName")
	})

	t.Run("valid json in other formats is skipped", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "contracts", "A.sol", "Foo.json"), hardhatJSON("contracts/A.sol", "Foo"))
		writeFile(t, filepath.Join(dir, "contracts", "solcInputs.json"), `{"language": "Solidity"}`)

		fqns, err := NewHardhatStore(dir, discard).AllFullyQualifiedNames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"contracts/A.sol:Foo"}, fqns)
	})
}
