package artifactstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/artigen/pkg/artifacts"
)

// foundryBytecode is a bytecode section of a Foundry artifact
type foundryBytecode struct {
	Object         string                   `json:"object"`
	LinkReferences artifacts.LinkReferences `json:"linkReferences"`
}

// foundryArtifact is the subset of a Foundry artifact that artigen reads
type foundryArtifact struct {
	ABI              json.RawMessage `json:"abi"`
	Bytecode         foundryBytecode `json:"bytecode"`
	DeployedBytecode foundryBytecode `json:"deployedBytecode"`
	Metadata         struct {
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
	AST *struct {
		AbsolutePath string `json:"absolutePath"`
	} `json:"ast"`
}

// NewFoundryStore creates a store over a Foundry out directory
func NewFoundryStore(dir string, log *slog.Logger) *Store {
	return newStore(dir, loadFoundryArtifacts, log.With("component", "FoundryStore"))
}

// loadFoundryArtifacts walks out/<File>.sol/<Contract>.json. The source name
// comes from the compilation target in the metadata; artifacts compiled
// without metadata fall back to the AST path and the file name. JSON that
// does not parse fails the load; valid JSON without an ABI is skipped.
func loadFoundryArtifacts(ctx context.Context, dir string, log *slog.Logger) (map[string]*artifacts.Artifact, error) {
	out := make(map[string]*artifacts.Artifact)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("out directory %s not found, run the compiler first", dir)
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}

		a, err := readFoundryArtifact(path)
		if err != nil {
			return err
		}
		if a == nil {
			log.Debug("skipping non-artifact json", "path", path)
			return nil
		}

		fqn := a.FullyQualifiedName()
		if _, exists := out[fqn]; exists {
			// Contracts compiled with several solc versions get one file per version
			log.Debug("skipping duplicate artifact", "fqn", fqn, "path", path)
			return nil
		}
		out[fqn] = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func readFoundryArtifact(path string) (*artifacts.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw foundryArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		// Also rejects artifacts whose sections have the wrong shape
		return nil, fmt.Errorf("malformed artifact %s: %w", path, err)
	}
	if raw.ABI == nil {
		return nil, nil
	}

	var sourceName, contractName string
	for source, contract := range raw.Metadata.Settings.CompilationTarget {
		sourceName, contractName = source, contract
	}
	if sourceName == "" && raw.AST != nil {
		sourceName = raw.AST.AbsolutePath
		contractName = strings.SplitN(filepath.Base(path), ".", 2)[0]
	}
	if sourceName == "" || contractName == "" {
		return nil, nil
	}

	a := &artifacts.Artifact{
		Format:                 artifacts.FormatFoundry,
		ContractName:           contractName,
		SourceName:             sourceName,
		ABI:                    raw.ABI,
		Bytecode:               raw.Bytecode.Object,
		DeployedBytecode:       raw.DeployedBytecode.Object,
		LinkReferences:         orEmpty(raw.Bytecode.LinkReferences),
		DeployedLinkReferences: orEmpty(raw.DeployedBytecode.LinkReferences),
	}

	// Normalize through the runtime parser so generated and read artifacts agree
	normalized, err := a.MarshalIndent()
	if err != nil {
		return nil, fmt.Errorf("malformed artifact %s: %w", path, err)
	}
	parsed, err := artifacts.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("malformed artifact %s: %w", path, err)
	}
	return parsed, nil
}

func orEmpty(refs artifacts.LinkReferences) artifacts.LinkReferences {
	if refs == nil {
		return artifacts.LinkReferences{}
	}
	return refs
}
