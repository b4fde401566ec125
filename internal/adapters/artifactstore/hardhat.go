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

// NewHardhatStore creates a store over a Hardhat artifacts directory
func NewHardhatStore(dir string, log *slog.Logger) *Store {
	return newStore(dir, loadHardhatArtifacts, log.With("component", "HardhatStore"))
}

// loadHardhatArtifacts walks artifacts/<source>/<Contract>.json, skipping
// build info and debug files.
func loadHardhatArtifacts(ctx context.Context, dir string, log *slog.Logger) (map[string]*artifacts.Artifact, error) {
	out := make(map[string]*artifacts.Artifact)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("artifacts directory %s not found, run the compiler first", dir)
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
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}

		a, err := readHardhatArtifact(path)
		if err != nil {
			return err
		}
		if a == nil {
			log.Debug("skipping non-artifact json", "path", path)
			return nil
		}
		out[a.FullyQualifiedName()] = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// readHardhatArtifact returns nil for valid JSON in another format and an
// error for anything that does not parse.
func readHardhatArtifact(path string) (*artifacts.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var header struct {
		Format string `json:"_format"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("malformed artifact %s: %w", path, err)
	}
	if header.Format != artifacts.FormatHardhat {
		return nil, nil
	}

	a, err := artifacts.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("malformed artifact %s: %w", path, err)
	}
	return a, nil
}
