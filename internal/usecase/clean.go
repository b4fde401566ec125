package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/artigen/internal/domain/config"
)

// CleanResult contains the result of a clean
type CleanResult struct {
	OutputDir string
}

// Clean removes the generated output directory
type Clean struct {
	config *config.RuntimeConfig
	writer OutputWriter
}

// NewClean creates a new Clean use case
func NewClean(cfg *config.RuntimeConfig, writer OutputWriter) *Clean {
	return &Clean{config: cfg, writer: writer}
}

// Run removes the output directory. It refuses to remove the project root
// or any directory containing it.
func (uc *Clean) Run(ctx context.Context) (*CleanResult, error) {
	out := filepath.Clean(uc.config.OutputDir)
	root := filepath.Clean(uc.config.ProjectRoot)

	rel, err := filepath.Rel(out, root)
	if err == nil && (rel == "." || !strings.HasPrefix(rel, "..")) {
		return nil, fmt.Errorf("refusing to remove %s: it contains the project root", out)
	}

	if err := uc.writer.RemoveAll(ctx, out); err != nil {
		return nil, fmt.Errorf("failed to remove %s: %w", out, err)
	}
	return &CleanResult{OutputDir: out}, nil
}
