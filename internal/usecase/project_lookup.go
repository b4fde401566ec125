package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/domain/config"
)

// WriteProjectLookup writes the project-level file that builds the lookup
// table of every compiled artifact.
type WriteProjectLookup struct {
	config   *config.RuntimeConfig
	store    ArtifactStore
	renderer CodeRenderer
	writer   OutputWriter
	log      *slog.Logger
}

// NewWriteProjectLookup creates a new WriteProjectLookup step
func NewWriteProjectLookup(
	cfg *config.RuntimeConfig,
	store ArtifactStore,
	renderer CodeRenderer,
	writer OutputWriter,
	log *slog.Logger,
) *WriteProjectLookup {
	return &WriteProjectLookup{
		config:   cfg,
		store:    store,
		renderer: renderer,
		writer:   writer,
		log:      log.With("component", "WriteProjectLookup"),
	}
}

// Run calls the rest of the compile stage and then writes the project file.
func (s *WriteProjectLookup) Run(ctx context.Context, next Next[*BuildOutput]) (*BuildOutput, error) {
	out, err := next(ctx)
	if err != nil {
		return nil, err
	}

	if out.FullyQualifiedNames == nil {
		fqns, err := s.store.AllFullyQualifiedNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list artifacts: %w", err)
		}
		out.FullyQualifiedNames = fqns
		out.Duplicates = domain.NewDuplicateSet(fqns)
	}

	if s.config.ImportPath == "" {
		return nil, domain.ErrNoImportPath
	}

	sources := lo.Keys(domain.SourceNames(out.FullyQualifiedNames))
	pkgs, err := domain.SourcePackages(sources)
	if err != nil {
		return nil, err
	}

	content, err := s.renderer.RenderProject(s.config.PackageName, s.config.ImportPath, pkgs, out.Duplicates)
	if err != nil {
		return nil, fmt.Errorf("failed to render project lookup: %w", err)
	}

	if err := s.writer.EnsureDirectory(ctx, s.config.OutputDir); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.config.OutputDir, err)
	}
	path := filepath.Join(s.config.OutputDir, domain.ProjectFileName)
	if err := s.writer.WriteFile(ctx, path, content); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.log.Debug("wrote project lookup", "packages", len(pkgs), "ambiguous", out.Duplicates.Len())
	out.Generated = append(out.Generated, domain.ProjectFileName)
	return out, nil
}
