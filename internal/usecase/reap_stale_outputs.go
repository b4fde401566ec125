package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/domain/config"
)

// ReapStaleOutputs removes generated packages whose source file is no
// longer part of the project. Removal is best effort: failures are logged,
// never returned.
type ReapStaleOutputs struct {
	config *config.RuntimeConfig
	store  ArtifactStore
	writer OutputWriter
	log    *slog.Logger
}

// NewReapStaleOutputs creates a new ReapStaleOutputs step
func NewReapStaleOutputs(
	cfg *config.RuntimeConfig,
	store ArtifactStore,
	writer OutputWriter,
	log *slog.Logger,
) *ReapStaleOutputs {
	return &ReapStaleOutputs{
		config: cfg,
		store:  store,
		writer: writer,
		log:    log.With("component", "ReapStaleOutputs"),
	}
}

// Run calls the compiler's obsolete-artifact cleanup and then removes stale
// generated packages. It returns the removed directories relative to the
// output directory, appended to the delegate's result.
func (s *ReapStaleOutputs) Run(ctx context.Context, next Next[[]string]) ([]string, error) {
	removed, err := next(ctx)
	if err != nil {
		return nil, err
	}

	fqns, err := s.store.AllFullyQualifiedNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	expected := make(map[string]struct{})
	for source := range domain.SourceNames(fqns) {
		expected[domain.SourceOutputDir(source)] = struct{}{}
	}

	dirs, err := s.writer.FindMarkers(ctx, s.config.OutputDir, domain.LookupFileName, []byte(domain.GeneratedHeader))
	if err != nil {
		s.log.Warn("failed to scan generated output", "dir", s.config.OutputDir, "error", err)
		return removed, nil
	}
	// Deepest first so a stale parent can be removed once its stale
	// children are gone.
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))

	var reaped []string
	var result *multierror.Error
	for _, dir := range dirs {
		if _, ok := expected[dir]; ok || dir == "." || dir == "" {
			continue
		}
		path := filepath.Join(s.config.OutputDir, filepath.FromSlash(dir))

		if err := s.removeGeneratedFiles(ctx, path); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to remove %s: %w", dir, err))
			continue
		}
		gone, err := s.writer.RemoveIfEmpty(ctx, path)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to remove %s: %w", dir, err))
			continue
		}
		if gone {
			s.log.Debug("removed stale output", "dir", dir)
		} else {
			s.log.Debug("removed stale generated files, kept other files", "dir", dir)
		}
		reaped = append(reaped, dir)
	}

	if err := result.ErrorOrNil(); err != nil {
		s.log.Warn("some stale outputs could not be removed", "error", err)
	}
	sort.Strings(reaped)
	return append(removed, reaped...), nil
}

// removeGeneratedFiles removes the generated files of a stale package. Files
// without the generated header are left in place.
func (s *ReapStaleOutputs) removeGeneratedFiles(ctx context.Context, dir string) error {
	names, err := s.writer.ListFiles(ctx, dir)
	if err != nil {
		return err
	}

	var result *multierror.Error
	for _, name := range names {
		if !isGeneratedName(name) {
			continue
		}
		path := filepath.Join(dir, name)
		ok, err := s.writer.HasPrefix(ctx, path, []byte(domain.GeneratedHeader))
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if !ok {
			continue
		}
		if err := s.writer.RemoveAll(ctx, path); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func isGeneratedName(name string) bool {
	return name == domain.IndexFileName || name == domain.LookupFileName || strings.HasSuffix(name, domain.ContractFileSuffix)
}
