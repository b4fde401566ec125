package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/domain/config"
)

// BuildOutput flows through the compile and emit stages.
type BuildOutput struct {
	Emitted             []domain.EmittedFile
	FullyQualifiedNames []string
	Duplicates          *domain.DuplicateSet
	// Generated holds the written files, relative to the output directory.
	Generated []string
}

// EmitTypedArtifacts writes a Go package of typed artifacts for every source
// file the compiler emitted.
type EmitTypedArtifacts struct {
	config   *config.RuntimeConfig
	store    ArtifactStore
	renderer CodeRenderer
	writer   OutputWriter
	sink     ProgressSink
	log      *slog.Logger
}

// NewEmitTypedArtifacts creates a new EmitTypedArtifacts step
func NewEmitTypedArtifacts(
	cfg *config.RuntimeConfig,
	store ArtifactStore,
	renderer CodeRenderer,
	writer OutputWriter,
	sink ProgressSink,
	log *slog.Logger,
) *EmitTypedArtifacts {
	return &EmitTypedArtifacts{
		config:   cfg,
		store:    store,
		renderer: renderer,
		writer:   writer,
		sink:     sink,
		log:      log.With("component", "EmitTypedArtifacts"),
	}
}

// Run calls the compiler's own emission and then generates a package per
// emitted source file.
func (s *EmitTypedArtifacts) Run(ctx context.Context, next Next[*BuildOutput]) (*BuildOutput, error) {
	out, err := next(ctx)
	if err != nil {
		return nil, err
	}

	fqns, err := s.store.AllFullyQualifiedNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	out.FullyQualifiedNames = fqns
	out.Duplicates = domain.NewDuplicateSet(fqns)

	sources := lo.Map(out.Emitted, func(f domain.EmittedFile, _ int) string { return f.SourceName })
	if _, err := domain.SourcePackages(sources); err != nil {
		return nil, err
	}

	for i, file := range out.Emitted {
		s.sink.OnProgress(ctx, ProgressEvent{
			Stage:   "emitting",
			Current: i + 1,
			Total:   len(out.Emitted),
			Message: fmt.Sprintf("Generating %s", file.SourceName),
			Spinner: true,
		})

		written, err := s.EmitFile(ctx, file, out.Duplicates)
		if err != nil {
			return nil, err
		}
		out.Generated = append(out.Generated, written...)
	}
	return out, nil
}

// EmitFile renders and writes the package of one source file. Artifacts are
// read and rendered concurrently; every write happens after the join.
func (s *EmitTypedArtifacts) EmitFile(ctx context.Context, file domain.EmittedFile, dups *domain.DuplicateSet) ([]string, error) {
	names := lo.Uniq(file.ContractNames)
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)

	pkg := domain.NewSourcePackage(file.SourceName)
	idents := domain.AssignIdents(names)
	frags := make([]*domain.Fragment, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			fqn := domain.FormatFullyQualifiedName(file.SourceName, name)
			a, err := s.store.ReadArtifact(gctx, fqn)
			if err != nil {
				return fmt.Errorf("failed to read artifact %s: %w", fqn, err)
			}
			frag, err := s.renderer.RenderFragment(a, idents[name])
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", fqn, err)
			}
			frags[i] = frag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files, err := s.renderPackage(pkg, frags, dups)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.config.OutputDir, filepath.FromSlash(pkg.Dir))
	if err := s.writer.EnsureDirectory(ctx, dir); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := s.removeStaleContractFiles(ctx, dir, files); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(s.config.OutputDir, filepath.FromSlash(f.Path))
		if err := s.writer.WriteFile(ctx, path, f.Content); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, f.Path)
	}

	s.log.Debug("emitted source package", "source", file.SourceName, "dir", pkg.Dir, "contracts", len(frags))
	return written, nil
}

func (s *EmitTypedArtifacts) renderPackage(pkg domain.SourcePackage, frags []*domain.Fragment, dups *domain.DuplicateSet) ([]domain.GeneratedFile, error) {
	files := make([]domain.GeneratedFile, 0, len(frags)+2)
	for _, frag := range frags {
		content, err := s.renderer.RenderContractFile(pkg, frag)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", frag.FullyQualifiedName, err)
		}
		files = append(files, domain.GeneratedFile{
			Path:    pkg.Dir + "/" + domain.ContractFileName(frag.Ident),
			Content: content,
		})
	}

	index, err := s.renderer.RenderIndex(pkg, frags)
	if err != nil {
		return nil, fmt.Errorf("failed to render index of %s: %w", pkg.SourceName, err)
	}
	lookup, err := s.renderer.RenderLookup(pkg, frags, dups)
	if err != nil {
		return nil, fmt.Errorf("failed to render lookup of %s: %w", pkg.SourceName, err)
	}

	return append(files,
		domain.GeneratedFile{Path: pkg.Dir + "/" + domain.IndexFileName, Content: index},
		domain.GeneratedFile{Path: pkg.Dir + "/" + domain.LookupFileName, Content: lookup},
	), nil
}

// removeStaleContractFiles deletes generated contract files of contracts that
// are no longer compiled from this source.
func (s *EmitTypedArtifacts) removeStaleContractFiles(ctx context.Context, dir string, files []domain.GeneratedFile) error {
	existing, err := s.writer.ListFiles(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	keep := make(map[string]struct{}, len(files))
	for _, f := range files {
		keep[filepath.Base(filepath.FromSlash(f.Path))] = struct{}{}
	}
	for _, name := range existing {
		if _, ok := keep[name]; ok || !strings.HasSuffix(name, domain.ContractFileSuffix) {
			continue
		}
		path := filepath.Join(dir, name)
		generated, err := s.writer.HasPrefix(ctx, path, []byte(domain.GeneratedHeader))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if !generated {
			continue
		}
		if err := s.writer.RemoveAll(ctx, path); err != nil {
			return fmt.Errorf("failed to remove stale %s: %w", name, err)
		}
	}
	return nil
}
