package artifactstore

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/domain/config"
	"github.com/trebuchet-org/artigen/internal/usecase"
	"github.com/trebuchet-org/artigen/pkg/artifacts"
)

// loader reads every artifact below dir, keyed by fully-qualified name
type loader func(ctx context.Context, dir string, log *slog.Logger) (map[string]*artifacts.Artifact, error)

// Store indexes the artifacts of one compiler output directory. The index
// is built on first use and kept until Reset.
type Store struct {
	dir    string
	load   loader
	log    *slog.Logger
	mu     sync.RWMutex
	byFQN  map[string]*artifacts.Artifact
	byName map[string][]string
}

// NewArtifactStore creates the store matching the configured artifact layout
func NewArtifactStore(cfg *config.RuntimeConfig, log *slog.Logger) usecase.ArtifactStore {
	if cfg.Layout == config.LayoutHardhat {
		return NewHardhatStore(cfg.ArtifactsDir, log)
	}
	return NewFoundryStore(cfg.ArtifactsDir, log)
}

func newStore(dir string, load loader, log *slog.Logger) *Store {
	return &Store{dir: dir, load: load, log: log}
}

// Reset drops the index
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byFQN = nil
	s.byName = nil
}

func (s *Store) index(ctx context.Context) error {
	s.mu.RLock()
	indexed := s.byFQN != nil
	s.mu.RUnlock()
	if indexed {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byFQN != nil {
		return nil
	}

	byFQN, err := s.load(ctx, s.dir, s.log)
	if err != nil {
		return fmt.Errorf("failed to index artifacts in %s: %w", s.dir, err)
	}

	byName := make(map[string][]string)
	for fqn, a := range byFQN {
		byName[a.ContractName] = append(byName[a.ContractName], fqn)
	}
	for _, fqns := range byName {
		sort.Strings(fqns)
	}

	s.log.Debug("indexed artifacts", "dir", s.dir, "count", len(byFQN))
	s.byFQN = byFQN
	s.byName = byName
	return nil
}

// AllFullyQualifiedNames lists every artifact, sorted
func (s *Store) AllFullyQualifiedNames(ctx context.Context) ([]string, error) {
	if err := s.index(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	fqns := lo.Keys(s.byFQN)
	sort.Strings(fqns)
	return fqns, nil
}

// ReadArtifact returns an artifact by short or fully-qualified name
func (s *Store) ReadArtifact(ctx context.Context, nameOrFQN string) (*artifacts.Artifact, error) {
	if err := s.index(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if domain.IsFullyQualifiedName(nameOrFQN) {
		a, ok := s.byFQN[nameOrFQN]
		if !ok {
			return nil, fmt.Errorf("%w: %s", artifacts.ErrNotFound, nameOrFQN)
		}
		return a, nil
	}

	fqns := s.byName[nameOrFQN]
	switch len(fqns) {
	case 0:
		return nil, fmt.Errorf("%w: %s", artifacts.ErrNotFound, nameOrFQN)
	case 1:
		return s.byFQN[fqns[0]], nil
	default:
		return nil, &artifacts.AmbiguousNameError{Name: nameOrFQN, Candidates: append([]string(nil), fqns...)}
	}
}

// EmittedFiles groups every artifact by source file
func (s *Store) EmittedFiles(ctx context.Context) ([]domain.EmittedFile, error) {
	if err := s.index(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	bySource := make(map[string][]string)
	for _, a := range s.byFQN {
		bySource[a.SourceName] = append(bySource[a.SourceName], a.ContractName)
	}

	files := make([]domain.EmittedFile, 0, len(bySource))
	for source, names := range bySource {
		sort.Strings(names)
		files = append(files, domain.EmittedFile{SourceName: source, ContractNames: names})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].SourceName < files[j].SourceName })
	return files, nil
}

// Ensure the store implements the interface
var _ usecase.ArtifactStore = (*Store)(nil)
