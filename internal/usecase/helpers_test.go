package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/usecase"
	"github.com/trebuchet-org/artigen/pkg/artifacts"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// memoryStore is an in-memory ArtifactStore
type memoryStore struct {
	mu        sync.Mutex
	artifacts map[string]*artifacts.Artifact
	readErr   error
	resets    int
}

func newMemoryStore(fqns ...string) *memoryStore {
	s := &memoryStore{artifacts: make(map[string]*artifacts.Artifact)}
	for _, fqn := range fqns {
		s.add(fqn)
	}
	return s
}

func (s *memoryStore) add(fqn string) {
	name, err := domain.ParseFullyQualifiedName(fqn)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[fqn] = &artifacts.Artifact{
		Format:       artifacts.FormatHardhat,
		ContractName: name.ContractName,
		SourceName:   name.SourceName,
		ABI: json.RawMessage(`[{"type":"constructor","inputs":[{"name":"x","type":"uint256"}],"stateMutability":"nonpayable"},` +
			`{"type":"function","name":"get","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},` +
			`{"type":"function","name":"set","inputs":[{"name":"x","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"}]`),
		Bytecode:               "0x6080604052",
		DeployedBytecode:       "0x6080",
		LinkReferences:         artifacts.LinkReferences{},
		DeployedLinkReferences: artifacts.LinkReferences{},
	}
}

func (s *memoryStore) remove(fqn string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.artifacts, fqn)
}

func (s *memoryStore) AllFullyQualifiedNames(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fqns := make([]string, 0, len(s.artifacts))
	for fqn := range s.artifacts {
		fqns = append(fqns, fqn)
	}
	sort.Strings(fqns)
	return fqns, nil
}

func (s *memoryStore) ReadArtifact(ctx context.Context, nameOrFQN string) (*artifacts.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	if a, ok := s.artifacts[nameOrFQN]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %s", artifacts.ErrNotFound, nameOrFQN)
}

func (s *memoryStore) EmittedFiles(ctx context.Context) ([]domain.EmittedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bySource := make(map[string][]string)
	for _, a := range s.artifacts {
		bySource[a.SourceName] = append(bySource[a.SourceName], a.ContractName)
	}
	var files []domain.EmittedFile
	for source, names := range bySource {
		sort.Strings(names)
		files = append(files, domain.EmittedFile{SourceName: source, ContractNames: names})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].SourceName < files[j].SourceName })
	return files, nil
}

func (s *memoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
}

// MockCompiler is a mock implementation of Compiler
type MockCompiler struct {
	mock.Mock
}

func (m *MockCompiler) Build(ctx context.Context, opts usecase.BuildOptions) error {
	return m.Called(ctx, opts).Error(0)
}

func (m *MockCompiler) RemoveObsoleteArtifacts(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}

func (m *MockProgressSink) stages() []string {
	stages := make([]string, 0, len(m.events))
	for _, e := range m.events {
		stages = append(stages, e.Stage)
	}
	return stages
}
