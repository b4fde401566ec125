package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/domain/config"
)

// CompileOptions contains options for a compile run
type CompileOptions struct {
	Force     bool
	SkipBuild bool
}

// CompileResult contains the result of a compile run
type CompileResult struct {
	OutputDir           string
	FullyQualifiedNames []string
	Emitted             []domain.EmittedFile
	Duplicates          *domain.DuplicateSet
	// Generated and Removed are relative to OutputDir.
	Generated []string
	Removed   []string
	Duration  time.Duration
}

// Compile runs the host compiler and keeps the generated Go packages in
// sync with its artifacts.
type Compile struct {
	config   *config.RuntimeConfig
	compiler Compiler
	store    ArtifactStore
	emit     *EmitTypedArtifacts
	project  *WriteProjectLookup
	reaper   *ReapStaleOutputs
	sink     ProgressSink
	log      *slog.Logger
}

// NewCompile creates a new Compile use case
func NewCompile(
	cfg *config.RuntimeConfig,
	compiler Compiler,
	store ArtifactStore,
	emit *EmitTypedArtifacts,
	project *WriteProjectLookup,
	reaper *ReapStaleOutputs,
	sink ProgressSink,
	log *slog.Logger,
) *Compile {
	return &Compile{
		config:   cfg,
		compiler: compiler,
		store:    store,
		emit:     emit,
		project:  project,
		reaper:   reaper,
		sink:     sink,
		log:      log.With("component", "Compile"),
	}
}

// Run executes the compile stage, which wraps the emit stage, followed by
// the remove-obsolete stage.
func (uc *Compile) Run(ctx context.Context, opts CompileOptions) (*CompileResult, error) {
	start := time.Now()

	emitStage := Chain[*BuildOutput](func(ctx context.Context) (*BuildOutput, error) {
		files, err := uc.store.EmittedFiles(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read emitted artifacts: %w", err)
		}
		return &BuildOutput{Emitted: files}, nil
	}, uc.emit)

	compileStage := Chain[*BuildOutput](func(ctx context.Context) (*BuildOutput, error) {
		if !opts.SkipBuild {
			uc.sink.OnProgress(ctx, ProgressEvent{Stage: "building", Message: "Compiling contracts", Spinner: true})
			if err := uc.compiler.Build(ctx, BuildOptions{Force: opts.Force}); err != nil {
				return nil, fmt.Errorf("compilation failed: %w", err)
			}
		}
		uc.store.Reset()
		return emitStage(ctx)
	}, uc.project)

	out, err := compileStage(ctx)
	if err != nil {
		return nil, err
	}

	removeStage := Chain[[]string](func(ctx context.Context) ([]string, error) {
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "cleaning", Message: "Removing stale outputs", Spinner: true})
		if err := uc.compiler.RemoveObsoleteArtifacts(ctx); err != nil {
			return nil, fmt.Errorf("failed to remove obsolete artifacts: %w", err)
		}
		return nil, nil
	}, uc.reaper)

	removed, err := removeStage(ctx)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "completed"})
	uc.log.Info("compile finished",
		"artifacts", len(out.FullyQualifiedNames),
		"generated", len(out.Generated),
		"removed", len(removed))

	return &CompileResult{
		OutputDir:           uc.config.OutputDir,
		FullyQualifiedNames: out.FullyQualifiedNames,
		Emitted:             out.Emitted,
		Duplicates:          out.Duplicates,
		Generated:           out.Generated,
		Removed:             removed,
		Duration:            time.Since(start),
	}, nil
}
