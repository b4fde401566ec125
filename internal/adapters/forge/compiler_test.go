package forge

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/artigen/internal/domain/config"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

func newTestCompiler(cfg *config.RuntimeConfig) *Compiler {
	return NewCompiler(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name     string
		layout   config.ArtifactLayout
		force    bool
		wantName string
		wantArgs []string
	}{
		{"foundry", config.LayoutFoundry, false, "forge", []string{"build"}},
		{"foundry forced", config.LayoutFoundry, true, "forge", []string{"build", "--force"}},
		{"default layout", "", false, "forge", []string{"build"}},
		{"hardhat forced", config.LayoutHardhat, true, "npx", []string{"hardhat", "compile", "--force"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCompiler(&config.RuntimeConfig{Layout: tt.layout})
			name, args := c.buildCommand(usecase.BuildOptions{Force: tt.force})
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildRunsInProjectRoot(t *testing.T) {
	root := t.TempDir()
	c := newTestCompiler(&config.RuntimeConfig{ProjectRoot: root})

	var got *exec.Cmd
	c.command = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		got = exec.CommandContext(ctx, "go", "env", "GOROOT")
		return got
	}

	require.NoError(t, c.Build(context.Background(), usecase.BuildOptions{}))
	assert.Equal(t, root, got.Dir)
}

func TestBuildFailureIncludesCommand(t *testing.T) {
	c := newTestCompiler(&config.RuntimeConfig{ProjectRoot: t.TempDir()})
	c.command = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "artigen-test-missing-binary")
	}

	err := c.Build(context.Background(), usecase.BuildOptions{Force: true})
	assert.ErrorContains(t, err, "forge build --force failed")
}

func TestRemoveObsoleteArtifacts(t *testing.T) {
	c := newTestCompiler(&config.RuntimeConfig{})
	assert.NoError(t, c.RemoveObsoleteArtifacts(context.Background()))
}
