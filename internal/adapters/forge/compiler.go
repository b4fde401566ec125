package forge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"

	"github.com/trebuchet-org/artigen/internal/domain/config"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

// Compiler runs the host toolchain that produces contract artifacts
type Compiler struct {
	log    *slog.Logger
	config *config.RuntimeConfig
	stream io.Writer
	// command is replaced in tests
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewCompiler creates a compiler for the configured artifact layout
func NewCompiler(cfg *config.RuntimeConfig, log *slog.Logger) *Compiler {
	return &Compiler{
		log:     log.With("component", "Compiler"),
		config:  cfg,
		stream:  os.Stderr,
		command: exec.CommandContext,
	}
}

// Build runs `forge build`, or `npx hardhat compile` for the hardhat
// layout. In debug mode the toolchain output is streamed through a pty so
// it keeps its colours; otherwise it is only shown on failure.
func (c *Compiler) Build(ctx context.Context, opts usecase.BuildOptions) error {
	start := time.Now()
	name, args := c.buildCommand(opts)
	c.log.Debug("running compiler", "cmd", name, "args", args, "dir", c.config.ProjectRoot)

	cmd := c.command(ctx, name, args...)
	cmd.Dir = c.config.ProjectRoot

	if c.config.Debug {
		return c.streamOutput(cmd, start)
	}

	output, err := cmd.CombinedOutput()
	duration := time.Since(start)
	if err != nil {
		c.log.Error("compiler failed", "error", err, "duration", duration)
		return fmt.Errorf("%s failed: %w\nOutput: %s", commandLine(name, args), err, strings.TrimSpace(string(output)))
	}

	c.log.Debug("compiler finished", "duration", duration)
	return nil
}

// RemoveObsoleteArtifacts is a no-op: forge and hardhat prune their own
// output directories when they build.
func (c *Compiler) RemoveObsoleteArtifacts(ctx context.Context) error {
	c.log.Debug("compiler output pruned by toolchain", "layout", c.config.Layout)
	return nil
}

func (c *Compiler) buildCommand(opts usecase.BuildOptions) (string, []string) {
	var name string
	var args []string
	switch c.config.Layout {
	case config.LayoutHardhat:
		name, args = "npx", []string{"hardhat", "compile"}
	default:
		name, args = "forge", []string{"build"}
	}
	if opts.Force {
		args = append(args, "--force")
	}
	return name, args
}

func (c *Compiler) streamOutput(cmd *exec.Cmd, start time.Time) error {
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start pty: %w", err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	// reading a pty whose child exited returns EIO
	_, _ = io.Copy(c.stream, ptyFile)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s failed: %w", commandLine(cmd.Path, cmd.Args[1:]), err)
	}
	c.log.Debug("compiler finished", "duration", time.Since(start))
	return nil
}

func commandLine(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

var _ usecase.Compiler = (*Compiler)(nil)
