package build

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// Runner runs the project build command that produces artifacts
type Runner struct {
	projectRoot string
	command     []string
	debug       bool
	out         io.Writer
	log         *slog.Logger
}

// NewRunner creates a build runner from the runtime config
func NewRunner(cfg *config.RuntimeConfig, log *slog.Logger) *Runner {
	command := cfg.BuildCommand
	if len(command) == 0 {
		command = config.DefaultBuildCommand
	}
	return &Runner{
		projectRoot: cfg.ProjectRoot,
		command:     command,
		debug:       cfg.Debug,
		out:         os.Stdout,
		log:         log.With("component", "BuildRunner"),
	}
}

// Build runs the build command. Output is only shown when the build fails,
// or streamed through a pty in debug mode.
func (r *Runner) Build(ctx context.Context) error {
	start := time.Now()
	r.log.Debug("running build", "command", r.command, "dir", r.projectRoot)

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	cmd.Dir = r.projectRoot

	var err error
	var output []byte
	if r.debug {
		err = r.stream(ctx, cmd)
	} else {
		output, err = cmd.CombinedOutput()
	}
	duration := time.Since(start)

	if err != nil {
		r.log.Error("build failed", "error", err, "duration", duration)
		if len(output) > 0 {
			return fmt.Errorf("build failed: %w\nOutput: %s", err, bytes.TrimSpace(output))
		}
		return fmt.Errorf("build failed: %w", err)
	}

	r.log.Debug("build completed", "duration", duration)
	return nil
}

// stream copies the command output to r.out, keeping colors by running it in a pty
func (r *Runner) stream(ctx context.Context, cmd *exec.Cmd) error {
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		r.log.Debug("pty unavailable, streaming through pipes", "error", err)
		plain := exec.CommandContext(ctx, cmd.Path, cmd.Args[1:]...)
		plain.Dir = cmd.Dir
		plain.Stdout = r.out
		plain.Stderr = r.out
		return plain.Run()
	}
	defer func() { _ = ptyFile.Close() }()

	// reading a pty whose child has exited returns EIO on linux
	_, _ = io.Copy(r.out, ptyFile)
	return cmd.Wait()
}

var _ usecase.ArtifactBuilder = (*Runner)(nil)
