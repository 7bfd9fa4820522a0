// Package playback hands synthesized audio artifacts to a local player
// process.
package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Player plays one audio artifact to completion. Implementations do not
// remove the artifact; cleanup belongs to the announcement loop.
type Player interface {
	Play(ctx context.Context, path string) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args ...string) error
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args ...string) error {
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("player binary: %w", err)
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail != "" {
			return fmt.Errorf("%s: %w (%s)", binary, err, detail)
		}
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}

// Option configures the client.
type Option func(*MPG123)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(p *MPG123) {
		if exec != nil {
			p.exec = exec
		}
	}
}

// MPG123 plays artifacts through the mpg123 command-line player. Playback is
// synchronous with no timeout of its own; the caller's context bounds it.
type MPG123 struct {
	binary string
	exec   Executor
	logger *slog.Logger
}

// NewMPG123 constructs the player. The binary defaults to "mpg123".
func NewMPG123(binary string, logger *slog.Logger, opts ...Option) *MPG123 {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "mpg123"
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &MPG123{binary: binary, exec: commandExecutor{}, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play runs the player quietly against the artifact and blocks until it
// finishes.
func (p *MPG123) Play(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("no artifact to play")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("artifact unavailable: %w", err)
	}

	p.logger.Info("playing announcement", "path", path)
	if err := p.exec.Run(ctx, p.binary, "-q", path); err != nil {
		return fmt.Errorf("play artifact: %w", err)
	}
	return nil
}
