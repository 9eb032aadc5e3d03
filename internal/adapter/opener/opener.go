// Package opener hands generated files to the desktop's default viewer.
package opener

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
)

// System opens files with the platform's default application.
type System struct {
	logger *slog.Logger
	// command builds the platform invocation; replaced in tests.
	command func(ctx context.Context, path string) *exec.Cmd
}

// NewSystem creates an opener for the current platform.
func NewSystem(logger *slog.Logger) *System {
	return &System{logger: logger, command: platformCommand}
}

// Open launches the viewer for path without waiting for it to exit.
func (s *System) Open(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	return s.launch(ctx, abs)
}

// OpenURL launches the default browser on url.
func (s *System) OpenURL(ctx context.Context, url string) error {
	return s.launch(ctx, url)
}

func (s *System) launch(ctx context.Context, target string) error {
	// The viewer outlives the request that asked for it.
	cmd := s.command(context.WithoutCancel(ctx), target)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	s.logger.Debug("opened", "target", target, "command", cmd.Path)
	// Reap the child so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

// Noop is used when OPEN_ARTIFACTS is false.
type Noop struct{}

// Open does nothing.
func (Noop) Open(context.Context, string) error { return nil }

// OpenURL does nothing.
func (Noop) OpenURL(context.Context, string) error { return nil }
