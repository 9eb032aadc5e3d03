//go:build !darwin && !windows

package opener

import (
	"context"
	"os/exec"
)

func platformCommand(ctx context.Context, path string) *exec.Cmd {
	return exec.CommandContext(ctx, "xdg-open", path)
}
