//go:build darwin

package opener

import (
	"context"
	"os/exec"
)

func platformCommand(ctx context.Context, path string) *exec.Cmd {
	return exec.CommandContext(ctx, "open", path)
}
