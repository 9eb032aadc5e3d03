//go:build windows

package opener

import (
	"context"
	"os/exec"
)

func platformCommand(ctx context.Context, path string) *exec.Cmd {
	return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", path)
}
