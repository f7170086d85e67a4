// Package sysexec runs the system tools the node relies on (nmcli, rtcwake).
package sysexec

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/cjeanneret/ScanGo/internal/debug"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Run is the Runner backed by os/exec.
func Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	debug.Trace("exec: %s %s", name, strings.Join(args, " "))
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return out, nil
}
