package macos

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Osascript runs AppleScript through the osascript tool. The calling process
// needs the Automation permission for System Events.
type Osascript struct {
	path string
}

// NewOsascript returns an Osascript using the system binary.
func NewOsascript() *Osascript {
	return &Osascript{path: "/usr/bin/osascript"}
}

// RunScript executes source and discards its output.
func (o *Osascript) RunScript(ctx context.Context, source string) error {
	_, err := o.Output(ctx, source)
	return err
}

// Output executes source and returns its trimmed stdout.
func (o *Osascript) Output(ctx context.Context, source string) (string, error) {
	cmd := exec.CommandContext(ctx, o.path, "-e", source)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("osascript: %w: %s", err, msg)
		}
		return "", fmt.Errorf("osascript: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
