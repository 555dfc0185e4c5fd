//go:build darwin

package macos

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// activeProcessName names the process owning the active window.
func activeProcessName() (string, error) {
	pid := robotgo.GetPid()
	if pid <= 0 {
		return "", fmt.Errorf("macos: no active window")
	}
	name, err := robotgo.FindName(pid)
	if err != nil {
		return "", fmt.Errorf("macos: process name for pid %d: %w", pid, err)
	}
	return name, nil
}
