package macos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chaz8081/dictabar/internal/inject"
)

// frontmostScript prints the frontmost process's bundle identifier and name
// on two lines.
const frontmostScript = `tell application "System Events"
	set p to first application process whose frontmost is true
	return (bundle identifier of p as text) & linefeed & (name of p as text)
end tell`

// focusTimeout bounds the System Events query.
const focusTimeout = time.Second

// scriptRunner is the part of Osascript the focus observer needs.
type scriptRunner interface {
	Output(ctx context.Context, source string) (string, error)
}

// FocusObserver reports the frontmost application. It asks System Events
// first and falls back to the active window's process name.
type FocusObserver struct {
	script   scriptRunner
	fallback func() (string, error)
}

// NewFocusObserver creates a FocusObserver that queries through script.
func NewFocusObserver(script scriptRunner) *FocusObserver {
	return &FocusObserver{script: script, fallback: activeProcessName}
}

// FrontmostApp implements inject.FocusObserver.
func (f *FocusObserver) FrontmostApp() (inject.App, error) {
	var scriptErr error
	if f.script != nil {
		ctx, cancel := context.WithTimeout(context.Background(), focusTimeout)
		out, err := f.script.Output(ctx, frontmostScript)
		cancel()
		if err == nil {
			return parseFrontmost(out), nil
		}
		scriptErr = err
	}

	if f.fallback == nil {
		return inject.App{}, fmt.Errorf("macos: frontmost app: %w", scriptErr)
	}
	name, err := f.fallback()
	if err != nil {
		return inject.App{}, fmt.Errorf("macos: frontmost app: %w", errors.Join(scriptErr, err))
	}
	return inject.App{Name: name}, nil
}

// parseFrontmost splits the script output. AppleScript prints "missing value"
// for processes without a bundle identifier.
func parseFrontmost(out string) inject.App {
	id, name, _ := strings.Cut(out, "\n")
	id = strings.TrimSpace(id)
	if id == "missing value" {
		id = ""
	}
	return inject.App{BundleID: id, Name: strings.TrimSpace(name)}
}
