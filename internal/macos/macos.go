// Package macos implements the OS capabilities the injector consumes:
// focus inspection, Accessibility attribute access, synthetic keyboard
// events, AppleScript automation, the clipboard and notifications.
//
// Accessibility and Unicode keyboard events need cgo against the macOS
// frameworks; on other platforms those bridges return ErrUnsupported so the
// injector falls through to the clipboard.
package macos

import (
	"errors"

	"github.com/chaz8081/dictabar/internal/inject"
)

// ErrUnsupported is returned by bridges that have no implementation on the
// current platform.
var ErrUnsupported = errors.New("macos: not supported on this platform")

// NewBridges returns the production bridge set.
func NewBridges() inject.Bridges {
	script := NewOsascript()
	input := NewKeyboard()
	return inject.Bridges{
		Focus:         NewFocusObserver(script),
		Accessibility: NewAccessibility(),
		Input:         input,
		Automation:    script,
		Clipboard:     NewClipboard(),
		Notifier:      NewNotifier("dictabar"),
	}
}
