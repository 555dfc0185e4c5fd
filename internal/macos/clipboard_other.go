//go:build !darwin

package macos

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard wraps atotto/clipboard (xclip, xsel, wl-clipboard or the
// Windows clipboard API).
type Clipboard struct{}

// NewClipboard returns the system clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// ReadText returns the current plain-text contents.
func (Clipboard) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("macos: read clipboard: %w", err)
	}
	return text, nil
}

// WriteText replaces the clipboard contents.
func (Clipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("macos: write clipboard: %w", err)
	}
	return nil
}

// Clear empties the clipboard.
func (c Clipboard) Clear() error {
	return c.WriteText("")
}
