//go:build darwin

package macos

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// Clipboard is the general pasteboard, accessed through robotgo.
type Clipboard struct{}

// NewClipboard returns the system clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// ReadText returns the current plain-text contents.
func (Clipboard) ReadText() (string, error) {
	text, err := robotgo.ReadAll()
	if err != nil {
		return "", fmt.Errorf("macos: read clipboard: %w", err)
	}
	return text, nil
}

// WriteText replaces the clipboard contents.
func (Clipboard) WriteText(text string) error {
	if err := robotgo.WriteAll(text); err != nil {
		return fmt.Errorf("macos: write clipboard: %w", err)
	}
	return nil
}

// Clear empties the clipboard.
func (c Clipboard) Clear() error {
	return c.WriteText("")
}
