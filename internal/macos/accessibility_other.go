//go:build !darwin

package macos

import "github.com/chaz8081/dictabar/internal/inject"

// Accessibility is unavailable off macOS.
type Accessibility struct{}

// NewAccessibility returns the Accessibility bridge.
func NewAccessibility() *Accessibility {
	return &Accessibility{}
}

func (a *Accessibility) FocusedElement() (inject.Element, error) {
	return nil, ErrUnsupported
}

func (a *Accessibility) Attribute(inject.Element, string) (string, error) {
	return "", ErrUnsupported
}

func (a *Accessibility) SetAttribute(inject.Element, string, string) error {
	return ErrUnsupported
}
