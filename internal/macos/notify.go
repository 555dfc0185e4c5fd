package macos

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// Notifier posts desktop notifications.
type Notifier struct {
	app string
}

// NewNotifier creates a Notifier that prefixes titles with app.
func NewNotifier(app string) *Notifier {
	return &Notifier{app: app}
}

// Notify shows a transient notification.
func (n *Notifier) Notify(title, message string) error {
	if n.app != "" {
		title = n.app + ": " + title
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		return fmt.Errorf("macos: notify: %w", err)
	}
	return nil
}
