package inject

import "context"

// App identifies the application that owns keyboard focus.
type App struct {
	BundleID string
	Name     string
}

// FocusObserver reports the frontmost application. The answer may already be
// stale by the time text is delivered.
type FocusObserver interface {
	FrontmostApp() (App, error)
}

// Element is an opaque handle to a UI element obtained from Accessibility.
type Element interface {
	Release()
}

// Accessibility attribute names used by the attribute strategy.
const (
	AttrSelectedText = "AXSelectedText"
	AttrValue        = "AXValue"
)

// Accessibility reads and writes text attributes of the focused UI element.
type Accessibility interface {
	FocusedElement() (Element, error)
	Attribute(el Element, name string) (string, error)
	SetAttribute(el Element, name, value string) error
}

// Modifier is a bitmask of keyboard modifiers for PostKey.
type Modifier uint8

const (
	ModCommand Modifier = 1 << iota
	ModShift
	ModOption
	ModControl
)

// KeyV is the macOS virtual key code for the V key.
const KeyV = 9

// SyntheticInput posts keyboard events to the active session. Delivery is
// fire-and-forget: an error means the event could not be built or posted,
// never that the receiving application ignored it.
type SyntheticInput interface {
	PostUnicode(s string, down bool) error
	PostKey(code int, mods Modifier, down bool) error
}

// Automation runs a short automation script through a privileged channel.
type Automation interface {
	RunScript(ctx context.Context, source string) error
}

// Clipboard is the system-wide, single-slot text clipboard.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
	Clear() error
}

// Notifier surfaces a transient message to the user.
type Notifier interface {
	Notify(title, message string) error
}

// Bridges bundles the OS capabilities the injector consumes.
// Notifier may be nil.
type Bridges struct {
	Focus         FocusObserver
	Accessibility Accessibility
	Input         SyntheticInput
	Automation    Automation
	Clipboard     Clipboard
	Notifier      Notifier
}
