package inject

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errMock = errors.New("mock: rejected")

// mockFocus returns a fixed frontmost app.
type mockFocus struct {
	app   App
	err   error
	calls int
}

func (f *mockFocus) FrontmostApp() (App, error) {
	f.calls++
	return f.app, f.err
}

// mockElement records whether it was released.
type mockElement struct {
	released bool
}

func (e *mockElement) Release() { e.released = true }

// mockAX simulates the focused element's text attributes.
type mockAX struct {
	mu sync.Mutex

	noElement       bool
	selectedTextErr error // SetAttribute(AXSelectedText) result
	valueReadErr    error
	valueWriteErr   error
	value           string
	selected        []string // values written to AXSelectedText

	elements []*mockElement
	calls    int
}

func (a *mockAX) FocusedElement() (Element, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.noElement {
		return nil, errMock
	}
	el := &mockElement{}
	a.elements = append(a.elements, el)
	return el, nil
}

func (a *mockAX) Attribute(_ Element, name string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if name != AttrValue || a.valueReadErr != nil {
		return "", errMock
	}
	return a.value, nil
}

func (a *mockAX) SetAttribute(_ Element, name, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case AttrSelectedText:
		if a.selectedTextErr != nil {
			return a.selectedTextErr
		}
		a.selected = append(a.selected, value)
		return nil
	case AttrValue:
		if a.valueWriteErr != nil {
			return a.valueWriteErr
		}
		a.value = value
		return nil
	}
	return errMock
}

// keyEvent is a recorded PostKey call.
type keyEvent struct {
	code int
	mods Modifier
	down bool
}

// mockInput records synthetic events.
type mockInput struct {
	mu sync.Mutex

	unicodeErr error
	keyErr     error
	failOn     map[string]bool // clusters whose key-down fails

	typed []string // clusters whose key-down was posted
	ups   int
	keys  []keyEvent
}

func (m *mockInput) PostUnicode(s string, down bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unicodeErr != nil {
		return m.unicodeErr
	}
	if down && m.failOn[s] {
		return errMock
	}
	if down {
		m.typed = append(m.typed, s)
	} else {
		m.ups++
	}
	return nil
}

func (m *mockInput) PostKey(code int, mods Modifier, down bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keyErr != nil {
		return m.keyErr
	}
	m.keys = append(m.keys, keyEvent{code: code, mods: mods, down: down})
	return nil
}

// mockAutomation records scripts.
type mockAutomation struct {
	err     error
	scripts []string
}

func (m *mockAutomation) RunScript(_ context.Context, source string) error {
	m.scripts = append(m.scripts, source)
	return m.err
}

// mockClipboard is a single-slot clipboard that remembers every write.
type mockClipboard struct {
	mu sync.Mutex

	content  string
	readErr  error
	writeErr error
	writes   []string
	cleared  int
}

func (c *mockClipboard) ReadText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return "", c.readErr
	}
	return c.content, nil
}

func (c *mockClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.content = text
	c.writes = append(c.writes, text)
	return nil
}

func (c *mockClipboard) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = ""
	c.cleared++
	return nil
}

// pastes counts how many times text was placed on the clipboard for pasting.
func (c *mockClipboard) pastes(text string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.writes {
		if w == text {
			n++
		}
	}
	return n
}

// mockNotifier records notifications.
type mockNotifier struct {
	titles []string
}

func (n *mockNotifier) Notify(title, _ string) error {
	n.titles = append(n.titles, title)
	return nil
}

// testRig wires an Injector to mocks with recorded, instant sleeps.
type testRig struct {
	focus      *mockFocus
	ax         *mockAX
	input      *mockInput
	automation *mockAutomation
	clipboard  *mockClipboard
	notifier   *mockNotifier
	sleeps     []time.Duration
	inj        *Injector
}

func newTestRig(app App) *testRig {
	r := &testRig{
		focus:      &mockFocus{app: app},
		ax:         &mockAX{},
		input:      &mockInput{},
		automation: &mockAutomation{},
		clipboard:  &mockClipboard{},
		notifier:   &mockNotifier{},
	}
	r.inj = New(Bridges{
		Focus:         r.focus,
		Accessibility: r.ax,
		Input:         r.input,
		Automation:    r.automation,
		Clipboard:     r.clipboard,
		Notifier:      r.notifier,
	}, DefaultInjectorOptions())
	r.inj.sleep = func(d time.Duration) { r.sleeps = append(r.sleeps, d) }
	return r
}

var (
	textEdit = App{BundleID: "com.apple.TextEdit", Name: "TextEdit"}
	iterm    = App{BundleID: "com.googlecode.iterm2", Name: "iTerm2"}
)
