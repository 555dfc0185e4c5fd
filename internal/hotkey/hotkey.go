// Package hotkey provides a global hotkey listener using gohook.
// It supports "hold" mode (press to start, release to stop) and
// "toggle" mode (press to start, press again to stop).
package hotkey

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// EventType indicates whether recording should start or stop.
type EventType int

const (
	// EventStart signals that the hotkey was activated (start recording).
	EventStart EventType = iota
	// EventStop signals that the hotkey was deactivated (stop recording).
	EventStop
)

func (t EventType) String() string {
	if t == EventStart {
		return "start"
	}
	return "stop"
}

// Mode selects how key presses map to start/stop events.
type Mode string

const (
	ModeHold   Mode = "hold"
	ModeToggle Mode = "toggle"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeHold, ModeToggle:
		return Mode(s), nil
	}
	return "", fmt.Errorf("hotkey: unknown mode %q", s)
}

// Event is emitted on the channel returned by Events.
type Event struct {
	Type EventType
	At   time.Time
}

// toggler turns a stream of key-downs into alternating start/stop events.
type toggler struct {
	mu     sync.Mutex
	active bool
}

func (t *toggler) press() EventType {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = !t.active
	if t.active {
		return EventStart
	}
	return EventStop
}

// reset forgets an in-progress toggle, so the next press starts again.
func (t *toggler) reset() {
	t.mu.Lock()
	t.active = false
	t.mu.Unlock()
}

// Listener manages a global hotkey and emits start/stop events.
type Listener struct {
	keys   []string
	mode   Mode
	ch     chan Event
	done   chan struct{}
	once   sync.Once
	toggle toggler
	now    func() time.Time
}

// NewListener creates a Listener for the given key combo and mode.
// keys should be lowercase key names (e.g., ["ctrl", "shift", "r"]).
func NewListener(keys []string, mode Mode) *Listener {
	return &Listener{
		keys: keys,
		mode: mode,
		ch:   make(chan Event, 16),
		done: make(chan struct{}),
		now:  time.Now,
	}
}

// Events returns the channel that receives hotkey events.
// The channel is closed when Stop is called.
func (l *Listener) Events() <-chan Event {
	return l.ch
}

// Start begins listening for the global hotkey.
// This function blocks until Stop is called. Run it in a goroutine.
func (l *Listener) Start() {
	switch l.mode {
	case ModeToggle:
		hook.Register(hook.KeyDown, l.keys, func(hook.Event) {
			l.emit(l.toggle.press())
		})
	default: // hold
		hook.Register(hook.KeyDown, l.keys, func(hook.Event) { l.emit(EventStart) })
		hook.Register(hook.KeyUp, l.keys, func(hook.Event) { l.emit(EventStop) })
	}

	evChan := hook.Start()
	go func() {
		<-l.done
		hook.End()
	}()
	<-hook.Process(evChan)
	close(l.ch)
}

// emit sends without blocking; a full channel drops the event.
func (l *Listener) emit(t EventType) {
	select {
	case l.ch <- Event{Type: t, At: l.now()}:
	default:
		slog.Warn("[hotkey] event channel full, dropping event", "type", t)
		if l.mode == ModeToggle && t == EventStart {
			l.toggle.reset()
		}
	}
}

// Stop terminates the hotkey listener.
// It is safe to call multiple times.
func (l *Listener) Stop() {
	l.once.Do(func() {
		close(l.done)
	})
}
