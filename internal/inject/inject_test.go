package inject

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func req(text string, at time.Time) Request {
	return Request{ID: "test", Text: text, RequestedAt: at}
}

func TestDebounceSuppressesDuplicateWithinWindow(t *testing.T) {
	r := newTestRig(textEdit)
	t0 := time.Now()

	first := r.inj.Process(req("hello", t0))
	second := r.inj.Process(req("hello", t0.Add(200*time.Millisecond)))

	if !first.Delivered {
		t.Fatalf("first request not delivered: %+v", first)
	}
	if !second.Suppressed || second.Delivered {
		t.Errorf("second request = %+v, want suppressed", second)
	}
	if len(r.ax.selected) != 1 {
		t.Errorf("accessibility writes = %d, want 1", len(r.ax.selected))
	}
}

func TestDebounceSuppressedRequestTouchesNoBridge(t *testing.T) {
	r := newTestRig(textEdit)
	t0 := time.Now()
	r.inj.Process(req("hello", t0))
	focusCalls, axCalls := r.focus.calls, r.ax.calls

	r.inj.Process(req("hello", t0.Add(10*time.Millisecond)))

	if r.focus.calls != focusCalls || r.ax.calls != axCalls {
		t.Errorf("suppressed request queried bridges: focus %d->%d, ax %d->%d",
			focusCalls, r.focus.calls, axCalls, r.ax.calls)
	}
}

func TestDebounceExpires(t *testing.T) {
	r := newTestRig(textEdit)
	t0 := time.Now()

	r.inj.Process(req("hello", t0))
	out := r.inj.Process(req("hello", t0.Add(500*time.Millisecond+time.Millisecond)))

	if !out.Delivered {
		t.Errorf("request after window = %+v, want delivered", out)
	}
	if len(r.ax.selected) != 2 {
		t.Errorf("accessibility writes = %d, want 2", len(r.ax.selected))
	}
}

func TestDistinctTextNotSuppressed(t *testing.T) {
	r := newTestRig(textEdit)
	t0 := time.Now()

	r.inj.Process(req("one", t0))
	out := r.inj.Process(req("two", t0))

	if !out.Delivered {
		t.Errorf("distinct text = %+v, want delivered", out)
	}
	if got := strings.Join(r.ax.selected, ","); got != "one,two" {
		t.Errorf("selected writes = %q, want %q", got, "one,two")
	}
}

func TestDebounceRecordedEvenWhenDeliveryFails(t *testing.T) {
	r := newTestRig(textEdit)
	r.ax.noElement = true
	r.input.unicodeErr = errMock
	r.clipboard.writeErr = errMock
	t0 := time.Now()

	first := r.inj.Process(req("hello", t0))
	second := r.inj.Process(req("hello", t0.Add(100*time.Millisecond)))

	if first.Delivered {
		t.Fatalf("first request unexpectedly delivered")
	}
	if !second.Suppressed {
		t.Errorf("retry within window = %+v, want suppressed", second)
	}
}

func TestTrailingNewlinePolicy(t *testing.T) {
	tests := []struct {
		name   string
		app    App
		append bool
		want   string
	}{
		{"standard with newline", textEdit, true, "hi\n"},
		{"standard without newline", textEdit, false, "hi"},
		{"terminal never gets newline", iterm, true, "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(tt.app)
			out := r.inj.Process(Request{Text: "hi", RequestedAt: time.Now(), Options: Options{AppendTrailingNewline: tt.append}})
			if !out.Delivered {
				t.Fatalf("not delivered: %+v", out)
			}

			var got string
			switch out.Strategy {
			case StrategyAccessibility:
				got = r.ax.selected[0]
			case StrategyTyping:
				got = strings.Join(r.input.typed, "")
			}
			if got != tt.want {
				t.Errorf("delivered %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStandardAccessibilitySuccessSkipsOthers(t *testing.T) {
	r := newTestRig(textEdit)

	out := r.inj.Process(req("hello world", time.Now()))

	if out.Strategy != StrategyAccessibility || out.Target != Standard {
		t.Errorf("outcome = %+v, want accessibility on standard", out)
	}
	if len(r.input.typed) != 0 {
		t.Errorf("typing was invoked: %v", r.input.typed)
	}
	if len(r.clipboard.writes) != 0 || len(r.automation.scripts) != 0 {
		t.Errorf("clipboard paste was invoked: writes=%v scripts=%v", r.clipboard.writes, r.automation.scripts)
	}
	for i, el := range r.ax.elements {
		if !el.released {
			t.Errorf("element %d not released", i)
		}
	}
}

func TestStandardFallsBackToTyping(t *testing.T) {
	r := newTestRig(textEdit)
	r.ax.noElement = true

	out := r.inj.Process(req("abc", time.Now()))

	if out.Strategy != StrategyTyping {
		t.Fatalf("strategy = %q, want %q", out.Strategy, StrategyTyping)
	}
	if len(r.clipboard.writes) != 0 {
		t.Errorf("clipboard touched after typing succeeded: %v", r.clipboard.writes)
	}
}

func TestFallbackReachesClipboardExactlyOnce(t *testing.T) {
	r := newTestRig(textEdit)
	r.ax.selectedTextErr = errMock
	r.ax.valueReadErr = errMock
	r.input.unicodeErr = errMock

	out := r.inj.Process(req("dictated", time.Now()))

	if out.Strategy != StrategyClipboard {
		t.Fatalf("strategy = %q, want %q", out.Strategy, StrategyClipboard)
	}
	if n := r.clipboard.pastes("dictated"); n != 1 {
		t.Errorf("clipboard paste writes = %d, want 1", n)
	}
	if len(r.automation.scripts) != 1 {
		t.Errorf("paste scripts = %d, want 1", len(r.automation.scripts))
	}
}

func TestClipboardRestoresOriginal(t *testing.T) {
	r := newTestRig(iterm)
	r.input.unicodeErr = errMock
	r.clipboard.content = "original"

	out := r.inj.Process(req("dictated", time.Now()))

	if out.Strategy != StrategyClipboard {
		t.Fatalf("strategy = %q, want %q", out.Strategy, StrategyClipboard)
	}
	if r.clipboard.content != "original" {
		t.Errorf("clipboard = %q after restore, want %q", r.clipboard.content, "original")
	}
	if got := strings.Join(r.clipboard.writes, ","); got != "dictated,original" {
		t.Errorf("clipboard writes = %q, want %q", got, "dictated,original")
	}
}

func TestClipboardClearedWhenInitiallyEmpty(t *testing.T) {
	r := newTestRig(iterm)
	r.input.unicodeErr = errMock

	r.inj.Process(req("dictated", time.Now()))

	if r.clipboard.content != "" {
		t.Errorf("clipboard = %q, want empty", r.clipboard.content)
	}
	if r.clipboard.cleared != 1 {
		t.Errorf("Clear calls = %d, want 1", r.clipboard.cleared)
	}
}

func TestClipboardTimings(t *testing.T) {
	r := newTestRig(iterm)
	r.input.unicodeErr = errMock

	r.inj.Process(req("x", time.Now()))

	want := []time.Duration{100 * time.Millisecond, 500 * time.Millisecond}
	if len(r.sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", r.sleeps, want)
	}
	for i := range want {
		if r.sleeps[i] != want[i] {
			t.Errorf("sleeps[%d] = %v, want %v", i, r.sleeps[i], want[i])
		}
	}
}

func TestClipboardPasteFallsBackToKeyEvents(t *testing.T) {
	r := newTestRig(textEdit)
	r.ax.noElement = true
	r.input.unicodeErr = errMock
	r.automation.err = errors.New("not authorized to send Apple events")

	out := r.inj.Process(req("x", time.Now()))

	if out.Strategy != StrategyClipboard {
		t.Fatalf("strategy = %q, want %q", out.Strategy, StrategyClipboard)
	}
	want := []keyEvent{
		{code: KeyV, mods: ModCommand, down: true},
		{code: KeyV, mods: ModCommand, down: false},
	}
	if len(r.input.keys) != len(want) {
		t.Fatalf("key events = %+v, want %+v", r.input.keys, want)
	}
	for i := range want {
		if r.input.keys[i] != want[i] {
			t.Errorf("key event %d = %+v, want %+v", i, r.input.keys[i], want[i])
		}
	}
}

func TestTerminalSkipsAccessibility(t *testing.T) {
	r := newTestRig(iterm)

	out := r.inj.Process(req("ls", time.Now()))

	if out.Target != TerminalLike || out.Strategy != StrategyTyping {
		t.Errorf("outcome = %+v, want typing on terminal", out)
	}
	if r.ax.calls != 0 {
		t.Errorf("accessibility called %d times for terminal target", r.ax.calls)
	}
}

func TestTerminalTypingFailureFallsToClipboard(t *testing.T) {
	r := newTestRig(App{BundleID: "com.apple.Terminal", Name: "Terminal"})
	r.input.unicodeErr = errMock

	out := r.inj.Process(req("ls", time.Now()))

	if out.Strategy != StrategyClipboard {
		t.Errorf("strategy = %q, want %q", out.Strategy, StrategyClipboard)
	}
	if r.ax.calls != 0 {
		t.Errorf("accessibility called %d times for terminal target", r.ax.calls)
	}
}

func TestAccessibilityValueFallback(t *testing.T) {
	r := newTestRig(textEdit)
	r.ax.selectedTextErr = errMock
	r.ax.value = "foo "

	out := r.inj.Process(req("hello world", time.Now()))

	if out.Strategy != StrategyAccessibility {
		t.Fatalf("strategy = %q, want %q", out.Strategy, StrategyAccessibility)
	}
	if r.ax.value != "foo hello world" {
		t.Errorf("value = %q, want %q", r.ax.value, "foo hello world")
	}
}

func TestTotalFailureNotifies(t *testing.T) {
	r := newTestRig(textEdit)
	r.ax.noElement = true
	r.input.unicodeErr = errMock
	r.clipboard.writeErr = errMock

	out := r.inj.Process(req("lost", time.Now()))

	if out.Delivered {
		t.Errorf("outcome = %+v, want failure", out)
	}
	if len(r.notifier.titles) != 1 {
		t.Errorf("notifications = %d, want 1", len(r.notifier.titles))
	}
}

func TestTotalFailureWithoutNotifyOption(t *testing.T) {
	r := newTestRig(textEdit)
	r.inj.opts.NotifyOnFailure = false
	r.ax.noElement = true
	r.input.unicodeErr = errMock
	r.clipboard.writeErr = errMock

	r.inj.Process(req("lost", time.Now()))

	if len(r.notifier.titles) != 0 {
		t.Errorf("notifications = %d, want 0", len(r.notifier.titles))
	}
}

// panickyAX panics on every call.
type panickyAX struct{}

func (panickyAX) FocusedElement() (Element, error) { panic("boom") }

func (panickyAX) Attribute(Element, string) (string, error) { panic("boom") }

func (panickyAX) SetAttribute(Element, string, string) error { panic("boom") }

func TestPanickingBridgeFallsThrough(t *testing.T) {
	r := newTestRig(textEdit)
	r.inj.accessibility = &accessibilityStrategy{ax: panickyAX{}}

	out := r.inj.Process(req("ok", time.Now()))

	if out.Strategy != StrategyTyping {
		t.Errorf("strategy = %q, want %q", out.Strategy, StrategyTyping)
	}
}

func TestFocusErrorAssumesStandard(t *testing.T) {
	r := newTestRig(iterm)
	r.focus.err = errMock

	out := r.inj.Process(req("hi", time.Now()))

	if out.Target != Standard || out.Strategy != StrategyAccessibility {
		t.Errorf("outcome = %+v, want accessibility on standard", out)
	}
}

func TestEmptyTextIsNoop(t *testing.T) {
	r := newTestRig(textEdit)

	out := r.inj.Process(req("", time.Now()))

	if out.Delivered || out.Suppressed {
		t.Errorf("outcome = %+v, want zero", out)
	}
	if r.focus.calls != 0 || r.ax.calls != 0 {
		t.Error("empty text touched bridges")
	}
}

func TestRunProcessesInOrder(t *testing.T) {
	r := newTestRig(textEdit)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		r.inj.Run(ctx)
		close(done)
	}()

	r.inj.Inject(NewRequest("first", Options{}))
	r.inj.Inject(NewRequest("second", Options{}))

	deadline := time.Now().Add(2 * time.Second)
	for {
		r.ax.mu.Lock()
		n := len(r.ax.selected)
		r.ax.mu.Unlock()
		if n == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for requests, got %d", n)
		}
		time.Sleep(5 * time.Millisecond)
	}

	r.ax.mu.Lock()
	got := strings.Join(r.ax.selected, ",")
	r.ax.mu.Unlock()
	if got != "first,second" {
		t.Errorf("delivery order = %q, want %q", got, "first,second")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Run did not return after cancel")
	}
}

func TestInjectDropsWhenQueueFull(t *testing.T) {
	r := newTestRig(textEdit)
	size := cap(r.inj.queue)

	// No Run loop: the queue fills and further requests are dropped
	// without blocking.
	for i := 0; i < size+3; i++ {
		r.inj.Inject(NewRequest("x", Options{}))
	}

	if len(r.inj.queue) != size {
		t.Errorf("queued = %d, want %d", len(r.inj.queue), size)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	inj := New(Bridges{}, InjectorOptions{})
	def := DefaultInjectorOptions()

	if inj.opts.Debounce != def.Debounce {
		t.Errorf("Debounce = %v, want %v", inj.opts.Debounce, def.Debounce)
	}
	if inj.opts.KeyDelay != 20*time.Millisecond {
		t.Errorf("KeyDelay = %v, want 20ms", inj.opts.KeyDelay)
	}
	if cap(inj.queue) != def.QueueSize {
		t.Errorf("queue size = %d, want %d", cap(inj.queue), def.QueueSize)
	}
}

func TestNilBridgesDoNotPanic(t *testing.T) {
	inj := New(Bridges{}, DefaultInjectorOptions())
	inj.sleep = func(time.Duration) {}

	out := inj.Process(req("hello", time.Now()))

	if out.Delivered {
		t.Errorf("outcome = %+v, want failure with no bridges", out)
	}
}
