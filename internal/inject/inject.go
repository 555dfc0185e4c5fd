// Package inject delivers dictated text into whatever application currently
// has keyboard focus.
//
// Every insertion mechanism available on macOS is individually unreliable, so
// the Injector classifies the focused target and walks an ordered chain of
// strategies until one reports success:
//
//   - standard targets: accessibility attribute write, Unicode typing, clipboard paste
//   - terminal-like targets: Unicode typing, clipboard paste
//
// Clipboard paste is always the last resort and always restores the user's
// clipboard afterwards. Identical text arriving within the debounce window is
// delivered only once.
package inject

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Options are per-request caller settings.
type Options struct {
	// AppendTrailingNewline appends "\n" for standard targets. It is never
	// applied to terminal-like targets, where a newline executes the line.
	AppendTrailingNewline bool
}

// Request is a single block of text to insert.
type Request struct {
	ID          string
	Text        string
	RequestedAt time.Time
	Options     Options
}

// NewRequest creates a Request stamped with a fresh ID and the current time.
func NewRequest(text string, opts Options) Request {
	return Request{
		ID:          uuid.NewString(),
		Text:        text,
		RequestedAt: time.Now(),
		Options:     opts,
	}
}

// Outcome describes what happened to a processed request.
type Outcome struct {
	Delivered  bool
	Strategy   string // name of the strategy that succeeded
	Suppressed bool   // dropped by the debounce gate
	Target     Classification
}

// InjectorOptions configures the Injector.
type InjectorOptions struct {
	Debounce      time.Duration // identical text within this window is dropped
	KeyDelay      time.Duration // pause between typed characters
	SettleDelay   time.Duration // clipboard write -> paste
	RestoreDelay  time.Duration // paste -> clipboard restore
	ScriptTimeout time.Duration // automation script deadline
	QueueSize     int           // requests buffered while the actor is busy

	// Extra terminal identifiers on top of TerminalBundleIDs/TerminalNames.
	TerminalBundleIDs []string
	TerminalNames     []string

	// NotifyOnFailure surfaces a notification when every strategy failed.
	NotifyOnFailure bool
}

// DefaultInjectorOptions returns the stock timings.
func DefaultInjectorOptions() InjectorOptions {
	return InjectorOptions{
		Debounce:        500 * time.Millisecond,
		KeyDelay:        20 * time.Millisecond,
		SettleDelay:     100 * time.Millisecond,
		RestoreDelay:    500 * time.Millisecond,
		ScriptTimeout:   2 * time.Second,
		QueueSize:       8,
		NotifyOnFailure: true,
	}
}

// debounceRecord remembers the last accepted request.
type debounceRecord struct {
	text string
	at   time.Time
	set  bool
}

func (d debounceRecord) suppresses(text string, now time.Time, window time.Duration) bool {
	return d.set && d.text == text && now.Sub(d.at) < window
}

// Injector is the insertion engine. Create one per process with New and
// share it; requests are processed one at a time, in order.
type Injector struct {
	bridges Bridges
	opts    InjectorOptions

	accessibility Strategy
	typing        Strategy
	clipboard     Strategy

	queue chan Request
	now   func() time.Time
	sleep func(time.Duration)

	// busy serializes Process so a clipboard snapshot can never start
	// before the previous restore has run.
	busy sync.Mutex
	last debounceRecord
}

// New creates an Injector over the given bridges. Zero option values take
// their defaults.
func New(b Bridges, opts InjectorOptions) *Injector {
	def := DefaultInjectorOptions()
	if opts.Debounce <= 0 {
		opts.Debounce = def.Debounce
	}
	if opts.KeyDelay <= 0 {
		opts.KeyDelay = def.KeyDelay
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = def.SettleDelay
	}
	if opts.RestoreDelay <= 0 {
		opts.RestoreDelay = def.RestoreDelay
	}
	if opts.ScriptTimeout <= 0 {
		opts.ScriptTimeout = def.ScriptTimeout
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = def.QueueSize
	}

	inj := &Injector{
		bridges: b,
		opts:    opts,
		queue:   make(chan Request, opts.QueueSize),
		now:     time.Now,
		sleep:   time.Sleep,
	}
	sleep := func(d time.Duration) { inj.sleep(d) }
	inj.accessibility = &accessibilityStrategy{ax: b.Accessibility}
	inj.typing = &typingStrategy{input: b.Input, delay: opts.KeyDelay, sleep: sleep}
	inj.clipboard = &clipboardStrategy{
		clipboard:     b.Clipboard,
		automation:    b.Automation,
		input:         b.Input,
		settleDelay:   opts.SettleDelay,
		restoreDelay:  opts.RestoreDelay,
		scriptTimeout: opts.ScriptTimeout,
		sleep:         sleep,
	}
	return inj
}

// Inject queues req for delivery and returns immediately. It never blocks
// and never fails from the caller's point of view; if the queue is full the
// request is dropped and logged.
func (i *Injector) Inject(req Request) {
	if req.RequestedAt.IsZero() {
		req.RequestedAt = i.now()
	}
	select {
	case i.queue <- req:
	default:
		slog.Warn("[inject] queue full, dropping request", "id", req.ID, "chars", len(req.Text))
	}
}

// Run processes queued requests until ctx is cancelled. A request that has
// already started, including its clipboard restore, always runs to completion.
func (i *Injector) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-i.queue:
			i.Process(req)
		}
	}
}

// Process delivers req synchronously and reports how. It is what Run calls
// for each queued request; calling it directly from several goroutines is
// safe but serializes them.
func (i *Injector) Process(req Request) Outcome {
	i.busy.Lock()
	defer i.busy.Unlock()

	if req.Text == "" {
		return Outcome{}
	}

	now := req.RequestedAt
	if now.IsZero() {
		now = i.now()
	}
	if i.last.suppresses(req.Text, now, i.opts.Debounce) {
		slog.Info("[inject] duplicate request suppressed", "id", req.ID, "since_last", now.Sub(i.last.at))
		return Outcome{Suppressed: true}
	}
	// Recorded before delivery so a target that rejects input is not hammered.
	i.last = debounceRecord{text: req.Text, at: now, set: true}

	class := i.classify()
	text := req.Text
	if req.Options.AppendTrailingNewline && class != TerminalLike {
		text += "\n"
	}

	for _, s := range i.plan(class) {
		start := time.Now()
		if i.attempt(s, text) {
			slog.Info("[inject] text delivered",
				"id", req.ID,
				"strategy", s.Name(),
				"target", class,
				"chars", len(text),
				"elapsed", time.Since(start).Round(time.Millisecond))
			return Outcome{Delivered: true, Strategy: s.Name(), Target: class}
		}
		slog.Debug("[inject] strategy failed, trying next", "id", req.ID, "strategy", s.Name())
	}

	i.reportFailure(req)
	return Outcome{Target: class}
}

// plan returns the strategy order for a classification. Clipboard paste is
// always last.
func (i *Injector) plan(class Classification) []Strategy {
	if class == TerminalLike {
		// Accessibility writes report success on terminals without
		// delivering anything, so they are skipped entirely.
		return []Strategy{i.typing, i.clipboard}
	}
	return []Strategy{i.accessibility, i.typing, i.clipboard}
}

// classify queries the focus observer; any failure counts as Standard.
func (i *Injector) classify() (class Classification) {
	if i.bridges.Focus == nil {
		return Standard
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[inject] focus observer panicked", "panic", r)
			class = Standard
		}
	}()

	app, err := i.bridges.Focus.FrontmostApp()
	if err != nil {
		slog.Warn("[inject] frontmost app unknown, assuming standard target", "error", err)
		return Standard
	}
	class = Classify(app, i.opts.TerminalBundleIDs, i.opts.TerminalNames)
	slog.Debug("[inject] target classified", "bundle_id", app.BundleID, "name", app.Name, "target", class)
	return class
}

// attempt runs one strategy, converting a panic into failure.
func (i *Injector) attempt(s Strategy, text string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[inject] strategy panicked", "strategy", s.Name(), "panic", r)
			ok = false
		}
	}()
	return s.Attempt(text)
}

func (i *Injector) reportFailure(req Request) {
	slog.Error("[inject] every strategy failed, text dropped", "id", req.ID, "chars", len(req.Text))
	if !i.opts.NotifyOnFailure || i.bridges.Notifier == nil {
		return
	}
	msg := fmt.Sprintf("Could not insert %d characters into the focused app.", len([]rune(req.Text)))
	if err := i.bridges.Notifier.Notify("Dictation not inserted", msg); err != nil {
		slog.Warn("[inject] failure notification failed", "error", err)
	}
}
