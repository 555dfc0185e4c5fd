// Package pipeline runs the dictation cycle: hotkey start begins recording,
// hotkey stop transcribes the recording, optionally cleans it up, and hands
// the text to the injector. Only one cycle is in flight at a time.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chaz8081/dictabar/internal/audio"
	"github.com/chaz8081/dictabar/internal/hotkey"
	"github.com/chaz8081/dictabar/internal/inject"
)

// Recorder captures microphone audio.
type Recorder interface {
	Start() error
	Stop() []float32
}

// Transcriber converts audio to text.
type Transcriber interface {
	Process(ctx context.Context, samples []float32) (string, error)
}

// Cleaner rewrites a transcript. On failure it returns its input with the error.
type Cleaner interface {
	Clean(ctx context.Context, text string) (string, error)
}

// Injector accepts text for insertion without blocking.
type Injector interface {
	Inject(req inject.Request)
}

// Options configures a Pipeline.
type Options struct {
	SampleRate    uint32
	Channels      uint32
	MinDuration   time.Duration // shorter recordings are discarded
	AppendNewline bool
}

type state int

const (
	idle state = iota
	recording
	processing
)

func (s state) String() string {
	switch s {
	case recording:
		return "recording"
	case processing:
		return "processing"
	}
	return "idle"
}

// Pipeline wires the collaborators together.
type Pipeline struct {
	rec      Recorder
	tr       Transcriber
	cleaner  Cleaner // nil disables cleanup
	injector Injector
	opts     Options

	mu    sync.Mutex
	state state
	wg    sync.WaitGroup
}

// New creates a Pipeline. cleaner may be nil.
func New(rec Recorder, tr Transcriber, cleaner Cleaner, injector Injector, opts Options) *Pipeline {
	if opts.Channels == 0 {
		opts.Channels = 1
	}
	return &Pipeline{
		rec:      rec,
		tr:       tr,
		cleaner:  cleaner,
		injector: injector,
		opts:     opts,
	}
}

// Run consumes hotkey events until ctx is cancelled or events is closed,
// then waits for the in-flight cycle to finish.
func (p *Pipeline) Run(ctx context.Context, events <-chan hotkey.Event) {
	defer p.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			p.abort()
			return
		case ev, ok := <-events:
			if !ok {
				p.abort()
				return
			}
			p.Handle(ctx, ev)
		}
	}
}

// Handle applies one hotkey event.
func (p *Pipeline) Handle(ctx context.Context, ev hotkey.Event) {
	switch ev.Type {
	case hotkey.EventStart:
		p.start()
	case hotkey.EventStop:
		p.stop(ctx)
	}
}

func (p *Pipeline) start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != idle {
		slog.Info("[pipeline] start ignored, cycle in progress", "state", p.state)
		return
	}
	if err := p.rec.Start(); err != nil {
		slog.Error("[pipeline] failed to start recording", "error", err)
		return
	}
	p.state = recording
	slog.Info("[pipeline] recording")
}

func (p *Pipeline) stop(ctx context.Context) {
	p.mu.Lock()
	if p.state != recording {
		p.mu.Unlock()
		return
	}
	samples := p.rec.Stop()
	duration := audio.Duration(len(samples), p.opts.SampleRate, p.opts.Channels)
	if len(samples) == 0 || duration < p.opts.MinDuration {
		p.state = idle
		p.mu.Unlock()
		slog.Info("[pipeline] recording too short, skipping", "duration", duration.Round(time.Millisecond))
		return
	}
	p.state = processing
	p.mu.Unlock()

	slog.Info("[pipeline] captured audio, transcribing", "duration", duration.Round(time.Millisecond))
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.setState(idle)
		p.process(ctx, samples)
	}()
}

// process transcribes, cleans and enqueues one recording.
func (p *Pipeline) process(ctx context.Context, samples []float32) {
	start := time.Now()
	text, err := p.tr.Process(ctx, samples)
	if err != nil {
		slog.Error("[pipeline] transcription failed", "error", err)
		return
	}
	if text == "" {
		slog.Info("[pipeline] no speech detected", "elapsed", time.Since(start).Round(time.Millisecond))
		return
	}
	slog.Info("[pipeline] transcribed", "elapsed", time.Since(start).Round(time.Millisecond), "chars", len(text))

	if p.cleaner != nil {
		cleaned, err := p.cleaner.Clean(ctx, text)
		if err != nil {
			slog.Warn("[pipeline] cleanup failed, using raw transcript", "error", err)
		}
		if cleaned != "" {
			text = cleaned
		}
	}

	p.injector.Inject(inject.NewRequest(text, inject.Options{AppendTrailingNewline: p.opts.AppendNewline}))
}

// abort stops a recording that will never receive its stop event.
func (p *Pipeline) abort() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == recording {
		p.rec.Stop()
		p.state = idle
	}
}

func (p *Pipeline) setState(s state) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Busy reports whether a cycle is recording or processing.
func (p *Pipeline) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state != idle
}
