package pipeline

import (
	"context"
	"sync"

	"github.com/chaz8081/dictabar/internal/inject"
)

type mockRecorder struct {
	samples  []float32
	startErr error
	starts   int
	stops    int
}

func (r *mockRecorder) Start() error {
	r.starts++
	return r.startErr
}

func (r *mockRecorder) Stop() []float32 {
	r.stops++
	return r.samples
}

type mockTranscriber struct {
	mu      sync.Mutex
	text    string
	err     error
	calls   int
	release chan struct{} // when set, Process blocks until closed
}

func (t *mockTranscriber) Process(ctx context.Context, _ []float32) (string, error) {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	if t.release != nil {
		<-t.release
	}
	return t.text, t.err
}

func (t *mockTranscriber) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

type mockCleaner struct {
	out   string
	err   error
	calls int
}

func (c *mockCleaner) Clean(_ context.Context, text string) (string, error) {
	c.calls++
	if c.err != nil {
		return text, c.err
	}
	return c.out, nil
}

type mockInjector struct {
	mu   sync.Mutex
	reqs []inject.Request
}

func (i *mockInjector) Inject(req inject.Request) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.reqs = append(i.reqs, req)
}
