// Package transcribe provides speech-to-text backends.
//
// The only backend is an OpenAI-compatible /audio/transcriptions endpoint,
// normally a local whisper.cpp or faster-whisper server.
package transcribe

import (
	"context"
	"fmt"

	"github.com/chaz8081/dictabar/internal/config"
)

// Transcriber converts audio samples to text.
type Transcriber interface {
	// Process transcribes interleaved float32 audio samples to text.
	Process(ctx context.Context, samples []float32) (string, error)
	// Close releases backend resources.
	Close() error
}

// New creates a Transcriber from the transcribe and audio config sections.
func New(cfg config.TranscribeConfig, audio config.AudioConfig) (Transcriber, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("transcribe: base_url is required")
	}
	return NewHTTPTranscriber(HTTPOptions{
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Language:   cfg.Language,
		Timeout:    cfg.Timeout.Std(),
		SampleRate: int(audio.SampleRate),
		Channels:   int(audio.Channels),
	}), nil
}
