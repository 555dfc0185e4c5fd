package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/chaz8081/dictabar/internal/audio"
)

// HTTPOptions configures an HTTPTranscriber.
type HTTPOptions struct {
	BaseURL    string
	APIKey     string // most local servers ignore it
	Model      string
	Language   string // ISO-639-1; empty lets the server detect
	Timeout    time.Duration
	SampleRate int
	Channels   int
}

// HTTPTranscriber uploads recordings as WAV to an OpenAI-compatible server.
type HTTPTranscriber struct {
	client     openai.Client
	model      string
	language   string
	sampleRate int
	channels   int
}

// NewHTTPTranscriber creates a transcriber for the given server.
func NewHTTPTranscriber(opts HTTPOptions) *HTTPTranscriber {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 16000
	}
	if opts.Channels <= 0 {
		opts.Channels = 1
	}

	clientOpts := []option.RequestOption{
		option.WithBaseURL(opts.BaseURL),
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.Timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(opts.Timeout))
	}

	return &HTTPTranscriber{
		client:     openai.NewClient(clientOpts...),
		model:      opts.Model,
		language:   opts.Language,
		sampleRate: opts.SampleRate,
		channels:   opts.Channels,
	}
}

// Process implements Transcriber.
func (t *HTTPTranscriber) Process(ctx context.Context, samples []float32) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}

	wav, err := audio.EncodeWAV(samples, t.sampleRate, t.channels)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(wav), "recording.wav", "audio/wav"),
		Model: t.model,
	}
	if t.language != "" {
		params.Language = openai.String(t.language)
	}

	start := time.Now()
	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcribe: request: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	slog.Debug("[transcribe] done", "bytes", len(wav), "chars", len(text), "elapsed", time.Since(start).Round(time.Millisecond))
	return text, nil
}

// Close implements Transcriber. The HTTP client holds no resources.
func (t *HTTPTranscriber) Close() error { return nil }
