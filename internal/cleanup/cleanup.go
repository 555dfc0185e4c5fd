// Package cleanup polishes raw transcripts with a local LLM through an
// OpenAI-compatible chat completions endpoint (Ollama, llama.cpp, LM Studio).
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/chaz8081/dictabar/internal/config"
)

// ErrEmptyResponse is returned when the model replies with no text.
var ErrEmptyResponse = errors.New("cleanup: empty response")

// Cleaner rewrites dictated text.
type Cleaner struct {
	client  openai.Client
	model   string
	prompt  string
	timeout time.Duration
}

// New creates a Cleaner from the cleanup config section.
func New(cfg config.CleanupConfig) *Cleaner {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = config.DefaultCleanupPrompt
	}
	return &Cleaner{
		client: openai.NewClient(
			option.WithBaseURL(cfg.BaseURL),
			option.WithAPIKey(""),
			option.WithMaxRetries(0),
		),
		model:   cfg.Model,
		prompt:  prompt,
		timeout: cfg.Timeout.Std(),
	}
}

// Clean returns the cleaned text. On any failure it returns the original
// text together with the error, so callers can always use the result.
func (c *Cleaner) Clean(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.prompt),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return text, fmt.Errorf("cleanup: request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return text, ErrEmptyResponse
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return text, ErrEmptyResponse
	}

	slog.Debug("[cleanup] done", "model", c.model, "in", len(text), "out", len(out), "elapsed", time.Since(start).Round(time.Millisecond))
	return out, nil
}
