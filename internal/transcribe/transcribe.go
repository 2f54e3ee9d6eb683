// Package transcribe turns creator audio into transcript text. The pipeline
// only ever sees plain text; when no transcription backend is configured a
// caller may pass a dev-fallback placeholder, which IsDevFallback detects so
// downstream stages can skip transcript-derived signals.
package transcribe

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Transcriber converts an audio file into transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Whisper transcribes through an OpenAI-compatible audio endpoint.
type Whisper struct {
	client *openai.Client
	model  string
}

// NewWhisper builds a Whisper transcriber. baseURL may be empty for the
// default OpenAI endpoint.
func NewWhisper(apiKey, baseURL, model string) *Whisper {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &Whisper{client: openai.NewClientWithConfig(cfg), model: model}
}

func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: audioPath,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", audioPath, err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// IsDevFallback reports whether text is a placeholder transcript emitted
// when no real transcription tooling is available. Such text must not feed
// flow cues or context matching.
func IsDevFallback(text string) bool {
	low := strings.ToLower(text)
	if strings.Contains(low, "dev fallback") {
		return true
	}
	return strings.Contains(low, "ffmpeg") && strings.Contains(low, "faster-whisper")
}
