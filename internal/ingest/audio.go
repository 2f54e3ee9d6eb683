package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mymuse/adstudio/internal/transcribe"
)

// AudioIngester sends a voice note through the transcriber. Dev-fallback
// transcripts from local tooling are passed through untouched; the prompt
// layer knows to distrust their flow cues.
type AudioIngester struct {
	Transcriber transcribe.Transcriber
}

func (a *AudioIngester) Ingest(ctx context.Context, source string) (*Content, error) {
	if a.Transcriber == nil {
		return nil, fmt.Errorf("no transcriber configured for audio input %s", source)
	}
	if err := validateFile(source); err != nil {
		return nil, err
	}

	text, err := a.Transcriber.Transcribe(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", source, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("transcription of %s came back empty", source)
	}

	return &Content{
		Text:      text,
		Title:     titleFromText(text, 80),
		Source:    filepath.Base(source),
		WordCount: wordCount(text),
	}, nil
}
