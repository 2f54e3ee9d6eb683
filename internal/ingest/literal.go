package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LiteralIngester treats the input string itself as the transcript.
type LiteralIngester struct{}

func (l *LiteralIngester) Ingest(ctx context.Context, source string) (*Content, error) {
	text := strings.TrimSpace(source)
	if text == "" {
		return nil, fmt.Errorf("transcript is empty")
	}
	return &Content{
		Text:      text,
		Title:     titleFromText(text, 80),
		Source:    "inline",
		WordCount: wordCount(text),
	}, nil
}

// FileIngester reads a transcript from a plain text file.
type FileIngester struct{}

func (f *FileIngester) Ingest(ctx context.Context, source string) (*Content, error) {
	if err := validateFile(source); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("could not read file %s: %w", source, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("file %s is empty", source)
	}

	return &Content{
		Text:      text,
		Title:     titleFromText(text, 80),
		Source:    filepath.Base(source),
		WordCount: wordCount(text),
	}, nil
}
