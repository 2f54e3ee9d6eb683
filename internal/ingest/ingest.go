// Package ingest turns whatever the caller hands us into a transcript:
// literal text, a text file, a web page, or an audio recording routed
// through the transcriber.
package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mymuse/adstudio/internal/transcribe"
)

type SourceType string

const (
	SourceURL     SourceType = "url"
	SourceAudio   SourceType = "audio"
	SourceFile    SourceType = "file"
	SourceLiteral SourceType = "literal"

	// maxInputSize caps any single input at 25 MB.
	maxInputSize = 25 * 1024 * 1024
)

func (s SourceType) String() string {
	return string(s)
}

// Content is one ingested transcript.
type Content struct {
	Text      string
	Title     string
	Source    string
	WordCount int
}

type Ingester interface {
	Ingest(ctx context.Context, source string) (*Content, error)
}

var audioExts = []string{".mp3", ".m4a", ".wav", ".ogg", ".flac", ".webm"}

// DetectSource classifies the input. Anything that is not a URL, an audio
// file, or an existing file on disk is treated as the transcript itself.
func DetectSource(input string) SourceType {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return SourceURL
	}
	low := strings.ToLower(input)
	for _, ext := range audioExts {
		if strings.HasSuffix(low, ext) {
			return SourceAudio
		}
	}
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		return SourceFile
	}
	return SourceLiteral
}

// NewIngester picks the ingester for the input. tr is only required for
// audio sources; passing nil makes audio ingestion fail with a clear
// error instead of a panic.
func NewIngester(input string, tr transcribe.Transcriber) Ingester {
	switch DetectSource(input) {
	case SourceURL:
		return &URLIngester{}
	case SourceAudio:
		return &AudioIngester{Transcriber: tr}
	case SourceFile:
		return &FileIngester{}
	default:
		return &LiteralIngester{}
	}
}

func wordCount(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inWord = false
		} else if !inWord {
			inWord = true
			count++
		}
	}
	return count
}

func titleFromText(text string, maxLen int) string {
	line := text
	if idx := strings.IndexByte(text, '\n'); idx > 0 {
		line = text[:idx]
	}
	line = strings.TrimSpace(line)
	if len(line) > maxLen {
		line = line[:maxLen] + "..."
	}
	if line == "" {
		return "Untitled"
	}
	return line
}

func validateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	if info.Size() > maxInputSize {
		return fmt.Errorf("%s is too large (%d MB, max %d MB)", path, info.Size()/(1024*1024), maxInputSize/(1024*1024))
	}
	return nil
}
