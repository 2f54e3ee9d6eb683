package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectSource(t *testing.T) {
	dir := t.TempDir()
	onDisk := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(onDisk, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		input string
		want  SourceType
	}{
		{"https://example.com/post", SourceURL},
		{"http://example.com", SourceURL},
		{"voicenote.m4a", SourceAudio},
		{"/tmp/clip.MP3", SourceAudio},
		{onDisk, SourceFile},
		{"on my way to the airport, wish me luck", SourceLiteral},
		{"note.txt", SourceLiteral}, // not on disk, so it is just text
	}
	for _, tc := range cases {
		if got := DetectSource(tc.input); got != tc.want {
			t.Errorf("DetectSource(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestLiteralIngest(t *testing.T) {
	c, err := (&LiteralIngester{}).Ingest(context.Background(), "  off to the airport today  ")
	if err != nil {
		t.Fatal(err)
	}
	if c.Text != "off to the airport today" {
		t.Errorf("text = %q", c.Text)
	}
	if c.WordCount != 5 {
		t.Errorf("word count = %d, want 5", c.WordCount)
	}
	if c.Source != "inline" {
		t.Errorf("source = %q", c.Source)
	}
}

func TestLiteralIngestEmpty(t *testing.T) {
	if _, err := (&LiteralIngester{}).Ingest(context.Background(), "   "); err == nil {
		t.Error("empty transcript should fail")
	}
}

func TestFileIngest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	if err := os.WriteFile(path, []byte("packing for a trip\nso excited\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := (&FileIngester{}).Ingest(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Title != "packing for a trip" {
		t.Errorf("title = %q", c.Title)
	}
	if c.Source != "transcript.txt" {
		t.Errorf("source = %q", c.Source)
	}
}

func TestFileIngestMissing(t *testing.T) {
	_, err := (&FileIngester{}).Ingest(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	if err == nil {
		t.Error("missing file should fail")
	}
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	return f.text, f.err
}

func TestAudioIngest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.m4a")
	if err := os.WriteFile(path, []byte{0x00, 0x01}, 0o644); err != nil {
		t.Fatal(err)
	}
	ing := &AudioIngester{Transcriber: &fakeTranscriber{text: "talking about my trip"}}
	c, err := ing.Ingest(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Text != "talking about my trip" {
		t.Errorf("text = %q", c.Text)
	}
	if c.Source != "note.m4a" {
		t.Errorf("source = %q", c.Source)
	}
}

func TestAudioIngestFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.m4a")
	if err := os.WriteFile(path, []byte{0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (&AudioIngester{}).Ingest(context.Background(), path); err == nil {
		t.Error("nil transcriber should fail")
	}
	boom := errors.New("boom")
	if _, err := (&AudioIngester{Transcriber: &fakeTranscriber{err: boom}}).Ingest(context.Background(), path); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestNewIngesterDispatch(t *testing.T) {
	if _, ok := NewIngester("https://example.com", nil).(*URLIngester); !ok {
		t.Error("url input should yield URLIngester")
	}
	if _, ok := NewIngester("clip.wav", nil).(*AudioIngester); !ok {
		t.Error("audio input should yield AudioIngester")
	}
	if _, ok := NewIngester("just some words", nil).(*LiteralIngester); !ok {
		t.Error("plain words should yield LiteralIngester")
	}
}
