package generate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/mymuse/adstudio/internal/classify"
	"github.com/mymuse/adstudio/internal/prompt"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func travelPrompt(tone prompt.ToneMode, seq int) prompt.Prompt {
	req := prompt.Request{
		ProductID:  "dive+",
		Transcript: "on my way to the airport, security check coming up, wish me luck on this trip",
		Tone:       tone,
	}
	return prompt.Build(req, classify.Casual, nil, seq)
}

func TestLocalNeverEmpty(t *testing.T) {
	l := NewLocal(rand.New(rand.NewSource(7)))
	for seq := 0; seq <= 10; seq++ {
		text, err := l.Complete(context.Background(), travelPrompt(prompt.TonePlain, seq))
		if err != nil {
			t.Fatalf("seq %d: %v", seq, err)
		}
		if strings.TrimSpace(text) == "" {
			t.Fatalf("seq %d: empty script", seq)
		}
		if n := len(strings.Split(text, "\n")); n < 4 || n > 9 {
			t.Errorf("seq %d: %d lines, want 4-9", seq, n)
		}
	}
}

func TestLocalDeterministicWithSeed(t *testing.T) {
	run := func() []string {
		l := NewLocal(rand.New(rand.NewSource(42)))
		var out []string
		for seq := 0; seq <= 5; seq++ {
			text, err := l.Complete(context.Background(), travelPrompt(prompt.ToneGenZ, seq))
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, text)
		}
		return out
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("seq %d differs across identical seeds", i)
		}
	}
}

func TestLocalVariantsDistinct(t *testing.T) {
	l := NewLocal(rand.New(rand.NewSource(3)))
	seen := make(map[string]int)
	for seq := 0; seq <= 9; seq++ {
		text, err := l.Complete(context.Background(), travelPrompt(prompt.TonePlain, seq))
		if err != nil {
			t.Fatal(err)
		}
		if prev, dup := seen[text]; dup {
			t.Errorf("seq %d is byte-identical to seq %d", seq, prev)
		}
		seen[text] = seq
	}
}

func TestLocalMentionsProductAndTrustedSpec(t *testing.T) {
	l := NewLocal(rand.New(rand.NewSource(1)))
	text, err := l.Complete(context.Background(), travelPrompt(prompt.TonePlain, 0))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "dive+") {
		t.Error("script never names the product")
	}
	if !strings.Contains(text, "10 speed modes") {
		t.Errorf("script lacks the trusted spec value:\n%s", text)
	}
}

func TestLocalToneSlangBands(t *testing.T) {
	countSlang := func(text string) int {
		low := strings.ToLower(text)
		n := 0
		for _, s := range prompt.GenZSlang() {
			n += strings.Count(low, s)
		}
		return n
	}

	l := NewLocal(rand.New(rand.NewSource(9)))
	for seq := 0; seq <= 9; seq++ {
		genz, err := l.Complete(context.Background(), travelPrompt(prompt.ToneGenZ, seq))
		if err != nil {
			t.Fatal(err)
		}
		if n := countSlang(genz); n < 1 || n > 3 {
			t.Errorf("genz seq %d has %d slang hits, want 1-3:\n%s", seq, n, genz)
		}

		plain, err := l.Complete(context.Background(), travelPrompt(prompt.TonePlain, seq))
		if err != nil {
			t.Fatal(err)
		}
		if n := countSlang(plain); n != 0 {
			t.Errorf("plain seq %d has %d slang hits, want 0:\n%s", seq, n, plain)
		}
	}
}

func TestLocalEndsOnCuratedEnding(t *testing.T) {
	l := NewLocal(rand.New(rand.NewSource(2)))
	text, err := l.Complete(context.Background(), travelPrompt(prompt.TonePlain, 1))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(text, "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	for _, e := range prompt.BangerEndings() {
		if last == e {
			return
		}
	}
	t.Errorf("last line %q is not a curated ending", last)
}

type stubBackend struct {
	name string
	text string
	err  error
}

func (s *stubBackend) Name() string { return s.name }
func (s *stubBackend) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	return s.text, s.err
}

func TestChainFallsThroughToLocal(t *testing.T) {
	chain := NewChain(discardLogger(),
		&stubBackend{name: "down", err: errors.New("connection refused")},
		&stubBackend{name: "empty", text: "   "},
		NewLocal(rand.New(rand.NewSource(5))),
	)
	text, err := chain.Complete(context.Background(), travelPrompt(prompt.TonePlain, 0))
	if err != nil {
		t.Fatalf("chain ending in local must not fail: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		t.Fatal("chain returned empty text")
	}
}

func TestChainFirstSuccessWins(t *testing.T) {
	chain := NewChain(discardLogger(),
		&stubBackend{name: "a", text: "from a"},
		&stubBackend{name: "b", text: "from b"},
	)
	text, err := chain.Complete(context.Background(), travelPrompt(prompt.TonePlain, 0))
	if err != nil {
		t.Fatal(err)
	}
	if text != "from a" {
		t.Errorf("got %q, want the first backend's text", text)
	}
}

func TestChainSkipsNilBackends(t *testing.T) {
	chain := NewChain(discardLogger(), nil, &stubBackend{name: "a", text: "ok"})
	text, err := chain.Complete(context.Background(), travelPrompt(prompt.TonePlain, 0))
	if err != nil || text != "ok" {
		t.Errorf("text=%q err=%v", text, err)
	}
}

func TestChainAllFail(t *testing.T) {
	chain := NewChain(discardLogger(), &stubBackend{name: "a", err: errors.New("boom")})
	if _, err := chain.Complete(context.Background(), travelPrompt(prompt.TonePlain, 0)); err == nil {
		t.Fatal("expected error when every backend fails")
	}
}
