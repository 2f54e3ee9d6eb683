// Package generate produces script text from an assembled prompt. Backends
// are tried in a fixed order: Anthropic, then an OpenAI-compatible endpoint,
// then the deterministic local engine, which never fails. Remote failures
// are logged and fall through silently; callers always get text.
package generate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mymuse/adstudio/internal/prompt"
)

const (
	temperature    = 0.8
	maxTokens      = 1024
	requestTimeout = 45 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	backoffMult    = 2
)

// Backend turns one prompt into raw script text.
type Backend interface {
	Name() string
	Complete(ctx context.Context, p prompt.Prompt) (string, error)
}

// Chain tries backends in order until one returns non-empty text. Build it
// with the Local engine last and the chain as a whole cannot fail.
type Chain struct {
	backends []Backend
	logger   *slog.Logger
}

// NewChain builds a backend chain. Nil backends are skipped.
func NewChain(logger *slog.Logger, backends ...Backend) *Chain {
	c := &Chain{logger: logger}
	for _, b := range backends {
		if b != nil {
			c.backends = append(c.backends, b)
		}
	}
	return c
}

// Complete runs the chain. The returned string is non-empty whenever any
// backend succeeds; the last error is returned only if every backend fails.
func (c *Chain) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	var lastErr error
	for _, b := range c.backends {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := b.Complete(ctx, p)
		if err != nil {
			c.logger.Warn("backend failed, falling through",
				"backend", b.Name(), "seq", p.Seq, "error", err)
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) == "" {
			c.logger.Warn("backend returned empty text, falling through",
				"backend", b.Name(), "seq", p.Seq)
			lastErr = errors.New(b.Name() + ": empty completion")
			continue
		}
		return text, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no backends configured")
	}
	return "", lastErr
}
