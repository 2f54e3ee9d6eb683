// Package reviews provides the customer-review lookup used to feed real
// customer voice into prompts. A Meilisearch index backs production; an
// in-memory token-overlap index serves development and tests.
package reviews

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Searcher finds up to k review texts relevant to a product and query.
// Implementations return nil, nil when nothing matches; quotes are raw and
// must be sanitized before they reach a prompt.
type Searcher interface {
	Search(ctx context.Context, productID, query string, k int) ([]string, error)
}

// MemoryIndex is a small in-process review index ranked by token overlap.
// Zero value is ready to use; safe for concurrent use.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries []entry
}

type entry struct {
	product string
	text    string
	tokens  map[string]bool
}

// Add indexes one review text for a product.
func (m *MemoryIndex) Add(productID, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry{
		product: strings.ToLower(strings.TrimSpace(productID)),
		text:    text,
		tokens:  tokenize(text),
	})
}

// Len reports the number of indexed reviews.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Search ranks the product's reviews by query-token overlap. With an empty
// query it returns the product's reviews in insertion order.
func (m *MemoryIndex) Search(ctx context.Context, productID, query string, k int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}
	productID = strings.ToLower(strings.TrimSpace(productID))
	qtokens := tokenize(query)

	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		text  string
		score int
		pos   int
	}
	var hits []scored
	for i, e := range m.entries {
		if productID != "" && e.product != "" && e.product != productID {
			continue
		}
		score := 0
		for t := range qtokens {
			if e.tokens[t] {
				score++
			}
		}
		if len(qtokens) > 0 && score == 0 {
			continue
		}
		hits = append(hits, scored{text: e.text, score: score, pos: i})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.text
	}
	return out, nil
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '+' || r == '\'')
	}) {
		if len(f) >= 3 {
			tokens[f] = true
		}
	}
	return tokens
}

// multiSearcher tries each searcher in order until one returns results.
type multiSearcher struct {
	searchers []Searcher
}

// Fallback chains searchers: the first one to return a non-empty result
// wins, errors fall through to the next.
func Fallback(searchers ...Searcher) Searcher {
	return &multiSearcher{searchers: searchers}
}

func (m *multiSearcher) Search(ctx context.Context, productID, query string, k int) ([]string, error) {
	var lastErr error
	for _, s := range m.searchers {
		out, err := s.Search(ctx, productID, query, k)
		if err != nil {
			lastErr = err
			continue
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("review search: %w", lastErr)
	}
	return nil, nil
}
