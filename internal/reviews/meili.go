package reviews

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
)

const defaultIndexUID = "reviews"

// Document is a review record as stored in Meilisearch.
type Document struct {
	ID      string `json:"id"`
	Product string `json:"product"`
	Text    string `json:"text"`
}

// Meili is a Searcher backed by a Meilisearch index.
type Meili struct {
	index  meilisearch.IndexManager
	logger *slog.Logger
}

// NewMeili connects to a Meilisearch host. indexUID may be empty for the
// default "reviews" index. Returns an error when the host is unreachable so
// callers can fall back to the in-memory index.
func NewMeili(host, apiKey, indexUID string, logger *slog.Logger) (*Meili, error) {
	if host == "" {
		return nil, fmt.Errorf("meilisearch host not configured")
	}
	if indexUID == "" {
		indexUID = defaultIndexUID
	}
	client := meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("meilisearch health check: %w", err)
	}
	return &Meili{index: client.Index(indexUID), logger: logger}, nil
}

func (m *Meili) Search(ctx context.Context, productID, query string, k int) ([]string, error) {
	if k <= 0 {
		return nil, nil
	}
	req := &meilisearch.SearchRequest{
		Limit: int64(k),
	}
	if productID != "" {
		req.Filter = fmt.Sprintf("product = %q", strings.ToLower(productID))
	}
	resp, err := m.index.SearchWithContext(ctx, query, req)
	if err != nil {
		return nil, fmt.Errorf("meilisearch query: %w", err)
	}
	return hitTexts(resp.Hits), nil
}

// hitTexts decodes search hits into documents, dropping any hit that does
// not decode or carries no text.
func hitTexts(hits meilisearch.Hits) []string {
	var out []string
	for _, hit := range hits {
		var doc Document
		if err := hit.DecodeInto(&doc); err != nil {
			continue
		}
		if doc.Text != "" {
			out = append(out, doc.Text)
		}
	}
	return out
}

// AddAll indexes review documents, minting ids where missing. Indexing is
// asynchronous on the Meilisearch side; this returns once the task is queued.
func (m *Meili) AddAll(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	for i := range docs {
		if docs[i].ID == "" {
			docs[i].ID = uuid.NewString()
		}
		docs[i].Product = strings.ToLower(strings.TrimSpace(docs[i].Product))
	}
	if _, err := m.index.UpdateFilterableAttributesWithContext(ctx, &[]interface{}{"product"}); err != nil {
		return fmt.Errorf("meilisearch settings: %w", err)
	}
	primaryKey := "id"
	task, err := m.index.AddDocumentsWithContext(ctx, &docs, &meilisearch.DocumentOptions{PrimaryKey: &primaryKey})
	if err != nil {
		return fmt.Errorf("meilisearch add documents: %w", err)
	}
	m.logger.Debug("queued review documents", "count", len(docs), "task", task.TaskUID)
	return nil
}
