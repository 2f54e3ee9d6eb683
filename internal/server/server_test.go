package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mymuse/adstudio/internal/generate"
	"github.com/mymuse/adstudio/internal/pipeline"
	"github.com/mymuse/adstudio/internal/reviews"
	"github.com/mymuse/adstudio/internal/store"
)

func testServer(t *testing.T, st *store.Store) (*Server, *reviews.MemoryIndex) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var idx reviews.MemoryIndex
	orch := &pipeline.Orchestrator{
		Chain:   generate.NewChain(logger, generate.NewLocal(rand.New(rand.NewSource(1)))),
		Reviews: &idx,
		Store:   st,
		Logger:  logger,
	}
	return New(orch, &idx, nil, st, logger), &idx
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGenerateEndpoint(t *testing.T) {
	s, _ := testServer(t, nil)
	body := `{"product_id":"dive+","transcript":"heading to the airport for a big trip","count":3}`
	w := doJSON(t, s.Handler(), http.MethodPost, "/api/generate", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp DataResponse[generateResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	got := resp.Data
	if got.Script.Text == "" {
		t.Error("empty primary script")
	}
	if len(got.Variations) != 3 {
		t.Errorf("got %d variations, want 3", len(got.Variations))
	}
	if got.Category != "casual" {
		t.Errorf("category = %q, want casual", got.Category)
	}
	if got.Summary.Total != 4 {
		t.Errorf("summary total = %d, want 4", got.Summary.Total)
	}
}

func TestGenerateGarbageTranscriptIsNot5xx(t *testing.T) {
	s, _ := testServer(t, nil)
	for _, transcript := range []string{"", "%%% ??? !!!", "a", strings.Repeat("zzz ", 500)} {
		body, _ := json.Marshal(map[string]any{"transcript": transcript, "count": 2})
		w := doJSON(t, s.Handler(), http.MethodPost, "/api/generate", string(body))
		if w.Code != http.StatusOK {
			t.Errorf("transcript of %d chars: status = %d, want 200", len(transcript), w.Code)
			continue
		}
		var resp DataResponse[generateResponse]
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Data.Script.Text == "" {
			t.Errorf("transcript of %d chars: no script came back", len(transcript))
		}
	}
}

func TestGenerateValidation(t *testing.T) {
	s, _ := testServer(t, nil)
	cases := []struct {
		name string
		body string
		code ErrorCode
	}{
		{"malformed json", `{"transcript": `, ErrCodeBadRequest},
		{"count too large", `{"transcript":"hi there","count":100}`, ErrCodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, s.Handler(), http.MethodPost, "/api/generate", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Error.Code != tc.code {
				t.Errorf("code = %q, want %q", resp.Error.Code, tc.code)
			}
		})
	}
}

func TestProductsEndpoint(t *testing.T) {
	s, _ := testServer(t, nil)
	w := doJSON(t, s.Handler(), http.MethodGet, "/api/products", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp DataResponse[catalogJSON]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, p := range resp.Data.Products {
		if p.ID == "dive+" {
			found = true
			if p.SpeedModes != 10 {
				t.Errorf("dive+ speed modes = %d, want 10", p.SpeedModes)
			}
		}
	}
	if !found {
		t.Error("dive+ missing from product list")
	}
	hasCasual := false
	for _, cat := range resp.Data.Categories {
		if cat == "casual" {
			hasCasual = true
		}
	}
	if !hasCasual {
		t.Errorf("categories = %v, want casual among them", resp.Data.Categories)
	}
}

func TestImportReviews(t *testing.T) {
	s, idx := testServer(t, nil)
	csv := "product_name,text\ndive+,took it through three airports with zero drama\ngroove+,the wand my partner and I actually reach for\n"
	req := httptest.NewRequest(http.MethodPost, "/api/reviews/import", strings.NewReader(csv))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp DataResponse[struct {
		Imported int  `json:"imported"`
		Indexed  bool `json:"indexed"`
	}]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Imported != 2 {
		t.Errorf("imported = %d, want 2", resp.Data.Imported)
	}
	if resp.Data.Indexed {
		t.Error("indexed = true without a search backend")
	}
	if idx.Len() != 2 {
		t.Errorf("index size = %d, want 2", idx.Len())
	}
}

func TestHistoryEndpoint(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.Open(":memory:", logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Save(context.Background(), store.Record{
		ProductID: "dive+", Category: "casual", Tone: "plain",
		Script: "line one", Score: 95, Pass: true,
	}); err != nil {
		t.Fatal(err)
	}

	s, _ := testServer(t, st)
	w := doJSON(t, s.Handler(), http.MethodGet, "/api/history?limit=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ListResponse[historyJSON]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ProductID != "dive+" {
		t.Errorf("history = %+v", resp.Data)
	}
}

func TestHistoryDisabled(t *testing.T) {
	s, _ := testServer(t, nil)
	w := doJSON(t, s.Handler(), http.MethodGet, "/api/history", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t, nil)
	w := doJSON(t, s.Handler(), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
