package store

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndRecent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rec := Record{
		ProductID:  "dive+",
		Category:   "casual",
		Tone:       "plain",
		Intensity:  "pg13",
		Transcript: "off to the airport",
		Script:     "line one\nline two",
		Score:      95,
		Pass:       true,
		Variations: []Variation{{Text: "v1", Score: 90, Pass: true}},
	}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	r := got[0]
	if r.ID == "" {
		t.Error("id was not minted")
	}
	if r.CreatedAt.IsZero() {
		t.Error("timestamp was not minted")
	}
	if !r.Pass || r.Score != 95 {
		t.Errorf("score/pass round-trip broken: %+v", r)
	}
	if len(r.Variations) != 1 || r.Variations[0].Text != "v1" {
		t.Errorf("variations round-trip broken: %+v", r.Variations)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	old := Record{ProductID: "dive+", Script: "old", CreatedAt: time.Now().Add(-time.Hour)}
	recent := Record{ProductID: "dive+", Script: "new", CreatedAt: time.Now()}
	for _, r := range []Record{old, recent} {
		if err := s.Save(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Script != "new" {
		t.Errorf("order wrong: %+v", got)
	}
}

func TestSaveDuplicateIDFails(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rec := Record{ID: "fixed", ProductID: "dive+", Script: "x"}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, rec); err == nil {
		t.Error("duplicate primary key should fail")
	}
}
