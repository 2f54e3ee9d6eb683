package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/mymuse/adstudio/internal/classify"
	"github.com/mymuse/adstudio/internal/generate"
	"github.com/mymuse/adstudio/internal/progress"
	"github.com/mymuse/adstudio/internal/prompt"
	"github.com/mymuse/adstudio/internal/reviews"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func localOrchestrator(seed int64) *Orchestrator {
	logger := testLogger()
	return &Orchestrator{
		Chain:  generate.NewChain(logger, generate.NewLocal(rand.New(rand.NewSource(seed)))),
		Logger: logger,
	}
}

func travelRequest() prompt.Request {
	return prompt.Request{
		ProductID:  "dive+",
		Transcript: "on my way to the airport, security check coming up, wish me luck on this trip",
		Tone:       prompt.TonePlain,
		Count:      10,
	}
}

func TestGenerateSetShape(t *testing.T) {
	set, err := localOrchestrator(1).GenerateSet(context.Background(), travelRequest())
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Variations) != 10 {
		t.Fatalf("got %d variations, want 10", len(set.Variations))
	}
	if set.Script.Text == "" {
		t.Fatal("empty primary script")
	}
	if set.Category != classify.Casual {
		t.Errorf("category = %q, want casual", set.Category)
	}
	if set.Summary.Total != 11 {
		t.Errorf("summary total = %d, want 11", set.Summary.Total)
	}
}

func TestGenerateSetNoDuplicates(t *testing.T) {
	set, err := localOrchestrator(2).GenerateSet(context.Background(), travelRequest())
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{set.Script.Text: true}
	for i, v := range set.Variations {
		if seen[v.Text] {
			t.Errorf("variation %d is byte-identical to another candidate", i)
		}
		seen[v.Text] = true
	}
}

func TestGenerateSetVariationsPassWithLocalEngine(t *testing.T) {
	set, err := localOrchestrator(3).GenerateSet(context.Background(), travelRequest())
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range set.Variations {
		if !v.Eval.Pass {
			t.Errorf("variation %d scored %d: %v\n%s", i, v.Eval.Score, v.Eval.Feedback, v.Text)
		}
	}
	if set.Summary.TopScore < 85 {
		t.Errorf("top score = %d, want >= 85", set.Summary.TopScore)
	}
}

func TestGenerateSetGarbageTranscriptStillReturns(t *testing.T) {
	req := prompt.Request{Transcript: "%%% ??? !!!", Count: 3}
	set, err := localOrchestrator(4).GenerateSet(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if set.Script.Text == "" || len(set.Variations) != 3 {
		t.Errorf("garbage input must still yield a full set, got %d variations", len(set.Variations))
	}
}

func TestGenerateSetCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := localOrchestrator(5).GenerateSet(ctx, travelRequest())
	if err == nil {
		t.Fatal("expected error on canceled context")
	}
	var perr *PipelineError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %T, want *PipelineError", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("PipelineError should unwrap to context.Canceled, got %v", err)
	}
}

func TestGenerateSetUsesReviewQuotes(t *testing.T) {
	var idx reviews.MemoryIndex
	idx.Add("dive+", "took my dive plus through three airports, nobody blinked once")

	logger := testLogger()
	o := &Orchestrator{
		Chain:   generate.NewChain(logger, generate.NewLocal(rand.New(rand.NewSource(6)))),
		Reviews: &idx,
		Logger:  logger,
	}
	if _, err := o.GenerateSet(context.Background(), travelRequest()); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateSetEmitsProgress(t *testing.T) {
	var stages []progress.Stage
	o := localOrchestrator(7)
	o.Progress = func(e progress.Event) { stages = append(stages, e.Stage) }

	if _, err := o.GenerateSet(context.Background(), travelRequest()); err != nil {
		t.Fatal(err)
	}
	if len(stages) == 0 || stages[len(stages)-1] != progress.StageComplete {
		t.Errorf("progress stages = %v, want trailing complete", stages)
	}
}

func TestGenerateSetRewriteMonotone(t *testing.T) {
	// A backend that always emits a weak script forces the rewrite path.
	weak := completerFunc(func(ctx context.Context, p prompt.Prompt) (string, error) {
		return "I am taking my dive+ to the airport today\nIt is made for everyone\nBuy now, link in bio", nil
	})
	o := &Orchestrator{Chain: weak, Logger: testLogger()}
	req := travelRequest()
	req.Count = 1
	set, err := o.GenerateSet(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if set.Summary.Rewritten == 0 {
		t.Error("weak scripts should have been rewritten")
	}
	if !set.Script.Eval.Pass {
		t.Errorf("rewritten primary scored %d: %v\n%s",
			set.Script.Eval.Score, set.Script.Eval.Feedback, set.Script.Text)
	}
}

type completerFunc func(ctx context.Context, p prompt.Prompt) (string, error)

func (f completerFunc) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	return f(ctx, p)
}
