// Package pipeline orchestrates a full generation run: classify the
// transcript, gather review quotes, generate one primary script plus the
// requested variations through the backend chain, post-process, evaluate,
// and rewrite each failing candidate once. All collaborators are injected;
// the orchestrator holds no global state, so concurrent runs are isolated.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mymuse/adstudio/internal/classify"
	"github.com/mymuse/adstudio/internal/evaluate"
	"github.com/mymuse/adstudio/internal/postprocess"
	"github.com/mymuse/adstudio/internal/progress"
	"github.com/mymuse/adstudio/internal/prompt"
	"github.com/mymuse/adstudio/internal/reviews"
	"github.com/mymuse/adstudio/internal/store"
)

// PipelineError tags a failure with the stage it came from.
type PipelineError struct {
	Stage   string
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Completer is the generation surface the orchestrator drives; in
// production it is a generate.Chain ending in the local engine.
type Completer interface {
	Complete(ctx context.Context, p prompt.Prompt) (string, error)
}

// Candidate is one finished script with its evaluation.
type Candidate struct {
	Text      string
	Eval      evaluate.Result
	Rewritten bool
}

// Summary aggregates a set for logging and API responses.
type Summary struct {
	Total     int
	Passed    int
	TopScore  int
	Rewritten int
}

// Set is the result of one generation run: the primary script plus
// exactly Count variations, none byte-identical.
type Set struct {
	Request    prompt.Request
	Category   classify.Category
	Script     Candidate
	Variations []Candidate
	Summary    Summary
}

// Orchestrator wires the pipeline's collaborators. Reviews and Store are
// optional; a nil Progress callback is replaced with a no-op.
type Orchestrator struct {
	Chain    Completer
	Reviews  reviews.Searcher
	Store    *store.Store
	Logger   *slog.Logger
	Progress progress.Callback
}

const maxDedupAttempts = 3

// GenerateSet runs the full pipeline for one request.
func (o *Orchestrator) GenerateSet(ctx context.Context, req prompt.Request) (*Set, error) {
	start := time.Now()
	req = req.Normalize()
	emit := o.Progress
	if emit == nil {
		emit = progress.NopCallback
	}

	tracer := otel.Tracer("adstudio/pipeline")
	ctx, span := tracer.Start(ctx, "generate_set", trace.WithAttributes(
		attribute.String("product", req.ProductID),
		attribute.String("tone", string(req.Tone)),
		attribute.Int("count", req.Count),
	))
	defer span.End()

	emit(progress.NewEvent(progress.StageClassify, "Classifying transcript", 0.02, start))
	cat, keywords := classify.Matched(req.Transcript)
	span.SetAttributes(attribute.String("category", string(cat)))
	o.Logger.InfoContext(ctx, "transcript classified",
		"category", cat, "keywords", keywords, "product", req.ProductID)

	emit(progress.NewEvent(progress.StageReviews, "Fetching customer reviews", 0.05, start))
	quotes := o.fetchQuotes(ctx, req)

	total := req.Count + 1
	candidates := make([]Candidate, 0, total)
	seen := make(map[string]bool)

	for seq := 0; seq < total; seq++ {
		if err := ctx.Err(); err != nil {
			return nil, &PipelineError{Stage: "generate", Message: "canceled", Err: err}
		}
		ev := progress.NewEvent(progress.StageGenerate, "Generating scripts",
			0.1+0.8*float64(seq)/float64(total), start)
		ev.Candidate, ev.Total = seq, total
		emit(ev)

		cand, err := o.candidate(ctx, req, cat, quotes, seq, seen)
		if err != nil {
			return nil, err
		}
		seen[cand.Text] = true
		candidates = append(candidates, cand)
	}

	set := &Set{
		Request:    req,
		Category:   cat,
		Script:     candidates[0],
		Variations: candidates[1:],
	}
	set.Summary = summarize(candidates)
	span.SetAttributes(
		attribute.Int("passed", set.Summary.Passed),
		attribute.Int("top_score", set.Summary.TopScore),
	)

	o.persist(set)

	done := progress.NewEvent(progress.StageComplete, "Script set ready", 1, start)
	done.Total = set.Summary.Total
	done.Passed = set.Summary.Passed
	done.Score = set.Summary.TopScore
	emit(done)

	o.Logger.InfoContext(ctx, "generation complete",
		"category", cat, "passed", set.Summary.Passed, "total", set.Summary.Total,
		"top_score", set.Summary.TopScore, "rewritten", set.Summary.Rewritten,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return set, nil
}

// candidate produces one deduplicated, evaluated script for a slot. A
// candidate that fails evaluation gets exactly one rewrite with the
// evaluator's fixes before re-evaluation.
func (o *Orchestrator) candidate(ctx context.Context, req prompt.Request, cat classify.Category,
	quotes []string, seq int, seen map[string]bool) (Candidate, error) {

	tracer := otel.Tracer("adstudio/pipeline")
	ctx, span := tracer.Start(ctx, "candidate", trace.WithAttributes(attribute.Int("seq", seq)))
	defer span.End()

	var text string
	for attempt := 0; attempt < maxDedupAttempts; attempt++ {
		// bump the slot on retries so template backends take another angle
		p := prompt.Build(req, cat, quotes, seq+attempt*(req.Count+1))
		raw, err := o.Chain.Complete(ctx, p)
		if err != nil {
			return Candidate{}, &PipelineError{Stage: "generate", Message: "all backends failed", Err: err}
		}
		text = postprocess.Process(raw, req, cat)
		if seq == 0 {
			text = postprocess.EnforceStructure(text, req, cat)
		}
		if !seen[text] {
			break
		}
		if attempt == maxDedupAttempts-1 {
			o.Logger.WarnContext(ctx, "could not produce a distinct candidate", "seq", seq)
		}
	}

	res := evaluate.Evaluate(text, req, cat)
	rewritten := false
	if !res.Pass && len(res.Fixes) > 0 {
		fixed := evaluate.ApplyFixes(text, req, res.Fixes)
		if fixed != text && !seen[fixed] {
			reres := evaluate.Evaluate(fixed, req, cat)
			if reres.Score >= res.Score {
				text, res, rewritten = fixed, reres, true
			}
		}
	}
	span.SetAttributes(attribute.Int("score", res.Score), attribute.Bool("pass", res.Pass))
	return Candidate{Text: text, Eval: res, Rewritten: rewritten}, nil
}

func (o *Orchestrator) fetchQuotes(ctx context.Context, req prompt.Request) []string {
	if o.Reviews == nil {
		return nil
	}
	quotes, err := o.Reviews.Search(ctx, req.ProductID, req.Transcript, 5)
	if err != nil {
		o.Logger.WarnContext(ctx, "review lookup failed, continuing without quotes", "error", err)
		return nil
	}
	return quotes
}

func (o *Orchestrator) persist(set *Set) {
	if o.Store == nil {
		return
	}
	variations := make([]store.Variation, len(set.Variations))
	for i, v := range set.Variations {
		variations[i] = store.Variation{Text: v.Text, Score: v.Eval.Score, Pass: v.Eval.Pass}
	}
	o.Store.SaveAsync(store.Record{
		ProductID:  set.Request.ProductID,
		Category:   string(set.Category),
		Tone:       string(set.Request.Tone),
		Intensity:  string(set.Request.Intensity),
		Transcript: set.Request.Transcript,
		Script:     set.Script.Text,
		Score:      set.Script.Eval.Score,
		Pass:       set.Script.Eval.Pass,
		Variations: variations,
	})
}

func summarize(candidates []Candidate) Summary {
	s := Summary{Total: len(candidates)}
	for _, c := range candidates {
		if c.Eval.Pass {
			s.Passed++
		}
		if c.Eval.Score > s.TopScore {
			s.TopScore = c.Eval.Score
		}
		if c.Rewritten {
			s.Rewritten++
		}
	}
	return s
}
