package progress

import "time"

// Stage identifies which pipeline stage is active.
type Stage string

const (
	StageIngest      Stage = "ingest"
	StageClassify    Stage = "classify"
	StageReviews     Stage = "reviews"
	StageGenerate    Stage = "generate"
	StagePostprocess Stage = "postprocess"
	StageEvaluate    Stage = "evaluate"
	StageComplete    Stage = "complete"
)

// Event carries progress information from the pipeline to the renderer.
type Event struct {
	Stage     Stage
	Message   string
	Percent   float64 // 0.0–1.0
	Candidate int     // which script slot is being worked (0 = primary)
	Total     int     // total candidates in the set
	Elapsed   time.Duration
	Error     error
	// Passed and Score summarize the set, set on StageComplete.
	Passed int
	Score  int
}

// Callback is the function signature for progress event handlers.
type Callback func(Event)

// NopCallback is a no-op progress callback for tests and silent mode.
func NopCallback(Event) {}

// NewEvent creates an Event with common fields populated.
func NewEvent(stage Stage, msg string, pct float64, start time.Time) Event {
	return Event{
		Stage:   stage,
		Message: msg,
		Percent: pct,
		Elapsed: time.Since(start),
	}
}
