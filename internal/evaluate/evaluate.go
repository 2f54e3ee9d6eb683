// Package evaluate scores generated scripts against the brand rubric and
// produces the deterministic fixes a single rewrite pass may apply. Scores
// live on a 0-100 display scale; 95 is the rubric maximum and 85 the pass
// bar, so a passing script can afford exactly one minor miss.
package evaluate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mymuse/adstudio/internal/classify"
	"github.com/mymuse/adstudio/internal/postprocess"
	"github.com/mymuse/adstudio/internal/prompt"
)

// PassScore is the minimum passing score.
const PassScore = 85

// Fix identifiers understood by ApplyFixes.
const (
	FixAddContractions = "add-contractions"
	FixStripMedical    = "strip-medical"
	FixStripCliches    = "strip-cliches"
	FixStripSlang      = "strip-slang"
	FixAddSlang        = "add-slang"
	FixAddInclusive    = "add-inclusive"
	FixInsertFeature   = "insert-feature"
	FixBangerEnding    = "banger-ending"
)

// Detail carries the per-dimension verdicts surfaced alongside the score.
type Detail struct {
	Tone     string
	Cadence  string
	LastLine string
}

// Result is one script's evaluation.
type Result struct {
	Score    int
	Pass     bool
	Feedback []string
	Fixes    []string
	Detail   Detail
}

// Evaluate scores text against the rubric for the request and category.
// Deterministic and side-effect free.
func Evaluate(text string, req prompt.Request, cat classify.Category) Result {
	req = req.Normalize()
	var r Result
	score := 0

	score += r.scoreTone(text, req.Tone)
	score += r.scoreCadence(text)
	score += r.scoreContext(text, req.Transcript)
	score += r.scoreBrandSafety(text)
	score += r.scoreFeature(text, req)
	score += r.scoreEnding(text)
	score += r.scoreCliches(text)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	r.Score = score
	r.Pass = score >= PassScore
	return r
}

// scoreTone: +15 when the slang count matches the voice, -25 when it
// doesn't. genz wants one to three slang expressions; plain wants zero.
func (r *Result) scoreTone(text string, tone prompt.ToneMode) int {
	n := countSlang(text)
	if tone == prompt.ToneGenZ {
		if n >= 1 && n <= 3 {
			r.Detail.Tone = fmt.Sprintf("genz on-voice (%d slang)", n)
			return 15
		}
		if n == 0 {
			r.Detail.Tone = "genz with zero slang"
			r.note("genz voice needs one to three slang expressions, found none", FixAddSlang)
		} else {
			r.Detail.Tone = fmt.Sprintf("slang overload (%d)", n)
			r.note(fmt.Sprintf("genz voice caps at three slang expressions, found %d", n), FixStripSlang)
		}
		return -25
	}
	if n == 0 {
		r.Detail.Tone = "plain on-voice"
		return 15
	}
	r.Detail.Tone = fmt.Sprintf("plain voice with %d slang", n)
	r.note("plain voice allows no slang", FixStripSlang)
	return -25
}

// scoreCadence: +15 for short spoken lines with contractions and a varied
// rhythm; -15 when the text has no contractions at all, -10 when lines run
// long, sit outside the 5-18 words-per-line band on average, or all share
// one length.
func (r *Result) scoreCadence(text string) int {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		r.Detail.Cadence = "empty"
		r.note("script is empty", FixAddContractions)
		return -15
	}
	long, total := 0, 0
	lengths := make(map[int]bool)
	for _, l := range lines {
		n := len(strings.Fields(l))
		total += n
		lengths[n] = true
		if n > 14 {
			long++
		}
	}
	if !strings.Contains(text, "'") {
		r.Detail.Cadence = "no contractions"
		r.note("reads formal, use contractions throughout", FixAddContractions)
		return -15
	}
	if long*3 > len(lines) {
		r.Detail.Cadence = fmt.Sprintf("%d/%d lines run long", long, len(lines))
		r.note("too many long lines for spoken delivery", "")
		return -10
	}
	avg := float64(total) / float64(len(lines))
	if avg < 5 || avg > 18 {
		r.Detail.Cadence = fmt.Sprintf("average %.1f words per line", avg)
		r.note("line lengths sit outside the spoken 5-18 word band", "")
		return -10
	}
	if len(lines) >= 3 && len(lengths) < 3 {
		r.Detail.Cadence = "uniform line lengths"
		r.note("every line lands at the same length, vary the rhythm", "")
		return -10
	}
	r.Detail.Cadence = "spoken rhythm"
	return 15
}

// scoreContext: +15 when the script carries the transcript's situation
// through, -20 when it drops it. Only travel context is verifiable.
func (r *Result) scoreContext(text, transcript string) int {
	t := strings.ToLower(transcript)
	travelWords := []string{"airport", "trip", "travel", "security", "flight"}
	transcriptHas := false
	for _, w := range travelWords {
		if strings.Contains(t, w) {
			transcriptHas = true
			break
		}
	}
	if !transcriptHas {
		return 15
	}
	low := strings.ToLower(text)
	for _, w := range travelWords {
		if strings.Contains(low, w) {
			return 15
		}
	}
	r.note("transcript is a travel moment but the script never references it", "")
	return -20
}

// scoreBrandSafety: -20 for any banned claim or unsafe phrase, +15 when
// safe and inclusively framed, 0 when safe but exclusionary.
func (r *Result) scoreBrandSafety(text string) int {
	low := strings.ToLower(text)
	for _, c := range prompt.MedicalClaims() {
		if strings.Contains(low, c) {
			r.note("banned claim: "+c, FixStripMedical)
			return -20
		}
	}
	for _, m := range prompt.InclusiveMarkers() {
		if containsWord(low, m) {
			return 15
		}
	}
	r.note("no inclusive framing; mention partners or every body", FixAddInclusive)
	return 0
}

// scoreFeature: +10 when the script states the product's trusted numeric
// spec verbatim, -10 when it misstates or omits it. Products without a
// verifiable number score the full credit.
func (r *Result) scoreFeature(text string, req prompt.Request) int {
	want := postprocess.ModeCount(req.ProductID, req.Transcript)
	if want == 0 {
		return 10
	}
	low := strings.ToLower(text)
	if strings.Contains(low, strconv.Itoa(want)) && strings.Contains(low, "mode") {
		return 10
	}
	r.note(fmt.Sprintf("script should state the real spec: %d speed modes", want), FixInsertFeature)
	return -10
}

// scoreEnding: +15 for a curated closing line, -20 for a generic sales
// close, +5 for anything in between.
func (r *Result) scoreEnding(text string) int {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return 0
	}
	last := strings.TrimSpace(lines[len(lines)-1])
	r.Detail.LastLine = last
	for _, e := range prompt.BangerEndings() {
		if last == e {
			return 15
		}
	}
	low := strings.ToLower(last)
	for _, cta := range prompt.GenericCTAs() {
		if strings.Contains(low, cta) {
			r.note("ends on a generic sales close", FixBangerEnding)
			return -20
		}
	}
	r.note("ending could land harder", FixBangerEnding)
	return 5
}

// scoreCliches: +10 clean, -10 when banned marketing phrases appear.
func (r *Result) scoreCliches(text string) int {
	low := strings.ToLower(text)
	for _, c := range prompt.Cliches() {
		if strings.Contains(low, c) {
			r.note("cliche phrase: "+c, FixStripCliches)
			return -10
		}
	}
	return 10
}

func (r *Result) note(feedback, fix string) {
	r.Feedback = append(r.Feedback, feedback)
	if fix != "" {
		for _, f := range r.Fixes {
			if f == fix {
				return
			}
		}
		r.Fixes = append(r.Fixes, fix)
	}
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, strings.TrimSpace(l))
		}
	}
	return out
}

func countSlang(text string) int {
	low := strings.ToLower(text)
	n := 0
	for _, s := range prompt.GenZSlang() {
		n += countWord(low, s)
	}
	return n
}

func containsWord(text, word string) bool {
	return countWord(text, word) > 0
}

// countWord counts whole-word occurrences of w (which may span multiple
// words) in lowercased text.
func countWord(text, w string) int {
	n := 0
	i := 0
	for {
		j := strings.Index(text[i:], w)
		if j < 0 {
			return n
		}
		start := i + j
		end := start + len(w)
		before := start == 0 || !isWordByte(text[start-1])
		after := end == len(text) || !isWordByte(text[end])
		if before && after {
			n++
			i = end
		} else {
			i = start + 1
		}
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '\''
}
