package postprocess

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mymuse/adstudio/internal/classify"
	"github.com/mymuse/adstudio/internal/product"
	"github.com/mymuse/adstudio/internal/prompt"
)

var speedModesPattern = regexp.MustCompile(`(?i)\b(\d+)\s*(?:speed\s*)?modes?\b`)

// ModeCount resolves the speed-mode number a script may claim: the
// catalog's trusted value when the product has one, otherwise whatever
// number the transcript itself stated, otherwise zero.
func ModeCount(productID, transcript string) int {
	if facts, ok := product.Facts(productID); ok && facts.SpeedModes > 0 {
		return facts.SpeedModes
	}
	if m := speedModesPattern.FindStringSubmatch(transcript); m != nil {
		n := 0
		fmt.Sscanf(m[1], "%d", &n)
		return n
	}
	return 0
}

// EnforceStructure rewrites generated text into the shape its content
// category demands. feature_heavy gets the fixed natural line sequence with
// real feature values; casual mirrors the transcript line for line with only
// product names swapped. Other categories pass through untouched. The
// orchestrator applies this to the primary script only, so variations keep
// their distinct angles.
func EnforceStructure(text string, req prompt.Request, cat classify.Category) string {
	req = req.Normalize()
	switch cat {
	case classify.FeatureHeavy:
		return featureHeavyScript(req)
	case classify.Casual:
		return casualMirror(req)
	default:
		return text
	}
}

// featureHeavyScript is the fixed rundown shape: hook, context, real specs,
// app line, comfort line, close. Travel references from the transcript are
// kept; fake spec numbers are replaced with trusted ones.
func featureHeavyScript(req prompt.Request) string {
	facts, _ := product.Facts(req.ProductID)
	t := strings.ToLower(req.Transcript)
	travel := strings.Contains(t, "airport") || strings.Contains(t, "trip") ||
		strings.Contains(t, "travel") || strings.Contains(t, "flight")

	var lines []string
	if travel {
		lines = append(lines, "Guess who's coming on this trip with me? My "+facts.ID+".")
		lines = append(lines, "Security check? It's discreet enough that nobody looks twice.")
	} else {
		lines = append(lines, "Let me give you the real rundown on my "+facts.ID+".")
		lines = append(lines, "It's small, it's quiet, and it's honestly impressive.")
	}

	if modes := ModeCount(req.ProductID, req.Transcript); modes > 0 {
		lines = append(lines, fmt.Sprintf("It's got %d speed modes, so you'll find yours fast.", modes))
	} else if len(facts.Features) > 0 {
		lines = append(lines, "It's "+facts.Features[0]+" and "+facts.Features[1%len(facts.Features)]+".")
	}

	lines = append(lines, "Everything's controlled from the MyMuse app, right on your phone.")
	lines = append(lines, "Soft-touch, body-safe, and made for every body.")
	lines = append(lines, prompt.BangerEndings()[0])

	return strings.Join(lines, "\n")
}

// casualMirror keeps the creator's own words: same lines, same flow, with
// fake product names swapped for the real one and light grammar cleanup.
func casualMirror(req prompt.Request) string {
	transcript := strings.TrimSpace(req.Transcript)
	if transcript == "" {
		return "My " + req.ProductID + " goes where I go.\n" + prompt.BangerEndings()[0]
	}
	var lines []string
	for _, line := range splitScriptLines(transcript) {
		line = SubstituteBrand(line, req.ProductID)
		line = CorrectShape(line, req.ProductID)
		lines = append(lines, line)
	}
	return NormalizeGrammar(strings.Join(lines, "\n"))
}

// splitScriptLines turns free-running transcript text into spoken lines,
// splitting on newlines first and sentence breaks second.
func splitScriptLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) <= 90 {
			out = append(out, line)
			continue
		}
		out = append(out, splitSentences(line)...)
	}
	return out
}
