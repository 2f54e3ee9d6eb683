package evaluate

import (
	"fmt"
	"strings"

	"github.com/mymuse/adstudio/internal/postprocess"
	"github.com/mymuse/adstudio/internal/prompt"
)

// fixOrder is the canonical application sequence: strips first, then
// normalization, then insertions, with the closing line settled before the
// feature line slots in above it. Applying out of order could let a later
// transform undo an earlier one (a new ending replacing a just-inserted
// feature line), so ApplyFixes ignores the caller's ordering.
var fixOrder = []string{
	FixStripMedical,
	FixStripCliches,
	FixStripSlang,
	FixAddContractions,
	FixAddSlang,
	FixAddInclusive,
	FixBangerEnding,
	FixInsertFeature,
}

// ApplyFixes runs the deterministic transforms named in fixes and returns
// the rewritten script. Each transform addresses exactly the dimension
// that flagged it; the orchestrator re-evaluates and keeps the rewrite
// only when it scores at least as well. Unknown fix names are ignored.
func ApplyFixes(text string, req prompt.Request, fixes []string) string {
	req = req.Normalize()
	requested := make(map[string]bool, len(fixes))
	for _, f := range fixes {
		requested[f] = true
	}
	// A strip can delete the sentence carrying the script's only
	// contraction, so grammar is renormalized after any strip.
	if requested[FixStripMedical] || requested[FixStripCliches] || requested[FixStripSlang] {
		requested[FixAddContractions] = true
	}
	for _, f := range fixOrder {
		if !requested[f] {
			continue
		}
		switch f {
		case FixStripMedical:
			text = postprocess.StripMedicalClaims(text)
		case FixStripCliches:
			text = stripCliches(text)
		case FixStripSlang:
			text = stripSlang(text)
		case FixAddContractions:
			text = postprocess.NormalizeGrammar(text)
		case FixAddSlang:
			text = addSlang(text)
		case FixAddInclusive:
			text = addInclusive(text)
		case FixBangerEnding:
			text = swapEnding(text)
		case FixInsertFeature:
			text = insertFeature(text, req)
		}
	}
	return strings.TrimSpace(text)
}

// stripCliches removes each sentence containing a banned marketing phrase.
func stripCliches(text string) string {
	var outLines []string
	for _, line := range strings.Split(text, "\n") {
		var kept []string
		for _, sentence := range splitSentences(line) {
			low := strings.ToLower(sentence)
			banned := false
			for _, c := range prompt.Cliches() {
				if strings.Contains(low, c) {
					banned = true
					break
				}
			}
			if !banned {
				kept = append(kept, sentence)
			}
		}
		if joined := strings.TrimSpace(strings.Join(kept, " ")); joined != "" {
			outLines = append(outLines, joined)
		}
	}
	return strings.Join(outLines, "\n")
}

// stripSlang deletes slang expressions outright, cleaning up the spacing
// and stray commas they leave behind.
func stripSlang(text string) string {
	var outLines []string
	for _, line := range strings.Split(text, "\n") {
		for _, s := range prompt.GenZSlang() {
			line = removeWord(line, s)
		}
		line = strings.Join(strings.Fields(line), " ")
		line = strings.TrimLeft(line, ", ")
		line = strings.ReplaceAll(line, " ,", ",")
		if strings.TrimSpace(line) != "" {
			outLines = append(outLines, line)
		}
	}
	return strings.Join(outLines, "\n")
}

// addSlang drops one on-voice interjection in front of the closing line,
// bringing a zero-slang genz script into the one-to-three band.
func addSlang(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if countSlang(text) > 0 || len(lines) == 0 {
		return text
	}
	interjection := "Honestly? Lowkey obsessed."
	if len(lines) == 1 {
		return interjection + "\n" + lines[0]
	}
	out := append([]string{}, lines[:len(lines)-1]...)
	out = append(out, interjection, lines[len(lines)-1])
	return strings.Join(out, "\n")
}

// addInclusive appends the inclusive-framing line above the closing line.
func addInclusive(text string) string {
	line := "Made for every body, solo or with a partner."
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) <= 1 {
		return strings.TrimSpace(text + "\n" + line)
	}
	out := append([]string{}, lines[:len(lines)-1]...)
	out = append(out, line, lines[len(lines)-1])
	return strings.Join(out, "\n")
}

// insertFeature adds the trusted numeric spec line when the script lacks
// it, just before the closing line.
func insertFeature(text string, req prompt.Request) string {
	want := postprocess.ModeCount(req.ProductID, req.Transcript)
	if want == 0 {
		return text
	}
	low := strings.ToLower(text)
	if strings.Contains(low, fmt.Sprintf("%d", want)) && strings.Contains(low, "mode") {
		return text
	}
	line := fmt.Sprintf("It's got %d speed modes, so you'll find yours.", want)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) <= 1 {
		return strings.TrimSpace(text + "\n" + line)
	}
	out := append([]string{}, lines[:len(lines)-1]...)
	out = append(out, line, lines[len(lines)-1])
	return strings.Join(out, "\n")
}

// swapEnding replaces the last line with the first curated ending, unless
// the script already ends on one. Very short scripts get the ending
// appended instead, so a one-line script is not erased wholesale.
func swapEnding(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	for _, e := range prompt.BangerEndings() {
		if last == e {
			return text
		}
	}
	if len(lines) < 3 {
		return strings.TrimSpace(text) + "\n" + prompt.BangerEndings()[0]
	}
	lines[len(lines)-1] = prompt.BangerEndings()[0]
	return strings.Join(lines, "\n")
}

var sentenceEnd = []byte{'.', '!', '?'}

func splitSentences(line string) []string {
	var out []string
	start := 0
	for i := 0; i < len(line); i++ {
		for _, e := range sentenceEnd {
			if line[i] == e {
				if s := strings.TrimSpace(line[start : i+1]); s != "" {
					out = append(out, s)
				}
				start = i + 1
				break
			}
		}
	}
	if s := strings.TrimSpace(line[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// removeWord deletes whole-word, case-insensitive occurrences of w.
func removeWord(line, w string) string {
	low := strings.ToLower(line)
	var b strings.Builder
	i := 0
	for {
		j := strings.Index(low[i:], w)
		if j < 0 {
			b.WriteString(line[i:])
			break
		}
		start := i + j
		end := start + len(w)
		before := start == 0 || !isWordByte(low[start-1])
		after := end == len(low) || !isWordByte(low[end])
		if before && after {
			b.WriteString(line[i:start])
			i = end
		} else {
			b.WriteString(line[i : start+1])
			i = start + 1
		}
	}
	return b.String()
}
