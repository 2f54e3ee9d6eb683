// Package postprocess normalizes raw backend output into publishable script
// text. Steps are pure string transforms applied in a fixed order; the whole
// pipeline is idempotent, so re-processing clean text changes nothing.
package postprocess

import (
	"regexp"
	"strings"

	"github.com/mymuse/adstudio/internal/classify"
	"github.com/mymuse/adstudio/internal/product"
	"github.com/mymuse/adstudio/internal/prompt"
)

// Process runs the full normalization pass: markdown strip, brand
// substitution, shape correction, medical-claim removal, then grammar and
// punctuation cleanup. Structural enforcement is separate; the orchestrator
// applies it to the primary script only.
func Process(raw string, req prompt.Request, cat classify.Category) string {
	req = req.Normalize()
	text := StripMarkdown(raw)
	text = SubstituteBrand(text, req.ProductID)
	text = CorrectShape(text, req.ProductID)
	text = StripMedicalClaims(text)
	text = NormalizeGrammar(text)
	return text
}

var (
	speakerLabel  = regexp.MustCompile(`(?mi)^\s*(ACTOR/MODEL|ACTOR|MODEL|SPEAKER|VO)\s*:\s*`)
	mdHeading     = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s*`)
	mdBullet      = regexp.MustCompile(`(?m)^\s*[-*•]\s+`)
	mdEmphasis    = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_]+)(\*{1,3}|_{1,3})`)
	mdCodeFence   = regexp.MustCompile("(?m)^```[a-zA-Z]*$")
	blankCollapse = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown removes markdown syntax and speaker labels that backends
// tend to emit despite instructions.
func StripMarkdown(text string) string {
	text = mdCodeFence.ReplaceAllString(text, "")
	text = mdHeading.ReplaceAllString(text, "")
	text = mdBullet.ReplaceAllString(text, "")
	text = mdEmphasis.ReplaceAllString(text, "$2")
	text = speakerLabel.ReplaceAllString(text, "")
	text = blankCollapse.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// appPlaceholders name the fake companion app; they map to the real app,
// not the product.
var appPlaceholders = map[string]bool{
	"dijayatra": true, "digi-astra": true, "digi astra": true, "digi-atra": true,
}

// SubstituteBrand replaces fake product names with the chosen product and
// fake app names with the MyMuse app. Replacement is word-boundary safe:
// "trip" never becomes part of a substitution. Product ids keep their
// lowercase brand styling regardless of the placeholder's capitalization.
func SubstituteBrand(text, productID string) string {
	for _, ph := range product.Placeholders(text) {
		repl := productID
		if appPlaceholders[ph] {
			repl = "MyMuse app"
		}
		text = replaceWordLiteral(text, ph, repl)
	}
	return text
}

// CorrectShape swaps descriptors the product must not carry (a pebble is
// not a wand) for the catalog's replacement phrase.
func CorrectShape(text, productID string) string {
	facts, ok := product.Facts(productID)
	if !ok {
		return text
	}
	for _, banned := range facts.Banned {
		text = replaceWord(text, banned, facts.Replacement)
	}
	return text
}

// StripMedicalClaims drops every sentence containing a banned claim
// pattern. Lines emptied entirely are removed.
func StripMedicalClaims(text string) string {
	claims := prompt.MedicalClaims()
	var outLines []string
	for _, line := range strings.Split(text, "\n") {
		var kept []string
		for _, sentence := range splitSentences(line) {
			low := strings.ToLower(sentence)
			banned := false
			for _, c := range claims {
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
		} else if strings.TrimSpace(line) == "" {
			outLines = append(outLines, "")
		}
	}
	return strings.Join(outLines, "\n")
}

var contractions = []struct{ from, to string }{
	{"do not", "don't"},
	{"does not", "doesn't"},
	{"did not", "didn't"},
	{"cannot", "can't"},
	{"can not", "can't"},
	{"will not", "won't"},
	{"it is", "it's"},
	{"it has been", "it's been"},
	{"that is", "that's"},
	{"there is", "there's"},
	{"i am", "I'm"},
	{"i have", "I've"},
	{"i will", "I'll"},
	{"you are", "you're"},
	{"you will", "you'll"},
	{"you have", "you've"},
	{"we are", "we're"},
	{"we will", "we'll"},
	{"they are", "they're"},
	{"is not", "isn't"},
	{"are not", "aren't"},
	{"was not", "wasn't"},
	{"would not", "wouldn't"},
	{"should not", "shouldn't"},
	{"could not", "couldn't"},
	{"let us", "let's"},
}

var formalSwaps = []struct{ from, to string }{
	{"utilize", "use"},
	{"utilizes", "uses"},
	{"purchase", "get"},
	{"assistance", "help"},
	{"commence", "start"},
	{"therefore", "so"},
	{"additionally", "plus"},
	{"furthermore", "plus"},
}

// NormalizeGrammar applies UGC voice fixes: contractions, casual word
// swaps, collapsed spacing, and terminal punctuation on every line.
// Idempotent: contracted text contains no expansion to re-contract.
func NormalizeGrammar(text string) string {
	for _, c := range contractions {
		text = replaceWord(text, c.from, c.to)
	}
	for _, s := range formalSwaps {
		text = replaceWord(text, s.from, s.to)
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			lines[i] = ""
			continue
		}
		switch line[len(line)-1] {
		case '.', '!', '?', ':', ',', '-':
		default:
			line += "."
		}
		lines[i] = line
	}
	out := strings.Join(lines, "\n")
	return strings.TrimSpace(blankCollapse.ReplaceAllString(out, "\n\n"))
}

var sentenceSplit = regexp.MustCompile(`[^.!?]+[.!?]?`)

func splitSentences(line string) []string {
	var out []string
	for _, m := range sentenceSplit.FindAllString(line, -1) {
		if s := strings.TrimSpace(m); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// replaceWord is a case-insensitive whole-word replacement. Word characters
// adjacent to a match block it, so "trip" survives a "tri" substitution and
// "diver" survives a "dive" one. Capitalization of the first letter is
// preserved when the replacement starts lowercase.
func replaceWord(text, from, to string) string {
	return replaceBounded(text, from, to, true)
}

// replaceWordLiteral replaces whole words with to exactly as given, used
// where the replacement carries its own styling (brand names).
func replaceWordLiteral(text, from, to string) string {
	return replaceBounded(text, from, to, false)
}

func replaceBounded(text, from, to string, preserveCase bool) string {
	if from == "" {
		return text
	}
	lowText := strings.ToLower(text)
	lowFrom := strings.ToLower(from)
	var b strings.Builder
	i := 0
	for {
		j := strings.Index(lowText[i:], lowFrom)
		if j < 0 {
			b.WriteString(text[i:])
			break
		}
		start := i + j
		end := start + len(lowFrom)
		boundedBefore := start == 0 || !isWordByte(lowText[start-1])
		boundedAfter := end == len(lowText) || !isWordByte(lowText[end])
		if boundedBefore && boundedAfter {
			b.WriteString(text[i:start])
			if preserveCase {
				b.WriteString(matchCase(text[start:end], to))
			} else {
				b.WriteString(to)
			}
			i = end
		} else {
			b.WriteString(text[i : start+1])
			i = start + 1
		}
	}
	return b.String()
}

func matchCase(src, repl string) string {
	if repl == "" || src == "" {
		return repl
	}
	if repl[0] >= 'a' && repl[0] <= 'z' && src[0] >= 'A' && src[0] <= 'Z' {
		return strings.ToUpper(repl[:1]) + repl[1:]
	}
	return repl
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '\''
}
