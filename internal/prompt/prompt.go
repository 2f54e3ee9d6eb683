// Package prompt builds the system and user prompts that drive script
// generation. A prompt is assembled from a persona, the product fact sheet,
// brand rules scoped by intensity and content category, sanitized review
// quotes, and flow cues lifted from the transcript.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mymuse/adstudio/internal/classify"
	"github.com/mymuse/adstudio/internal/product"
	"github.com/mymuse/adstudio/internal/reviews"
	"github.com/mymuse/adstudio/internal/transcribe"
)

// ToneMode selects the creator voice.
type ToneMode string

const (
	ToneGenZ  ToneMode = "genz"
	TonePlain ToneMode = "plain"
)

// Intensity bounds how explicit the script may be.
type Intensity string

const (
	IntensityPG13 Intensity = "pg13"
	IntensityOpen Intensity = "open"
)

// DefaultCount is the number of variations generated alongside the
// primary script.
const DefaultCount = 10

// Request carries everything a caller specifies for one generation run.
type Request struct {
	ProductID         string
	Transcript        string
	Tone              ToneMode
	Intensity         Intensity
	StrictProductOnly bool
	Count             int
}

// Normalize fills defaults so that downstream stages never see a zero
// field: unknown products auto-detect from the transcript, tone defaults
// to the plain educator, intensity to pg13, count to DefaultCount.
func (r Request) Normalize() Request {
	if _, ok := product.Facts(r.ProductID); !ok {
		r.ProductID = product.AutoDetect(r.Transcript)
	} else {
		r.ProductID = strings.ToLower(strings.TrimSpace(r.ProductID))
	}
	if r.Tone != ToneGenZ {
		r.Tone = TonePlain
	}
	if r.Intensity != IntensityOpen {
		r.Intensity = IntensityPG13
	}
	if r.Count <= 0 {
		r.Count = DefaultCount
	}
	return r
}

// Prompt is a fully assembled generation request. Seq distinguishes
// variation slots so backends can steer each candidate toward a different
// angle; 0 is the primary script.
type Prompt struct {
	System   string
	User     string
	Req      Request
	Category classify.Category
	Seq      int
}

// Build assembles the prompt for one candidate. quotes should already be
// raw review texts; selection and sanitization happen here.
func Build(req Request, cat classify.Category, quotes []string, seq int) Prompt {
	req = req.Normalize()
	persona := PersonaFor(req.Tone)
	facts, _ := product.Facts(req.ProductID)

	var b strings.Builder
	b.WriteString("Task: Write a camera-facing UGC ad script for Reels/TikTok (~20-35 seconds).\n\n")

	b.WriteString("Product: " + facts.ID + "\n")
	if len(facts.Shape) > 0 {
		b.WriteString("Form factor: " + strings.Join(facts.Shape, ", ") + "\n")
	}
	if len(facts.Features) > 0 {
		b.WriteString("Real features (only claim these): " + strings.Join(facts.Features, ", ") + "\n")
	}
	if facts.SpeedModes > 0 {
		fmt.Fprintf(&b, "Trusted spec: %d speed modes. Use this exact number if you mention modes.\n", facts.SpeedModes)
	}
	if len(facts.Banned) > 0 {
		b.WriteString("Never describe it as: " + strings.Join(facts.Banned, ", ") +
			" (say \"" + facts.Replacement + "\" instead)\n")
	}
	b.WriteString("\n")

	b.WriteString("Brand rules:\n")
	for _, r := range brandRules(req, cat) {
		b.WriteString("- " + r + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Formatting:\n")
	b.WriteString("- 5 to 9 short lines, one idea per line, no headings or scene directions.\n")
	b.WriteString("- Use contractions everywhere (it's, you'll, we're). Never formal language.\n")
	b.WriteString("- Mostly 5-12 word lines with the occasional 1-3 word punch line.\n")
	b.WriteString("- Hook in the first line. Close with attitude, not a sales pitch.\n")
	b.WriteString("- Banned phrases: " + strings.Join(cliches, "; ") + ".\n")
	b.WriteString("- No medical or guaranteed-outcome claims.\n\n")

	if sel := SelectQuotes(req.ProductID, quotes, 3); len(sel) > 0 {
		b.WriteString("Customer voice (paraphrase freely, never quote URLs):\n")
		for _, q := range sel {
			b.WriteString("- " + q + "\n")
		}
		b.WriteString("\n")
	}

	if cues := FlowCues(req.Transcript); len(cues) > 0 {
		b.WriteString("Flow cues from the creator's transcript, keep this order of ideas: " +
			strings.Join(cues, " -> ") + "\n\n")
	}

	if seq > 0 {
		fmt.Fprintf(&b, "This is variation %d of a set. Take a distinctly different angle from a straight product rundown.\n\n", seq)
	}

	b.WriteString("Transcript (mirror its flow and context; don't quote verbatim if awkward):\n")
	b.WriteString(clamp(req.Transcript, 1000))
	b.WriteString("\n")

	return Prompt{
		System:   systemPrompt(persona),
		User:     b.String(),
		Req:      req,
		Category: cat,
		Seq:      seq,
	}
}

func systemPrompt(p Persona) string {
	var b strings.Builder
	b.WriteString("You are " + p.FullName + ", a UGC creator making ad scripts for MyMuse, a sexual wellness brand.\n\n")
	b.WriteString("WHO YOU ARE:\n" + p.Identity + "\n\n")
	b.WriteString("HOW YOU TALK:\n" + p.Delivery + "\n\n")
	b.WriteString("SLANG:\n" + p.SlangPolicy + "\n\n")
	b.WriteString("HARD RULES:\n" + p.Boundaries + "\n\n")
	b.WriteString("Output plain script lines only. No markdown, no speaker labels, no stage directions.")
	return b.String()
}

// brandRules returns the rule set for an intensity and content category.
func brandRules(req Request, cat classify.Category) []string {
	var rules []string
	if req.Intensity == IntensityOpen {
		rules = append(rules,
			"MyMuse is confident, playful-premium, and inclusive. Preserve the transcript's tone and intensity; do not sanitize.",
			"Replace any non-MyMuse product mention with "+req.ProductID+".",
		)
	} else {
		rules = append(rules,
			"MyMuse is playful-premium, inclusive, and tasteful (PG-13). No explicit acts or shock language.",
			"Speak to comfort, confidence, ease, and exploration.",
			"Replace any non-MyMuse product mention with "+req.ProductID+".",
		)
	}
	rules = append(rules,
		"Pleasure is universal: the script must read as welcoming to all genders, orientations, and relationship types.",
		"MyMuse products are body-safe, discreet, and travel-friendly; they pass airport security without fuss.",
	)
	if req.StrictProductOnly {
		rules = append(rules, "Mention only "+req.ProductID+". Ignore every other product.")
	}

	switch cat {
	case classify.Casual:
		rules = append(rules,
			"The transcript is casual lifestyle content. Keep its exact flow and wording; only swap product names in.",
			"Do not add feature lists or explanations the creator never gave.")
	case classify.FeatureHeavy:
		rules = append(rules,
			"The transcript is a spec rundown with made-up features. Keep its structure and energy, upgrade the fake specs to the real ones above.",
			"Preserve any airport, security, or trip references exactly.")
	case classify.Sexual:
		rules = append(rules,
			"Mirror the transcript's intimate tone, then pivot naturally to the product as the enhancer.")
	case classify.AnalPlay:
		rules = append(rules,
			"The transcript is about intimate preparation. Keep its confident, matter-of-fact tone.",
			"Focus on comfort, readiness, and feeling good about your own body.")
	case classify.SexualDiverse:
		rules = append(rules,
			"The transcript gives relationship or intimacy advice. Keep the advice framing and measurements as-is, then bring the product in as a natural answer.")
	}
	return rules
}

var cueWord = regexp.MustCompile(`[A-Za-z][A-Za-z+'-]{2,}`)

// FlowCues extracts up to ten order-preserving, deduplicated content words
// from the transcript. Dev-fallback placeholder transcripts yield nothing.
func FlowCues(transcript string) []string {
	if transcribe.IsDevFallback(transcript) {
		return nil
	}
	seen := make(map[string]bool)
	var cues []string
	for _, w := range cueWord.FindAllString(transcript, -1) {
		lw := strings.ToLower(w)
		if seen[lw] {
			continue
		}
		seen[lw] = true
		cues = append(cues, lw)
		if len(cues) == 10 {
			break
		}
	}
	return cues
}

// SelectQuotes sanitizes raw review texts and returns at most max of them,
// quotes that mention the product by name first.
func SelectQuotes(productID string, texts []string, max int) []string {
	var prioritized, fallback []string
	for _, t := range texts {
		clean := reviews.SanitizeQuote(t)
		if clean == "" {
			continue
		}
		if product.AliasMatch(productID, clean) {
			prioritized = append(prioritized, clean)
		} else {
			fallback = append(fallback, clean)
		}
	}
	var out []string
	seen := make(map[string]bool)
	for _, q := range append(prioritized, fallback...) {
		if seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
		if len(out) >= max {
			break
		}
	}
	return out
}

// clamp truncates s to at most n bytes, backing up to a rune boundary so
// multibyte characters are never split.
func clamp(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return strings.TrimSpace(s[:n]) + "..."
}
