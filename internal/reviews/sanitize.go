package reviews

import (
	"regexp"
	"strings"
)

var (
	urlPattern   = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	spacePattern = regexp.MustCompile(`\s+`)
)

const maxQuoteLen = 280

// SanitizeQuote prepares one raw review text for prompt embedding: URLs and
// email addresses are stripped, whitespace collapsed, length clamped to 280
// runes, and terminal punctuation ensured. Texts too short to be a usable
// quote come back empty.
func SanitizeQuote(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = emailPattern.ReplaceAllString(text, "")
	text = spacePattern.ReplaceAllString(strings.TrimSpace(text), " ")
	if len(text) < 12 {
		return ""
	}
	runes := []rune(text)
	if len(runes) > maxQuoteLen {
		text = strings.TrimSpace(string(runes[:maxQuoteLen]))
		// clamp on a word boundary when one is close enough
		if i := strings.LastIndex(text, " "); i > maxQuoteLen-40 {
			text = text[:i]
		}
	}
	text = strings.TrimRight(text, " ,;:-")
	if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
		text += "."
	}
	return text
}
