package classify

import "strings"

// Category tags a transcript with the content case that drives prompt
// construction and post-processing.
type Category string

const (
	AnalPlay      Category = "anal_play"
	FeatureHeavy  Category = "feature_heavy"
	Sexual        Category = "sexual"
	SexualDiverse Category = "sexual_diverse"
	Casual        Category = "casual"
)

// CategoryNames returns all categories in priority order, most specific first.
func CategoryNames() []Category {
	return []Category{AnalPlay, FeatureHeavy, Sexual, SexualDiverse, Casual}
}

// rule pairs a category with the keyword set that triggers it. Rules are
// evaluated top to bottom; the first match wins. Measurement/size language
// deliberately lives in the feature_heavy set, so spec-style transcripts
// ("18 speed modes, 11 inches") classify as feature_heavy rather than
// sexual_diverse.
type rule struct {
	category Category
	keywords []string
}

var rules = []rule{
	{
		category: AnalPlay,
		keywords: []string{
			"back door", "defecate", "poop", "anal", "anus", "rectum",
			"bowel", "digestive", "stool", "fecal", "toilet", "bathroom",
		},
	},
	{
		category: FeatureHeavy,
		keywords: []string{
			"motor", "vibration", "vibrations", "speed", "speeds", "mode",
			"modes", "setting", "battery", "charge", "waterproof", "silicone",
			"material", "texture", "dimension", "inches", "app", "control",
			"remote", "bluetooth", "wireless", "noise", "quiet", "portable",
			"compact", "adjustable", "specs", "specifications", "features",
			"jadugar", "jadukar", "dijayatra", "digi-astra",
		},
	},
	{
		category: Sexual,
		keywords: []string{
			"penis", "dick", "cock", "sex", "fuck", "orgasm", "pleasure",
			"intimate", "intimacy", "sexual", "foreplay", "clitoris",
			"vagina", "oral", "masturbation", "vibrator", "massager",
			"stimulation", "arousal", "erection", "lubricant",
		},
	},
	{
		category: SexualDiverse,
		keywords: []string{
			"boyfriend", "girlfriend", "partner", "relationship", "dating",
			"advice", "first time", "average", "connection", "deeper level",
			"enhance", "elevate", "good at it",
		},
	},
}

// Classify maps a raw transcript to exactly one content category. It is
// total: any input, including empty or whitespace-only text, yields a
// category, defaulting to Casual.
func Classify(transcript string) Category {
	text := strings.ToLower(strings.TrimSpace(transcript))
	if text == "" {
		return Casual
	}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if containsWord(text, kw) {
				return r.category
			}
		}
	}
	return Casual
}

// Matched reports which keywords of the winning category appear in the
// transcript. Useful for logging why a transcript landed in a category.
func Matched(transcript string) (Category, []string) {
	text := strings.ToLower(strings.TrimSpace(transcript))
	if text == "" {
		return Casual, nil
	}
	for _, r := range rules {
		var hits []string
		for _, kw := range r.keywords {
			if containsWord(text, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) > 0 {
			return r.category, hits
		}
	}
	return Casual, nil
}

// containsWord matches kw against text on word boundaries so that short
// keywords do not fire inside unrelated words ("app" must not match
// "happy", "sex" must not match "sussex").
func containsWord(text, kw string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		before := start == 0 || !isWordChar(text[start-1])
		after := end == len(text) || !isWordChar(text[end])
		if before && after {
			return true
		}
		idx = start + 1
		if idx >= len(text) {
			return false
		}
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '\''
}
