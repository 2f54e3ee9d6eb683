package product

import (
	"sort"
	"strings"
)

// DefaultID is the product substituted whenever auto-detection finds no
// usable signal in a transcript.
const DefaultID = "dive+"

// Fact holds the static knowledge the generator is allowed to claim about
// one product. The catalog is the single source of truth for descriptive
// terms: anything in Banned must never survive post-processing, and
// Replacement is the canonical phrase swapped in for a banned term.
type Fact struct {
	ID          string
	Shape       []string
	Features    []string
	Prefer      []string
	Banned      []string
	Replacement string
	Benefits    []string
	Aliases     []string
	// SpeedModes is the trusted spec value for products with a mode count;
	// zero means the product has no such spec.
	SpeedModes int
}

var catalog = map[string]Fact{
	"dive+": {
		ID:          "dive+",
		Shape:       []string{"compact", "pebble-shaped", "egg-like"},
		Features:    []string{"app-controlled", "whisper-quiet", "dual stimulation", "waterproof", "soft-touch silicone", "body-safe", "travel-friendly", "discreet"},
		Prefer:      []string{"wearable", "app-controlled", "discreet", "travel-safe"},
		Banned:      []string{"wand", "wand-style"},
		Replacement: "pebble-shaped massager",
		Benefits: []string{
			"Remote and app control for playful, hands-free use",
			"Whisper-quiet for everyday discretion",
			"Soft-touch, body-safe materials",
			"Slides through airport security without a second look",
		},
		Aliases:    []string{"dive+", "dive plus", "dive", "the dive"},
		SpeedModes: 10,
	},
	"link+": {
		ID:          "link+",
		Shape:       []string{"wearable", "flexible"},
		Features:    []string{"app-controlled", "flexible fit", "low-profile", "whisper-quiet", "discreet", "body-safe silicone", "wearable design"},
		Prefer:      []string{"wearable", "low-profile", "travel-safe"},
		Banned:      []string{"wand"},
		Replacement: "wearable massager",
		Benefits: []string{
			"App control with a flexible, comfortable fit",
			"Wearable, low-profile design",
			"Whisper-quiet and discreet",
			"Built for couples who like sharing control",
		},
		Aliases: []string{"link+", "link plus", "link"},
	},
	"groove+": {
		ID:          "groove+",
		Shape:       []string{"wand-style", "flexible"},
		Features:    []string{"flexible wand", "app-controlled", "whisper-quiet", "dual stimulation", "soft-touch silicone", "body-safe", "targeted comfort"},
		Prefer:      []string{"wand", "targeted", "travel-safe"},
		Banned:      nil,
		Replacement: "wand",
		Benefits: []string{
			"Flexible, ribbed wand for targeted comfort",
			"App-enabled control with quiet power",
			"Soft-touch finish with a premium feel",
			"Great for warm-ups and full-body ease",
		},
		Aliases:    []string{"groove+", "groove plus", "groove", "wand"},
		SpeedModes: 18,
	},
	"breeze": {
		ID:          "breeze",
		Shape:       []string{"mini", "bullet-style"},
		Features:    []string{"mini size", "travel-friendly", "whisper-quiet", "soft-touch", "discreet", "body-safe", "easy operation"},
		Prefer:      []string{"mini massager", "bullet", "travel-safe"},
		Banned:      []string{"wand"},
		Replacement: "mini massager",
		Benefits: []string{
			"Mini size with surprising comfort",
			"Discreet and travel-friendly",
			"Soft-touch finish, one-button operation",
			"Made for quick self-care moments",
		},
		Aliases: []string{"breeze", "breeze mini", "mini massager"},
	},
	"pulse": {
		ID:          "pulse",
		Shape:       []string{"compact", "pointed tip"},
		Features:    []string{"full-body comfort", "pointed tip", "compact", "quiet", "soft-touch coating", "body-safe", "targeted relief"},
		Prefer:      []string{"full-body massager", "travel-safe"},
		Banned:      []string{"wand"},
		Replacement: "compact massager",
		Benefits: []string{
			"Sleek, full-body comfort with a pointed tip",
			"Compact and quiet for anytime use",
			"Soft-touch coating, premium build",
			"Great for targeted relief",
		},
		Aliases: []string{"pulse", "pulse massager", "full body massager"},
	},
	"edge": {
		ID:          "edge",
		Shape:       []string{"stroker"},
		Features:    []string{"ultra-soft sleeve", "varied textures", "multiple intensities", "comfortable grip", "quiet performance", "body-safe", "easy clean-up"},
		Prefer:      []string{"stroker", "travel-safe"},
		Banned:      []string{"wand"},
		Replacement: "stroker",
		Benefits: []string{
			"Ultra-soft sleeve with varied textures",
			"Multiple intensities, easy clean-up",
			"Comfortable grip, quiet performance",
			"Designed for focused sessions",
		},
		Aliases: []string{"edge", "edge stroker", "vibrating stroker"},
	},
	"beat": {
		ID:          "beat",
		Shape:       []string{"stroker"},
		Features:    []string{"soft-touch finish", "intuitive controls", "comfortable grip", "quiet performance", "body-safe", "beginner-friendly"},
		Prefer:      []string{"stroker", "travel-safe"},
		Banned:      []string{"wand"},
		Replacement: "stroker",
		Benefits: []string{
			"Soft-touch finish and intuitive controls",
			"Comfortable to hold and easy to clean",
			"Quiet, discreet performance",
			"Great for beginners and daily self-care",
		},
		Aliases: []string{"beat", "beat massager", "stroker"},
	},
	"flick": {
		ID:          "flick",
		Shape:       []string{"precise tip", "compact"},
		Features:    []string{"lifelike tip", "playful rhythms", "compact build", "quiet", "discreet", "soft-touch", "precise targeting", "body-safe"},
		Prefer:      []string{"precise", "targeted", "travel-safe"},
		Banned:      []string{"wand"},
		Replacement: "compact massager",
		Benefits: []string{
			"Lifelike tip with playful rhythms",
			"Compact build, quiet and discreet",
			"Soft-touch premium materials",
			"Great for precise, targeted comfort",
		},
		Aliases: []string{"flick", "flick massager"},
	},
	"oh! please gel": {
		ID:          "oh! please gel",
		Shape:       []string{"lubricant gel"},
		Features:    []string{"silky glide", "long-lasting", "body-safe", "ph-friendly", "non-sticky", "easy clean-up", "smooth texture"},
		Prefer:      []string{"lubricant", "gel", "travel-safe"},
		Banned:      []string{"wand"},
		Replacement: "lubricant gel",
		Benefits: []string{
			"Silky, long-lasting glide for comfort",
			"Body-safe, pH-friendly formulation",
			"Non-sticky, easy clean-up",
			"Keeps the moment about the moment",
		},
		Aliases: []string{"oh! please", "oh please", "oh! please gel", "oh please gel", "please gel", "lubricant", "lube"},
	},
}

// placeholders are fake product names that show up in creator transcripts
// and must never reach generated output.
var placeholders = []string{
	"mini jadugar", "mini-jadugar", "mini jadukar", "mini-jadukar",
	"jadugar", "jadukar", "dijayatra", "digi-astra", "digi astra", "digi-atra",
}

// Facts returns the fact sheet for a product id (case-insensitive).
func Facts(id string) (Fact, bool) {
	f, ok := catalog[strings.ToLower(strings.TrimSpace(id))]
	return f, ok
}

// IDs returns every known product id in stable order.
func IDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Placeholders returns the fake product names present in the transcript,
// longest first so that multi-word names win over their substrings during
// substitution.
func Placeholders(transcript string) []string {
	text := strings.ToLower(transcript)
	var found []string
	for _, p := range placeholders {
		if strings.Contains(text, p) {
			found = append(found, p)
		}
	}
	sort.Slice(found, func(i, j int) bool { return len(found[i]) > len(found[j]) })
	return found
}

// IsPlaceholder reports whether name is one of the known fake product names.
func IsPlaceholder(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, p := range placeholders {
		if n == p {
			return true
		}
	}
	return false
}

// AliasMatch reports whether text mentions the product by any of its
// known aliases. Used to prioritize review snippets for prompt quotes.
func AliasMatch(id, text string) bool {
	f, ok := Facts(id)
	if !ok {
		return false
	}
	low := strings.ToLower(text)
	for _, a := range f.Aliases {
		if strings.Contains(low, a) {
			return true
		}
	}
	return false
}

// AutoDetect picks the best product for a transcript. It is total: it
// always returns a catalog id and never fails, falling back to DefaultID
// when the transcript carries no signal.
//
// Detection order mirrors specificity: mini/fake-name cues first, then
// explicit form-factor and audience cues, then travel context.
func AutoDetect(transcript string) string {
	if strings.TrimSpace(transcript) == "" {
		return DefaultID
	}
	text := strings.ToLower(transcript)

	hasTravel := containsAny(text, "airport", "travel", "trip", "security", "flight")

	if containsAny(text, "mini jadukar", "mini-jadukar", "mini jadugar", "mini-jadugar") {
		if hasTravel {
			return "dive+"
		}
		return "breeze"
	}
	if containsAny(text, "wand", "flexible", "targeted") {
		return "groove+"
	}
	if containsAny(text, "lube", "lubricant", "gel", "glide") {
		return "oh! please gel"
	}
	if containsAny(text, "app", "remote", "control", "digi") {
		return DefaultID
	}
	if containsAny(text, "stroker", "men", "male", "him") {
		return "edge"
	}
	if containsAny(text, "couple", "together", "partner") {
		return "link+"
	}
	if hasTravel || containsAny(text, "discreet", "portable") {
		return DefaultID
	}
	return DefaultID
}

func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
