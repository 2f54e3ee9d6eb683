package prompt

// Shared brand lexicons. The builder embeds them in prompts, the local
// engine draws endings from them, and the evaluator scores against them.

// bangerEndings are curated closing lines. A script that ends on one of
// these (or something with equivalent attitude) scores as a strong close.
var bangerEndings = []string{
	"Trust your desires.",
	"Focus on what drives you wild.",
	"Feel good. No apologies.",
	"Go with what feels right.",
	"Pleasure that meets you where you are.",
	"Your pleasure, your way.",
	"Discover what feels amazing.",
	"Embrace your desires.",
	"Pleasure awaits.",
	"Your journey starts here.",
	"We're about to have some fun.",
	"This is going to be amazing.",
	"Get ready for pleasure.",
	"Let's explore together.",
	"This is just the beginning.",
	"Your pleasure journey starts now.",
	"Your desires are calling.",
}

// genericCTAs are the flat closes the evaluator penalizes.
var genericCTAs = []string{
	"buy now", "shop now", "order today", "check it out", "link in bio",
	"don't miss out", "get yours today", "tap to shop", "click the link",
}

// cliches are banned marketing phrases. Disjoint from bangerEndings by
// construction; keep it that way when editing either list.
var cliches = []string{
	"game-changer", "game changer", "spice up your", "take it to the next level",
	"next-level", "you won't regret it", "treat yourself", "must-have",
	"revolutionary", "life-changing", "unlock your", "elevate your experience",
	"like never before", "the ultimate", "say goodbye to",
}

// medicalClaims are claim patterns that must never appear. Plain substring
// checks; the post-processor strips whole sentences containing them.
var medicalClaims = []string{
	"clinically proven", "medically proven", "doctor recommended",
	"guaranteed orgasm", "guaranteed results", "guaranteed to",
	"cures", "treats anxiety", "therapeutic grade", "fda approved",
}

// genzSlang is the allowed slang lexicon for the genz tone. The evaluator
// counts occurrences: one to three is on-voice, zero or four-plus is not.
var genzSlang = []string{
	"lowkey", "highkey", "no cap", "it's giving", "rent-free", "iykyk",
	"bestie", "obsessed", "living for", "hits different", "the assignment",
	"periodt", "vibe", "slaps",
}

// inclusiveMarkers signal inclusive framing. At least one should appear
// in every script.
var inclusiveMarkers = []string{
	"partner", "partners", "everyone", "every body", "all bodies",
	"whoever", "anyone", "people", "for all",
}

// BangerEndings returns the curated closing lines.
func BangerEndings() []string { return bangerEndings }

// GenericCTAs returns the flat sales closes that weaken an ending.
func GenericCTAs() []string { return genericCTAs }

// Cliches returns the banned marketing phrases.
func Cliches() []string { return cliches }

// MedicalClaims returns the banned claim patterns.
func MedicalClaims() []string { return medicalClaims }

// GenZSlang returns the allowed slang lexicon.
func GenZSlang() []string { return genzSlang }

// InclusiveMarkers returns the inclusive-framing signal words.
func InclusiveMarkers() []string { return inclusiveMarkers }
