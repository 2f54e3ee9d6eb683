package postprocess

import (
	"strings"
	"testing"

	"github.com/mymuse/adstudio/internal/classify"
	"github.com/mymuse/adstudio/internal/prompt"
)

func req(productID, transcript string) prompt.Request {
	return prompt.Request{ProductID: productID, Transcript: transcript}.Normalize()
}

func TestStripMarkdown(t *testing.T) {
	raw := "## Script\n\n**ACTOR/MODEL:** Hello there\n- first point\n*emphasis* stays as text\n```\n"
	got := StripMarkdown(raw)
	for _, bad := range []string{"#", "**", "ACTOR/MODEL", "- first", "```"} {
		if strings.Contains(got, bad) {
			t.Errorf("markdown artifact %q survived:\n%s", bad, got)
		}
	}
	if !strings.Contains(got, "emphasis stays as text") {
		t.Errorf("emphasis text lost:\n%s", got)
	}
}

func TestSubstituteBrand(t *testing.T) {
	got := SubstituteBrand("say hi to my Mini Jadugar, paired with the Dijayatra", "dive+")
	if strings.Contains(strings.ToLower(got), "jadugar") {
		t.Errorf("placeholder survived: %s", got)
	}
	if !strings.Contains(got, "dive+") {
		t.Errorf("product name missing: %s", got)
	}
	if !strings.Contains(got, "the MyMuse app") {
		t.Errorf("app placeholder not mapped to the real app: %s", got)
	}
}

func TestSubstituteBrandNeverCorruptsTrip(t *testing.T) {
	in := "this trip is going great with my jadugar"
	got := SubstituteBrand(in, "dive+")
	if !strings.Contains(got, "trip") {
		t.Errorf("'trip' was corrupted: %s", got)
	}
	if !strings.Contains(got, "dive+") {
		t.Errorf("placeholder not swapped: %s", got)
	}
}

func TestCorrectShape(t *testing.T) {
	got := CorrectShape("this wand changed everything, wandering thoughts aside", "dive+")
	if !strings.Contains(got, "pebble-shaped massager") {
		t.Errorf("banned descriptor not corrected: %s", got)
	}
	if !strings.Contains(got, "wandering") {
		t.Errorf("word-boundary violated: %s", got)
	}
}

func TestCorrectShapeAllowsWandForGroove(t *testing.T) {
	in := "this wand changed everything"
	if got := CorrectShape(in, "groove+"); got != in {
		t.Errorf("groove+ may be called a wand, got %s", got)
	}
}

func TestStripMedicalClaims(t *testing.T) {
	in := "It feels amazing. It's clinically proven to fix everything. You'll love it."
	got := StripMedicalClaims(in)
	if strings.Contains(strings.ToLower(got), "clinically proven") {
		t.Errorf("claim survived: %s", got)
	}
	if !strings.Contains(got, "It feels amazing.") || !strings.Contains(got, "You'll love it.") {
		t.Errorf("innocent sentences dropped: %s", got)
	}
}

func TestNormalizeGrammar(t *testing.T) {
	in := "I am telling you, it is great\nyou will love it"
	got := NormalizeGrammar(in)
	want := "I'm telling you, it's great.\nyou'll love it."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeGrammarIdempotent(t *testing.T) {
	in := "I am sure you will not regret it\nit is that good"
	once := NormalizeGrammar(in)
	twice := NormalizeGrammar(once)
	if once != twice {
		t.Errorf("not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestProcessIdempotent(t *testing.T) {
	r := req("dive+", "airport day with my mini jadugar")
	raw := "**ACTOR/MODEL:** I am taking my Mini Jadugar through security\nit is a wand of wonders"
	once := Process(raw, r, classify.Casual)
	twice := Process(once, r, classify.Casual)
	if once != twice {
		t.Errorf("Process not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
	low := strings.ToLower(once)
	if strings.Contains(low, "jadugar") || strings.Contains(low, "wand") {
		t.Errorf("banned terms survived Process: %q", once)
	}
}

func TestModeCountTrustedOverridesTranscript(t *testing.T) {
	if got := ModeCount("dive+", "it has 18 speed modes"); got != 10 {
		t.Errorf("ModeCount = %d, want trusted 10", got)
	}
}

func TestModeCountFallsBackToTranscript(t *testing.T) {
	if got := ModeCount("breeze", "it has 7 speed modes"); got != 7 {
		t.Errorf("ModeCount = %d, want transcript's 7", got)
	}
	if got := ModeCount("breeze", "no numbers here"); got != 0 {
		t.Errorf("ModeCount = %d, want 0", got)
	}
}

func TestEnforceStructureFeatureHeavy(t *testing.T) {
	r := req("dive+", "It's Mini Jadugar! 18 speed modes, taking it on my trip through the airport.")
	got := EnforceStructure("whatever the backend said", r, classify.FeatureHeavy)

	if !strings.Contains(got, "10 speed modes") {
		t.Errorf("trusted spec value missing:\n%s", got)
	}
	if strings.Contains(got, "18 speed modes") {
		t.Errorf("fake spec value survived:\n%s", got)
	}
	if !strings.Contains(got, "trip") {
		t.Errorf("travel reference dropped:\n%s", got)
	}
	if !strings.Contains(got, "MyMuse app") {
		t.Errorf("app line missing:\n%s", got)
	}
}

func TestEnforceStructureCasualMirrorsTranscript(t *testing.T) {
	r := req("dive+", "Off to the airport!\nLook who is coming with me, my mini jadugar.")
	got := EnforceStructure("some drifted rewrite", r, classify.Casual)

	if !strings.Contains(got, "Off to the airport!") {
		t.Errorf("transcript line lost:\n%s", got)
	}
	if !strings.Contains(got, "dive+") {
		t.Errorf("product swap missing:\n%s", got)
	}
	if strings.Contains(strings.ToLower(got), "jadugar") {
		t.Errorf("placeholder survived:\n%s", got)
	}
	if strings.Contains(got, "drifted rewrite") {
		t.Errorf("generated drift kept instead of transcript mirror:\n%s", got)
	}
}

func TestEnforceStructurePassThroughOtherCategories(t *testing.T) {
	in := "line one\nline two"
	if got := EnforceStructure(in, req("dive+", "x"), classify.Sexual); got != in {
		t.Errorf("sexual category must pass through, got %q", got)
	}
}
