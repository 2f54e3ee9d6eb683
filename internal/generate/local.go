package generate

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/mymuse/adstudio/internal/classify"
	"github.com/mymuse/adstudio/internal/product"
	"github.com/mymuse/adstudio/internal/prompt"
)

// Local is the terminal backend: a pure template engine over product facts
// and transcript signals. It never errors and never returns empty text, so
// a chain ending in Local always produces a script.
type Local struct {
	rnd *rand.Rand
}

// NewLocal builds the local engine. rnd may be nil for an unseeded source;
// tests inject a seeded one for reproducible output.
func NewLocal(rnd *rand.Rand) *Local {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(1))
	}
	return &Local{rnd: rnd}
}

func (l *Local) Name() string { return "local" }

func (l *Local) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	req := p.Req.Normalize()
	facts, _ := product.Facts(req.ProductID)
	sig := readSignals(req.Transcript)

	genz := req.Tone == prompt.ToneGenZ
	angle := p.Seq % len(hooks)

	var lines []string
	lines = append(lines, hookLine(angle, facts.ID, genz, sig))
	lines = append(lines, contextLine(facts, sig, p.Category))
	lines = append(lines, featureLine(facts, angle))
	if len(facts.Benefits) > 0 {
		lines = append(lines, facts.Benefits[(angle+l.rnd.Intn(2))%len(facts.Benefits)])
	}
	if genz {
		lines = append(lines, genzInclusiveLines[angle%len(genzInclusiveLines)])
	} else {
		lines = append(lines, inclusiveLines[angle%len(inclusiveLines)])
	}
	endings := prompt.BangerEndings()
	lines = append(lines, endings[(angle+l.rnd.Intn(3))%len(endings)])

	return strings.Join(lines, "\n"), nil
}

type signals struct {
	airport  bool
	travel   bool
	security bool
	intimate bool
}

func readSignals(transcript string) signals {
	t := strings.ToLower(transcript)
	return signals{
		airport:  strings.Contains(t, "airport") || strings.Contains(t, "flight"),
		travel:   strings.Contains(t, "trip") || strings.Contains(t, "travel"),
		security: strings.Contains(t, "security"),
		intimate: strings.Contains(t, "love") || strings.Contains(t, "together") || strings.Contains(t, "partner"),
	}
}

// hooks rotate by variation slot so a set never opens the same way twice.
// Index 0 is the primary script's straightforward open.
var hooks = []string{
	"straight", "confession", "pov", "story", "direct",
	"essential", "premium", "habit", "try", "realstory",
}

func hookLine(angle int, productID string, genz bool, sig signals) string {
	onTrip := sig.airport || sig.travel
	if genz {
		switch hooks[angle] {
		case "confession":
			return "Okay confession: I don't go anywhere without my " + productID + "."
		case "pov":
			return "POV: you're packing and the " + productID + " goes in first."
		case "story":
			return "Mini story: me, my " + productID + ", and zero regrets."
		case "direct":
			return "Lowkey the best thing in my bag is my " + productID + "."
		case "essential":
			return "My " + productID + " is the one essential I never skip."
		case "premium":
			return "This is what taking care of yourself properly looks like: " + productID + "."
		case "habit":
			return "No cap, my " + productID + " comes everywhere with me now."
		case "try":
			return "Try this once and you'll get why I'm obsessed with my " + productID + "."
		case "realstory":
			return "Real talk, my " + productID + " changed how I do self-care."
		default:
			if onTrip {
				return "Guess who's coming on this trip with me? My " + productID + "."
			}
			return "Let me tell you about my " + productID + ", bestie."
		}
	}
	switch hooks[angle] {
	case "confession":
		return "Honestly? I don't travel without my " + productID + " anymore."
	case "pov":
		return "Picture this: you're packing, and the " + productID + " goes in first."
	case "story":
		return "Quick story about me and my " + productID + "."
	case "direct":
		return "The most useful thing in my bag is my " + productID + "."
	case "essential":
		return "My " + productID + " is the one essential I never skip."
	case "premium":
		return "This is what real self-care looks like: my " + productID + "."
	case "habit":
		return "My " + productID + " comes everywhere with me now."
	case "try":
		return "Try this once and you'll understand why I keep mine close."
	case "realstory":
		return "Here's how my " + productID + " changed my routine."
	default:
		if onTrip {
			return "Guess who's coming on this trip with me? My " + productID + "."
		}
		return "Let's talk about my " + productID + " for a second."
	}
}

func contextLine(facts product.Fact, sig signals, cat classify.Category) string {
	switch {
	case sig.security:
		return "Security check coming up, and honestly? Not worried. It's that discreet."
	case sig.airport:
		return "It's whisper-quiet and slides through any airport bag check."
	case sig.travel:
		return "It's small, it's quiet, and it travels better than I do."
	case cat == classify.AnalPlay:
		return "Being prepared isn't awkward, it's just knowing your own body."
	case sig.intimate:
		return "It's for the moments you want to feel close, not complicated."
	default:
		return "It's the easiest way I know to make time for myself."
	}
}

func featureLine(facts product.Fact, angle int) string {
	if facts.SpeedModes > 0 {
		switch angle % 3 {
		case 0:
			return fmt.Sprintf("It's got %d speed modes, and it's still whisper-quiet.", facts.SpeedModes)
		case 1:
			return fmt.Sprintf("%d speed modes. You'll find the one that's yours.", facts.SpeedModes)
		default:
			return fmt.Sprintf("With %d speed modes, there's no such thing as routine.", facts.SpeedModes)
		}
	}
	if len(facts.Features) > 0 {
		a := facts.Features[angle%len(facts.Features)]
		b := facts.Features[(angle+1)%len(facts.Features)]
		return "It's " + a + " and " + b + ", and that's exactly the point."
	}
	return "It's body-safe, discreet, and genuinely easy to use."
}

var inclusiveLines = []string{
	"It's made for every body, solo or with a partner.",
	"Whoever you are, whoever you're with, it meets you there.",
	"Pleasure isn't one-size, and neither is this. It's for everyone.",
	"Solo nights, partner nights, it doesn't judge either way.",
}

// genzInclusiveLines each carry exactly one slang expression, which keeps
// a genz script inside the one-to-three slang band even when the hook has
// none.
var genzInclusiveLines = []string{
	"Lowkey made for everyone, solo or with a partner.",
	"Every body, every partner. It's giving inclusive.",
	"It works for everyone, no cap, whoever you're with.",
	"Made for every body and every partner, and that lives rent-free in my head.",
}
