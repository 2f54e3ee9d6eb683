package product

import (
	"strings"
	"testing"
)

func TestFactsKnownProducts(t *testing.T) {
	for _, id := range IDs() {
		f, ok := Facts(id)
		if !ok {
			t.Fatalf("Facts(%q) missing", id)
		}
		if f.ID != id {
			t.Errorf("Facts(%q).ID = %q", id, f.ID)
		}
		if len(f.Benefits) == 0 {
			t.Errorf("product %q has no benefit lines", id)
		}
		if len(f.Aliases) == 0 {
			t.Errorf("product %q has no aliases", id)
		}
	}
}

func TestFactsCaseInsensitive(t *testing.T) {
	if _, ok := Facts("  Dive+ "); !ok {
		t.Error("Facts should trim and lowercase the id")
	}
	if _, ok := Facts("no-such-product"); ok {
		t.Error("unknown id must not resolve")
	}
}

func TestTrustedSpeedModes(t *testing.T) {
	dive, _ := Facts("dive+")
	if dive.SpeedModes != 10 {
		t.Errorf("dive+ speed modes = %d, want 10", dive.SpeedModes)
	}
	groove, _ := Facts("groove+")
	if groove.SpeedModes != 18 {
		t.Errorf("groove+ speed modes = %d, want 18", groove.SpeedModes)
	}
}

func TestAutoDetect(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       string
	}{
		{"empty transcript", "", DefaultID},
		{"travel context", "on my way to the airport with my little companion", DefaultID},
		{"mini fake name without travel", "say hi to the Mini Jadugar everyone", "breeze"},
		{"mini fake name with travel", "taking the Mini Jadugar through airport security", "dive+"},
		{"wand language", "this flexible wand has been a lifesaver", "groove+"},
		{"lubricant language", "the gel gives such a smooth glide", "oh! please gel"},
		{"app control", "you control everything from the app", "dive+"},
		{"couples language", "something my partner and I use together", "link+"},
		{"no signal", "just a regular morning, coffee and emails", DefaultID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AutoDetect(tt.transcript); got != tt.want {
				t.Errorf("AutoDetect(%q) = %q, want %q", tt.transcript, got, tt.want)
			}
		})
	}
}

func TestAutoDetectIdempotent(t *testing.T) {
	in := "taking my Mini Jadugar on a trip"
	first := AutoDetect(in)
	for i := 0; i < 3; i++ {
		if got := AutoDetect(in); got != first {
			t.Fatalf("AutoDetect not stable: %q then %q", first, got)
		}
	}
	if _, ok := Facts(first); !ok {
		t.Fatalf("AutoDetect returned unknown id %q", first)
	}
}

func TestPlaceholdersLongestFirst(t *testing.T) {
	found := Placeholders("unboxing the Mini Jadugar, aka the jadugar, next to my Dijayatra")
	if len(found) != 3 {
		t.Fatalf("found %v, want 3 placeholders", found)
	}
	if found[0] != "mini jadugar" {
		t.Errorf("longest placeholder should come first, got %v", found)
	}
}

func TestIsPlaceholder(t *testing.T) {
	if !IsPlaceholder("Dijayatra") {
		t.Error("Dijayatra is a known fake name")
	}
	if IsPlaceholder("dive+") {
		t.Error("real products are not placeholders")
	}
}

func TestAliasMatch(t *testing.T) {
	if !AliasMatch("dive+", "I bought the Dive Plus last month and love it") {
		t.Error("alias 'dive plus' should match")
	}
	if AliasMatch("dive+", "totally unrelated review text") {
		t.Error("unrelated text must not match")
	}
	if AliasMatch("unknown", "anything") {
		t.Error("unknown product must not match")
	}
}

func TestBannedTermsNeverPreferred(t *testing.T) {
	for _, id := range IDs() {
		f, _ := Facts(id)
		for _, b := range f.Banned {
			for _, p := range f.Prefer {
				if strings.EqualFold(b, p) {
					t.Errorf("product %q lists %q as both banned and preferred", id, b)
				}
			}
		}
	}
}
