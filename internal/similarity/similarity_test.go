package similarity

import (
	"math"
	"testing"
)

func TestScore_Identity(t *testing.T) {
	for _, s := range []string{"ABC Enterprises", "x", ""} {
		if got := Score(s, s); got != 1.0 {
			t.Fatalf("Score(%q,%q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestScore_CaseAndOuterWhitespace(t *testing.T) {
	if got := Score("ABC ", "abc"); got != 1.0 {
		t.Fatalf("Score(\"ABC \",\"abc\") = %v, want 1.0", got)
	}
	// Internal whitespace stays significant.
	if got := Score("a b", "ab"); got == 1.0 {
		t.Fatalf("internal whitespace should not be stripped, got 1.0")
	}
}

func TestScore_Symmetry(t *testing.T) {
	cases := [][2]string{
		{"Freetown Bakery", "Freetown Bakerie"},
		{"ABC Enterprises", "XYZ Traders"},
		{"", "something"},
		{"aa", "ab"},
	}
	for _, c := range cases {
		ab := Score(c[0], c[1])
		ba := Score(c[1], c[0])
		if ab != ba {
			t.Fatalf("Score(%q,%q)=%v but Score(%q,%q)=%v", c[0], c[1], ab, c[1], c[0], ba)
		}
	}
}

func TestScore_Bounds(t *testing.T) {
	cases := [][2]string{
		{"", ""},
		{"", "long business name"},
		{"a", "b"},
		{"ABC Enterprises", "ABC Enterprice"},
		{"total", "mismatch!"},
	}
	for _, c := range cases {
		got := Score(c[0], c[1])
		if got < 0.0 || got > 1.0 {
			t.Fatalf("Score(%q,%q) = %v out of [0,1]", c[0], c[1], got)
		}
	}
}

func TestScore_EditDistanceRatio(t *testing.T) {
	// One substitution over length 15: 1 - 1/15.
	got := Score("Freetown Bakery", "Freetown Bakers")
	want := 1.0 - 1.0/15.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Score = %v, want %v", got, want)
	}

	// One insertion scores against the longer length: 1 - 2/16.
	got = Score("Freetown Bakery", "Freetown Bakerie")
	want = 1.0 - 2.0/16.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Score = %v, want %v", got, want)
	}
}

func TestScore_EmptyVsNonEmpty(t *testing.T) {
	if got := Score("", "abc"); got != 0.0 {
		t.Fatalf("Score(\"\",\"abc\") = %v, want 0.0", got)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"abc enterprises", "abc enterprice", 2},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Fatalf("levenshtein(%q,%q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{0.81, TierHigh},
		{0.8, TierMedium},
		{0.61, TierMedium},
		{0.6, TierLow},
		{1.0, TierHigh},
		{0.0, TierLow},
	}
	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Fatalf("Classify(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := Label(TierHigh, 0.92); got != "High Risk (92% similar)" {
		t.Fatalf("Label = %q", got)
	}
	if got := Label(TierMedium, 0.755); got != "Medium Risk (76% similar)" {
		t.Fatalf("Label = %q", got)
	}
}
