package matching

import (
	"testing"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases", input: "ABC Tech", expected: "abc tech"},
		{name: "strips punctuation", input: "A.B.C. Tech, Ltd.", expected: "a b c tech ltd"},
		{name: "collapses whitespace", input: "  ABC   Tech  ", expected: "abc tech"},
		{name: "empty", input: "", expected: ""},
		{name: "only punctuation", input: "***", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeName(tt.input); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		min  int
		max  int
	}{
		{name: "identical", a: "ABC Tech", b: "ABC Tech", min: 100, max: 100},
		{name: "case and punctuation insensitive", a: "abc tech", b: "ABC Tech.", min: 100, max: 100},
		{name: "legal suffix noise", a: "ABC Tech Solutions", b: "ABC Tech", min: 80, max: 100},
		{name: "private limited suffix", a: "XYZ Software", b: "XYZ Software Pvt Ltd", min: 80, max: 100},
		{name: "unrelated names", a: "ABC Tech", b: "Global Retail Corp", min: 0, max: 50},
		{name: "empty side scores zero", a: "", b: "ABC Tech", min: 0, max: 0},
		{name: "both empty score zero", a: "", b: "", min: 0, max: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Similarity(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Fatalf("expected score within [%d, %d], got %d", tt.min, tt.max, got)
			}
		})
	}
}

func TestSimilarityIsSymmetric(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"ABC Tech Solutions", "ABC Tech"},
		{"XYZ Software", "XYZ Software Pvt Ltd"},
		{"Acme Corp", "Acme Corporation"},
	}

	for _, pair := range pairs {
		if ab, ba := Similarity(pair[0], pair[1]), Similarity(pair[1], pair[0]); ab != ba {
			t.Fatalf("similarity(%q, %q) = %d but reversed = %d", pair[0], pair[1], ab, ba)
		}
	}
}

func TestPartialRatioGuardsShortNames(t *testing.T) {
	t.Parallel()

	// "AB" appears verbatim inside the longer name but is too short for the
	// windowed comparison, so only the full-string ratio applies.
	if got := Similarity("AB", "Absolutely Unrelated Business Machines"); got >= 80 {
		t.Fatalf("expected a short fragment not to score as a match, got %d", got)
	}
}
