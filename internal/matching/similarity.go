package matching

import (
	"math"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// minPartialRunes guards the windowed comparison against trivially short
// names matching inside longer ones.
const minPartialRunes = 4

// NormalizeName prepares an employer name for comparison: lowercase, strip
// punctuation, collapse whitespace.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = nonAlnum.ReplaceAllString(name, " ")
	name = whitespace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// Similarity computes a 0..100 edit-distance ratio between two employer
// names. The full-string ratio is complemented by a windowed ratio of the
// shorter name against equal-length substrings of the longer one, so that
// legal-suffix noise ("ABC Tech" vs "ABC Tech Solutions Pvt Ltd") does not
// sink the score. Empty or missing input on either side scores 0: a record
// without an employer never matches anything.
func Similarity(a, b string) int {
	a = NormalizeName(a)
	b = NormalizeName(b)

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	score := ratio(a, b)
	if partial := partialRatio(a, b); partial > score {
		score = partial
	}
	return score
}

// ratio is the normalized Levenshtein similarity scaled to 0..100.
func ratio(a, b string) int {
	distance := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	return int(math.Round((1 - float64(distance)/float64(longest)) * 100))
}

// partialRatio slides the shorter name over the longer one and returns the
// best window ratio.
func partialRatio(a, b string) int {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) < minPartialRunes {
		return 0
	}

	best := 0
	for offset := 0; offset+len(shorter) <= len(longer); offset++ {
		window := string(longer[offset : offset+len(shorter)])
		if score := ratio(string(shorter), window); score > best {
			best = score
		}
	}
	return best
}
