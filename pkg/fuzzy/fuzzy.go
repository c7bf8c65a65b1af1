// Package fuzzy scores how similar two strings are on a 0-100 scale.
//
// Scores are based on the indel distance (insertions and deletions only,
// a substitution costs two edits), which makes Ratio symmetric and bounded
// by the combined length of both strings.
package fuzzy

import (
	"github.com/agext/levenshtein"
)

var indel = levenshtein.NewParams().SubCost(2)

// Ratio returns the normalized indel similarity of a and b. Two empty
// strings are identical (100).
func Ratio(a, b string) float64 {
	return ratio([]rune(a), []rune(b))
}

// PartialRatio returns the best Ratio between the shorter string and any
// same-length window of the longer one, including windows clipped at either
// end. It returns 0 when only one side is empty.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}

	switch {
	case len(short) == 0 && len(long) == 0:
		return 100
	case len(short) == 0:
		return 0
	case len(short) == len(long):
		return ratio(short, long)
	}

	m, n := len(short), len(long)
	best := 0.0

	consider := func(window []rune) bool {
		if s := ratio(short, window); s > best {
			best = s
		}
		return best >= 100
	}

	for i := 0; i+m <= n; i++ {
		if consider(long[i : i+m]) {
			return best
		}
	}

	// Windows hanging off either end of the longer string.
	for k := 1; k < m; k++ {
		if consider(long[:k]) || consider(long[n-k:]) {
			return best
		}
	}

	return best
}

func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	d := levenshtein.Distance(string(a), string(b), indel)
	return 100 * (1 - float64(d)/float64(total))
}
