// Package textsim scores the similarity of short strings on a 0-100 scale.
package textsim

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Ratio is the normalized indel similarity of a and b:
// 100 * (len(a)+len(b)-d) / (len(a)+len(b)), d being the insert/delete
// edit distance. Two empty strings score 100.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	return float64(100*(total-edlib.LCSEditDistance(a, b))) / float64(total)
}

// TokenSortRatio compares a and b after sorting their tokens, so word order
// does not matter. Tokens are split on whitespace and hyphens.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// Best returns the index and score of the highest scoring choice. Ties go
// to the earliest choice. It returns -1 when choices is empty.
func Best(query string, choices []string, scorer func(a, b string) float64) (int, float64) {
	if scorer == nil {
		scorer = TokenSortRatio
	}
	best, bestScore := -1, 0.0
	for i, choice := range choices {
		score := scorer(query, choice)
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, bestScore
}

func sortedTokens(value string) string {
	tokens := strings.FieldsFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
