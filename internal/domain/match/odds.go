package match

import (
	"strconv"
	"strings"
)

// FractionalToDecimal parses a fractional price such as "5/2" or a plain
// number. It reports false for empty or malformed input.
func FractionalToDecimal(fraction string) (float64, bool) {
	fraction = strings.TrimSpace(fraction)
	if fraction == "" {
		return 0, false
	}
	num, den, isFraction := strings.Cut(fraction, "/")
	if !isFraction {
		v, err := strconv.ParseFloat(fraction, 64)
		return v, err == nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

// ImpliedProbability converts a fractional price into the bookmaker's
// implied win probability, 1/(decimal+1).
func ImpliedProbability(fraction string) (float64, bool) {
	dec, ok := FractionalToDecimal(fraction)
	if !ok || dec+1 == 0 {
		return 0, false
	}
	return 1 / (dec + 1), true
}
