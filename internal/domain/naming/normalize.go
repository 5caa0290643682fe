// Package naming canonicalizes player display names into comparable keys.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Separator joins the tokens of a normalized key.
const Separator = "-"

const maxKeyTokens = 3

// Normalize turns a free-form display name into a name key.
//
// "Last, First" ordering is swapped, diacritics are folded to their base
// letter, anything other than ASCII letters, digits, underscore, whitespace
// and hyphen is dropped, and the result is lowercased. Names with more than
// three tokens keep the first token and the last two.
func Normalize(name string) string {
	if before, after, found := strings.Cut(name, ","); found {
		rest, _, _ := strings.Cut(after, ",")
		name = strings.TrimSpace(rest) + " " + strings.TrimSpace(before)
	}

	name = strings.ToLower(strings.TrimSpace(stripNonWord(foldDiacritics(name))))

	tokens := strings.Fields(name)
	if len(tokens) > maxKeyTokens {
		tokens = []string{tokens[0], tokens[len(tokens)-2], tokens[len(tokens)-1]}
	}

	return strings.Join(tokens, Separator)
}

func foldDiacritics(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return out
}

func stripNonWord(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return b.String()
}
