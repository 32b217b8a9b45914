package core

import (
	"strings"
	"unicode"
)

// TitleCaser applies Portuguese title casing: every word is capitalized
// except for a closed set of connectives (de, da, do, e, ...), which stay
// lowercase unless they open the string. Hyphens split words the same way
// whitespace does and are preserved verbatim.
type TitleCaser struct {
	lower map[string]struct{}
}

// NewTitleCaser builds a caser from the connective-word list. Words are
// matched exactly against their lowercase form.
func NewTitleCaser(connectives []string) *TitleCaser {
	lower := make(map[string]struct{}, len(connectives))
	for _, w := range connectives {
		lower[strings.ToLower(w)] = struct{}{}
	}
	return &TitleCaser{lower: lower}
}

// Titleize lowercases the trimmed input and re-capitalizes it word by word.
// Separators (runs of whitespace or single hyphens) come through unchanged.
func (t *TitleCaser) Titleize(s string) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(s)))

	var b strings.Builder
	b.Grow(len(runes))

	first := true
	i := 0
	for i < len(runes) {
		if isWordSep(runes[i]) {
			j := i
			for j < len(runes) && isWordSep(runes[j]) {
				b.WriteRune(runes[j])
				j++
			}
			i = j
			continue
		}

		j := i
		for j < len(runes) && !isWordSep(runes[j]) {
			j++
		}
		word := string(runes[i:j])

		if _, keep := t.lower[word]; keep && !first {
			b.WriteString(word)
		} else {
			b.WriteString(capitalize(word))
		}
		first = false
		i = j
	}

	return b.String()
}

func isWordSep(r rune) bool {
	return r == '-' || unicode.IsSpace(r)
}

func capitalize(word string) string {
	r := []rune(word)
	if len(r) == 0 {
		return word
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
