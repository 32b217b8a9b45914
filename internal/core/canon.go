package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentStripper decomposes characters and drops the combining marks, so
// "Cartão" and "cartao" normalize to the same key.
var accentStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// NormalizeKey lowercases s, strips accents and collapses internal
// whitespace. This is the lookup key form for every canonical table.
func NormalizeKey(s string) string {
	stripped, _, err := transform.String(accentStripper, s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(strings.Join(strings.Fields(stripped), " "))
}

// Taxonomy holds the closed enumerations for payment method, tag and
// category, keyed by their normalized form. Built once at startup from
// configuration and never mutated.
type Taxonomy struct {
	methods    map[string]string
	tags       map[string]string
	categories map[string]string

	methodList   []string
	tagList      []string
	categoryList []string
}

func NewTaxonomy(methods, tags, categories []string) *Taxonomy {
	return &Taxonomy{
		methods:      canonicalIndex(methods),
		tags:         canonicalIndex(tags),
		categories:   canonicalIndex(categories),
		methodList:   methods,
		tagList:      tags,
		categoryList: categories,
	}
}

func canonicalIndex(display []string) map[string]string {
	idx := make(map[string]string, len(display))
	for _, d := range display {
		idx[NormalizeKey(d)] = d
	}
	return idx
}

// Method resolves a raw payment-method token to its canonical display form.
// Unknown values fail with a validation error listing every accepted method.
func (t *Taxonomy) Method(raw string) (string, error) {
	if canon, ok := t.methods[NormalizeKey(raw)]; ok {
		return canon, nil
	}
	return "", validationErrf("Método inválido. Use: %s.", joinOu(t.methodList))
}

// Tag resolves a raw tag token to its canonical display form.
func (t *Taxonomy) Tag(raw string) (string, error) {
	if canon, ok := t.tags[NormalizeKey(raw)]; ok {
		return canon, nil
	}
	return "", validationErrf("Tag inválida. Use: %s.", joinOu(t.tagList))
}

// Category resolves a raw category token to its canonical display form.
func (t *Taxonomy) Category(raw string) (string, error) {
	if canon, ok := t.categories[NormalizeKey(raw)]; ok {
		return canon, nil
	}
	return "", validationErrf("Categoria inválida. Use: %s.", strings.Join(t.categoryList, ", "))
}

// Methods returns the canonical method list in configuration order.
func (t *Taxonomy) Methods() []string { return t.methodList }

// Tags returns the canonical tag list in configuration order.
func (t *Taxonomy) Tags() []string { return t.tagList }

// Categories returns the canonical category list in configuration order.
func (t *Taxonomy) Categories() []string { return t.categoryList }

// joinOu renders ["a","b","c"] as "a, b ou c".
func joinOu(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " ou " + items[len(items)-1]
}
