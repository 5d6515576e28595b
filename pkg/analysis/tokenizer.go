// Package analysis implements the ingredient risk resolution engine:
// tokenizing raw label text, resolving each phrase against the knowledge
// base (with the external classifier as fallback), and aggregating the
// per-ingredient table into an overall verdict.
package analysis

import "strings"

// delimiters split an ingredient list into candidate phrases. Labels mix
// ASCII and fullwidth punctuation freely, and parenthetical sub-ingredients
// are kept as phrases of their own: the detail inside the parens is often
// the actual risk carrier (e.g. "米糠（含胚芽）").
var delimiters = map[rune]struct{}{
	',': {}, '，': {}, '、': {},
	';': {}, '；': {},
	'\n': {}, '\r': {},
	'·': {}, '•': {},
	'(': {}, ')': {}, '（': {}, '）': {},
}

// SplitIngredients splits a raw ingredient-list string into trimmed,
// non-empty phrases in order of appearance. Casing is preserved for
// display; lowercasing is the matcher's concern. Empty or whitespace-only
// input yields an empty slice, not an error.
func SplitIngredients(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		_, ok := delimiters[r]
		return ok
	})

	phrases := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimFunc(p, func(r rune) bool {
			return r == ' ' || r == '\t' || r == '　' || r == '.' || r == '。'
		})
		p = stripContainsPrefix(p)
		if p == "" {
			continue
		}
		phrases = append(phrases, p)
	}
	return phrases
}

// stripContainsPrefix removes the "contains" lead-in that labels put in
// front of parenthetical sub-ingredients, so "含胚芽" resolves as "胚芽".
func stripContainsPrefix(p string) string {
	for _, prefix := range []string{"含", "内含", "內含"} {
		if rest, ok := strings.CutPrefix(p, prefix); ok && rest != "" {
			return strings.TrimSpace(rest)
		}
	}
	lower := strings.ToLower(p)
	for _, prefix := range []string{"contains ", "contains: ", "including "} {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(p[len(prefix):])
		}
	}
	return p
}
