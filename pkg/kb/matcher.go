package kb

import (
	"strings"
	"unicode"

	"github.com/labelscan/labelscan-engine/pkg/models"
)

// Normalize lowercases a phrase and collapses all whitespace runs
// (including fullwidth spaces) to single ASCII spaces. Aliases in the KB
// are stored already normalized, so matching reduces to substring checks.
func Normalize(phrase string) string {
	fields := strings.FieldsFunc(strings.ToLower(phrase), unicode.IsSpace)
	return strings.Join(fields, " ")
}

// Match resolves one ingredient phrase against the KB and returns the best
// matching record, or nil when nothing matches.
//
// A phrase matches a record when the normalized phrase contains any of the
// record's aliases as a substring. When several records' aliases appear in
// the same phrase, the longest matching alias wins, so "red 40" beats a
// generic "red"; length ties go to the lexicographically smallest canonical
// ID. Pure function of the phrase and the immutable store.
func (s *Store) Match(phrase string) *models.AdditiveRecord {
	norm := Normalize(phrase)
	if norm == "" {
		return nil
	}
	// The alias index is pre-sorted longest-first with the canonical-ID
	// tie-break baked in, so the first containment hit is the winner.
	for _, e := range s.aliases {
		if strings.Contains(norm, e.alias) {
			return e.record
		}
	}
	return nil
}
