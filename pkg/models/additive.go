package models

import "fmt"

// RiskLevel classifies how concerning an additive is, ordered from
// least to most severe.
type RiskLevel string

const (
	RiskHealthy  RiskLevel = "healthy"
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHarmful  RiskLevel = "harmful"
)

// severityRank orders risk levels for worst-of aggregation.
var severityRank = map[RiskLevel]int{
	RiskHealthy:  0,
	RiskLow:      1,
	RiskModerate: 2,
	RiskHarmful:  3,
}

// Valid reports whether the risk level is one of the known values.
func (r RiskLevel) Valid() bool {
	_, ok := severityRank[r]
	return ok
}

// WorseThan reports whether r is more severe than other.
func (r RiskLevel) WorseThan(other RiskLevel) bool {
	return severityRank[r] > severityRank[other]
}

// ChildRisk classifies an additive's suitability for children.
type ChildRisk string

const (
	ChildSafe    ChildRisk = "safe"
	ChildLimit   ChildRisk = "limit"
	ChildAvoid   ChildRisk = "avoid"
	ChildUnknown ChildRisk = "unknown"
)

// Valid reports whether the child risk is one of the known values.
func (c ChildRisk) Valid() bool {
	switch c {
	case ChildSafe, ChildLimit, ChildAvoid, ChildUnknown:
		return true
	}
	return false
}

// BadgeColor is the coarse traffic-light classification shown to users.
type BadgeColor string

const (
	BadgeGreen  BadgeColor = "green"
	BadgeYellow BadgeColor = "yellow"
	BadgeRed    BadgeColor = "red"
	BadgeGray   BadgeColor = "gray"
)

// BadgeForRisk derives the badge color from a risk level. Badges are never
// stored independently of the risk level, so the two cannot drift apart.
// Gray is reserved for entries that resolved to no usable risk data.
func BadgeForRisk(r RiskLevel) BadgeColor {
	switch r {
	case RiskHealthy, RiskLow:
		return BadgeGreen
	case RiskModerate:
		return BadgeYellow
	case RiskHarmful:
		return BadgeRed
	default:
		return BadgeGray
	}
}

// AdditiveRecord is one row of the additive knowledge base.
// Records are immutable after load and shared across concurrent analyses.
type AdditiveRecord struct {
	// CanonicalID is the stable identifier, typically the normalized
	// English name or an E-code (e.g. "aspartame", "e129").
	CanonicalID string `json:"canonical_id"`

	DisplayNameEn string `json:"display_name_en"`
	DisplayNameZh string `json:"display_name_zh"`

	// Aliases are lowercase, whitespace-normalized strings that resolve to
	// this record: E-codes, INS numbers, common misspellings, brand names,
	// and bilingual variants.
	Aliases []string `json:"aliases"`

	RiskLevel RiskLevel `json:"risk_level"`
	ChildRisk ChildRisk `json:"child_risk"`

	// RegulatoryNoteEn/Zh carry the jurisdiction-specific status note
	// (Taiwan FDA in the shipped dataset). The request language selects
	// which one is copied onto resolved entries; En falls back to Zh.
	RegulatoryNoteEn string `json:"regulatory_note_en,omitempty"`
	RegulatoryNoteZh string `json:"regulatory_note_zh,omitempty"`
}

// RegulatoryNote returns the note for the given language, falling back to
// the other locale when the requested one is empty.
func (a *AdditiveRecord) RegulatoryNote(lang Language) string {
	if lang == LanguageZh {
		if a.RegulatoryNoteZh != "" {
			return a.RegulatoryNoteZh
		}
		return a.RegulatoryNoteEn
	}
	if a.RegulatoryNoteEn != "" {
		return a.RegulatoryNoteEn
	}
	return a.RegulatoryNoteZh
}

// DisplayName returns the display name for the given language.
func (a *AdditiveRecord) DisplayName(lang Language) string {
	if lang == LanguageZh && a.DisplayNameZh != "" {
		return a.DisplayNameZh
	}
	if a.DisplayNameEn != "" {
		return a.DisplayNameEn
	}
	return a.CanonicalID
}

// Validate checks the record's own field invariants. Cross-record
// invariants (unique IDs, unambiguous aliases) are enforced by the KB loader.
func (a *AdditiveRecord) Validate() error {
	if a.CanonicalID == "" {
		return fmt.Errorf("additive record missing canonical_id")
	}
	if !a.RiskLevel.Valid() {
		return fmt.Errorf("additive %q has invalid risk_level %q", a.CanonicalID, a.RiskLevel)
	}
	if !a.ChildRisk.Valid() {
		return fmt.Errorf("additive %q has invalid child_risk %q", a.CanonicalID, a.ChildRisk)
	}
	if len(a.Aliases) == 0 {
		return fmt.Errorf("additive %q has no aliases", a.CanonicalID)
	}
	return nil
}
