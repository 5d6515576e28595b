package models

// Language selects the locale for summary text and regulatory notes.
type Language string

const (
	LanguageEn Language = "en"
	LanguageZh Language = "zh"
)

// Normalize maps unknown or empty language values to English.
func (l Language) Normalize() Language {
	if l == LanguageZh {
		return LanguageZh
	}
	return LanguageEn
}

// Verdict is the aggregated risk classification for a whole product.
type Verdict string

const (
	VerdictHealthy  Verdict = "healthy"
	VerdictModerate Verdict = "moderate"
	VerdictHarmful  Verdict = "harmful"
)

// EntrySource records how an ingredient entry was resolved.
type EntrySource string

const (
	// SourceKB means the phrase matched a knowledge base record.
	SourceKB EntrySource = "kb"
	// SourceSafelist means the phrase matched the whole-food safelist.
	SourceSafelist EntrySource = "safelist"
	// SourceOracle means the external classifier supplied the judgment.
	SourceOracle EntrySource = "oracle"
	// SourceDefault means neither the KB nor the oracle yielded a result
	// and the conservative default was applied.
	SourceDefault EntrySource = "default"
)

// IngredientEntry is one resolved row of an analysis. Entries are created
// fresh per request and never mutated after the resolver finishes.
type IngredientEntry struct {
	// RawText is the phrase exactly as split from the input, original
	// casing preserved for display.
	RawText string `json:"raw_text"`

	// CanonicalID is the matched KB record's identity, empty if unmatched.
	CanonicalID string `json:"canonical_id,omitempty"`

	// MatchedRecord points into the shared read-only KB when Source is
	// SourceKB, and is omitted from JSON to keep the wire payload flat.
	MatchedRecord *AdditiveRecord `json:"-"`

	RiskLevel      RiskLevel  `json:"risk_level"`
	ChildRisk      ChildRisk  `json:"child_risk"`
	BadgeColor     BadgeColor `json:"badge_color"`
	RegulatoryNote string     `json:"regulatory_note,omitempty"`

	Source EntrySource `json:"source"`

	// Regulated is set when the oracle judged the ingredient a regulated
	// additive. It feeds the processed-food score.
	Regulated bool `json:"regulated,omitempty"`
}

// Classification is the external oracle's best-effort judgment for one
// ingredient phrase.
type Classification struct {
	RiskLevel      RiskLevel `json:"risk_level"`
	ChildRisk      ChildRisk `json:"child_risk"`
	Regulated      bool      `json:"regulated"`
	RegulatoryNote string    `json:"regulatory_note,omitempty"`
}

// AnalysisResult is the engine's output contract for one analysis request.
// The result and its entries are exclusively owned by the request that
// produced them.
type AnalysisResult struct {
	// Ingredients preserves the order of appearance in the input.
	Ingredients []IngredientEntry `json:"ingredients"`

	OverallVerdict   Verdict `json:"overall_verdict"`
	ChildSafeOverall bool    `json:"child_safe_overall"`

	// ProcessedScore is a 1-10 processed-food score, clamped.
	ProcessedScore int `json:"processed_score"`

	SummaryText string `json:"summary_text"`
}
