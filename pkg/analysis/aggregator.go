package analysis

import "github.com/labelscan/labelscan-engine/pkg/models"

// Policy holds the aggregation knobs that are product decisions rather
// than engine facts.
type Policy struct {
	// LimitIsUnsafe widens the child-safety trigger from "avoid" only to
	// "avoid" or "limit".
	LimitIsUnsafe bool
}

// Score weights for the processed-food score.
const (
	scoreBase         = 1
	scorePerHarmful   = 3
	scorePerModerate  = 2
	scorePerRegulated = 2
	scoreMax          = 10
)

// Aggregate combines a resolved ingredient table into the overall verdict,
// child-safety flag, processed-food score, and summary text.
//
// The verdict is worst-of, not an average: one harmful additive must not be
// diluted by any number of safe ingredients.
func Aggregate(entries []models.IngredientEntry, lang models.Language, policy Policy) *models.AnalysisResult {
	lang = lang.Normalize()

	if len(entries) == 0 {
		return &models.AnalysisResult{
			Ingredients:      []models.IngredientEntry{},
			OverallVerdict:   models.VerdictHealthy,
			ChildSafeOverall: true,
			ProcessedScore:   scoreBase,
			SummaryText:      summaryText(summaryNothingDetected, lang),
		}
	}

	verdict := models.VerdictHealthy
	childSafe := true
	score := scoreBase

	for _, e := range entries {
		switch e.RiskLevel {
		case models.RiskHarmful:
			verdict = models.VerdictHarmful
			score += scorePerHarmful
		case models.RiskModerate:
			if verdict != models.VerdictHarmful {
				verdict = models.VerdictModerate
			}
			score += scorePerModerate
		}

		if e.Source == models.SourceOracle && e.Regulated {
			score += scorePerRegulated
		}

		if e.ChildRisk == models.ChildAvoid {
			childSafe = false
		}
		if policy.LimitIsUnsafe && e.ChildRisk == models.ChildLimit {
			childSafe = false
		}
	}

	if score > scoreMax {
		score = scoreMax
	}

	return &models.AnalysisResult{
		Ingredients:      entries,
		OverallVerdict:   verdict,
		ChildSafeOverall: childSafe,
		ProcessedScore:   score,
		SummaryText:      summaryForVerdict(verdict, lang),
	}
}

type summaryKey int

const (
	summaryHealthy summaryKey = iota
	summaryModerate
	summaryHarmful
	summaryNothingDetected
)

// Summary strings are fixed templates keyed by verdict and language, never
// generated text, so results stay testable and localizable.
var summaries = map[summaryKey]map[models.Language]string{
	summaryHealthy: {
		models.LanguageEn: "Clean product: no flagged ingredients.",
		models.LanguageZh: "成分單純，未發現需要注意的添加物。",
	},
	summaryModerate: {
		models.LanguageEn: "Some additives present: check child safety before frequent consumption.",
		models.LanguageZh: "含部分食品添加物，經常食用前請留意兒童安全。",
	},
	summaryHarmful: {
		models.LanguageEn: "Avoid: contains harmful or restricted additives.",
		models.LanguageZh: "建議避免：含有高風險或受管制的添加物。",
	},
	summaryNothingDetected: {
		models.LanguageEn: "No analyzable ingredients were detected in the input.",
		models.LanguageZh: "輸入內容中未偵測到可分析的成分。",
	},
}

func summaryForVerdict(v models.Verdict, lang models.Language) string {
	switch v {
	case models.VerdictHarmful:
		return summaryText(summaryHarmful, lang)
	case models.VerdictModerate:
		return summaryText(summaryModerate, lang)
	default:
		return summaryText(summaryHealthy, lang)
	}
}

func summaryText(key summaryKey, lang models.Language) string {
	if s, ok := summaries[key][lang]; ok {
		return s
	}
	return summaries[key][models.LanguageEn]
}
