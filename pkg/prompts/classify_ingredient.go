// Package prompts builds the prompt pair for the fallback ingredient
// classifier. Prompt text is deterministic so classifier behavior is
// reproducible given fixed model outputs.
package prompts

import (
	"fmt"
	"strings"

	"github.com/labelscan/labelscan-engine/pkg/models"
)

// ClassifierSystemMessage pins the model to the role of a food additive
// safety assessor returning strict JSON.
const ClassifierSystemMessage = `You are a food safety assessor. You judge single food ingredients from consumer product labels.
Respond with a single JSON object and nothing else. No markdown, no explanations outside the JSON.`

// BuildClassifyIngredientPrompt creates the user prompt for classifying one
// ingredient phrase. contextText is the full original ingredient list and
// may be empty; it helps the model disambiguate truncated OCR fragments.
func BuildClassifyIngredientPrompt(phrase, contextText string, lang models.Language) string {
	var b strings.Builder

	b.WriteString("Classify this food ingredient:\n\n")
	b.WriteString(fmt.Sprintf("Ingredient: %s\n", phrase))
	if contextText != "" {
		b.WriteString(fmt.Sprintf("Full ingredient list (context): %s\n", contextText))
	}
	b.WriteString("\nReturn a JSON object with exactly these fields:\n")
	b.WriteString(`{
  "risk_level": "healthy" | "low" | "moderate" | "harmful",
  "child_risk": "safe" | "limit" | "avoid" | "unknown",
  "regulated": true | false,
  "regulatory_note": "short note on regulatory status, or empty string"
}` + "\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- \"regulated\" is true only for substances that are regulated food additives (preservatives, colorants, sweeteners, emulsifiers), not for whole foods.\n")
	b.WriteString("- Whole foods and simple agricultural ingredients are \"healthy\" with child_risk \"safe\".\n")
	b.WriteString("- If you cannot identify the ingredient, use \"moderate\" and \"unknown\".\n")
	if lang == models.LanguageZh {
		b.WriteString("- Write regulatory_note in Traditional Chinese.\n")
	} else {
		b.WriteString("- Write regulatory_note in English.\n")
	}

	return b.String()
}
