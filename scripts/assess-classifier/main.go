// assess-classifier measures how well the fallback classifier oracle agrees
// with the curated knowledge base. Every KB additive is hidden from the
// matcher and sent to the oracle as if it were an unknown phrase; the
// oracle's risk_level and child_risk are scored against the KB ground truth,
// and an Anthropic judge grades whether the generated regulatory note is
// factually reasonable.
//
// A risk agreement near 100% means the oracle can be trusted on additives
// the KB has not cataloged yet.
//
// Usage: go run ./scripts/assess-classifier [-limit N] [-lang en|zh]
//
// Requires: ORACLE_ENDPOINT, ORACLE_MODEL (ORACLE_API_KEY optional for
// local endpoints), ANTHROPIC_API_KEY for note grading.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/labelscan/labelscan-engine/pkg/kb"
	"github.com/labelscan/labelscan-engine/pkg/llm"
	"github.com/labelscan/labelscan-engine/pkg/models"
	"github.com/labelscan/labelscan-engine/pkg/oracle"
)

const judgeModel = "claude-sonnet-4-5-20250929"

// AssessmentResult is the full report printed to stdout.
type AssessmentResult struct {
	OracleEndpoint     string            `json:"oracle_endpoint"`
	OracleModel        string            `json:"oracle_model"`
	AdditivesAssessed  int               `json:"additives_assessed"`
	OracleErrors       int               `json:"oracle_errors"`
	RiskLevelMatches   int               `json:"risk_level_matches"`
	ChildRiskMatches   int               `json:"child_risk_matches"`
	RiskLevelAgreement float64           `json:"risk_level_agreement"`
	ChildRiskAgreement float64           `json:"child_risk_agreement"`
	AvgNoteScore       float64           `json:"avg_note_score"`
	Results            []AdditiveVerdict `json:"results"`
}

// AdditiveVerdict is one additive's comparison.
type AdditiveVerdict struct {
	CanonicalID   string           `json:"canonical_id"`
	Phrase        string           `json:"phrase"`
	ExpectedRisk  models.RiskLevel `json:"expected_risk"`
	GotRisk       models.RiskLevel `json:"got_risk,omitempty"`
	ExpectedChild models.ChildRisk `json:"expected_child"`
	GotChild      models.ChildRisk `json:"got_child,omitempty"`
	RiskMatch     bool             `json:"risk_match"`
	ChildMatch    bool             `json:"child_match"`
	NoteScore     int              `json:"note_score"` // 0-100, judged
	NoteJudgment  string           `json:"note_judgment,omitempty"`
	OracleError   string           `json:"oracle_error,omitempty"`
}

func main() {
	limit := flag.Int("limit", 0, "assess at most N additives (0 = all)")
	langFlag := flag.String("lang", "en", "classification language (en or zh)")
	flag.Parse()

	endpoint := os.Getenv("ORACLE_ENDPOINT")
	model := os.Getenv("ORACLE_MODEL")
	if endpoint == "" || model == "" {
		fmt.Fprintln(os.Stderr, "ORACLE_ENDPOINT and ORACLE_MODEL environment variables required")
		os.Exit(1)
	}

	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	if anthropicKey == "" {
		fmt.Fprintln(os.Stderr, "ANTHROPIC_API_KEY environment variable required")
		os.Exit(1)
	}

	lang := models.Language(*langFlag).Normalize()

	logger := zap.NewNop()
	store, err := kb.Load("", logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load knowledge base: %v\n", err)
		os.Exit(1)
	}

	chatClient, err := llm.NewClient(&llm.Config{
		Endpoint: endpoint,
		Model:    model,
		APIKey:   os.Getenv("ORACLE_API_KEY"),
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create oracle client: %v\n", err)
		os.Exit(1)
	}
	clsOracle := oracle.NewLLMOracle(chatClient, logger)

	judge := anthropic.NewClient(anthropicKey)
	ctx := context.Background()

	records := store.Records()
	if *limit > 0 && *limit < len(records) {
		records = records[:*limit]
	}

	result := AssessmentResult{
		OracleEndpoint: endpoint,
		OracleModel:    model,
	}

	var noteScoreSum int
	var noteScoreCount int

	for _, rec := range records {
		phrase := rec.DisplayName(lang)
		fmt.Fprintf(os.Stderr, "Classifying %s (%q)...\n", rec.CanonicalID, phrase)

		verdict := AdditiveVerdict{
			CanonicalID:   rec.CanonicalID,
			Phrase:        phrase,
			ExpectedRisk:  rec.RiskLevel,
			ExpectedChild: rec.ChildRisk,
		}

		cls, err := clsOracle.Classify(ctx, phrase, "", lang)
		if err != nil {
			verdict.OracleError = err.Error()
			result.OracleErrors++
			result.Results = append(result.Results, verdict)
			continue
		}

		verdict.GotRisk = cls.RiskLevel
		verdict.GotChild = cls.ChildRisk
		verdict.RiskMatch = cls.RiskLevel == rec.RiskLevel
		verdict.ChildMatch = cls.ChildRisk == rec.ChildRisk
		if verdict.RiskMatch {
			result.RiskLevelMatches++
		}
		if verdict.ChildMatch {
			result.ChildRiskMatches++
		}

		if cls.RegulatoryNote != "" {
			score, judgment := judgeNote(ctx, judge, rec, cls.RegulatoryNote, lang)
			verdict.NoteScore = score
			verdict.NoteJudgment = judgment
			noteScoreSum += score
			noteScoreCount++
		}

		result.Results = append(result.Results, verdict)
	}

	result.AdditivesAssessed = len(records)
	assessed := len(records) - result.OracleErrors
	if assessed > 0 {
		result.RiskLevelAgreement = float64(result.RiskLevelMatches) / float64(assessed) * 100
		result.ChildRiskAgreement = float64(result.ChildRiskMatches) / float64(assessed) * 100
	}
	if noteScoreCount > 0 {
		result.AvgNoteScore = float64(noteScoreSum) / float64(noteScoreCount)
	}

	output, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(output))
}

// judgeNote asks the Anthropic judge whether the oracle's regulatory note is
// factually reasonable for the additive, scored against the curated note.
func judgeNote(ctx context.Context, client *anthropic.Client, rec *models.AdditiveRecord, note string, lang models.Language) (int, string) {
	curated := rec.RegulatoryNote(lang)

	prompt := fmt.Sprintf(`You are grading a food-additive classifier's regulatory note for accuracy.

## ADDITIVE
%s (%s)

## CURATED REGULATORY NOTE (ground truth, Taiwan FDA)
%s

## CLASSIFIER'S NOTE (being graded)
%s

## GRADING TASK
Score 0-100 how factually consistent the classifier's note is with the
curated one. Penalize fabricated approvals, bans, or limits the curated
note does not support. Do not penalize wording or length differences.

Return JSON:
{
  "score": 0-100,
  "judgment": "one sentence explaining the score"
}

Return ONLY the JSON object, no other text.`, rec.DisplayNameEn, rec.CanonicalID, curated, note)

	resp, err := client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     judgeModel,
		MaxTokens: 500,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		return 0, fmt.Sprintf("judge failed: %v", err)
	}

	responseText := ""
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			responseText = *block.Text
			break
		}
	}

	var graded struct {
		Score    int    `json:"score"`
		Judgment string `json:"judgment"`
	}
	responseText = extractJSON(responseText)
	if err := json.Unmarshal([]byte(responseText), &graded); err != nil {
		return 0, fmt.Sprintf("parse error: %v", err)
	}
	return graded.Score, graded.Judgment
}

func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
