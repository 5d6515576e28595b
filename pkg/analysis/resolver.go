package analysis

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/labelscan/labelscan-engine/pkg/apperrors"
	"github.com/labelscan/labelscan-engine/pkg/kb"
	"github.com/labelscan/labelscan-engine/pkg/llm"
	"github.com/labelscan/labelscan-engine/pkg/models"
	"github.com/labelscan/labelscan-engine/pkg/oracle"
)

// DefaultOracleTimeout bounds a single phrase's classifier call.
const DefaultOracleTimeout = 10 * time.Second

// AnalyzeRequest is the engine's inbound contract. The handler resolves a
// barcode to ingredient text before this reaches the resolver; the engine
// itself only ever sees text.
type AnalyzeRequest struct {
	IngredientText string          `json:"ingredient_text,omitempty"`
	Barcode        string          `json:"barcode,omitempty"`
	Language       models.Language `json:"language"`
}

// ResolverConfig tunes resolver behavior.
type ResolverConfig struct {
	// OracleTimeout is the per-phrase classifier deadline. One slow phrase
	// must not stall the rest of the scan.
	OracleTimeout time.Duration
}

// Resolver orchestrates tokenizer, alias matcher, and classifier oracle to
// produce a resolved ingredient table with an aggregated verdict. It holds
// no per-request state; concurrent Analyze calls are safe.
type Resolver struct {
	kb      *kb.Store
	oracle  oracle.ClassifierOracle
	pool    *llm.WorkerPool
	timeout time.Duration
	policy  Policy
	logger  *zap.Logger
}

// NewResolver creates a resolver. oracle may be nil, in which case
// unmatched phrases go straight to the default entry.
func NewResolver(
	store *kb.Store,
	clsOracle oracle.ClassifierOracle,
	pool *llm.WorkerPool,
	cfg ResolverConfig,
	policy Policy,
	logger *zap.Logger,
) *Resolver {
	timeout := cfg.OracleTimeout
	if timeout <= 0 {
		timeout = DefaultOracleTimeout
	}
	return &Resolver{
		kb:      store,
		oracle:  clsOracle,
		pool:    pool,
		timeout: timeout,
		policy:  policy,
		logger:  logger.Named("resolver"),
	}
}

// Analyze resolves an ingredient list into a risk-annotated table plus an
// aggregated verdict. The only hard error is total absence of usable input;
// everything else degrades per entry.
func (r *Resolver) Analyze(ctx context.Context, req AnalyzeRequest) (*models.AnalysisResult, error) {
	text := strings.TrimSpace(req.IngredientText)
	if text == "" {
		return nil, apperrors.ErrNoInput
	}
	lang := req.Language.Normalize()

	phrases := SplitIngredients(text)
	entries := make([]models.IngredientEntry, len(phrases))

	// First pass: KB and safelist hits are resolved synchronously, they
	// cost nothing. Unmatched phrases queue for the oracle.
	var pending []llm.WorkItem[*models.Classification]
	for i, phrase := range phrases {
		if rec := r.kb.Match(phrase); rec != nil {
			entries[i] = entryFromRecord(phrase, rec, lang)
			continue
		}
		if r.kb.Safelisted(phrase) {
			entries[i] = models.IngredientEntry{
				RawText:    phrase,
				RiskLevel:  models.RiskHealthy,
				ChildRisk:  models.ChildSafe,
				BadgeColor: models.BadgeForRisk(models.RiskHealthy),
				Source:     models.SourceSafelist,
			}
			continue
		}

		entries[i] = defaultEntry(phrase, lang)
		if r.oracle == nil {
			continue
		}
		p := phrase
		pending = append(pending, llm.WorkItem[*models.Classification]{
			Index: i,
			Execute: func(itemCtx context.Context) (*models.Classification, error) {
				callCtx, cancel := context.WithTimeout(itemCtx, r.timeout)
				defer cancel()
				return r.oracle.Classify(callCtx, p, text, lang)
			},
		})
	}

	// Second pass: fan the unmatched phrases out to the classifier with
	// bounded parallelism. Failures leave the default entry in place; the
	// entries slice keeps input order no matter the completion order.
	if len(pending) > 0 {
		for _, res := range llm.Process(ctx, r.pool, pending) {
			if res.Err != nil {
				r.logger.Debug("Oracle lookup degraded to default entry",
					zap.String("phrase", entries[res.Index].RawText),
					zap.Error(res.Err))
				continue
			}
			entries[res.Index] = entryFromClassification(entries[res.Index].RawText, res.Result)
		}
	}

	result := Aggregate(entries, lang, r.policy)

	r.logger.Info("Analysis completed",
		zap.Int("phrases", len(phrases)),
		zap.Int("oracle_lookups", len(pending)),
		zap.String("verdict", string(result.OverallVerdict)),
		zap.Int("processed_score", result.ProcessedScore))
	return result, nil
}

// entryFromRecord copies risk fields from a matched KB record.
func entryFromRecord(phrase string, rec *models.AdditiveRecord, lang models.Language) models.IngredientEntry {
	return models.IngredientEntry{
		RawText:        phrase,
		CanonicalID:    rec.CanonicalID,
		MatchedRecord:  rec,
		RiskLevel:      rec.RiskLevel,
		ChildRisk:      rec.ChildRisk,
		BadgeColor:     models.BadgeForRisk(rec.RiskLevel),
		RegulatoryNote: rec.RegulatoryNote(lang),
		Source:         models.SourceKB,
	}
}

// entryFromClassification builds an entry from the oracle's judgment.
func entryFromClassification(phrase string, cls *models.Classification) models.IngredientEntry {
	return models.IngredientEntry{
		RawText:        phrase,
		RiskLevel:      cls.RiskLevel,
		ChildRisk:      cls.ChildRisk,
		BadgeColor:     models.BadgeForRisk(cls.RiskLevel),
		RegulatoryNote: cls.RegulatoryNote,
		Source:         models.SourceOracle,
		Regulated:      cls.Regulated,
	}
}

// defaultEntry is the conservative fallback when neither the KB nor the
// oracle yields a judgment: moderate risk, unknown child risk, gray badge.
func defaultEntry(phrase string, lang models.Language) models.IngredientEntry {
	note := "no data"
	if lang == models.LanguageZh {
		note = "暫無資料"
	}
	return models.IngredientEntry{
		RawText:        phrase,
		RiskLevel:      models.RiskModerate,
		ChildRisk:      models.ChildUnknown,
		BadgeColor:     models.BadgeGray,
		RegulatoryNote: note,
		Source:         models.SourceDefault,
	}
}
