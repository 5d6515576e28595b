// Package oracle defines the external classification collaborator the risk
// resolver falls back to when the knowledge base has no match, and its
// LLM-backed implementation.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/labelscan/labelscan-engine/pkg/jsonutil"
	"github.com/labelscan/labelscan-engine/pkg/llm"
	"github.com/labelscan/labelscan-engine/pkg/models"
	"github.com/labelscan/labelscan-engine/pkg/prompts"
	"github.com/labelscan/labelscan-engine/pkg/retry"
)

// ClassifierOracle is the injected capability the resolver depends on.
// Implementations give a best-effort structured judgment for one ingredient
// phrase. Any error degrades the phrase to the default entry; it never
// fails the surrounding analysis.
type ClassifierOracle interface {
	Classify(ctx context.Context, phrase, contextText string, lang models.Language) (*models.Classification, error)
}

// classifyPayload is the wire shape demanded from the model. RawMessage
// fields tolerate models returning numbers or booleans where strings are
// expected.
type classifyPayload struct {
	RiskLevel      json.RawMessage `json:"risk_level"`
	ChildRisk      json.RawMessage `json:"child_risk"`
	Regulated      json.RawMessage `json:"regulated"`
	RegulatoryNote json.RawMessage `json:"regulatory_note"`
}

// LLMOracle classifies ingredients with a chat model behind a circuit
// breaker. Consecutive transport failures trip the breaker so a dead
// endpoint degrades whole scans immediately instead of timing out phrase
// by phrase.
type LLMOracle struct {
	client      llm.ChatClient
	breaker     *llm.CircuitBreaker
	retryCfg    *retry.Config
	temperature float64
	logger      *zap.Logger
}

// NewLLMOracle creates an LLM-backed classifier oracle.
func NewLLMOracle(client llm.ChatClient, logger *zap.Logger) *LLMOracle {
	return &LLMOracle{
		client:      client,
		breaker:     llm.NewCircuitBreaker(llm.DefaultCircuitBreakerConfig()),
		retryCfg:    retry.OracleConfig(),
		temperature: 0.0,
		logger:      logger.Named("oracle"),
	}
}

var _ ClassifierOracle = (*LLMOracle)(nil)

// Classify asks the model for a structured judgment on one phrase.
func (o *LLMOracle) Classify(ctx context.Context, phrase, contextText string, lang models.Language) (*models.Classification, error) {
	if allowed, err := o.breaker.Allow(); !allowed {
		return nil, err
	}

	prompt := prompts.BuildClassifyIngredientPrompt(phrase, contextText, lang)

	var response string
	err := retry.DoIfRetryable(ctx, o.retryCfg, func() error {
		var genErr error
		response, genErr = o.client.GenerateResponse(ctx, prompt, prompts.ClassifierSystemMessage, o.temperature)
		return genErr
	})
	if err != nil {
		o.breaker.RecordFailure()
		o.logger.Warn("Classifier call failed",
			zap.String("phrase", phrase),
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Error(err))
		return nil, fmt.Errorf("classify %q: %w", phrase, err)
	}
	o.breaker.RecordSuccess()

	cls, err := parseClassification(response)
	if err != nil {
		// A malformed payload is a model quality problem, not an endpoint
		// outage. It does not count against the breaker.
		o.logger.Warn("Classifier returned unparsable payload",
			zap.String("phrase", phrase),
			zap.Error(err))
		return nil, err
	}

	return cls, nil
}

// parseClassification extracts and validates the model's JSON judgment.
func parseClassification(response string) (*models.Classification, error) {
	payload, err := llm.ParseJSONResponse[classifyPayload](response)
	if err != nil {
		return nil, err
	}

	risk := models.RiskLevel(jsonutil.FlexibleStringValue(payload.RiskLevel))
	if !risk.Valid() {
		return nil, fmt.Errorf("invalid risk_level %q in classifier response", risk)
	}

	child := models.ChildRisk(jsonutil.FlexibleStringValue(payload.ChildRisk))
	if !child.Valid() {
		child = models.ChildUnknown
	}

	return &models.Classification{
		RiskLevel:      risk,
		ChildRisk:      child,
		Regulated:      jsonutil.FlexibleBoolValue(payload.Regulated),
		RegulatoryNote: jsonutil.FlexibleStringValue(payload.RegulatoryNote),
	}, nil
}
