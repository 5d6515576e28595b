package oracle

import (
	"context"
	"sync"

	"github.com/labelscan/labelscan-engine/pkg/models"
)

// MockOracle is a deterministic ClassifierOracle for tests. Judgments are
// keyed by exact phrase; unkeyed phrases get Err (if set) or Default.
type MockOracle struct {
	mu sync.Mutex

	// Judgments maps phrase to its canned classification.
	Judgments map[string]*models.Classification

	// Default is returned for phrases without a canned judgment when Err
	// is nil.
	Default *models.Classification

	// Err, when set, is returned for phrases without a canned judgment.
	Err error

	// Calls records every classified phrase in call order.
	Calls []string
}

// NewMockOracle creates an empty mock.
func NewMockOracle() *MockOracle {
	return &MockOracle{
		Judgments: make(map[string]*models.Classification),
	}
}

// Classify implements ClassifierOracle.
func (m *MockOracle) Classify(ctx context.Context, phrase, contextText string, lang models.Language) (*models.Classification, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, phrase)
	m.mu.Unlock()

	if cls, ok := m.Judgments[phrase]; ok {
		return cls, nil
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Default != nil {
		return m.Default, nil
	}
	return &models.Classification{
		RiskLevel: models.RiskModerate,
		ChildRisk: models.ChildUnknown,
	}, nil
}

var _ ClassifierOracle = (*MockOracle)(nil)
