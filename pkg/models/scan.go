package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanRecord is one persisted analysis, stored when a history database is
// configured. ResultJSON holds the full serialized AnalysisResult so the
// history endpoint can replay a scan without re-running the engine.
type ScanRecord struct {
	ID             uuid.UUID `json:"id"`
	IngredientText string    `json:"ingredient_text"`
	Barcode        string    `json:"barcode,omitempty"`
	Language       Language  `json:"language"`
	Verdict        Verdict   `json:"verdict"`
	ChildSafe      bool      `json:"child_safe"`
	ProcessedScore int       `json:"processed_score"`
	ResultJSON     []byte    `json:"result,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
