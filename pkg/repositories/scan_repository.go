// Package repositories provides data access for the scan history store.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/labelscan/labelscan-engine/pkg/apperrors"
	"github.com/labelscan/labelscan-engine/pkg/database"
	"github.com/labelscan/labelscan-engine/pkg/models"
)

// ScanRepository provides data access for persisted analyses.
type ScanRepository interface {
	Create(ctx context.Context, scan *models.ScanRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ScanRecord, error)
	List(ctx context.Context, limit int) ([]*models.ScanRecord, error)
}

type scanRepository struct {
	db *database.DB
}

// NewScanRepository creates a new ScanRepository.
func NewScanRepository(db *database.DB) ScanRepository {
	return &scanRepository{db: db}
}

var _ ScanRepository = (*scanRepository)(nil)

func (r *scanRepository) Create(ctx context.Context, scan *models.ScanRecord) error {
	if scan.ID == uuid.Nil {
		scan.ID = uuid.New()
	}
	now := time.Now()

	query := `
		INSERT INTO engine_scans (
			id, ingredient_text, barcode, language, verdict,
			child_safe, processed_score, result, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		scan.ID,
		scan.IngredientText,
		nullString(scan.Barcode),
		string(scan.Language),
		string(scan.Verdict),
		scan.ChildSafe,
		scan.ProcessedScore,
		scan.ResultJSON,
		now,
	).Scan(&scan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create scan record: %w", err)
	}

	return nil
}

func (r *scanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ScanRecord, error) {
	query := `
		SELECT id, ingredient_text, COALESCE(barcode, ''), language, verdict,
		       child_safe, processed_score, result, created_at
		FROM engine_scans
		WHERE id = $1`

	scan := &models.ScanRecord{}
	var lang, verdict string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&scan.ID,
		&scan.IngredientText,
		&scan.Barcode,
		&lang,
		&verdict,
		&scan.ChildSafe,
		&scan.ProcessedScore,
		&scan.ResultJSON,
		&scan.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan record: %w", err)
	}

	scan.Language = models.Language(lang)
	scan.Verdict = models.Verdict(verdict)
	return scan, nil
}

func (r *scanRepository) List(ctx context.Context, limit int) ([]*models.ScanRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	// The list view omits the result payload; GetByID returns it.
	query := `
		SELECT id, ingredient_text, COALESCE(barcode, ''), language, verdict,
		       child_safe, processed_score, created_at
		FROM engine_scans
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan records: %w", err)
	}
	defer rows.Close()

	var scans []*models.ScanRecord
	for rows.Next() {
		scan := &models.ScanRecord{}
		var lang, verdict string
		if err := rows.Scan(
			&scan.ID,
			&scan.IngredientText,
			&scan.Barcode,
			&lang,
			&verdict,
			&scan.ChildSafe,
			&scan.ProcessedScore,
			&scan.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		scan.Language = models.Language(lang)
		scan.Verdict = models.Verdict(verdict)
		scans = append(scans, scan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scan records: %w", err)
	}

	return scans, nil
}

// nullString maps empty strings to NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
