// Package kb holds the additive knowledge base: a static registry of
// additive identities, risk metadata, and multilingual aliases, plus the
// alias matcher that resolves free-text ingredient phrases against it.
package kb

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/labelscan/labelscan-engine/pkg/apperrors"
	"github.com/labelscan/labelscan-engine/pkg/models"
)

// Store is the loaded, validated knowledge base. It is immutable after
// Load returns and is shared by all concurrent analyses without locking.
type Store struct {
	records  []*models.AdditiveRecord
	byID     map[string]*models.AdditiveRecord
	aliases  []aliasEntry
	safelist map[string]struct{}
}

// aliasEntry pairs a normalized alias with its owning record.
type aliasEntry struct {
	alias  string
	record *models.AdditiveRecord
}

// dataset is the on-disk shape of the KB file produced by the build-kb tool.
type dataset struct {
	Additives []*models.AdditiveRecord `json:"additives"`
	// Safelist holds whole-food terms that resolve to a healthy entry
	// without consulting the oracle (water, salt, rice bran, ...).
	Safelist []string `json:"safelist"`
}

// Load builds a Store from the embedded dataset, or from the file at path
// when path is non-empty. Validation failures are fatal: serving requests
// against an inconsistent KB would silently mis-rank risk.
func Load(path string, logger *zap.Logger) (*Store, error) {
	raw := embeddedKB
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read KB file %s: %w", path, err)
		}
		raw = b
	}

	var ds dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("%w: parse dataset: %v", apperrors.ErrMalformedKB, err)
	}

	store, err := newStore(ds)
	if err != nil {
		return nil, err
	}

	logger.Info("Knowledge base loaded",
		zap.Int("additives", len(store.records)),
		zap.Int("aliases", len(store.aliases)),
		zap.Int("safelist_terms", len(store.safelist)),
		zap.Bool("embedded", path == ""))
	return store, nil
}

// newStore validates the dataset and builds the alias index.
// Invariants enforced here: unique canonical IDs, per-record field validity,
// and no alias owned by two records.
func newStore(ds dataset) (*Store, error) {
	s := &Store{
		byID:     make(map[string]*models.AdditiveRecord, len(ds.Additives)),
		safelist: make(map[string]struct{}, len(ds.Safelist)),
	}

	aliasOwner := make(map[string]*models.AdditiveRecord)
	for _, rec := range ds.Additives {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedKB, err)
		}
		if _, dup := s.byID[rec.CanonicalID]; dup {
			return nil, fmt.Errorf("%w: duplicate canonical_id %q", apperrors.ErrMalformedKB, rec.CanonicalID)
		}
		s.byID[rec.CanonicalID] = rec
		s.records = append(s.records, rec)

		for _, alias := range rec.Aliases {
			norm := Normalize(alias)
			if norm == "" {
				return nil, fmt.Errorf("%w: additive %q has empty alias", apperrors.ErrMalformedKB, rec.CanonicalID)
			}
			if norm != alias {
				return nil, fmt.Errorf("%w: additive %q alias %q is not normalized", apperrors.ErrMalformedKB, rec.CanonicalID, alias)
			}
			if owner, taken := aliasOwner[norm]; taken && owner != rec {
				return nil, fmt.Errorf("%w: alias %q claimed by both %q and %q",
					apperrors.ErrMalformedKB, norm, owner.CanonicalID, rec.CanonicalID)
			}
			aliasOwner[norm] = rec
			s.aliases = append(s.aliases, aliasEntry{alias: norm, record: rec})
		}
	}

	// Order the index so a linear scan's first containment hit is the
	// winner: longest alias first, canonical ID as the deterministic
	// tie-break.
	sort.Slice(s.aliases, func(i, j int) bool {
		a, b := s.aliases[i], s.aliases[j]
		if len(a.alias) != len(b.alias) {
			return len(a.alias) > len(b.alias)
		}
		if a.record.CanonicalID != b.record.CanonicalID {
			return a.record.CanonicalID < b.record.CanonicalID
		}
		return a.alias < b.alias
	})

	for _, term := range ds.Safelist {
		norm := Normalize(term)
		if norm == "" {
			return nil, fmt.Errorf("%w: empty safelist term", apperrors.ErrMalformedKB)
		}
		s.safelist[norm] = struct{}{}
	}

	return s, nil
}

// Get returns the record for a canonical ID, or nil.
func (s *Store) Get(canonicalID string) *models.AdditiveRecord {
	return s.byID[canonicalID]
}

// Records returns all records in load order.
func (s *Store) Records() []*models.AdditiveRecord {
	return s.records
}

// Len returns the number of additive records.
func (s *Store) Len() int {
	return len(s.records)
}

// Safelisted reports whether the phrase, normalized, is a known whole-food
// term that needs no risk lookup.
func (s *Store) Safelisted(phrase string) bool {
	_, ok := s.safelist[Normalize(phrase)]
	return ok
}
