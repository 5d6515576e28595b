package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelscan/labelscan-engine/pkg/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Aspartame", "aspartame"},
		{"  red   40  ", "red 40"},
		{"RED\t40", "red 40"},
		{"紅色40號", "紅色40號"},
		{"全角　空格", "全角 空格"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := newStore(dataset{
		Additives: []*models.AdditiveRecord{
			{
				CanonicalID: "allura-red",
				Aliases:     []string{"allura red", "red 40", "e129"},
				RiskLevel:   models.RiskHarmful,
				ChildRisk:   models.ChildAvoid,
			},
			{
				CanonicalID: "red-generic",
				Aliases:     []string{"red"},
				RiskLevel:   models.RiskModerate,
				ChildRisk:   models.ChildLimit,
			},
			{
				CanonicalID: "a-tie",
				Aliases:     []string{"tiealias1"},
				RiskLevel:   models.RiskLow,
				ChildRisk:   models.ChildSafe,
			},
			{
				CanonicalID: "b-tie",
				Aliases:     []string{"tiealias2"},
				RiskLevel:   models.RiskLow,
				ChildRisk:   models.ChildSafe,
			},
		},
		Safelist: []string{"water"},
	})
	require.NoError(t, err)
	return store
}

func TestMatch_LongestAliasWins(t *testing.T) {
	store := testStore(t)

	// "red 40" (6 chars) must beat the generic "red" (3 chars) even though
	// both are contained in the phrase.
	rec := store.Match("Red 40 Lake")
	require.NotNil(t, rec)
	assert.Equal(t, "allura-red", rec.CanonicalID)

	// A phrase containing only the short alias falls through to it.
	rec = store.Match("red coloring")
	require.NotNil(t, rec)
	assert.Equal(t, "red-generic", rec.CanonicalID)
}

func TestMatch_SubstringContainment(t *testing.T) {
	store := testStore(t)

	rec := store.Match("contains e129 colorant")
	require.NotNil(t, rec)
	assert.Equal(t, "allura-red", rec.CanonicalID)
}

func TestMatch_CaseAndWhitespaceInsensitive(t *testing.T) {
	store := testStore(t)

	rec := store.Match("  ALLURA   RED  ")
	require.NotNil(t, rec)
	assert.Equal(t, "allura-red", rec.CanonicalID)
}

func TestMatch_TieBreakSmallestCanonicalID(t *testing.T) {
	store := testStore(t)

	// Both 9-char aliases appear; the record with the lexicographically
	// smaller canonical ID must win deterministically.
	rec := store.Match("tiealias2 then tiealias1")
	require.NotNil(t, rec)
	assert.Equal(t, "a-tie", rec.CanonicalID)
}

func TestMatch_NoMatch(t *testing.T) {
	store := testStore(t)

	assert.Nil(t, store.Match("plain oats"))
	assert.Nil(t, store.Match(""))
	assert.Nil(t, store.Match("   "))
}

func TestMatch_Deterministic(t *testing.T) {
	store := testStore(t)

	first := store.Match("red 40 and red")
	for i := 0; i < 10; i++ {
		assert.Same(t, first, store.Match("red 40 and red"))
	}
}
