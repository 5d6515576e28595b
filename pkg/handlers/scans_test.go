package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/labelscan/labelscan-engine/pkg/models"
)

func scansMux(repo *stubScans) *http.ServeMux {
	var handler *ScansHandler
	if repo == nil {
		handler = NewScansHandler(nil, zap.NewNop())
	} else {
		handler = NewScansHandler(repo, zap.NewNop())
	}
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux
}

func seededScans(t *testing.T, n int) *stubScans {
	t.Helper()
	repo := &stubScans{}
	for i := 0; i < n; i++ {
		err := repo.Create(t.Context(), &models.ScanRecord{
			IngredientText: "water",
			Language:       models.LanguageEn,
			Verdict:        models.VerdictHealthy,
			ChildSafe:      true,
			ProcessedScore: 1,
		})
		require.NoError(t, err)
	}
	return repo
}

func TestScansList(t *testing.T) {
	mux := scansMux(seededScans(t, 3))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scans", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ScanListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Scans, 3)
}

func TestScansList_LimitParam(t *testing.T) {
	mux := scansMux(seededScans(t, 5))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scans?limit=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ScanListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Scans, 2)
}

func TestScansList_InvalidLimit(t *testing.T) {
	mux := scansMux(seededScans(t, 1))

	for _, limit := range []string{"abc", "0", "-5"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scans?limit="+limit, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
		assert.Equal(t, "invalid_limit", errorCode(t, rec))
	}
}

func TestScansList_HistoryDisabled(t *testing.T) {
	mux := scansMux(nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scans", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "history_disabled", errorCode(t, rec))
}

func TestScansGet(t *testing.T) {
	repo := seededScans(t, 1)
	mux := scansMux(repo)
	id := repo.created[0].ID

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+id.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var scan models.ScanRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scan))
	assert.Equal(t, id, scan.ID)
	assert.Equal(t, "water", scan.IngredientText)
}

func TestScansGet_NotFound(t *testing.T) {
	mux := scansMux(seededScans(t, 1))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}

func TestScansGet_InvalidID(t *testing.T) {
	mux := scansMux(seededScans(t, 1))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scans/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_id", errorCode(t, rec))
}

func TestScansGet_HistoryDisabled(t *testing.T) {
	mux := scansMux(nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "history_disabled", errorCode(t, rec))
}
