package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/labelscan/labelscan-engine/pkg/apperrors"
	"github.com/labelscan/labelscan-engine/pkg/models"
	"github.com/labelscan/labelscan-engine/pkg/repositories"
)

// ScanListResponse wraps the scan list for the frontend.
type ScanListResponse struct {
	Scans []*models.ScanRecord `json:"scans"`
}

// ScansHandler serves the persisted scan history.
type ScansHandler struct {
	scans  repositories.ScanRepository // nil when no database is configured
	logger *zap.Logger
}

// NewScansHandler creates a new ScansHandler.
func NewScansHandler(scans repositories.ScanRepository, logger *zap.Logger) *ScansHandler {
	return &ScansHandler{scans: scans, logger: logger.Named("scans")}
}

// RegisterRoutes registers the scan history routes on the given mux.
func (h *ScansHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/scans", h.List)
	mux.HandleFunc("GET /api/v1/scans/{id}", h.Get)
}

// List handles GET /api/v1/scans?limit=N.
func (h *ScansHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.scans == nil {
		_ = ErrorResponse(w, http.StatusNotFound, "history_disabled", "scan history is not configured")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	scans, err := h.scans.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list scans", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "list_failed", "failed to list scan history")
		return
	}
	if scans == nil {
		scans = []*models.ScanRecord{}
	}

	if err := WriteJSON(w, http.StatusOK, ScanListResponse{Scans: scans}); err != nil {
		h.logger.Error("Failed to encode scan list", zap.Error(err))
	}
}

// Get handles GET /api/v1/scans/{id}.
func (h *ScansHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.scans == nil {
		_ = ErrorResponse(w, http.StatusNotFound, "history_disabled", "scan history is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_id", "scan id must be a UUID")
		return
	}

	scan, err := h.scans.GetByID(r.Context(), id)
	if errors.Is(err, apperrors.ErrNotFound) {
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "scan not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to get scan", zap.String("id", id.String()), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "get_failed", "failed to load scan")
		return
	}

	if err := WriteJSON(w, http.StatusOK, scan); err != nil {
		h.logger.Error("Failed to encode scan", zap.Error(err))
	}
}
