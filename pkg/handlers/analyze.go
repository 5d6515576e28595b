package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/labelscan/labelscan-engine/pkg/analysis"
	"github.com/labelscan/labelscan-engine/pkg/apperrors"
	"github.com/labelscan/labelscan-engine/pkg/models"
	"github.com/labelscan/labelscan-engine/pkg/repositories"
)

// ProductResolver resolves a barcode to ingredient text. Satisfied by
// product.Client; injected as an interface so handler tests can stub it.
type ProductResolver interface {
	ResolveIngredients(ctx context.Context, barcode string, lang models.Language) (string, error)
}

// AnalyzeResponse wraps the engine result with the persisted scan ID when
// history is enabled.
type AnalyzeResponse struct {
	*models.AnalysisResult
	ScanID string `json:"scan_id,omitempty"`
}

// AnalyzeHandler exposes the risk resolution engine over HTTP.
type AnalyzeHandler struct {
	resolver *analysis.Resolver
	products ProductResolver             // nil disables barcode resolution
	scans    repositories.ScanRepository // nil disables history
	logger   *zap.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler. products and scans may
// be nil when the corresponding collaborator is not configured.
func NewAnalyzeHandler(
	resolver *analysis.Resolver,
	products ProductResolver,
	scans repositories.ScanRepository,
	logger *zap.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		resolver: resolver,
		products: products,
		scans:    scans,
		logger:   logger.Named("analyze"),
	}
}

// RegisterRoutes registers the analyze route on the given mux.
func (h *AnalyzeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/analyze", h.Analyze)
}

// Analyze handles POST /api/v1/analyze.
// A scan that cannot be analyzed returns a structured error with a
// locale-appropriate message; it never panics the caller.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analysis.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	lang := req.Language.Normalize()

	if req.IngredientText == "" && req.Barcode == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "no_input", localized(lang,
			"no ingredient text or barcode was supplied",
			"未提供成分文字或條碼"))
		return
	}

	// Barcode is resolved to ingredient text before the engine sees the
	// request; the resolver itself never does product lookups.
	if req.IngredientText == "" && req.Barcode != "" {
		if h.products == nil {
			_ = ErrorResponse(w, http.StatusNotImplemented, "barcode_unsupported", localized(lang,
				"barcode lookup is not configured on this server",
				"此伺服器未設定條碼查詢"))
			return
		}
		text, err := h.products.ResolveIngredients(r.Context(), req.Barcode, lang)
		if errors.Is(err, apperrors.ErrProductNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "product_not_found", localized(lang,
				"no product found for this barcode",
				"找不到此條碼對應的產品"))
			return
		}
		if err != nil {
			h.logger.Error("Barcode resolution failed",
				zap.String("barcode", req.Barcode),
				zap.Error(err))
			_ = ErrorResponse(w, http.StatusBadGateway, "product_lookup_failed", localized(lang,
				"product lookup service is unavailable, try again later",
				"產品查詢服務暫時無法使用，請稍後再試"))
			return
		}
		req.IngredientText = text
	}

	result, err := h.resolver.Analyze(r.Context(), req)
	if errors.Is(err, apperrors.ErrNoInput) {
		_ = ErrorResponse(w, http.StatusBadRequest, "no_input", localized(lang,
			"no ingredient text or barcode was supplied",
			"未提供成分文字或條碼"))
		return
	}
	if err != nil {
		h.logger.Error("Analysis failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "analysis_failed", localized(lang,
			"analysis failed, try again later",
			"分析失敗，請稍後再試"))
		return
	}

	resp := AnalyzeResponse{AnalysisResult: result}
	if id, ok := h.persist(r.Context(), &req, result); ok {
		resp.ScanID = id.String()
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode analyze response", zap.Error(err))
	}
}

// persist stores the scan when history is enabled. Persistence failures
// are logged and swallowed; the analysis already succeeded.
func (h *AnalyzeHandler) persist(ctx context.Context, req *analysis.AnalyzeRequest, result *models.AnalysisResult) (uuid.UUID, bool) {
	if h.scans == nil {
		return uuid.Nil, false
	}

	payload, err := json.Marshal(result)
	if err != nil {
		h.logger.Error("Failed to marshal result for history", zap.Error(err))
		return uuid.Nil, false
	}

	scan := &models.ScanRecord{
		IngredientText: req.IngredientText,
		Barcode:        req.Barcode,
		Language:       req.Language.Normalize(),
		Verdict:        result.OverallVerdict,
		ChildSafe:      result.ChildSafeOverall,
		ProcessedScore: result.ProcessedScore,
		ResultJSON:     payload,
	}
	if err := h.scans.Create(ctx, scan); err != nil {
		h.logger.Error("Failed to persist scan", zap.Error(err))
		return uuid.Nil, false
	}
	return scan.ID, true
}

// localized picks the message for the request language.
func localized(lang models.Language, en, zh string) string {
	if lang == models.LanguageZh {
		return zh
	}
	return en
}
