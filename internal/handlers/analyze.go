package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	logpkg "github.com/benvon/virality-checker/internal/logger"
	"github.com/benvon/virality-checker/internal/models"
	"github.com/benvon/virality-checker/internal/request"
	"github.com/benvon/virality-checker/internal/services/ai"
	"github.com/benvon/virality-checker/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AnalyzeHandler relays post analyses to the LLM provider
type AnalyzeHandler struct {
	provider ai.AIProvider
	logger   *zap.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(provider ai.AIProvider, logger *zap.Logger) *AnalyzeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeHandler{provider: provider, logger: logger}
}

// RegisterRoutes registers the analyze endpoint and its /api alias
func (h *AnalyzeHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/analyze", h.Analyze).Methods(http.MethodPost)
	r.HandleFunc("/api/analyze", h.Analyze).Methods(http.MethodPost)
}

// Analyze handles POST /analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	requestID := request.RequestIDFromContext(r.Context())

	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondJSONError(w, http.StatusRequestEntityTooLarge, models.CodeInvalidRequest, "Request body too large")
			return
		}
		respondJSONError(w, http.StatusBadRequest, models.CodeInvalidRequest, "Invalid request body")
		return
	}

	if err := validation.ValidateAnalysisRequest(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}
	req.Bio = validation.SanitizeText(req.BioText())
	req.UserBio = ""

	start := time.Now()
	result, err := h.provider.AnalyzePost(r.Context(), &req)
	if err != nil {
		status, code, message := mapProviderError(err)
		h.logger.Warn("analysis_failed",
			zap.String("code", code),
			zap.Int("status_code", status),
			zap.String("error", logpkg.SanitizeError(err)),
			zap.String("content_hash", ai.HashContent(req.Content)),
			zap.String("request_id", requestID),
		)
		respondJSONError(w, status, code, message)
		return
	}

	h.logger.Info("analysis_completed",
		zap.Int("overall_score", int(result.OverallScore)),
		zap.String("rating", string(result.Rating)),
		zap.Bool("has_follower_count", req.FollowerCount != nil),
		zap.String("content_hash", ai.HashContent(req.Content)),
		zap.Int64("latency_ms", time.Since(start).Milliseconds()),
		zap.String("request_id", requestID),
	)

	respondJSON(w, http.StatusOK, models.AnalyzeResponse{Success: true, Analysis: result})
}

// mapProviderError picks the HTTP status, error code and client message for a provider failure.
// Upstream statuses pass through so the host can tell auth, quota and rate-limit failures apart.
func mapProviderError(err error) (int, string, string) {
	var upstreamErr *ai.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		code := models.CodeUpstreamError
		switch upstreamErr.Kind {
		case ai.UpstreamAuth:
			code = models.CodeUpstreamAuth
		case ai.UpstreamRateLimited:
			code = models.CodeUpstreamRateLimited
		case ai.UpstreamQuota:
			code = models.CodeUpstreamQuota
		}
		status := upstreamErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, code, upstreamErr.Message
	case errors.Is(err, ai.ErrUnexpectedEnvelope):
		return http.StatusInternalServerError, models.CodeResponseShape, ai.ErrUnexpectedEnvelope.Error()
	case errors.Is(err, ai.ErrInvalidAnalysisJSON):
		return http.StatusInternalServerError, models.CodeResponseShape, ai.ErrInvalidAnalysisJSON.Error()
	case errors.Is(err, ai.ErrUpstreamUnavailable):
		return http.StatusBadGateway, models.CodeUpstreamUnavailable, "LLM API is unreachable"
	default:
		return http.StatusInternalServerError, models.CodeInternal, "Internal server error"
	}
}
