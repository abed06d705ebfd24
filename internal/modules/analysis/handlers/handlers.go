// Package handlers provides HTTP handlers for analysis runs.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/analysis"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/fx"
)

// FundamentalsProvider fetches the full analysis input for a ticker.
type FundamentalsProvider interface {
	GetFundamentals(ctx context.Context, symbol string) (*domain.Fundamentals, error)
}

// Handler handles analysis HTTP requests
type Handler struct {
	service  *analysis.Service
	provider FundamentalsProvider
	log      zerolog.Logger
}

// NewHandler creates a new analysis handler.
// provider is optional - if nil, requests must carry their own fundamentals.
func NewHandler(service *analysis.Service, provider FundamentalsProvider, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		provider: provider,
		log:      log.With().Str("handler", "analysis").Logger(),
	}
}

// analysisRequest is the POST body. Either full fundamentals or a bare
// symbol (resolved via the provider) must be present.
type analysisRequest struct {
	Symbol string `json:"symbol,omitempty"`
	analysis.Request
}

// HandleAnalyze handles POST /api/analysis
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if len(req.Fundamentals.Annuals) == 0 && req.Symbol != "" {
		if h.provider == nil {
			h.writeError(w, http.StatusBadRequest, "no fundamentals provided and no data provider configured")
			return
		}
		f, err := h.provider.GetFundamentals(r.Context(), req.Symbol)
		if err != nil {
			h.log.Warn().Err(err).Str("symbol", req.Symbol).Msg("Fundamentals fetch failed")
			h.writeError(w, http.StatusBadGateway, "failed to fetch fundamentals: "+err.Error())
			return
		}
		req.Fundamentals = *f
	}

	report, err := h.service.Analyze(r.Context(), req.Request)
	if err != nil {
		var unavailable *fx.RateUnavailableError
		status := http.StatusUnprocessableEntity
		if errors.As(err, &unavailable) {
			status = http.StatusNotFound
		}
		h.log.Warn().Err(err).Str("symbol", req.Fundamentals.Symbol).Msg("Analysis failed")
		h.writeError(w, status, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": report,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
