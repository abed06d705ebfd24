// Package handlers provides HTTP handlers for FX rate resolution.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/fx"
)

// Handler handles FX HTTP requests
type Handler struct {
	resolver *fx.Resolver
	log      zerolog.Logger
}

// NewHandler creates a new FX handler
func NewHandler(resolver *fx.Resolver, log zerolog.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		log:      log.With().Str("handler", "fx").Logger(),
	}
}

// HandleGetRate handles GET /api/fx/rate/{from}/{to}?date=YYYY-MM-DD
func (h *Handler) HandleGetRate(w http.ResponseWriter, r *http.Request) {
	from := chi.URLParam(r, "from")
	to := chi.URLParam(r, "to")

	if from == "" || to == "" {
		http.Error(w, "from and to currencies are required", http.StatusBadRequest)
		return
	}

	var date time.Time
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			http.Error(w, "date must be an ISO date (YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	resolution, err := h.resolver.Resolve(domain.Currency(from), domain.Currency(to), date)
	if err != nil {
		var unavailable *fx.RateUnavailableError
		status := http.StatusInternalServerError
		if errors.As(err, &unavailable) {
			status = http.StatusNotFound
		}
		h.log.Warn().Err(err).Str("from", from).Str("to", to).Msg("Rate resolution failed")
		h.writeJSON(w, status, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"from":   from,
			"to":     to,
			"rate":   resolution.Rate,
			"source": resolution.Source,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
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
