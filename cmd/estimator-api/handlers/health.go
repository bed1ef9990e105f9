package handlers

import (
	"net/http"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/dictionary"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/observability"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	logger  *observability.Logger
	service string
	dict    *dictionary.Dictionary
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *observability.Logger, service string, dict *dictionary.Dictionary) *HealthHandler {
	return &HealthHandler{logger: logger, service: service, dict: dict}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.service,
	})
}

// Ready handles GET /ready. The service is not ready without dictionary entries.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	size := h.dict.Len()
	if size == 0 {
		writeJSON(w, h.logger, http.StatusServiceUnavailable, map[string]interface{}{
			"status":         "not ready",
			"dictionarySize": 0,
		})
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status":         "ready",
		"dictionarySize": size,
		"fingerprint":    h.dict.Fingerprint(),
	})
}
