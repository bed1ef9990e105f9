package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/dictionary"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/estimate"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/observability"
)

// DictionaryHandler exposes the dictionary, the resolver and the vehicle table.
type DictionaryHandler struct {
	logger    *observability.Logger
	estimator *estimate.Estimator
}

// NewDictionaryHandler creates a new dictionary handler.
func NewDictionaryHandler(logger *observability.Logger, estimator *estimate.Estimator) *DictionaryHandler {
	return &DictionaryHandler{logger: logger, estimator: estimator}
}

// ResolveRequestDTO is the body of POST /api/v1/resolve.
type ResolveRequestDTO struct {
	Phrase string `json:"phrase"`
}

// ResolveResponseDTO reports how a phrase was interpreted.
type ResolveResponseDTO struct {
	Phrase     string          `json:"phrase"`
	Normalized string          `json:"normalized"`
	Quantity   int             `json:"quantity"`
	Residual   string          `json:"residual"`
	Matched    bool            `json:"matched"`
	Match      *estimate.Match `json:"match,omitempty"`
}

// DictionaryResponseDTO lists dictionary entries in order.
type DictionaryResponseDTO struct {
	Size        int                `json:"size"`
	Fingerprint string             `json:"fingerprint"`
	Entries     []dictionary.Entry `json:"entries"`
}

// BandsResponseDTO lists the vehicle table.
type BandsResponseDTO struct {
	Bands []estimate.Band `json:"bands"`
}

// Resolve handles POST /api/v1/resolve.
func (h *DictionaryHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Phrase) == "" {
		writeError(w, http.StatusBadRequest, "phrase is required", "")
		return
	}

	normalized := estimate.Normalize(req.Phrase)
	qty := estimate.ExtractQuantity(normalized)
	resp := ResolveResponseDTO{
		Phrase:     req.Phrase,
		Normalized: normalized,
		Quantity:   qty.Value,
		Residual:   qty.Residual(normalized),
	}
	if m, ok := h.estimator.Resolver().Resolve(resp.Residual); ok {
		resp.Matched = true
		resp.Match = &m
	}

	requestLogger(h.logger, r).Debug().
		Str("phrase", req.Phrase).
		Bool("matched", resp.Matched).
		Msg("Phrase resolved")

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// List handles GET /api/v1/dictionary.
func (h *DictionaryHandler) List(w http.ResponseWriter, r *http.Request) {
	d := h.estimator.Dictionary()
	entries := d.Entries()
	if entries == nil {
		entries = []dictionary.Entry{}
	}
	writeJSON(w, h.logger, http.StatusOK, DictionaryResponseDTO{
		Size:        d.Len(),
		Fingerprint: d.Fingerprint(),
		Entries:     entries,
	})
}

// Bands handles GET /api/v1/bands.
func (h *DictionaryHandler) Bands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, BandsResponseDTO{Bands: h.estimator.Bands()})
}
