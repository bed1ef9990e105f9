package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/estimate"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/observability"
)

// EstimateHandler serves quote requests.
type EstimateHandler struct {
	logger       *observability.Logger
	service      estimate.QuoteService
	maxBodyBytes int64
}

// NewEstimateHandler creates a new estimate handler. maxBodyBytes <= 0 disables the limit.
func NewEstimateHandler(logger *observability.Logger, service estimate.QuoteService, maxBodyBytes int64) *EstimateHandler {
	return &EstimateHandler{
		logger:       logger,
		service:      service,
		maxBodyBytes: maxBodyBytes,
	}
}

// EstimateRequestDTO is the body of POST /api/v1/estimates.
type EstimateRequestDTO struct {
	Items string `json:"items"`
}

// EstimateResponseDTO is a quote as returned over HTTP.
// TotalVolume is rounded for display; TotalVolumeExact is not.
type EstimateResponseDTO struct {
	ID               string         `json:"id"`
	TotalVolume      float64        `json:"totalVolume"`
	TotalVolumeExact float64        `json:"totalVolumeExact"`
	Vehicle          string         `json:"vehicle"`
	Crew             int            `json:"crew"`
	Breakdown        []BreakdownDTO `json:"breakdown"`
	Unmatched        []string       `json:"unmatched"`
	Price            *PriceDTO      `json:"price,omitempty"`
	DictionarySize   int            `json:"dictionarySize"`
	Cached           bool           `json:"cached"`
}

// BreakdownDTO is one aggregated line of a quote.
type BreakdownDTO struct {
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitVolume  float64 `json:"unitVolume"`
	TotalVolume float64 `json:"totalVolume"`
	Kind        string  `json:"kind"`
}

// PriceDTO is the optional linear price.
type PriceDTO struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// Create handles POST /api/v1/estimates.
func (h *EstimateHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(h.logger, r)

	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req EstimateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if strings.TrimSpace(req.Items) == "" {
		writeError(w, http.StatusBadRequest, "items is required", "")
		return
	}

	q, err := h.service.Estimate(r.Context(), req.Items)
	if err != nil {
		if errors.Is(err, estimate.ErrNoDictionary) {
			logger.Error().Err(err).Msg("Estimate requested without a dictionary")
			writeError(w, http.StatusServiceUnavailable, "no dictionary available", "")
			return
		}
		logger.Error().Err(err).Msg("Estimate failed")
		writeError(w, http.StatusInternalServerError, "estimate failed", err.Error())
		return
	}

	logger.Info().
		Str("quote_id", q.ID.String()).
		Float64("total_volume", q.TotalVolume).
		Int("unmatched", len(q.Unmatched)).
		Bool("cached", q.Cached).
		Msg("Quote issued")

	writeJSON(w, logger, http.StatusOK, toEstimateResponseDTO(q))
}

func toEstimateResponseDTO(q *estimate.Quote) EstimateResponseDTO {
	dto := EstimateResponseDTO{
		ID:               q.ID.String(),
		TotalVolume:      q.RoundedTotal(),
		TotalVolumeExact: q.TotalVolume,
		Vehicle:          q.Recommendation.Vehicle,
		Crew:             q.Recommendation.Crew,
		Breakdown:        make([]BreakdownDTO, 0, len(q.Breakdown)),
		Unmatched:        append([]string{}, q.Unmatched...),
		DictionarySize:   q.DictionarySize,
		Cached:           q.Cached,
	}

	for _, b := range q.Breakdown {
		dto.Breakdown = append(dto.Breakdown, BreakdownDTO{
			Name:        b.Name,
			Quantity:    b.Quantity,
			UnitVolume:  b.UnitVolume,
			TotalVolume: b.TotalVolume,
			Kind:        string(b.Kind),
		})
	}

	if q.Price != nil {
		dto.Price = &PriceDTO{Currency: q.Price.Currency, Amount: q.Price.Amount}
	}
	return dto
}
