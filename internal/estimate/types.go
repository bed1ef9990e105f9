// Package estimate turns free-text household inventories into a volume quote
// with a vehicle and crew recommendation.
package estimate

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

// ErrNoDictionary is returned when the pipeline is asked to run without a usable dictionary.
var ErrNoDictionary = errors.New("no dictionary available")

// ResolutionKind records which strategy produced a line item's volume.
type ResolutionKind string

const (
	KindDictionary    ResolutionKind = "dictionary"
	KindDimension     ResolutionKind = "dimension"
	KindTokenFallback ResolutionKind = "token-fallback"
	KindBoxHeuristic  ResolutionKind = "box-heuristic"
	KindUnknown       ResolutionKind = "unknown"
)

// LineItem is one resolved sub-phrase of a raw entry.
// TotalVolume is always Quantity * UnitVolume; nothing is rounded here.
type LineItem struct {
	Raw         string         `json:"raw"`
	Name        string         `json:"name"`
	Quantity    int            `json:"quantity"`
	UnitVolume  float64        `json:"unitVolume"`
	TotalVolume float64        `json:"totalVolume"`
	Kind        ResolutionKind `json:"kind"`
	Layer       Layer          `json:"layer,omitempty"`
}

func newLineItem(raw, name string, qty int, unit float64, kind ResolutionKind) LineItem {
	return LineItem{
		Raw:         raw,
		Name:        name,
		Quantity:    qty,
		UnitVolume:  unit,
		TotalVolume: float64(qty) * unit,
		Kind:        kind,
	}
}

// BreakdownEntry aggregates line items sharing a resolved name.
type BreakdownEntry struct {
	Name        string         `json:"name"`
	Quantity    int            `json:"quantity"`
	UnitVolume  float64        `json:"unitVolume"`
	TotalVolume float64        `json:"totalVolume"`
	Kind        ResolutionKind `json:"kind"`
}

// Recommendation is the vehicle and crew for a total volume.
// Tier is the band index, so larger tiers mean larger vehicles.
type Recommendation struct {
	Vehicle string `json:"vehicle"`
	Crew    int    `json:"crew"`
	Tier    int    `json:"tier"`
}

// PriceEstimate is the linear price for a quote.
type PriceEstimate struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// Quote is the result of one pipeline run. It shares nothing with other quotes.
type Quote struct {
	ID             uuid.UUID        `json:"id"`
	TotalVolume    float64          `json:"totalVolume"`
	Breakdown      []BreakdownEntry `json:"breakdown"`
	Unmatched      []string         `json:"unmatched"`
	Items          []LineItem       `json:"items"`
	Recommendation Recommendation   `json:"recommendation"`
	Price          *PriceEstimate   `json:"price,omitempty"`
	DictionarySize int              `json:"dictionarySize"`
	Cached         bool             `json:"cached,omitempty"`
}

// RoundedTotal is the display total: volumes are only rounded at the output boundary.
func (q *Quote) RoundedTotal() float64 {
	return RoundVolume(q.TotalVolume)
}

// RoundVolume rounds a volume for display.
func RoundVolume(v float64) float64 {
	return math.Round(v)
}
