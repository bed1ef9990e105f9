package estimate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/config"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/dictionary"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/observability"
)

// QuoteService produces quotes from free text.
type QuoteService interface {
	Estimate(ctx context.Context, text string) (*Quote, error)
}

var (
	_ QuoteService = (*Estimator)(nil)
	_ QuoteService = (*CachedEstimator)(nil)
)

// Options configures an Estimator.
type Options struct {
	Resolver ResolverConfig
	Parser   ParserConfig
	Bands    Bands
	Pricing  Pricing
}

// DefaultOptions returns the stock thresholds, box sizes and bands with pricing disabled.
func DefaultOptions() Options {
	return Options{
		Resolver: DefaultResolverConfig(),
		Parser:   DefaultParserConfig(),
		Bands:    DefaultBands(),
	}
}

// OptionsFrom builds options from the service config.
func OptionsFrom(cfg *config.Config) (Options, error) {
	bands, err := BandsFrom(cfg.Bands)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Resolver: ResolverConfigFrom(cfg.Resolver),
		Parser:   ParserConfigFrom(cfg.Estimate),
		Bands:    bands,
		Pricing:  PricingFrom(cfg.Pricing),
	}, nil
}

// Fingerprint identifies the thresholds, box sizes, bands and pricing. Two option sets
// with the same fingerprint quote any input identically against the same dictionary.
func (o Options) Fingerprint() string {
	data, err := json.Marshal(o)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// Estimator runs the full pipeline against one dictionary. It holds no per-request
// state and is safe for concurrent use.
type Estimator struct {
	dict     *dictionary.Dictionary
	resolver *Resolver
	parser   *Parser
	bands    Bands
	pricing  Pricing
	// fingerprint covers the dictionary and the options.
	fingerprint string
	logger      *observability.Logger
}

// New creates an estimator. An empty dictionary is accepted here and reported by Estimate.
func New(dict *dictionary.Dictionary, opts Options, logger *observability.Logger) (*Estimator, error) {
	if logger == nil {
		logger = observability.Nop()
	}
	if len(opts.Bands) == 0 {
		opts.Bands = DefaultBands()
	}
	if err := opts.Bands.Validate(); err != nil {
		return nil, err
	}

	resolver := NewResolver(dict, opts.Resolver)
	return &Estimator{
		dict:        dict,
		resolver:    resolver,
		parser:      NewParser(resolver, opts.Parser),
		bands:       opts.Bands,
		pricing:     opts.Pricing,
		fingerprint: dict.Fingerprint() + ":" + opts.Fingerprint(),
		logger:      logger.WithOperation("estimate"),
	}, nil
}

// Dictionary returns the dictionary the estimator resolves against.
func (e *Estimator) Dictionary() *dictionary.Dictionary {
	return e.dict
}

// Fingerprint changes whenever the dictionary or any option that affects a quote changes.
func (e *Estimator) Fingerprint() string {
	return e.fingerprint
}

// Resolver exposes the fuzzy resolver for single-phrase lookups.
func (e *Estimator) Resolver() *Resolver {
	return e.resolver
}

// Bands returns the vehicle table.
func (e *Estimator) Bands() Bands {
	return e.bands
}

// Estimate splits text on newlines and commas, parses every entry, aggregates the
// result and recommends a vehicle. Entries that could not be resolved are listed in
// Unmatched in order of first appearance, and still count toward the total.
func (e *Estimator) Estimate(ctx context.Context, text string) (*Quote, error) {
	if e.dict.Len() == 0 || e.resolver.Len() == 0 {
		return nil, ErrNoDictionary
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	q := &Quote{
		ID:             uuid.New(),
		Breakdown:      []BreakdownEntry{},
		Unmatched:      []string{},
		Items:          []LineItem{},
		DictionarySize: e.dict.Len(),
	}

	seen := make(map[string]struct{})
	for _, entry := range SplitEntries(text) {
		items := e.parser.ParseEntry(entry)
		for _, item := range items {
			if item.Kind != KindUnknown {
				continue
			}
			if _, dup := seen[entry]; !dup {
				seen[entry] = struct{}{}
				q.Unmatched = append(q.Unmatched, entry)
			}
		}
		q.Items = append(q.Items, items...)
	}

	q.TotalVolume = TotalVolume(q.Items)
	q.Breakdown = Aggregate(q.Items)
	q.Recommendation = e.bands.Recommend(q.TotalVolume)
	q.Price = e.pricing.Price(q.TotalVolume, q.Recommendation.Crew)

	e.logger.WithQuote(q.ID.String()).Debug().
		Int("entries", len(q.Items)).
		Strs("unmatched", q.Unmatched).
		Float64("total_volume", q.TotalVolume).
		Str("vehicle", q.Recommendation.Vehicle).
		Dur("duration", time.Since(start)).
		Msg("Estimate complete")

	return q, nil
}

// SplitEntries breaks raw inventory text into trimmed, non-blank entries.
func SplitEntries(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	entries := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			entries = append(entries, f)
		}
	}
	return entries
}

// Describe is a short human summary of a quote, used in logs and the CLI footer.
func Describe(q *Quote) string {
	return fmt.Sprintf("%.0f cu ft, %s with %d crew", RoundVolume(q.TotalVolume), q.Recommendation.Vehicle, q.Recommendation.Crew)
}
