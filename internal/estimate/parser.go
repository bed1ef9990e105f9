package estimate

import (
	"regexp"
	"strings"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/config"
)

var conjunction = regexp.MustCompile(`(?i)\s+(?:and|&)\s+`)

// containerWords trigger the box heuristic. Plural forms are listed in case the
// normalizer is bypassed.
var containerWords = map[string]string{
	"box":   "box",
	"boxes": "box",
	"bag":   "bag",
	"bags":  "bag",
	"sack":  "sack",
	"sacks": "sack",
}

const unnamedItem = "item"

// ParserConfig controls how unresolvable and container phrases are priced.
type ParserConfig struct {
	FallbackVolume float64
	DefaultBoxSize string
	BoxSizes       map[string]float64
}

// DefaultParserConfig returns the stock fallback and box-size table.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		FallbackVolume: 5,
		DefaultBoxSize: "medium",
		BoxSizes: map[string]float64{
			"small":    3,
			"medium":   4,
			"large":    6,
			"wardrobe": 12,
		},
	}
}

// ParserConfigFrom maps the estimate section of the service config.
func ParserConfigFrom(c config.EstimateConfig) ParserConfig {
	sizes := make(map[string]float64, len(c.BoxSizes))
	for k, v := range c.BoxSizes {
		sizes[strings.ToLower(k)] = v
	}
	return ParserConfig{
		FallbackVolume: c.FallbackVolume,
		DefaultBoxSize: strings.ToLower(c.DefaultBoxSize),
		BoxSizes:       sizes,
	}
}

// Parser turns one raw entry into line items.
type Parser struct {
	resolver *Resolver
	cfg      ParserConfig
}

// NewParser creates a parser backed by resolver.
func NewParser(resolver *Resolver, cfg ParserConfig) *Parser {
	return &Parser{resolver: resolver, cfg: cfg}
}

// ParseEntry splits raw on "and"/"&" and resolves each sub-phrase. Every returned item has
// a positive volume; phrases nothing could resolve come back as KindUnknown with the
// fallback volume. Blank sub-phrases produce nothing.
func (p *Parser) ParseEntry(raw string) []LineItem {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var items []LineItem
	for _, sub := range conjunction.Split(raw, -1) {
		if item, ok := p.parsePhrase(raw, sub); ok {
			items = append(items, item)
		}
	}
	return items
}

func (p *Parser) parsePhrase(raw, sub string) (LineItem, bool) {
	text := prepare(sub)
	dims, hasDims := ParseDimensions(text)
	if hasDims {
		text = text[:dims.Start] + " " + text[dims.End:]
	}

	phrase := Normalize(text)
	if phrase == "" && !hasDims {
		return LineItem{}, false
	}

	qty := ExtractQuantity(phrase)
	residual := qty.Residual(phrase)

	if size, container, ok := p.container(residual); ok {
		name := size + " " + container
		return newLineItem(raw, name, qty.Value, p.boxVolume(size), KindBoxHeuristic), true
	}

	if hasDims {
		name := residual
		if name == "" {
			name = unnamedItem
		}
		name += " (" + dims.Label() + ")"
		return newLineItem(raw, name, qty.Value, dims.Volume, KindDimension), true
	}

	if m, ok := p.resolver.Resolve(residual); ok {
		item := newLineItem(raw, m.Key, qty.Value, m.Volume, KindDictionary)
		item.Layer = m.Layer
		return item, true
	}

	if m, ok := p.resolveWords(residual); ok {
		item := newLineItem(raw, m.Key, qty.Value, m.Volume, KindTokenFallback)
		item.Layer = m.Layer
		return item, true
	}

	name := residual
	if name == "" {
		name = unnamedItem
	}
	return newLineItem(raw, name, qty.Value, p.cfg.FallbackVolume, KindUnknown), true
}

// container applies the box heuristic unless the phrase is itself a dictionary key,
// so "toy box" keeps its own volume.
func (p *Parser) container(residual string) (size, container string, ok bool) {
	if residual == "" || p.resolver.IsExact(residual) {
		return "", "", false
	}
	words := strings.Fields(residual)
	for _, w := range words {
		if c, found := containerWords[w]; found {
			container, ok = c, true
			break
		}
	}
	if !ok {
		return "", "", false
	}

	size = p.cfg.DefaultBoxSize
	for _, w := range words {
		if _, known := p.cfg.BoxSizes[w]; known {
			size = w
			break
		}
	}
	return size, container, true
}

func (p *Parser) boxVolume(size string) float64 {
	if v, ok := p.cfg.BoxSizes[size]; ok {
		return v
	}
	return p.cfg.FallbackVolume
}

// resolveWords resolves each word on its own and keeps the largest volume,
// so an unrecognized phrase is never under-counted.
func (p *Parser) resolveWords(residual string) (Match, bool) {
	var (
		best  Match
		found bool
	)
	for _, w := range strings.Fields(residual) {
		if _, stop := stopwords[w]; stop || isNumeric(w) {
			continue
		}
		m, ok := p.resolver.Resolve(w)
		if !ok {
			continue
		}
		if !found || m.Volume > best.Volume {
			best, found = m, true
		}
	}
	return best, found
}

func isNumeric(w string) bool {
	for i := 0; i < len(w); i++ {
		if !isDigit(w[i]) {
			return false
		}
	}
	return w != ""
}
