package estimate

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/config"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/dictionary"
)

// Layer names the resolver stage that accepted a match.
type Layer string

const (
	LayerExact           Layer = "exact"
	LayerContainment     Layer = "containment"
	LayerWordContainment Layer = "word-containment"
	LayerTokenOverlap    Layer = "token-overlap"
	LayerEditDistance    Layer = "edit-distance"
)

var stopwords = map[string]struct{}{
	"of":   {},
	"the":  {},
	"a":    {},
	"an":   {},
	"and":  {},
	"with": {},
	"for":  {},
}

// ResolverConfig holds the acceptance thresholds for fuzzy matching.
type ResolverConfig struct {
	// ProportionalThreshold bounds edit distance as a fraction of key length.
	ProportionalThreshold float64
	// Keys of at most ShortKeyLength runes accept at most ShortKeyMaxDistance edits.
	ShortKeyLength      int
	ShortKeyMaxDistance int
	MinTokenOverlap     int
	// MinContainmentLength is the shortest phrase allowed to match inside a longer key.
	MinContainmentLength int
}

// DefaultResolverConfig returns the stock thresholds.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		ProportionalThreshold: 0.35,
		ShortKeyLength:        5,
		ShortKeyMaxDistance:   1,
		MinTokenOverlap:       1,
		MinContainmentLength:  3,
	}
}

// ResolverConfigFrom maps the resolver section of the service config.
func ResolverConfigFrom(c config.ResolverConfig) ResolverConfig {
	return ResolverConfig{
		ProportionalThreshold: c.ProportionalThreshold,
		ShortKeyLength:        c.ShortKeyLength,
		ShortKeyMaxDistance:   c.ShortKeyMaxDistance,
		MinTokenOverlap:       c.MinTokenOverlap,
		MinContainmentLength:  c.MinContainmentLength,
	}
}

// Match is a resolved dictionary entry.
type Match struct {
	Key      string  `json:"key"`
	Volume   float64 `json:"volume"`
	Layer    Layer   `json:"layer"`
	Distance int     `json:"distance"`
	Overlap  int     `json:"overlap,omitempty"`
}

type resolverKey struct {
	name   string
	norm   string
	words  []string
	set    map[string]struct{}
	volume float64
	runes  int
}

// Resolver maps a normalized phrase to the best dictionary key. It is read-only after
// construction and safe for concurrent use.
type Resolver struct {
	cfg   ResolverConfig
	keys  []resolverKey
	exact map[string]int
}

// NewResolver indexes d. Keys are compared in their normalized form; when two keys normalize
// to the same text the first one wins.
func NewResolver(d *dictionary.Dictionary, cfg ResolverConfig) *Resolver {
	entries := d.Entries()
	r := &Resolver{
		cfg:   cfg,
		keys:  make([]resolverKey, 0, len(entries)),
		exact: make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		n := canonicalPhrase(e.Name)
		if n == "" {
			continue
		}
		if _, dup := r.exact[n]; dup {
			continue
		}
		words := strings.Fields(n)
		r.exact[n] = len(r.keys)
		r.keys = append(r.keys, resolverKey{
			name:   e.Name,
			norm:   n,
			words:  words,
			set:    wordSet(words),
			volume: e.Volume,
			runes:  utf8.RuneCountInString(n),
		})
	}
	return r
}

// Len is the number of indexed keys.
func (r *Resolver) Len() int {
	return len(r.keys)
}

// IsExact reports whether phrase is a dictionary key after normalization.
func (r *Resolver) IsExact(phrase string) bool {
	_, ok := r.exact[canonicalPhrase(phrase)]
	return ok
}

// Resolve runs the layers in order and returns the first acceptance.
// Ties within a layer go to the key that appears first in the dictionary.
func (r *Resolver) Resolve(phrase string) (Match, bool) {
	p := canonicalPhrase(phrase)
	if p == "" || len(r.keys) == 0 {
		return Match{}, false
	}

	if i, ok := r.exact[p]; ok {
		return r.match(i, LayerExact, 0, 0), true
	}
	if m, ok := r.containment(p); ok {
		return m, true
	}
	if m, ok := r.wordContainment(p); ok {
		return m, true
	}
	if m, ok := r.tokenOverlap(p); ok {
		return m, true
	}
	return r.editDistance(p)
}

// containment accepts a key that appears in the phrase as whole words, or a key that
// contains the phrase. Matches aligned to a word start in the key are preferred over
// plain substrings, so "bin" finds "bin bag" before "filing cabinet". The longest key wins.
func (r *Resolver) containment(p string) (Match, bool) {
	padded := " " + p + " "
	phraseOK := utf8.RuneCountInString(p) >= r.cfg.MinContainmentLength

	best := r.longestKey(func(k resolverKey) bool {
		return strings.Contains(padded, " "+k.norm+" ") || (phraseOK && strings.Contains(" "+k.norm, " "+p))
	})
	if best < 0 && phraseOK {
		best = r.longestKey(func(k resolverKey) bool {
			return strings.Contains(k.norm, p)
		})
	}
	if best < 0 {
		return Match{}, false
	}
	return r.match(best, LayerContainment, 0, 0), true
}

// longestKey returns the index of the longest accepted key, first in dictionary order on ties.
func (r *Resolver) longestKey(accept func(resolverKey) bool) int {
	best := -1
	for i, k := range r.keys {
		if !accept(k) {
			continue
		}
		if best < 0 || k.runes > r.keys[best].runes {
			best = i
		}
	}
	return best
}

// wordContainment accepts multi-word keys whose every word occurs in the phrase.
func (r *Resolver) wordContainment(p string) (Match, bool) {
	phrase := wordSet(strings.Fields(p))

	best := -1
	for i, k := range r.keys {
		if len(k.words) < 2 || !containsAll(phrase, k.words) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := r.keys[best]
		if len(k.words) > len(b.words) || (len(k.words) == len(b.words) && k.runes > b.runes) {
			best = i
		}
	}
	if best < 0 {
		return Match{}, false
	}
	return r.match(best, LayerWordContainment, 0, len(r.keys[best].words)), true
}

// tokenOverlap scores keys by shared non-stopword tokens. Equal scores fall back to
// edit distance between the full strings.
func (r *Resolver) tokenOverlap(p string) (Match, bool) {
	phrase := contentWords(strings.Fields(p))
	if len(phrase) == 0 {
		return Match{}, false
	}

	best, bestScore, bestDist := -1, 0, 0
	for i, k := range r.keys {
		score := 0
		for w := range k.set {
			if _, stop := stopwords[w]; stop {
				continue
			}
			if _, ok := phrase[w]; ok {
				score++
			}
		}
		if score < r.cfg.MinTokenOverlap || score == 0 {
			continue
		}
		dist := levenshtein.ComputeDistance(p, k.norm)
		if best < 0 || score > bestScore || (score == bestScore && dist < bestDist) {
			best, bestScore, bestDist = i, score, dist
		}
	}
	if best < 0 {
		return Match{}, false
	}
	return r.match(best, LayerTokenOverlap, bestDist, bestScore), true
}

// editDistance picks the closest key among those within their own distance threshold.
func (r *Resolver) editDistance(p string) (Match, bool) {
	best, bestDist := -1, 0
	for i, k := range r.keys {
		dist := levenshtein.ComputeDistance(p, k.norm)
		if dist > r.maxDistance(k) {
			continue
		}
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return Match{}, false
	}
	return r.match(best, LayerEditDistance, bestDist, 0), true
}

func (r *Resolver) maxDistance(k resolverKey) int {
	if k.runes <= r.cfg.ShortKeyLength {
		return r.cfg.ShortKeyMaxDistance
	}
	limit := int(math.Floor(float64(k.runes) * r.cfg.ProportionalThreshold))
	if limit < 1 {
		limit = 1
	}
	return limit
}

func (r *Resolver) match(i int, layer Layer, dist, overlap int) Match {
	k := r.keys[i]
	return Match{Key: k.name, Volume: k.volume, Layer: layer, Distance: dist, Overlap: overlap}
}

// canonicalPhrase is the form both phrases and keys are compared in.
func canonicalPhrase(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(Normalize(s), "-", " ")), " ")
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func contentWords(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, stop := stopwords[w]; !stop {
			set[w] = struct{}{}
		}
	}
	return set
}

func containsAll(set map[string]struct{}, words []string) bool {
	for _, w := range words {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
