package estimate

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	unitCentimetre = "cm"
	unitMillimetre = "mm"
	unitMetre      = "m"
	unitInch       = "in"
	unitFoot       = "ft"
)

// feetPer converts one unit of length into feet.
var feetPer = map[string]float64{
	unitCentimetre: 1 / 30.48,
	unitMillimetre: 1 / 304.8,
	unitMetre:      1 / 0.3048,
	unitInch:       1.0 / 12,
	unitFoot:       1,
}

var unitAliases = map[string]string{
	"cm":     unitCentimetre,
	"mm":     unitMillimetre,
	"m":      unitMetre,
	"in":     unitInch,
	"inch":   unitInch,
	"inches": unitInch,
	`"`:      unitInch,
	"ft":     unitFoot,
	"foot":   unitFoot,
	"feet":   unitFoot,
	"'":      unitFoot,
}

const (
	dimNumber    = `(\d+(?:\.\d+)?)`
	dimUnit      = `(?:(cm|mm|inches|inch|in|feet|foot|ft|m)|(["']))`
	dimUnitLast  = `(?:(cm|mm|inches|inch|in|feet|foot|ft|m)\b|(["']))`
	dimSeparator = `\s*(?:x|×|\*|by)\s*`
)

// dimensionPattern is anchored; the parser applies it at every number start.
// Only the last unit needs a word boundary, since a separator always follows the others.
var dimensionPattern = regexp.MustCompile(
	`^` + dimNumber + `\s*` + dimUnit + `?` +
		dimSeparator + dimNumber + `\s*` + dimUnit + `?` +
		dimSeparator + dimNumber + `(?:\s*` + dimUnitLast + `)?`,
)

// Dimensions is a parsed W×D×H expression.
type Dimensions struct {
	Factors [3]float64
	// Units holds the canonical unit applied to each factor.
	Units [3]string
	// Unit is the canonical default unit, or "" when none was written.
	Unit   string
	Volume float64
	Start  int
	End    int
}

// Label renders the dimensions compactly, e.g. "160x60x50 cm". Mixed units are written
// per factor, e.g. "160cm x 60in x 50cm", so differently sized items never share a label.
func (d Dimensions) Label() string {
	parts := make([]string, len(d.Factors))
	for i, f := range d.Factors {
		parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if d.Units[0] != d.Units[1] || d.Units[1] != d.Units[2] {
		for i := range parts {
			parts[i] += d.Units[i]
		}
		return strings.Join(parts, " x ")
	}
	label := strings.Join(parts, "x")
	if d.Unit != "" {
		label += " " + d.Unit
	}
	return label
}

// ParseDimensions finds a three-factor size expression in s and converts it to cubic feet.
// Factors accept decimals and separators x, ×, * or "by". A unit may follow any factor; a
// trailing unit applies to factors without their own. Without any unit the factors are read
// as inches (product / 1728). When several expressions overlap, the one reaching furthest
// right wins so that a leading "2x" stays available as a quantity.
func ParseDimensions(s string) (Dimensions, bool) {
	s = prepare(s)

	var (
		best  Dimensions
		found bool
	)
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) || (i > 0 && (isDigit(s[i-1]) || s[i-1] == '.')) {
			continue
		}
		m := dimensionPattern.FindStringSubmatchIndex(s[i:])
		if m == nil {
			continue
		}
		d, ok := buildDimensions(s[i:], m)
		if !ok {
			continue
		}
		d.Start, d.End = i, i+m[1]
		if !found || d.End > best.End {
			best, found = d, true
		}
	}
	return best, found
}

func buildDimensions(s string, m []int) (Dimensions, bool) {
	group := func(n int) string {
		if m[2*n] < 0 {
			return ""
		}
		return s[m[2*n]:m[2*n+1]]
	}
	unitAt := func(n int) string {
		if u := group(n); u != "" {
			return unitAliases[u]
		}
		return unitAliases[group(n+1)]
	}

	var d Dimensions
	units := [3]string{unitAt(2), unitAt(5), unitAt(8)}
	for i, n := range []int{1, 4, 7} {
		v, err := strconv.ParseFloat(group(n), 64)
		if err != nil || v <= 0 {
			return Dimensions{}, false
		}
		d.Factors[i] = v
	}

	// The trailing unit is the default; otherwise the first unit written.
	fallback := units[2]
	if fallback == "" {
		fallback = units[0]
	}
	if fallback == "" {
		fallback = units[1]
	}
	d.Unit = fallback

	if fallback == "" {
		d.Volume = d.Factors[0] * d.Factors[1] * d.Factors[2] / 1728
		return d, true
	}

	d.Volume = 1
	for i, f := range d.Factors {
		u := units[i]
		if u == "" {
			u = fallback
		}
		d.Units[i] = u
		d.Volume *= f * feetPer[u]
	}
	return d, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
