package estimate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// QuantityMethod names the rule that produced a quantity.
type QuantityMethod string

const (
	QuantityRange    QuantityMethod = "range"
	QuantityLeading  QuantityMethod = "leading"
	QuantityTrailing QuantityMethod = "trailing"
	QuantityWord     QuantityMethod = "word"
	QuantityDefault  QuantityMethod = "default"
)

var (
	rangeQuantity    = regexp.MustCompile(`(?:^|\s)(\d+)\s*[/-]\s*(\d+)(?:\s|$)`)
	leadingQuantity  = regexp.MustCompile(`^(\d+)\s*[x×*]?(?:\s+|$)`)
	trailingQuantity = regexp.MustCompile(`(?:^|\s)[x×*]\s*(\d+)$`)
)

var numberWords = map[string]int{
	"a":      1,
	"an":     1,
	"one":    1,
	"two":    2,
	"three":  3,
	"four":   4,
	"five":   5,
	"six":    6,
	"seven":  7,
	"eight":  8,
	"nine":   9,
	"ten":    10,
	"couple": 2,
	"few":    3,
}

var vagueQuantities = map[string]int{
	"couple": 2,
	"few":    3,
}

// Quantity is an extracted count and the byte span of the text that expressed it.
// Start == End means nothing in the phrase was consumed.
type Quantity struct {
	Value  int
	Method QuantityMethod
	Start  int
	End    int
}

// ExtractQuantity finds the count in a normalized phrase. The first matching rule wins:
// a numeric range (only when no explicit multiplier is present), a leading number with an
// optional x, a trailing x-number, a number word, and finally 1. Values below 1 become 1.
func ExtractQuantity(phrase string) Quantity {
	lead := leadingQuantity.FindStringSubmatchIndex(phrase)
	trail := trailingQuantity.FindStringSubmatchIndex(phrase)

	if lead == nil && trail == nil {
		if m := rangeQuantity.FindStringSubmatchIndex(phrase); m != nil {
			lo, errLo := strconv.Atoi(phrase[m[2]:m[3]])
			hi, errHi := strconv.Atoi(phrase[m[4]:m[5]])
			value := 1
			if errLo == nil && errHi == nil {
				value = int(math.Round(float64(lo+hi) / 2))
			}
			return Quantity{Value: clampQuantity(value), Method: QuantityRange, Start: m[2], End: m[5]}
		}
	}

	if lead != nil {
		return Quantity{Value: atoiQuantity(phrase[lead[2]:lead[3]]), Method: QuantityLeading, Start: lead[0], End: lead[1]}
	}
	if trail != nil {
		return Quantity{Value: atoiQuantity(phrase[trail[2]:trail[3]]), Method: QuantityTrailing, Start: trail[0], End: trail[1]}
	}

	if q, ok := numberWordQuantity(phrase); ok {
		return q
	}
	return Quantity{Value: 1, Method: QuantityDefault}
}

// Residual is the phrase with the quantity text removed. Hyphens become spaces so that
// "chest-of-drawers" and "chest of drawers" resolve alike.
func (q Quantity) Residual(phrase string) string {
	rest := phrase
	if q.End > q.Start {
		rest = phrase[:q.Start] + " " + phrase[q.End:]
	}
	rest = strings.ReplaceAll(rest, "-", " ")
	return strings.Join(strings.Fields(rest), " ")
}

// numberWordQuantity matches the first whole-word number word. A following "of"
// ("couple of chairs") is consumed with it.
func numberWordQuantity(phrase string) (Quantity, bool) {
	offset := 0
	fields := strings.Fields(phrase)
	for i, w := range fields {
		start := strings.Index(phrase[offset:], w) + offset
		end := start + len(w)
		offset = end

		value, ok := numberWords[w]
		if !ok {
			continue
		}
		// "a few", "a couple"
		if (w == "a" || w == "an") && i+1 < len(fields) {
			if next, vague := vagueQuantities[fields[i+1]]; vague {
				value = next
				i++
				end = strings.Index(phrase[end:], fields[i]) + end + len(fields[i])
			}
		}
		if i+1 < len(fields) && fields[i+1] == "of" {
			end = strings.Index(phrase[end:], "of") + end + len("of")
		}
		return Quantity{Value: value, Method: QuantityWord, Start: start, End: end}, true
	}
	return Quantity{}, false
}

func atoiQuantity(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 1
	}
	return clampQuantity(n)
}

func clampQuantity(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
