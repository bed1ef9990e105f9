package estimate

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var smartPunctuation = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "′", "'",
	"“", `"`, "”", `"`, "„", `"`, "″", `"`,
	"–", "-", "—", "-", "−", "-",
)

var (
	apostrophes   = regexp.MustCompile(`['"]`)
	disallowed    = regexp.MustCompile(`[^\w\s\-×/]`)
	multipleSpace = regexp.MustCompile(`\s+`)
)

// singulars maps common plural item words to the singular used by dictionary keys.
// "drawers" and "weights" are left alone: both are dictionary words in their plural form.
var singulars = map[string]string{
	"armchairs":   "armchair",
	"bags":        "bag",
	"benches":     "bench",
	"bedsides":    "bedside",
	"beds":        "bed",
	"bicycles":    "bicycle",
	"bikes":       "bike",
	"bookcases":   "bookcase",
	"bookshelves": "bookshelf",
	"boxes":       "box",
	"cabinets":    "cabinet",
	"chairs":      "chair",
	"chests":      "chest",
	"couches":     "couch",
	"cots":        "cot",
	"cribs":       "crib",
	"cupboards":   "cupboard",
	"desks":       "desk",
	"dressers":    "dresser",
	"dryers":      "dryer",
	"frames":      "frame",
	"freezers":    "freezer",
	"fridges":     "fridge",
	"guitars":     "guitar",
	"lamps":       "lamp",
	"mattresses":  "mattress",
	"microwaves":  "microwave",
	"mirrors":     "mirror",
	"monitors":    "monitor",
	"nightstands": "nightstand",
	"ovens":       "oven",
	"pianos":      "piano",
	"pictures":    "picture",
	"plants":      "plant",
	"printers":    "printer",
	"recliners":   "recliner",
	"sacks":       "sack",
	"scooters":    "scooter",
	"seaters":     "seater",
	"shelves":     "shelf",
	"sideboards":  "sideboard",
	"sofas":       "sofa",
	"stools":      "stool",
	"suitcases":   "suitcase",
	"tables":      "table",
	"televisions": "television",
	"tvs":         "tv",
	"wardrobes":   "wardrobe",
	"washers":     "washer",
}

// prepare lowercases and maps smart punctuation to ASCII without dropping anything,
// so that decimals and unit marks survive for dimension parsing.
func prepare(s string) string {
	return strings.ToLower(smartPunctuation.Replace(s))
}

// Normalize lowercases, folds accents, strips punctuation other than hyphen, x/× and slash,
// collapses whitespace and singularizes known plurals word by word. It never fails; input
// with nothing usable yields "".
func Normalize(s string) string {
	s = prepare(s)
	if folded, _, err := transform.String(stripAccents, s); err == nil {
		s = folded
	}
	s = apostrophes.ReplaceAllString(s, "")
	s = disallowed.ReplaceAllString(s, " ")
	s = strings.TrimSpace(multipleSpace.ReplaceAllString(s, " "))
	if s == "" {
		return ""
	}

	words := strings.Split(s, " ")
	for i, w := range words {
		if singular, ok := singulars[w]; ok {
			words[i] = singular
		}
	}
	return strings.Join(words, " ")
}
