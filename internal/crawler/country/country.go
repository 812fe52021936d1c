// Package country resolves free-text country names, in any of the scripts
// the source uses, to ISO 3166-1 alpha-2 codes.
package country

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minContainedLen is the shortest indexed name that may match inside a longer
// candidate; shorter names and codes only match exactly.
const minContainedLen = 4

// dictionaries supply region names in the languages the feeds are written
// in, plus a few common ones for foreign addresses.
var dictionaries = []*display.Dictionary{
	display.English,
	display.Ukrainian,
	display.Russian,
	display.German,
	display.French,
}

// defaultAliases covers official and colloquial names CLDR does not list.
var defaultAliases = map[string]string{
	"russian federation":   "RU",
	"російська федерація":  "RU",
	"российская федерация": "RU",
	"рф":                       "RU",
	"republic of belarus":      "BY",
	"республіка білорусь":      "BY",
	"usa":                      "US",
	"united states of america": "US",
	"сша":                      "US",
	"uk":                       "GB",
	"great britain":            "GB",
	"england":                  "GB",
	"велика британія":          "GB",
	"великобританія":           "GB",
	"сполучене королівство": "GB",
	"сполучене королівство великої британії та північної ірландії": "GB",
	"соединенное королевство":                                      "GB",
	"north korea":              "KP",
	"dprk":                     "KP",
	"кндр":                     "KP",
	"republic of moldova":      "MD",
	"islamic republic of iran": "IR",
	"syrian arab republic":     "SY",
	"україна":                  "UA",
	"украина":                  "UA",
	"ukraina":                  "UA",
	"kyrgyz republic":          "KG",
	"united arab emirates":     "AE",
	"оае":                      "AE",
	"czech republic":           "CZ",
	"virgin islands british":   "VG",
	"британські віргінські острови": "VG",
}

// Index maps normalized names to codes.
type Index struct {
	names map[string]string
	// contained holds the indexed names long enough for substring matching,
	// longest first.
	contained []string
}

// Option configures an Index.
type Option func(*Index)

// WithAliases adds extra name→code pairs. Codes that are not ISO countries are
// ignored.
func WithAliases(aliases map[string]string) Option {
	return func(idx *Index) {
		for name, code := range aliases {
			if region, ok := parseCountryCode(code); ok {
				idx.add(name, region)
			}
		}
	}
}

// New builds an index over every ISO country known to CLDR.
func New(opts ...Option) *Index {
	idx := &Index{names: make(map[string]string, 4096)}
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			code, ok := parseCountryCode(string([]rune{a, b}))
			if !ok {
				continue
			}
			region := language.MustParseRegion(code)
			for _, dict := range dictionaries {
				idx.add(dict.Regions().Name(region), code)
			}
		}
	}
	WithAliases(defaultAliases)(idx)
	for _, opt := range opts {
		opt(idx)
	}

	for name := range idx.names {
		if utf8.RuneCountInString(name) >= minContainedLen {
			idx.contained = append(idx.contained, name)
		}
	}
	slices.SortFunc(idx.contained, func(a, b string) int {
		if d := utf8.RuneCountInString(b) - utf8.RuneCountInString(a); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return idx
}

func (idx *Index) add(name, code string) {
	key := Normalize(name)
	if key == "" {
		return
	}
	if _, exists := idx.names[key]; !exists {
		idx.names[key] = code
	}
}

// Lookup resolves text to a country code: an exact name, an alpha-2 or
// alpha-3 code, or else the longest known name contained in the text as a
// whole word sequence.
func (idx *Index) Lookup(text string) (string, bool) {
	key := Normalize(text)
	if key == "" {
		return "", false
	}
	if code, ok := idx.names[key]; ok {
		return code, true
	}
	if code, ok := parseCountryCode(strings.ToUpper(key)); ok {
		return code, true
	}
	padded := " " + key + " "
	for _, name := range idx.contained {
		if strings.Contains(padded, " "+name+" ") {
			return idx.names[name], true
		}
	}
	return "", false
}

// Len reports how many names are indexed.
func (idx *Index) Len() int {
	return len(idx.names)
}

func parseCountryCode(code string) (string, bool) {
	if n := len(code); n != 2 && n != 3 {
		return "", false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", false
		}
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return "", false
	}
	region = region.Canonicalize()
	if !region.IsCountry() {
		return "", false
	}
	return region.String(), true
}

// Normalize folds case, strips diacritics and reduces punctuation to single
// spaces so names compare equal across spelling variants.
func Normalize(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	folded = cases.Fold().String(folded)
	return strings.Join(strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}
