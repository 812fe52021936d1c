// Package slug builds deterministic, human-readable identifiers for emitted
// entities.
package slug

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrEmpty is returned when none of the supplied parts carries any text.
var ErrEmpty = errors.New("slug: no usable parts")

const sep = "-"

// Maker derives entity identifiers under a dataset prefix.
type Maker struct {
	prefix string
}

// New returns a Maker for the given dataset prefix, e.g. "ua-nsdc".
func New(prefix string) *Maker {
	return &Maker{prefix: Slugify(prefix)}
}

// MakeSlug joins the slugified parts under the prefix:
// MakeSlug("42", "1") == "ua-nsdc-42-1". Every part must be non-empty once
// slugified, so distinct input tuples cannot collapse into the same slug by
// dropping a part.
func (m *Maker) MakeSlug(parts ...string) (string, error) {
	if len(parts) == 0 {
		return "", ErrEmpty
	}
	out := make([]string, 0, len(parts)+1)
	if m.prefix != "" {
		out = append(out, m.prefix)
	}
	for _, part := range parts {
		s := Slugify(part)
		if s == "" {
			return "", ErrEmpty
		}
		out = append(out, s)
	}
	return strings.Join(out, sep), nil
}

// MakeID hashes the parts into an opaque identifier under the prefix. Empty
// parts are skipped; at least one part must carry text.
func (m *Maker) MakeID(parts ...string) (string, error) {
	digest := sha1.New()
	used := 0
	for _, part := range parts {
		if part == "" {
			continue
		}
		digest.Write([]byte(part))
		digest.Write([]byte{0})
		used++
	}
	if used == 0 {
		return "", ErrEmpty
	}
	key := hex.EncodeToString(digest.Sum(nil))
	if m.prefix == "" {
		return key, nil
	}
	return m.prefix + sep + key, nil
}

// Slugify lowercases text, strips diacritics and replaces every run of
// characters that are not letters or digits with a single dash.
func Slugify(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	folded = cases.Lower(language.Und).String(folded)

	var b strings.Builder
	pendingSep := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteString(sep)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
