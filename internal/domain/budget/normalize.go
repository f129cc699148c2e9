package budget

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopWords are removed in deep normalization: administrative noise that
// carries no identity ("pago de la cuenta de luz" and "luz" must match).
var stopWords = map[string]struct{}{
	"pago": {}, "pagos": {}, "cuenta": {}, "cuentas": {},
	"de": {}, "la": {}, "el": {}, "los": {}, "las": {},
	"servicio": {}, "servicios": {},
}

// diacriticsStripper decomposes to NFD, drops combining marks and
// recomposes, turning "común" into "comun".
var diacriticsStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize prepares a name for comparison: lower-case, diacritics
// stripped, non-alphanumerics dropped, whitespace collapsed. Deep mode
// additionally removes stop words. Normalizing an already-normalized
// string is a no-op.
func Normalize(s string, deep bool) string {
	clean := strings.ToLower(s)
	if stripped, _, err := transform.String(diacriticsStripper, clean); err == nil {
		clean = stripped
	}

	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n':
			b.WriteRune(' ')
		}
	}
	clean = strings.Join(strings.Fields(b.String()), " ")

	if deep {
		words := strings.Fields(clean)
		kept := words[:0]
		for _, w := range words {
			if _, skip := stopWords[w]; !skip {
				kept = append(kept, w)
			}
		}
		clean = strings.Join(kept, " ")
	}
	return clean
}
