package voice

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// Formatted numerals followed by a money unit ("25 lucas", "15.000 pesos").
	amountWithUnitRe = regexp.MustCompile(`\d+(?:[.,\s]*\d+)*\s*(?:millón|millones|millon|lucas?|lukas?|palos?|pesos?|mil|clp)`)
	// Spelled-out numerals followed by a unit ("cincuenta mil", "dos lucas").
	spelledWithUnitRe = regexp.MustCompile(`\b(?:un|una|dos|tres|cuatro|cinco|seis|siete|ocho|nueve|diez|cuarenta|cincuenta|ciento|cien|doscientos|quinientos)\s*(?:millones?|lucas?|lukas?|pesos?|mil)\b`)
	// Leftover digit runs.
	digitRunRe = regexp.MustCompile(`\d+(?:[.,\s]*\d+)*`)
	// Installment phrasing left behind once the count is gone.
	installmentWordRe = regexp.MustCompile(`\b(?:cuotas?|meses)\b`)

	contributionWordRes = compileWordRes(contributionKeywords)
)

// fillerWords are dropped from descriptions: articles, prepositions,
// possessives, fund nouns, payment nouns and the purchase verbs that open
// most spoken expenses ("compré sushi por 25 lucas" should read "Sushi").
var fillerWords = map[string]struct{}{
	"de": {}, "en": {}, "el": {}, "la": {}, "los": {}, "las": {},
	"un": {}, "una": {}, "por": {}, "para": {}, "al": {},
	"fondo": {}, "común": {}, "comun": {}, "mi": {}, "nuestro": {},
	"pago": {}, "pagos": {}, "cuenta": {}, "cuentas": {},
	"compré": {}, "compre": {}, "gasté": {}, "gaste": {},
	"pagué": {}, "pague": {},
}

// ExtractName produces the human-readable label for a transaction: the
// utterance minus amounts, numbers, contribution verbs and filler words,
// with the first letter capitalized. An empty result means the caller
// should fall back to a type-appropriate default label.
func ExtractName(cmd string) string {
	name := strings.TrimSpace(strings.ToLower(cmd))

	name = amountWithUnitRe.ReplaceAllString(name, "")
	name = spelledWithUnitRe.ReplaceAllString(name, "")
	name = digitRunRe.ReplaceAllString(name, "")
	name = installmentWordRe.ReplaceAllString(name, "")

	for _, re := range contributionWordRes {
		name = re.ReplaceAllString(name, "")
	}

	words := strings.Fields(name)
	kept := words[:0]
	for _, w := range words {
		if _, skip := fillerWords[w]; !skip {
			kept = append(kept, w)
		}
	}
	name = strings.TrimSpace(strings.Join(kept, " "))

	return capitalize(name)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func compileWordRes(words []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		res = append(res, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return res
}
