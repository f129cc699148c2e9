// Package voice contains the natural-language engine that turns informal
// Spanish (and LatAm money slang) into structured budget commands. All
// processing is local; no external NLP service is involved.
package voice

// DefaultCurrency is the lexicon used when a currency code is unknown.
const DefaultCurrency = "CLP"

// Lexicon holds the per-currency slang multipliers and the spelled-out
// number words used by the amount extractor. It is immutable after
// construction, so a single instance can be shared across requests.
type Lexicon struct {
	synonyms    map[string]map[string]float64
	numberWords map[string]int64
}

// NewLexicon builds the default lexicon. Slang values mirror common usage:
// "lucas" (CLP/ARS/COP thousands), "palo" (millions), "gamba"/"quina"
// (CLP hundreds/five-hundreds), "pau"/"conto" (BRL), "grand"/"k" (USD).
func NewLexicon() *Lexicon {
	return &Lexicon{
		synonyms: map[string]map[string]float64{
			"CLP": {
				"lucas": 1000, "luca": 1000, "luka": 1000, "lukas": 1000,
				"gamba": 100, "gambas": 100,
				"quina": 500, "quinas": 500,
				"mil": 1000, "palo": 1000000, "palos": 1000000,
				"millón": 1000000, "millon": 1000000,
			},
			"BRL": {
				"real": 1, "reais": 1,
				"pau": 1000, "paus": 1000,
				"conto": 1000000, "contos": 1000000,
				"grana": 1,
				"mil":   1000, "milhão": 1000000, "milhao": 1000000,
			},
			"PEN": {
				"sol": 1, "soles": 1, "quinto": 0.5, "luca": 1, "mil": 1000,
				"palo": 1000000, "palos": 1000000, "millón": 1000000, "millon": 1000000,
			},
			"USD": {
				"buck": 1, "bucks": 1, "dollar": 1, "dollars": 1,
				"grand": 1000, "k": 1000, "thousand": 1000,
				"mil": 1000, "million": 1000000, "millon": 1000000,
			},
			"ARS": {
				"luca": 1000, "lucas": 1000, "palo": 1000000, "palos": 1000000,
				"mil": 1000, "millón": 1000000, "millon": 1000000,
			},
			"MXN": {
				"mil": 1000, "millón": 1000000, "millon": 1000000,
				"varos": 1, "varo": 1, "lana": 1,
			},
			"COP": {
				"mil": 1000, "millón": 1000000, "millon": 1000000,
				"luca": 1000, "lucas": 1000, "palo": 1000000,
			},
		},
		numberWords: mergeNumberWords(),
	}
}

// Synonyms returns the slang table for a currency. Unknown codes fall back
// to the default currency's table; the second return value reports whether
// that fallback happened so callers can surface it in metrics.
func (l *Lexicon) Synonyms(currency string) (map[string]float64, bool) {
	if tab, ok := l.synonyms[currency]; ok {
		return tab, false
	}
	return l.synonyms[DefaultCurrency], true
}

// Knows reports whether the lexicon carries a table for the currency code.
func (l *Lexicon) Knows(currency string) bool {
	_, ok := l.synonyms[currency]
	return ok
}

// Currencies lists the currency codes the lexicon carries tables for.
func (l *Lexicon) Currencies() []string {
	out := make([]string, 0, len(l.synonyms))
	for code := range l.synonyms {
		out = append(out, code)
	}
	return out
}

// NumberWord resolves a spelled-out cardinal (0-900) to its value.
func (l *Lexicon) NumberWord(word string) (int64, bool) {
	v, ok := l.numberWords[word]
	return v, ok
}

// mergeNumberWords combines Spanish, Portuguese and English cardinals into
// one lookup table. The merge is last-definition-wins on collisions
// (a known limitation: "seis"/"once" exist in both ES and PT with the same
// values, so in practice nothing destructive happens).
func mergeNumberWords() map[string]int64 {
	merged := make(map[string]int64, len(numberWordsES)+len(numberWordsPT)+len(numberWordsEN))
	for w, v := range numberWordsES {
		merged[w] = v
	}
	for w, v := range numberWordsPT {
		merged[w] = v
	}
	for w, v := range numberWordsEN {
		merged[w] = v
	}
	return merged
}

var numberWordsES = map[string]int64{
	"cero": 0, "uno": 1, "una": 1, "dos": 2, "tres": 3, "cuatro": 4,
	"cinco": 5, "seis": 6, "siete": 7, "ocho": 8, "nueve": 9,
	"diez": 10, "once": 11, "doce": 12, "trece": 13, "catorce": 14,
	"quince": 15, "dieciséis": 16, "dieciseis": 16, "diecisiete": 17,
	"dieciocho": 18, "diecinueve": 19, "veinte": 20, "treinta": 30,
	"cuarenta": 40, "cincuenta": 50, "sesenta": 60, "setenta": 70,
	"ochenta": 80, "noventa": 90, "cien": 100, "ciento": 100,
	"doscientos": 200, "trescientos": 300, "cuatrocientos": 400,
	"quinientos": 500, "seiscientos": 600, "setecientos": 700,
	"ochocientos": 800, "novecientos": 900,
}

var numberWordsPT = map[string]int64{
	"zero": 0, "um": 1, "uma": 1, "dois": 2, "duas": 2, "três": 3, "tres": 3,
	"quatro": 4, "cinco": 5, "seis": 6, "sete": 7, "oito": 8, "nove": 9,
	"dez": 10, "onze": 11, "doze": 12, "treze": 13, "catorze": 14, "quatorze": 14,
	"quinze": 15, "dezesseis": 16, "dezessete": 17, "dezoito": 18, "dezenove": 19,
	"vinte": 20, "trinta": 30, "quarenta": 40, "cinquenta": 50,
	"sessenta": 60, "setenta": 70, "oitenta": 80, "noventa": 90,
	"cem": 100, "cento": 100, "duzentos": 200, "trezentos": 300,
	"quatrocentos": 400, "quinhentos": 500, "seiscentos": 600,
	"setecentos": 700, "oitocentos": 800, "novecentos": 900,
}

var numberWordsEN = map[string]int64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
	"thirty": 30, "forty": 40, "fifty": 50, "sixty": 60, "seventy": 70,
	"eighty": 80, "ninety": 90, "hundred": 100,
}
