package voice

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// amountStrategy is one extraction rule. Strategies are tried in a fixed
// priority order; the first one that produces a value wins.
type amountStrategy struct {
	name string
	fn   func(cmd, currency string) (int64, bool)
}

// amountExtractor turns a normalized utterance into a whole-unit monetary
// value. Unit regexes are compiled once per known currency from the lexicon
// tables, so per-test lexicon overrides only require a new extractor.
type amountExtractor struct {
	lex      *Lexicon
	compound map[string]*regexp.Regexp
	withUnit map[string]*regexp.Regexp
}

var (
	// "100 pesos", "50 soles", "20 dólares" with no slang multiplier.
	currencyNameRe = regexp.MustCompile(`(\d+(?:[.,\s]*\d+)*)\s*(pesos?|soles?|d[oó]lares?|dollars?)`)
	// Any digit run, locale separators included.
	bareNumberRe = regexp.MustCompile(`\d+(?:[.,\s]*\d+)*`)
)

func newAmountExtractor(lex *Lexicon) *amountExtractor {
	e := &amountExtractor{
		lex:      lex,
		compound: make(map[string]*regexp.Regexp),
		withUnit: make(map[string]*regexp.Regexp),
	}
	for _, code := range lex.Currencies() {
		tab, _ := lex.Synonyms(code)
		alts := unitAlternation(tab)
		e.compound[code] = regexp.MustCompile(`(\d+)\s*cuotas?\s+de\s+(\d+)\s*(` + alts + `)\b`)
		e.withUnit[code] = regexp.MustCompile(`(\d+(?:[.,\s]*\d+)*)\s*(` + alts + `)\b`)
	}
	return e
}

// Extract runs the strategy chain over an already lower-cased utterance and
// returns the amount in whole currency units, or 0 when nothing matched.
func (e *amountExtractor) Extract(cmd, currency string) int64 {
	for _, s := range e.strategies() {
		if amount, ok := s.fn(cmd, currency); ok {
			return amount
		}
	}
	// Last resort: a spelled-out number below the 1000 guard is still better
	// than nothing once every other rule has failed.
	tab, _ := e.lex.Synonyms(currency)
	if v := e.parseTextNumber(cmd, tab); v > 0 {
		return v
	}
	return 0
}

func (e *amountExtractor) strategies() []amountStrategy {
	return []amountStrategy{
		{"installment_compound", e.installmentCompound},
		{"number_with_unit", e.numberWithUnit},
		{"spelled_number", e.spelledNumber},
		{"number_with_currency_name", e.numberWithCurrencyName},
		{"bare_digits", e.bareDigits},
	}
}

// installmentCompound handles "3 cuotas de 10 mil": the result is the
// per-installment amount, not the plan total.
func (e *amountExtractor) installmentCompound(cmd, currency string) (int64, bool) {
	m := e.compoundRe(currency).FindStringSubmatch(cmd)
	if m == nil {
		return 0, false
	}
	amount := parseLeadingFloat(m[2])
	tab, _ := e.lex.Synonyms(currency)
	if mult, ok := tab[m[3]]; ok {
		amount *= mult
	}
	return int64(math.Round(amount)), true
}

// numberWithUnit handles "25 lucas", "3 mil", "2 palos".
func (e *amountExtractor) numberWithUnit(cmd, currency string) (int64, bool) {
	m := e.withUnitRe(currency).FindStringSubmatch(cmd)
	if m == nil {
		return 0, false
	}
	raw := strings.ReplaceAll(m[1], ".", "")
	raw = strings.Replace(raw, ",", ".", 1)
	amount := parseLeadingFloat(raw)
	tab, _ := e.lex.Synonyms(currency)
	mult, ok := tab[m[2]]
	if !ok {
		return 0, false
	}
	return int64(math.Round(amount * mult)), true
}

// spelledNumber handles "quince mil", "doscientos cincuenta lucas". Values
// below 1000 are rejected here so that phrases like "2 cuotas" spelled out
// do not register as money; they can still surface via the last-resort path.
func (e *amountExtractor) spelledNumber(cmd, currency string) (int64, bool) {
	tab, _ := e.lex.Synonyms(currency)
	v := e.parseTextNumber(cmd, tab)
	if v >= 1000 {
		return v, true
	}
	return 0, false
}

// numberWithCurrencyName handles "15000 pesos", "100 soles".
func (e *amountExtractor) numberWithCurrencyName(cmd, _ string) (int64, bool) {
	m := currencyNameRe.FindStringSubmatch(cmd)
	if m == nil {
		return 0, false
	}
	return int64(math.Round(parseLeadingFloat(stripSeparators(m[1])))), true
}

// bareDigits handles a plain digit run anywhere in the utterance.
func (e *amountExtractor) bareDigits(cmd, _ string) (int64, bool) {
	m := bareNumberRe.FindString(cmd)
	if m == "" {
		return 0, false
	}
	clean := stripSeparators(m)
	if clean == "" {
		return 0, false
	}
	return int64(math.Round(parseLeadingFloat(clean))), true
}

// parseTextNumber accumulates spelled-out cardinals using short-scale
// composition: values >= 100 multiply the running group, smaller values add.
// A slang token flushes the group through its multiplier ("quince lucas").
func (e *amountExtractor) parseTextNumber(text string, tab map[string]float64) int64 {
	var total, current float64
	for _, word := range strings.Fields(text) {
		if v, ok := e.lex.NumberWord(word); ok {
			if v >= 100 {
				if current == 0 {
					current = float64(v)
				} else {
					current *= float64(v)
				}
			} else {
				current += float64(v)
			}
		} else if mult, ok := tab[word]; ok && mult != 0 {
			if current == 0 {
				current = 1
			}
			total += current * mult
			current = 0
		}
	}
	total += current
	if total <= 0 {
		return 0
	}
	return int64(math.Round(total))
}

func (e *amountExtractor) compoundRe(currency string) *regexp.Regexp {
	if re, ok := e.compound[currency]; ok {
		return re
	}
	return e.compound[DefaultCurrency]
}

func (e *amountExtractor) withUnitRe(currency string) *regexp.Regexp {
	if re, ok := e.withUnit[currency]; ok {
		return re
	}
	return e.withUnit[DefaultCurrency]
}

// unitAlternation builds a regex alternation from a slang table, longest
// token first so "lucas" wins over "luca".
func unitAlternation(tab map[string]float64) string {
	tokens := make([]string, 0, len(tab))
	for t := range tab {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	for i, t := range tokens {
		tokens[i] = regexp.QuoteMeta(t)
	}
	return strings.Join(tokens, "|")
}

// stripSeparators removes locale thousand separators and stray spaces from
// a captured numeral ("25.000" and "25 000" both become "25000").
func stripSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseLeadingFloat reads the leading numeric prefix of s (digits plus an
// optional single decimal point), mirroring lenient parsers that stop at the
// first non-numeric character instead of erroring out.
func parseLeadingFloat(s string) float64 {
	var intPart, fracPart float64
	var fracScale float64 = 1
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		intPart = intPart*10 + float64(s[i]-'0')
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			fracPart = fracPart*10 + float64(s[i]-'0')
			fracScale *= 10
			i++
		}
	}
	return intPart + fracPart/fracScale
}
