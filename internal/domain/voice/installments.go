package voice

import (
	"regexp"
	"strconv"
)

// installmentPatterns are tried in order; the first capture wins.
var installmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*(?:cuotas?|meses)`),
	regexp.MustCompile(`en\s*(\d+)\s*(?:pagos?|veces)`),
	regexp.MustCompile(`(\d+)\s*dividendos?`),
	regexp.MustCompile(`(\d+)x`),
}

// ExtractInstallments returns the number of payment periods mentioned in the
// utterance, or 1 when no installment phrasing is present. The value feeds
// the intent classifier: an explicit plan is a strong fixed-payment signal.
func ExtractInstallments(cmd string) int {
	for _, re := range installmentPatterns {
		if m := re.FindStringSubmatch(cmd); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
				return n
			}
		}
	}
	return 1
}
