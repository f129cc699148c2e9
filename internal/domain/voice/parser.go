package voice

import (
	"strings"
)

// ParsedCommand is the structured result of parsing one utterance. It is
// created fresh per call and never mutated afterwards.
type ParsedCommand struct {
	Name         string      `json:"name"`
	Amount       int64       `json:"amount"`
	Type         CommandType `json:"type"`
	Installments int         `json:"installments"`
	Confidence   float64     `json:"confidence"`
}

// MinConfidence is the caller-side go/no-go threshold: results below it must
// be treated as parse failures and never persisted.
const MinConfidence = 0.5

// parsedConfidence is assigned whenever an amount was found. Confidence is
// binary in practice today; the field exists so the model can be graded
// later without changing the contract.
const parsedConfidence = 0.9

// Default labels when the description extractor comes back empty.
const (
	defaultContributionName = "Aporte"
	defaultExpenseName      = "Gasto"
)

// Parser is the public entry point of the voice engine. It is a pure
// function of (utterance, currency): no suspension points, no shared
// mutable state, safe for concurrent use.
type Parser struct {
	lex        *Lexicon
	amounts    *amountExtractor
	classifier *Classifier
}

// NewParser builds a parser over the given lexicon.
func NewParser(lex *Lexicon) *Parser {
	return &Parser{
		lex:        lex,
		amounts:    newAmountExtractor(lex),
		classifier: NewClassifier(),
	}
}

// KnowsCurrency reports whether parsing for the code uses its own lexicon
// table or silently degrades to the default one. Degrading is documented
// behavior, not an error; this exists so callers can count it.
func (p *Parser) KnowsCurrency(currency string) bool {
	return p.lex.Knows(currency)
}

// Parse converts free-form text into a ParsedCommand. It returns nil when
// no monetary amount can be extracted: there are no partial results, and
// malformed input never produces an error, only a nil command.
func (p *Parser) Parse(text, currency string) *ParsedCommand {
	normalized := strings.ToLower(strings.TrimSpace(text))

	amount := p.amounts.Extract(normalized, currency)
	if amount == 0 {
		return nil
	}

	// The installment count feeds classification only: an utterance like
	// "sushi en 3 cuotas" classifies as a fixed payment, but the assembled
	// command still reports a single installment. Downstream plan tracking
	// relies on this exact behavior.
	installments := ExtractInstallments(normalized)
	cmdType := p.classifier.Classify(normalized, installments)

	name := ExtractName(normalized)
	if name == "" {
		if cmdType == TypeContribution {
			name = defaultContributionName
		} else {
			name = defaultExpenseName
		}
	}

	return &ParsedCommand{
		Name:         name,
		Amount:       amount,
		Type:         cmdType,
		Installments: 1,
		Confidence:   parsedConfidence,
	}
}
