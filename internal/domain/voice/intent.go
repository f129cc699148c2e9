package voice

import (
	"github.com/cloudflare/ahocorasick"
)

// CommandType classifies what a parsed utterance asks for.
type CommandType string

const (
	TypeSubscription    CommandType = "SUBSCRIPTION"
	TypeFixedPago       CommandType = "FIXED_PAGO"
	TypeVariableService CommandType = "VARIABLE_SERVICE"
	TypeContribution    CommandType = "CONTRIBUTION"
)

// Keyword sets backing the classifier. Order of the sets is irrelevant;
// precedence lives in Classify.
var (
	subscriptionKeywords = []string{
		"netflix", "spotify", "amazon", "prime", "disney", "hbo", "apple",
		"youtube", "premium", "suscripción", "suscripcion", "mensual",
		"plan", "servicio",
	}

	fixedKeywords = []string{
		"arriendo", "alquiler", "crédito", "credito", "préstamo", "prestamo",
		"cuota", "cuotas", "dividendo", "hipoteca", "auto", "carro",
	}

	variableKeywords = []string{
		"luz", "agua", "gas", "internet", "teléfono", "telefono", "celular",
		"electricidad", "promedio",
		// Supermarket and food.
		"super", "supermercado", "mercado", "compra", "compras", "jumbo",
		"lider", "unimarc", "santa isabel", "tottus",
		"almacén", "almacen", "feria", "verduras", "frutas", "comida", "alimentos",
	}

	contributionKeywords = []string{
		"aporte", "ingreso", "abono", "sueldo", "abone", "puse", "agregue",
		"agrego", "sume", "deposite", "cargue", "sumar", "sumé",
	}
)

// Classifier decides the command type from keyword hits and structure.
// Each keyword set is compiled into an Aho-Corasick matcher so a whole set
// is scanned in a single pass over the utterance.
type Classifier struct {
	contribution *ahocorasick.Matcher
	subscription *ahocorasick.Matcher
	fixed        *ahocorasick.Matcher
	variable     *ahocorasick.Matcher
}

// NewClassifier compiles the default keyword sets.
func NewClassifier() *Classifier {
	return &Classifier{
		contribution: ahocorasick.NewStringMatcher(contributionKeywords),
		subscription: ahocorasick.NewStringMatcher(subscriptionKeywords),
		fixed:        ahocorasick.NewStringMatcher(fixedKeywords),
		variable:     ahocorasick.NewStringMatcher(variableKeywords),
	}
}

// Classify applies the rule list in strict precedence order. This is a
// deterministic decision list, not a scorer: the first rule that fires wins.
func (c *Classifier) Classify(cmd string, installments int) CommandType {
	// An explicit payment plan is decisive regardless of other keywords.
	if installments > 1 {
		return TypeFixedPago
	}
	in := []byte(cmd)
	if len(c.contribution.Match(in)) > 0 {
		return TypeContribution
	}
	if len(c.subscription.Match(in)) > 0 {
		return TypeSubscription
	}
	if len(c.fixed.Match(in)) > 0 {
		return TypeFixedPago
	}
	if len(c.variable.Match(in)) > 0 {
		return TypeVariableService
	}
	// Unrecognized daily spending is far more often irregular than fixed.
	return TypeVariableService
}
