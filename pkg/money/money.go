// Package money formats whole-unit monetary amounts for user-facing
// messages. Budget amounts in this app are integers in the base currency
// unit (CLP-style, no decimals); go-money supplies the ISO-4217 metadata
// and locale symbols, decimal handles the minor-unit scaling for the few
// supported currencies that do carry decimals.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a currency code is unknown to go-money.
const DefaultCurrency = "CLP"

// Format renders a whole-unit amount with the currency's symbol and
// grouping, e.g. Format(25000, "CLP") -> "$25,000".
func Format(amount int64, currencyCode string) string {
	cur := gomoney.GetCurrency(currencyCode)
	if cur == nil {
		cur = gomoney.GetCurrency(DefaultCurrency)
	}
	return gomoney.New(MinorUnits(amount, cur.Code), cur.Code).Display()
}

// MinorUnits converts a whole-unit amount into the currency's minor units
// (25000 CLP -> 25000, 100 USD -> 10000).
func MinorUnits(amount int64, currencyCode string) int64 {
	cur := gomoney.GetCurrency(currencyCode)
	if cur == nil {
		cur = gomoney.GetCurrency(DefaultCurrency)
	}
	return decimal.NewFromInt(amount).
		Mul(decimal.New(1, int32(cur.Fraction))).
		IntPart()
}
