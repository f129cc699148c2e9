// Package fund turns a shared fund's money into time: freedom days,
// freedom tiers and expense impact, all derived from the monthly burn
// rate.
package fund

import (
	"math"

	"github.com/shopspring/decimal"
)

// Tier names a band of financial freedom measured in days of runway.
type Tier string

const (
	TierSurvival     Tier = "SURVIVAL"
	TierSecurity     Tier = "SECURITY"
	TierFlexibility  Tier = "FLEXIBILITY"
	TierIndependence Tier = "INDEPENDENCE"
	TierAbundance    Tier = "ABUNDANCE"
)

// TierInfo carries the user-facing label for a tier and the freedom-day
// floor where it begins.
type TierInfo struct {
	Tier    Tier   `json:"tier"`
	Label   string `json:"label"`
	MinDays int64  `json:"min_days"`
}

// tiers is ordered highest floor first so TierFor can take the first hit.
var tiers = []TierInfo{
	{TierAbundance, "Libertad Total", 1000},
	{TierIndependence, "Dueño de mi Tiempo", 365},
	{TierFlexibility, "Caminando solo", 180},
	{TierSecurity, "Piso Firme", 90},
	{TierSurvival, "En la cuerda floja", 0},
}

// TargetDays is the runway that counts as total freedom.
const TargetDays int64 = 1000

// FreedomDays is how long the reserves last at the current burn rate,
// floored to whole days. A fund that spends nothing yet counts every unit
// as one day of runway rather than reporting infinity.
func FreedomDays(reserves, monthlyBurn int64) int64 {
	if monthlyBurn <= 0 {
		return reserves
	}
	return reserves * 30 / monthlyBurn
}

// TierFor maps freedom days onto the tier ladder.
func TierFor(days int64) TierInfo {
	for _, t := range tiers {
		if days >= t.MinDays {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// MovingBurnRate smooths recent monthly spending into one figure,
// weighting the newest month heaviest (50/30/20 over the last three;
// older entries are ignored). Input is newest first. The result is the
// weighted mean rounded to the nearest unit.
func MovingBurnRate(monthlyExpenses []int64) int64 {
	if len(monthlyExpenses) == 0 {
		return 0
	}
	weights := []float64{0.5, 0.3, 0.2}

	var weightedSum, totalWeight float64
	for i, expense := range monthlyExpenses {
		if i >= len(weights) {
			break
		}
		weightedSum += float64(expense) * weights[i]
		totalWeight += weights[i]
	}
	return int64(math.Round(weightedSum / totalWeight))
}

// ExpenseImpact is the freedom-day cost of a single expense, kept at four
// decimal places so small purchases still register against a large burn
// rate. Zero burn means zero impact here; a fund with no budget has no
// day price to quote.
func ExpenseImpact(amount, monthlyBurn int64) decimal.Decimal {
	if monthlyBurn <= 0 {
		return decimal.Zero
	}
	dailyBurn := decimal.NewFromInt(monthlyBurn).Div(decimal.NewFromInt(30))
	return decimal.NewFromInt(amount).DivRound(dailyBurn, 4)
}
