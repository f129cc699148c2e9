package budget

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StandardServices are the household utilities that get auto-provisioned
// as budget categories the moment matching expenses show up.
var StandardServices = []string{"Agua", "Luz", "Gas", "Internet", "Gasto Común", "Celular"}

// HotProvisionWindow bounds auto-provisioning on funds that already carry
// a budget: only an expense this recent may open a new standard category,
// so one old water bill does not resurrect "Agua" months later.
const HotProvisionWindow = 48 * time.Hour

// ProvisionStandard decides which standard service categories to create
// for a fund, given its current items and recent expense history.
//
// An empty budget is seeded from any matching expense in the history
// window. A non-empty budget only grows when a matching expense landed
// within hotWindow of now. New items start at amount 0 and are automated,
// so the next averages pass prices them. Already-present services are
// skipped.
func ProvisionStandard(fundID uuid.UUID, items []BudgetItem, movements []Movement, now time.Time, hotWindow time.Duration) []BudgetItem {
	var created []BudgetItem
	for _, service := range StandardServices {
		key := Normalize(service, true)
		if hasItemFor(items, key) {
			continue
		}

		matched := expensesMentioning(movements, key)
		if len(matched) == 0 {
			continue
		}
		if len(items) > 0 && !anyWithin(matched, now, hotWindow) {
			continue
		}

		created = append(created, BudgetItem{
			FundID:             fundID,
			Name:               service,
			Amount:             0,
			Type:               ItemVariableService,
			IsAutomated:        true,
			Installments:       1,
			CurrentInstallment: 1,
		})
	}
	return created
}

// hasItemFor and expensesMentioning use one-directional containment on
// the already-normalized service key. The wider overlaps match is
// reserved for averaging; provisioning stays narrow so "gasto" alone
// never spawns "Gasto Común".
func hasItemFor(items []BudgetItem, key string) bool {
	for _, item := range items {
		if strings.Contains(Normalize(item.Name, true), key) {
			return true
		}
	}
	return false
}

func expensesMentioning(movements []Movement, key string) []Movement {
	var out []Movement
	for _, m := range movements {
		if m.Type != MovementExpense {
			continue
		}
		if strings.Contains(Normalize(m.Description, true), key) {
			out = append(out, m)
		}
	}
	return out
}

func matchingExpenses(movements []Movement, name string) []Movement {
	var out []Movement
	for _, m := range movements {
		if m.Type != MovementExpense {
			continue
		}
		if overlaps(name, m.Description) {
			out = append(out, m)
		}
	}
	return out
}

func anyWithin(movements []Movement, now time.Time, window time.Duration) bool {
	cutoff := now.Add(-window)
	for _, m := range movements {
		if !m.Date.Before(cutoff) {
			return true
		}
	}
	return false
}

// monthlyAverage divides the total spent by the number of distinct
// calendar months touched, not by elapsed time. Two bills in January and
// one in March average over two months. Integer division floors.
func monthlyAverage(movements []Movement) int64 {
	if len(movements) == 0 {
		return 0
	}
	months := make(map[string]struct{}, len(movements))
	var total int64
	for _, m := range movements {
		total += m.Amount
		months[m.Date.Format("2006-01")] = struct{}{}
	}
	return total / int64(len(months))
}

// RecomputeAverages returns the new amount for each automated
// variable-service item whose monthly average moved. Items with no
// matching expenses keep their current amount; the map only holds real
// changes so callers can skip writes entirely when nothing shifted.
func RecomputeAverages(items []BudgetItem, movements []Movement) map[uuid.UUID]int64 {
	changes := make(map[uuid.UUID]int64)
	for _, item := range items {
		// Every variable service is treated as automated; older rows
		// predating the flag are averaged all the same.
		if item.Type != ItemVariableService {
			continue
		}
		matched := matchingExpenses(movements, item.Name)
		if len(matched) == 0 {
			continue
		}
		if avg := monthlyAverage(matched); avg != item.Amount {
			changes[item.ID] = avg
		}
	}
	return changes
}

// BurnRate sums the monthly cost of every live budget item. Fully paid
// installment plans drop out; everything else, including single-payment
// fixed items, counts at face value.
func BurnRate(items []BudgetItem) int64 {
	var total int64
	for _, item := range items {
		if item.Expired() {
			continue
		}
		total += item.Amount
	}
	return total
}

// AdvanceInstallments returns the up-to-date installment counter for each
// multi-installment plan that has fallen behind the calendar. A plan
// started in January observed in March is on installment 3. Counters may
// exceed Installments by one, which is how Expired detects completion.
func AdvanceInstallments(items []BudgetItem, now time.Time) map[uuid.UUID]int {
	changes := make(map[uuid.UUID]int)
	for _, item := range items {
		if item.Type != ItemFixedPago || item.Installments <= 1 || item.InstallmentStart == nil {
			continue
		}
		current := monthsBetween(*item.InstallmentStart, now) + 1
		if current < 1 {
			current = 1
		}
		if current > item.Installments+1 {
			current = item.Installments + 1
		}
		if current != item.CurrentInstallment {
			changes[item.ID] = current
		}
	}
	return changes
}

func monthsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	months := int(to.Month()) - int(from.Month())
	return years*12 + months
}
