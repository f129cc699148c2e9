package budget

import (
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(fundID uuid.UUID, desc string, amount int64, date time.Time) Movement {
	return Movement{
		ID: uuid.New(), FundID: fundID, Type: MovementExpense,
		Description: desc, Amount: amount, Installments: 1,
		Category: "General", Date: date,
	}
}

func TestProvisionStandard_EmptyBudgetSeedsFromHistory(t *testing.T) {
	fundID := uuid.New()
	now := time.Now()
	movements := []Movement{
		expense(fundID, "pago de luz 15000", 15000, now.AddDate(0, 0, -30)),
	}

	created := ProvisionStandard(fundID, nil, movements, now, HotProvisionWindow)
	require.Len(t, created, 1)

	item := created[0]
	assert.Equal(t, "Luz", item.Name)
	assert.Equal(t, ItemVariableService, item.Type)
	assert.True(t, item.IsAutomated)
	assert.Zero(t, item.Amount)
}

func TestProvisionStandard_SecondPassCreatesNoDuplicate(t *testing.T) {
	fundID := uuid.New()
	now := time.Now()
	movements := []Movement{
		expense(fundID, "pago de luz", 15000, now.AddDate(0, 0, -30)),
	}

	first := ProvisionStandard(fundID, nil, movements, now, HotProvisionWindow)
	require.Len(t, first, 1)

	second := ProvisionStandard(fundID, first, movements, now, HotProvisionWindow)
	assert.Empty(t, second)
}

func TestProvisionStandard_HotWindowOnNonEmptyBudget(t *testing.T) {
	fundID := uuid.New()
	now := time.Now()
	existing := []BudgetItem{{ID: uuid.New(), FundID: fundID, Name: "Netflix", Type: ItemSubscription}}

	stale := []Movement{expense(fundID, "cuenta de agua", 9000, now.AddDate(0, 0, -10))}
	assert.Empty(t, ProvisionStandard(fundID, existing, stale, now, HotProvisionWindow),
		"old movements must not resurrect categories on a non-empty budget")

	fresh := []Movement{expense(fundID, "cuenta de agua", 9000, now.Add(-time.Hour))}
	created := ProvisionStandard(fundID, existing, fresh, now, HotProvisionWindow)
	require.Len(t, created, 1)
	assert.Equal(t, "Agua", created[0].Name)
}

func TestProvisionStandard_ContributionsAreIgnored(t *testing.T) {
	fundID := uuid.New()
	now := time.Now()
	movements := []Movement{{
		ID: uuid.New(), FundID: fundID, Type: MovementContribution,
		Description: "luz del aporte", Amount: 50000, Date: now.Add(-time.Hour),
	}}

	assert.Empty(t, ProvisionStandard(fundID, nil, movements, now, HotProvisionWindow))
}

func TestRecomputeAverages_DistinctMonthDivision(t *testing.T) {
	fundID := uuid.New()
	itemID := uuid.New()
	items := []BudgetItem{{
		ID: itemID, FundID: fundID, Name: "Luz",
		Type: ItemVariableService, IsAutomated: true, Amount: 10000,
	}}

	jan := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	movements := []Movement{
		expense(fundID, "pago de luz", 16000, jan),
		expense(fundID, "luz enel", 20000, mar),
	}

	changes := RecomputeAverages(items, movements)
	require.Contains(t, changes, itemID)
	// 36000 over two distinct calendar months, floored.
	assert.Equal(t, int64(18000), changes[itemID])
}

func TestRecomputeAverages_NoMatchesLeavesItemUntouched(t *testing.T) {
	items := []BudgetItem{{
		ID: uuid.New(), Name: "Gas", Type: ItemVariableService, IsAutomated: true, Amount: 12000,
	}}
	movements := []Movement{expense(uuid.New(), "sushi", 9000, time.Now())}

	assert.Empty(t, RecomputeAverages(items, movements))
}

func TestRecomputeAverages_UnchangedAverageEmitsNoWrite(t *testing.T) {
	itemID := uuid.New()
	items := []BudgetItem{{
		ID: itemID, Name: "Agua", Type: ItemVariableService, IsAutomated: true, Amount: 9000,
	}}
	movements := []Movement{expense(uuid.New(), "cuenta de agua", 9000, time.Now())}

	assert.Empty(t, RecomputeAverages(items, movements))
}

func TestBurnRate_ExcludesExpiredPlans(t *testing.T) {
	start := time.Now().AddDate(0, -13, 0)
	items := []BudgetItem{
		{Name: "Arriendo", Amount: 450000, Type: ItemFixedPago, Installments: 1},
		{Name: "Netflix", Amount: 8990, Type: ItemSubscription, Installments: 1},
		{
			Name: "Tele", Amount: 50000, Type: ItemFixedPago,
			Installments: 12, CurrentInstallment: 13, InstallmentStart: &start,
		},
	}

	assert.Equal(t, int64(458990), BurnRate(items))

	items[2].CurrentInstallment = 12
	assert.Equal(t, int64(508990), BurnRate(items), "a live plan counts at face value")
}

func TestAdvanceInstallments(t *testing.T) {
	now := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	finished := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	current := uuid.New()
	done := uuid.New()
	single := uuid.New()

	items := []BudgetItem{
		{
			ID: current, Type: ItemFixedPago, Installments: 12,
			CurrentInstallment: 1, InstallmentStart: &start,
		},
		{
			ID: done, Type: ItemFixedPago, Installments: 6,
			CurrentInstallment: 6, InstallmentStart: &finished,
		},
		{ID: single, Type: ItemFixedPago, Installments: 1, CurrentInstallment: 1},
	}

	changes := AdvanceInstallments(items, now)

	// June start observed in August is on installment 3.
	assert.Equal(t, 3, changes[current])
	// A finished plan caps at installments+1 so Expired can fire.
	assert.Equal(t, 7, changes[done])
	assert.NotContains(t, changes, single)
}

func TestMonthsBetween(t *testing.T) {
	from := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, monthsBetween(from, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, monthsBetween(from, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 13, monthsBetween(from, time.Date(2027, time.February, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRecomputeAverages_BulkHistory(t *testing.T) {
	gofakeit.Seed(11)

	fundID := uuid.New()
	itemID := uuid.New()
	items := []BudgetItem{{
		ID: itemID, FundID: fundID, Name: "Internet",
		Type: ItemVariableService, IsAutomated: true, Amount: 1,
	}}

	// Three months of bills buried in unrelated noise.
	var movements []Movement
	var total int64
	for m := 0; m < 3; m++ {
		date := time.Date(2026, time.Month(3+m), 12, 0, 0, 0, 0, time.UTC)
		amount := int64(gofakeit.Number(20000, 40000))
		total += amount
		movements = append(movements, expense(fundID, "pago internet fibra", amount, date))

		for i := 0; i < 50; i++ {
			movements = append(movements, expense(
				fundID,
				fmt.Sprintf("%s %s", gofakeit.Fruit(), gofakeit.Animal()),
				int64(gofakeit.Number(1000, 90000)),
				date.AddDate(0, 0, gofakeit.Number(0, 15)),
			))
		}
	}

	changes := RecomputeAverages(items, movements)
	require.Contains(t, changes, itemID)
	assert.Equal(t, total/3, changes[itemID])
}

func BenchmarkRecomputeAverages(b *testing.B) {
	gofakeit.Seed(7)
	fundID := uuid.New()

	items := make([]BudgetItem, 0, 10)
	for _, name := range StandardServices {
		items = append(items, BudgetItem{
			ID: uuid.New(), FundID: fundID, Name: name,
			Type: ItemVariableService, IsAutomated: true,
		})
	}
	movements := make([]Movement, 0, 1000)
	for i := 0; i < 1000; i++ {
		movements = append(movements, expense(
			fundID, gofakeit.ProductName(), int64(gofakeit.Number(500, 500000)),
			time.Date(2026, time.Month(1+i%6), 1+i%28, 0, 0, 0, 0, time.UTC),
		))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		RecomputeAverages(items, movements)
	}
}
