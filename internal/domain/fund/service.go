package fund

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pdiazg46-design/app-finanza-Facil/internal/domain/budget"
)

// Metrics is the freedom snapshot for one fund.
type Metrics struct {
	FundID              uuid.UUID `json:"fund_id"`
	Currency            string    `json:"currency"`
	Balance             int64     `json:"balance"`
	TotalSavings        int64     `json:"total_savings"`
	TotalLiquidReserves int64     `json:"total_liquid_reserves"`
	MonthlyBurnRate     int64     `json:"monthly_burn_rate"`
	MovingBurnRate      int64     `json:"moving_burn_rate"`
	FreedomDays         int64     `json:"freedom_days"`
	TargetDays          int64     `json:"target_days"`
	Tier                TierInfo  `json:"tier"`
	TotalDebt           int64     `json:"total_debt"`
	MonthExpenses       int64     `json:"month_expenses"`
	ProjectedExpenses   int64     `json:"projected_expenses"`
	DisposableIncome    int64     `json:"disposable_income"`
}

// Refresher is the budget maintenance pass run before reading metrics, so
// averages and burn rates are never stale. *budget.Service implements it.
type Refresher interface {
	RefreshAverages(ctx context.Context, fundID uuid.UUID) error
}

// Service computes fund metrics on top of the budget store.
type Service struct {
	store     budget.Store
	refresher Refresher
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a fund metrics service.
func NewService(store budget.Store, refresher Refresher, logger *slog.Logger) *Service {
	return &Service{store: store, refresher: refresher, logger: logger, now: time.Now}
}

// Metrics refreshes the fund's budget and derives the freedom snapshot.
func (s *Service) Metrics(ctx context.Context, fundID uuid.UUID) (*Metrics, error) {
	if err := s.refresher.RefreshAverages(ctx, fundID); err != nil {
		return nil, err
	}

	f, err := s.store.GetFund(ctx, fundID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListItems(ctx, fundID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	movements, err := s.store.ListMovementsSince(ctx, fundID, startOfMonth.AddDate(0, -2, 0))
	if err != nil {
		return nil, err
	}

	var monthExpenses int64
	for _, m := range movements {
		if m.Type == budget.MovementExpense && !m.Date.Before(startOfMonth) {
			monthExpenses += m.Amount
		}
	}

	var totalDebt int64
	for _, item := range items {
		totalDebt += item.RemainingDebt()
	}

	burn := budget.BurnRate(items)
	reserves := f.Balance + f.TotalSavings
	days := FreedomDays(reserves, burn)
	moving := MovingBurnRate(monthlyExpenseSeries(movements, startOfMonth))

	projected := burn - monthExpenses
	if projected < 0 {
		projected = 0
	}
	disposable := f.Balance - projected
	if disposable < 0 {
		disposable = 0
	}

	return &Metrics{
		FundID:              f.ID,
		Currency:            f.Currency,
		Balance:             f.Balance,
		TotalSavings:        f.TotalSavings,
		TotalLiquidReserves: reserves,
		MonthlyBurnRate:     burn,
		MovingBurnRate:      moving,
		FreedomDays:         days,
		TargetDays:          TargetDays,
		Tier:                TierFor(days),
		TotalDebt:           totalDebt,
		MonthExpenses:       monthExpenses,
		ProjectedExpenses:   projected,
		DisposableIncome:    disposable,
	}, nil
}

// monthlyExpenseSeries buckets expenses into calendar months, newest
// first, covering the current month and the two before it. Trailing
// months with no spending are dropped so a fund with one month of history
// is not averaged against empty months.
func monthlyExpenseSeries(movements []budget.Movement, startOfMonth time.Time) []int64 {
	series := make([]int64, 3)
	for _, m := range movements {
		if m.Type != budget.MovementExpense {
			continue
		}
		for i := 0; i < 3; i++ {
			bucket := startOfMonth.AddDate(0, -i, 0)
			if !m.Date.Before(bucket) {
				series[i] += m.Amount
				break
			}
		}
	}
	for len(series) > 1 && series[len(series)-1] == 0 {
		series = series[:len(series)-1]
	}
	return series
}
