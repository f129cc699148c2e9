package budget

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiazg46-design/app-finanza-Facil/internal/domain/voice"
)

// fakeStore is an in-memory Store. Writes are counted so idempotence
// tests can assert that a no-op pass stays a no-op.
type fakeStore struct {
	fund      *SharedFund
	items     []BudgetItem
	movements []Movement

	itemWrites int
	burnWrites int
}

func newFakeStore(fund *SharedFund) *fakeStore {
	return &fakeStore{fund: fund}
}

func (f *fakeStore) GetFund(_ context.Context, fundID uuid.UUID) (*SharedFund, error) {
	if f.fund == nil || f.fund.ID != fundID {
		return nil, ErrNotFound
	}
	cp := *f.fund
	return &cp, nil
}

func (f *fakeStore) ListFundIDs(context.Context) ([]uuid.UUID, error) {
	if f.fund == nil {
		return nil, nil
	}
	return []uuid.UUID{f.fund.ID}, nil
}

func (f *fakeStore) AdjustBalance(_ context.Context, fundID uuid.UUID, delta int64) error {
	if f.fund == nil || f.fund.ID != fundID {
		return ErrNotFound
	}
	f.fund.Balance += delta
	return nil
}

func (f *fakeStore) SetBalance(_ context.Context, fundID uuid.UUID, balance int64) error {
	if f.fund == nil || f.fund.ID != fundID {
		return ErrNotFound
	}
	f.fund.Balance = balance
	return nil
}

func (f *fakeStore) SetPartnerInfo(_ context.Context, fundID uuid.UUID, name string, contribution int64) error {
	if f.fund == nil || f.fund.ID != fundID {
		return ErrNotFound
	}
	f.fund.PartnerName = name
	f.fund.PartnerContribution = contribution
	return nil
}

func (f *fakeStore) SetBurnRate(_ context.Context, fundID uuid.UUID, rate int64) error {
	f.fund.MonthlyBurnRate = rate
	f.burnWrites++
	return nil
}

func (f *fakeStore) ListItems(_ context.Context, fundID uuid.UUID) ([]BudgetItem, error) {
	out := make([]BudgetItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeStore) CreateItem(_ context.Context, item *BudgetItem) error {
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	f.items = append(f.items, *item)
	f.itemWrites++
	return nil
}

func (f *fakeStore) UpdateItem(_ context.Context, itemID uuid.UUID, name string, amount int64, itemType ItemType, installments int, start *time.Time) error {
	for i := range f.items {
		if f.items[i].ID == itemID {
			f.items[i].Name = name
			f.items[i].Amount = amount
			f.items[i].Type = itemType
			f.items[i].Installments = installments
			f.items[i].InstallmentStart = start
			f.itemWrites++
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) UpdateItemAmount(_ context.Context, itemID uuid.UUID, amount int64) error {
	for i := range f.items {
		if f.items[i].ID == itemID {
			f.items[i].Amount = amount
			f.itemWrites++
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) SetCurrentInstallment(_ context.Context, itemID uuid.UUID, current int) error {
	for i := range f.items {
		if f.items[i].ID == itemID {
			f.items[i].CurrentInstallment = current
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) CreateMovement(_ context.Context, m *Movement) error {
	m.ID = uuid.New()
	f.movements = append(f.movements, *m)
	return nil
}

func (f *fakeStore) GetMovement(_ context.Context, movementID uuid.UUID) (*Movement, error) {
	for _, m := range f.movements {
		if m.ID == movementID {
			cp := m
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) LastMovement(_ context.Context, fundID uuid.UUID) (*Movement, error) {
	var last *Movement
	for i := range f.movements {
		m := &f.movements[i]
		if m.FundID != fundID {
			continue
		}
		if last == nil || !m.Date.Before(last.Date) {
			last = m
		}
	}
	if last == nil {
		return nil, ErrNotFound
	}
	cp := *last
	return &cp, nil
}

func (f *fakeStore) ListMovementsSince(_ context.Context, fundID uuid.UUID, since time.Time) ([]Movement, error) {
	var out []Movement
	for _, m := range f.movements {
		if m.FundID == fundID && !m.Date.Before(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteMovement(_ context.Context, movementID uuid.UUID) error {
	for i, m := range f.movements {
		if m.ID == movementID {
			f.movements = append(f.movements[:i], f.movements[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) InTx(_ context.Context, fn func(tx Store) error) error {
	return fn(f)
}

func newTestService(store Store) *Service {
	return NewService(store, voice.NewParser(voice.NewLexicon()),
		slog.New(slog.DiscardHandler), 90*24*time.Hour, 48*time.Hour)
}

func testFund(balance int64) *SharedFund {
	return &SharedFund{
		ID:       uuid.New(),
		Name:     "Fondo Común",
		Balance:  balance,
		Currency: "CLP",
	}
}

func TestProcessCommand_Contribution(t *testing.T) {
	fund := testFund(100000)
	store := newFakeStore(fund)
	svc := newTestService(store)

	out, err := svc.ProcessCommand(context.Background(), fund.ID, "aporte de 50 mil al fondo")
	require.NoError(t, err)

	assert.Equal(t, OutcomeContribution, out.Kind)
	assert.Equal(t, int64(150000), store.fund.Balance)
	// Savings are configured data, contributions never touch them.
	assert.Zero(t, store.fund.TotalSavings)

	require.Len(t, store.movements, 1)
	m := store.movements[0]
	assert.Equal(t, MovementContribution, m.Type)
	assert.Equal(t, "Aporte al Fondo", m.Description)
	assert.Equal(t, int64(50000), m.Amount)
	assert.NotEmpty(t, out.Message)
}

func TestProcessCommand_ExpenseUpdatesMatchingItem(t *testing.T) {
	fund := testFund(200000)
	store := newFakeStore(fund)
	store.items = []BudgetItem{{
		ID: uuid.New(), FundID: fund.ID, Name: "Luz",
		Amount: 12000, Type: ItemVariableService, IsAutomated: true,
	}}
	svc := newTestService(store)

	out, err := svc.ProcessCommand(context.Background(), fund.ID, "pago de luz 15000")
	require.NoError(t, err)

	assert.Equal(t, OutcomeExpense, out.Kind)
	assert.Equal(t, int64(15000), store.items[0].Amount)
	assert.Equal(t, int64(185000), store.fund.Balance)
	assert.Equal(t, int64(15000), store.fund.MonthlyBurnRate)
	assert.Contains(t, out.SyncMessage, "Luz")

	require.Len(t, store.movements, 1)
	assert.Equal(t, string(ItemVariableService), store.movements[0].Category)
}

func TestProcessCommand_AutoDiscoversRecurringExpense(t *testing.T) {
	fund := testFund(50000)
	store := newFakeStore(fund)
	svc := newTestService(store)

	out, err := svc.ProcessCommand(context.Background(), fund.ID, "netflix 8990")
	require.NoError(t, err)

	require.Len(t, store.items, 1)
	item := store.items[0]
	assert.Equal(t, "Netflix", item.Name)
	assert.Equal(t, ItemSubscription, item.Type)
	assert.Equal(t, int64(8990), item.Amount)
	assert.False(t, item.IsAutomated)
	assert.Contains(t, out.SyncMessage, "Suscripción")
	assert.Equal(t, int64(8990), store.fund.MonthlyBurnRate)
}

func TestProcessCommand_OneOffExpenseLeavesBudgetAlone(t *testing.T) {
	fund := testFund(50000)
	fund.MonthlyBurnRate = 30000
	store := newFakeStore(fund)
	svc := newTestService(store)

	out, err := svc.ProcessCommand(context.Background(), fund.ID, "sushi 12000")
	require.NoError(t, err)

	assert.Empty(t, store.items)
	assert.Empty(t, out.SyncMessage)
	assert.Equal(t, int64(38000), store.fund.Balance)
	assert.Equal(t, int64(30000), store.fund.MonthlyBurnRate)
	// 12000 at 1000/day costs 12 freedom days.
	assert.Equal(t, int64(12), out.ImpactDays)
}

func TestProcessCommand_ExpenseKeepsInstallmentCount(t *testing.T) {
	fund := testFund(200000)
	store := newFakeStore(fund)
	svc := newTestService(store)

	out, err := svc.ProcessCommand(context.Background(), fund.ID, "compré una tele en 3 cuotas de 10 mil")
	require.NoError(t, err)

	assert.Equal(t, OutcomeExpense, out.Kind)
	require.Len(t, store.movements, 1)
	m := store.movements[0]
	// The movement records the spoken plan; the per-installment amount
	// is what leaves the fund now.
	assert.Equal(t, 3, m.Installments)
	assert.Equal(t, int64(10000), m.Amount)
	assert.Equal(t, int64(190000), store.fund.Balance)
}

func TestProcessCommand_PartnerContribution(t *testing.T) {
	fund := testFund(100000)
	store := newFakeStore(fund)
	svc := newTestService(store)

	out, err := svc.ProcessCommand(context.Background(), fund.ID, "mi pareja aporta 200 mil")
	require.NoError(t, err)

	assert.Equal(t, OutcomeConfig, out.Kind)
	assert.Equal(t, "Pareja", store.fund.PartnerName)
	assert.Equal(t, int64(200000), store.fund.PartnerContribution)
	// Settings utterances never move money or record movements.
	assert.Equal(t, int64(100000), store.fund.Balance)
	assert.Empty(t, store.movements)
	assert.Equal(t, "Aporte de pareja actualizado", out.Message)
}

func TestProcessCommand_PartnerContributionKeepsName(t *testing.T) {
	fund := testFund(0)
	fund.PartnerName = "Caro"
	store := newFakeStore(fund)
	svc := newTestService(store)

	_, err := svc.ProcessCommand(context.Background(), fund.ID, "mi pareja puso 150 mil")
	require.NoError(t, err)

	assert.Equal(t, "Caro", store.fund.PartnerName)
	assert.Equal(t, int64(150000), store.fund.PartnerContribution)
}

func TestProcessCommand_CalibrateFund(t *testing.T) {
	fund := testFund(123456)
	store := newFakeStore(fund)
	svc := newTestService(store)

	out, err := svc.ProcessCommand(context.Background(), fund.ID, "calibra el fondo a 500 mil")
	require.NoError(t, err)

	assert.Equal(t, OutcomeConfig, out.Kind)
	// Calibration overwrites the balance, it does not add to it.
	assert.Equal(t, int64(500000), store.fund.Balance)
	assert.Empty(t, store.movements)
	assert.Contains(t, out.Message, "Fondo calibrado")
}

func TestProcessCommand_UpdatesBudgetAmount(t *testing.T) {
	fund := testFund(1000000)
	store := newFakeStore(fund)
	store.items = []BudgetItem{{
		ID: uuid.New(), FundID: fund.ID, Name: "Arriendo",
		Amount: 400000, Type: ItemFixedPago, Installments: 1, CurrentInstallment: 1,
	}}
	svc := newTestService(store)

	out, err := svc.ProcessCommand(context.Background(), fund.ID, "sube el arriendo a 450 mil")
	require.NoError(t, err)

	assert.Equal(t, OutcomeConfig, out.Kind)
	assert.Equal(t, int64(450000), store.items[0].Amount)
	assert.Equal(t, int64(450000), store.fund.MonthlyBurnRate)
	assert.Equal(t, "Arriendo actualizado", out.Message)
	// No expense happened, the balance is untouched.
	assert.Equal(t, int64(1000000), store.fund.Balance)
}

func TestProcessCommand_UpdateVerbFallsThroughToExpense(t *testing.T) {
	fund := testFund(100000)
	store := newFakeStore(fund)
	svc := newTestService(store)

	// "cambia" with no matching budget item is still a plain expense.
	out, err := svc.ProcessCommand(context.Background(), fund.ID, "cambia de aceite 25000")
	require.NoError(t, err)

	assert.Equal(t, OutcomeExpense, out.Kind)
	assert.Equal(t, int64(75000), store.fund.Balance)
	require.Len(t, store.movements, 1)
}

func TestProcessCommand_UpsertBudgetConcept(t *testing.T) {
	fund := testFund(0)
	store := newFakeStore(fund)
	svc := newTestService(store)

	out, err := svc.ProcessCommand(context.Background(), fund.ID, "agrega gasto fijo auto en 24 cuotas de 300 mil")
	require.NoError(t, err)

	assert.Equal(t, OutcomeConfig, out.Kind)
	require.Len(t, store.items, 1)
	item := store.items[0]
	assert.Equal(t, "Auto (24 cuotas)", item.Name)
	assert.Equal(t, ItemFixedPago, item.Type)
	assert.Equal(t, int64(300000), item.Amount)
	assert.Equal(t, 24, item.Installments)
	assert.Equal(t, 1, item.CurrentInstallment)
	require.NotNil(t, item.InstallmentStart)
	assert.Equal(t, int64(300000), store.fund.MonthlyBurnRate)
	assert.Contains(t, out.Message, "agregado como Pago Fijo")

	// Saying it again updates the existing concept instead of
	// duplicating it.
	out, err = svc.ProcessCommand(context.Background(), fund.ID, "agrega gasto fijo auto en 24 cuotas de 350 mil")
	require.NoError(t, err)

	require.Len(t, store.items, 1)
	assert.Equal(t, int64(350000), store.items[0].Amount)
	assert.Contains(t, out.Message, "Actualizado")
}

func TestProcessCommand_UpsertClassifiesSubscription(t *testing.T) {
	fund := testFund(0)
	store := newFakeStore(fund)
	svc := newTestService(store)

	out, err := svc.ProcessCommand(context.Background(), fund.ID, "agrega suscripción netflix 8990")
	require.NoError(t, err)

	assert.Equal(t, OutcomeConfig, out.Kind)
	require.Len(t, store.items, 1)
	assert.Equal(t, ItemSubscription, store.items[0].Type)
	assert.Nil(t, store.items[0].InstallmentStart)
	assert.Contains(t, out.Message, "Suscripción")
}

func TestProcessCommand_DeleteLastMovement(t *testing.T) {
	fund := testFund(80000)
	store := newFakeStore(fund)
	store.movements = []Movement{
		{
			ID: uuid.New(), FundID: fund.ID, Type: MovementExpense,
			Description: "Sushi", Amount: 12000, Date: time.Now().Add(-time.Hour),
		},
		{
			ID: uuid.New(), FundID: fund.ID, Type: MovementExpense,
			Description: "Taxi", Amount: 4500, Date: time.Now(),
		},
	}
	svc := newTestService(store)

	out, err := svc.ProcessCommand(context.Background(), fund.ID, "borra el último movimiento")
	require.NoError(t, err)

	assert.Equal(t, OutcomeDelete, out.Kind)
	// The expense refund lands back on the balance.
	assert.Equal(t, int64(84500), store.fund.Balance)
	require.Len(t, store.movements, 1)
	assert.Equal(t, "Sushi", store.movements[0].Description)
}

func TestProcessCommand_DeleteOnEmptyFund(t *testing.T) {
	fund := testFund(0)
	svc := newTestService(newFakeStore(fund))

	_, err := svc.ProcessCommand(context.Background(), fund.ID, "elimina el ultimo")
	assert.ErrorIs(t, err, ErrNothingToDelete)
}

func TestProcessCommand_Unparsable(t *testing.T) {
	fund := testFund(0)
	svc := newTestService(newFakeStore(fund))

	_, err := svc.ProcessCommand(context.Background(), fund.ID, "hola como estás")
	assert.ErrorIs(t, err, ErrUnparsable)
}

func TestProcessCommand_UnknownFund(t *testing.T) {
	svc := newTestService(newFakeStore(testFund(0)))

	_, err := svc.ProcessCommand(context.Background(), uuid.New(), "sushi 12000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMovement_ReversesContribution(t *testing.T) {
	fund := testFund(150000)
	fund.TotalSavings = 50000
	store := newFakeStore(fund)
	id := uuid.New()
	store.movements = []Movement{{
		ID: id, FundID: fund.ID, Type: MovementContribution,
		Description: "Aporte al Fondo", Amount: 50000, Date: time.Now(),
	}}
	svc := newTestService(store)

	require.NoError(t, svc.DeleteMovement(context.Background(), id))

	assert.Equal(t, int64(100000), store.fund.Balance)
	// Only the balance is reversed, savings stay as configured.
	assert.Equal(t, int64(50000), store.fund.TotalSavings)
	assert.Empty(t, store.movements)

	assert.ErrorIs(t, svc.DeleteMovement(context.Background(), id), ErrNotFound)
}

func TestRefreshAverages_ProvisionRoundTrip(t *testing.T) {
	fund := testFund(100000)
	store := newFakeStore(fund)
	store.movements = []Movement{{
		ID: uuid.New(), FundID: fund.ID, Type: MovementExpense,
		Description: "Pago de luz", Amount: 15000, Category: "General",
		Date: time.Now().AddDate(0, 0, -30),
	}}
	svc := newTestService(store)

	require.NoError(t, svc.RefreshAverages(context.Background(), fund.ID))

	require.Len(t, store.items, 1)
	assert.Equal(t, "Luz", store.items[0].Name)
	assert.Equal(t, ItemVariableService, store.items[0].Type)
	assert.Equal(t, int64(15000), store.items[0].Amount)
	assert.Equal(t, int64(15000), store.fund.MonthlyBurnRate)

	// A second pass with no new movements writes nothing.
	items, burns := store.itemWrites, store.burnWrites
	require.NoError(t, svc.RefreshAverages(context.Background(), fund.ID))
	assert.Len(t, store.items, 1)
	assert.Equal(t, items, store.itemWrites)
	assert.Equal(t, burns, store.burnWrites)
}

func TestRefreshAllFunds(t *testing.T) {
	fund := testFund(10000)
	store := newFakeStore(fund)
	svc := newTestService(store)

	require.NoError(t, svc.RefreshAllFunds(context.Background()))
}

func TestImpactDays(t *testing.T) {
	assert.Equal(t, int64(30), impactDays(30000, 30000))
	assert.Equal(t, int64(1), impactDays(1000, 30000))
	assert.Equal(t, int64(0), impactDays(999, 30000))
	// A fund with no burn rate prices one unit at one day.
	assert.Equal(t, int64(500), impactDays(500, 0))
}

func TestInferRecurringType(t *testing.T) {
	tests := []struct {
		name     string
		itemName string
		wantType ItemType
		wantOK   bool
	}{
		{"streaming", "Netflix", ItemSubscription, true},
		{"utility", "Gasto comun", ItemVariableService, true},
		{"rent", "Arriendo depto", ItemFixedPago, true},
		{"one-off", "Sushi", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := inferRecurringType(&voice.ParsedCommand{Name: tt.itemName})
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantType, got)
		})
	}
}
