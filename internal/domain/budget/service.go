package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiazg46-design/app-finanza-Facil/internal/domain/voice"
	"github.com/pdiazg46-design/app-finanza-Facil/pkg/metrics"
)

// Store is what the service needs from persistence. *Repository
// implements it; tests substitute an in-memory fake.
type Store interface {
	GetFund(ctx context.Context, fundID uuid.UUID) (*SharedFund, error)
	ListFundIDs(ctx context.Context) ([]uuid.UUID, error)
	AdjustBalance(ctx context.Context, fundID uuid.UUID, delta int64) error
	SetBalance(ctx context.Context, fundID uuid.UUID, balance int64) error
	SetPartnerInfo(ctx context.Context, fundID uuid.UUID, name string, contribution int64) error
	SetBurnRate(ctx context.Context, fundID uuid.UUID, rate int64) error
	ListItems(ctx context.Context, fundID uuid.UUID) ([]BudgetItem, error)
	CreateItem(ctx context.Context, item *BudgetItem) error
	UpdateItem(ctx context.Context, itemID uuid.UUID, name string, amount int64, itemType ItemType, installments int, start *time.Time) error
	UpdateItemAmount(ctx context.Context, itemID uuid.UUID, amount int64) error
	SetCurrentInstallment(ctx context.Context, itemID uuid.UUID, current int) error
	CreateMovement(ctx context.Context, m *Movement) error
	GetMovement(ctx context.Context, movementID uuid.UUID) (*Movement, error)
	LastMovement(ctx context.Context, fundID uuid.UUID) (*Movement, error)
	ListMovementsSince(ctx context.Context, fundID uuid.UUID, since time.Time) ([]Movement, error)
	DeleteMovement(ctx context.Context, movementID uuid.UUID) error
	InTx(ctx context.Context, fn func(tx Store) error) error
}

var (
	// ErrUnparsable means no monetary amount could be extracted.
	ErrUnparsable = errors.New("budget: could not understand an amount")
	// ErrNothingToDelete means a delete command arrived on an empty fund.
	ErrNothingToDelete = errors.New("budget: no movements to delete")
)

// deleteKeywords trigger the movement-deletion flow before any parsing.
var deleteKeywords = []string{"borra", "elimina", "quita", "borrar", "eliminar", "quitar"}

// recurringKeywords flag an unmatched expense as a recurring candidate
// worth learning as a budget item.
var recurringKeywords = []string{
	"netflix", "spotify", "disney", "amazon", "hbo", "suscripcion",
	"internet", "celular", "arriendo", "dividendo", "seguro",
	"gimnasio", "gym", "luz", "agua", "gas", "gasto comun", "gastos comunes",
}

// Type inference for learned items. Anything recurring that is neither a
// streaming subscription nor a utility lands on FIXED_PAGO.
var (
	learnSubscriptionWords = []string{"netflix", "spotify", "disney", "amazon", "hbo", "suscripcion"}
	learnUtilityWords      = []string{"luz", "agua", "gas", "gasto comun", "gastos comunes", "celular"}
)

// OutcomeKind tells the caller what a voice command actually did.
type OutcomeKind string

const (
	OutcomeExpense      OutcomeKind = "EXPENSE"
	OutcomeContribution OutcomeKind = "CONTRIBUTION"
	OutcomeDelete       OutcomeKind = "DELETE"
	OutcomeConfig       OutcomeKind = "CONFIG"
)

// Outcome is the result of processing one voice command.
type Outcome struct {
	Kind       OutcomeKind          `json:"kind"`
	Command    *voice.ParsedCommand `json:"command,omitempty"`
	MovementID uuid.UUID            `json:"movement_id"`
	// ImpactDays is how many freedom days this expense cost, at the
	// fund's current burn rate.
	ImpactDays int64 `json:"impact_days"`
	// SyncMessage describes any budget-side effect (amount updated,
	// item learned), empty when the expense stayed a one-off.
	SyncMessage string `json:"sync_message,omitempty"`
	// MonthlyBurnRate is the fund's burn rate after this command applied.
	MonthlyBurnRate int64  `json:"monthly_burn_rate"`
	Message         string `json:"message"`
}

// Service applies parsed voice commands to a fund and keeps its budget
// reconciled.
type Service struct {
	store         Store
	parser        *voice.Parser
	logger        *slog.Logger
	historyWindow time.Duration
	hotWindow     time.Duration
	now           func() time.Time
}

// NewService creates the reconciliation service. historyWindow bounds the
// movement history the engine considers; hotWindow bounds hot
// provisioning on non-empty budgets.
func NewService(store Store, parser *voice.Parser, logger *slog.Logger, historyWindow, hotWindow time.Duration) *Service {
	if historyWindow <= 0 {
		historyWindow = 90 * 24 * time.Hour
	}
	if hotWindow <= 0 {
		hotWindow = HotProvisionWindow
	}
	return &Service{
		store:         store,
		parser:        parser,
		logger:        logger,
		historyWindow: historyWindow,
		hotWindow:     hotWindow,
		now:           time.Now,
	}
}

// ProcessCommand interprets one utterance against a fund and persists its
// effect. The delete flow short-circuits before parsing: "borra el último"
// carries no amount and would otherwise be rejected as unparsable.
func (s *Service) ProcessCommand(ctx context.Context, fundID uuid.UUID, text string) (*Outcome, error) {
	input := strings.ToLower(strings.TrimSpace(text))

	if wantsDeleteLast(input) {
		return s.deleteLast(ctx, fundID)
	}

	fund, err := s.store.GetFund(ctx, fundID)
	if err != nil {
		return nil, err
	}

	if !s.parser.KnowsCurrency(fund.Currency) {
		metrics.LexiconFallbacks.Inc()
		s.logger.Warn("currency not in lexicon, using fallback",
			slog.String("currency", fund.Currency), slog.String("fund_id", fundID.String()))
	}

	cmd := s.parser.Parse(input, fund.Currency)
	if cmd == nil || cmd.Confidence < voice.MinConfidence {
		metrics.CommandsProcessed.WithLabelValues("unparsable").Inc()
		return nil, fmt.Errorf("%w: %q", ErrUnparsable, text)
	}

	installments := voice.ExtractInstallments(input)

	if out, handled, err := s.applyConfig(ctx, fund, input, cmd, installments); handled || err != nil {
		if err != nil {
			metrics.CommandsProcessed.WithLabelValues("error").Inc()
			return nil, err
		}
		metrics.CommandsProcessed.WithLabelValues("config").Inc()
		s.logger.Info("voice config applied",
			slog.String("fund_id", fundID.String()),
			slog.Int64("amount", cmd.Amount))
		return out, nil
	}

	var out *Outcome
	err = s.store.InTx(ctx, func(tx Store) error {
		if cmd.Type == voice.TypeContribution {
			out, err = s.applyContribution(ctx, tx, fund, cmd)
		} else {
			out, err = s.applyExpense(ctx, tx, fund, cmd, installments)
		}
		return err
	})
	if err != nil {
		metrics.CommandsProcessed.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.CommandsProcessed.WithLabelValues(strings.ToLower(string(out.Kind))).Inc()
	out.Message = voice.ConfirmationMessage(cmd, fund.Currency)
	s.logger.Info("voice command applied",
		slog.String("fund_id", fundID.String()),
		slog.String("kind", string(out.Kind)),
		slog.Int64("amount", cmd.Amount))
	return out, nil
}

func wantsDeleteLast(input string) bool {
	hasVerb := false
	for _, kw := range deleteKeywords {
		if strings.Contains(input, kw) {
			hasVerb = true
			break
		}
	}
	return hasVerb && (strings.Contains(input, "último") || strings.Contains(input, "ultimo"))
}

func (s *Service) deleteLast(ctx context.Context, fundID uuid.UUID) (*Outcome, error) {
	last, err := s.store.LastMovement(ctx, fundID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNothingToDelete
	}
	if err != nil {
		return nil, err
	}
	if err := s.DeleteMovement(ctx, last.ID); err != nil {
		return nil, err
	}
	return &Outcome{
		Kind:       OutcomeDelete,
		MovementID: last.ID,
		Message:    fmt.Sprintf("Último movimiento eliminado (%s)", last.Description),
	}, nil
}

func (s *Service) applyContribution(ctx context.Context, tx Store, fund *SharedFund, cmd *voice.ParsedCommand) (*Outcome, error) {
	if err := tx.AdjustBalance(ctx, fund.ID, cmd.Amount); err != nil {
		return nil, err
	}

	m := &Movement{
		FundID:       fund.ID,
		Type:         MovementContribution,
		Description:  "Aporte al Fondo",
		Amount:       cmd.Amount,
		Installments: 1,
		Category:     "Aporte",
		Date:         s.now(),
	}
	if err := tx.CreateMovement(ctx, m); err != nil {
		return nil, err
	}
	return &Outcome{
		Kind:            OutcomeContribution,
		Command:         cmd,
		MovementID:      m.ID,
		MonthlyBurnRate: fund.MonthlyBurnRate,
	}, nil
}

// applyExpense registers the movement and reconciles the budget: a
// containment match updates that item's amount, an unmatched
// recurring-looking expense is learned as a new item, and either path
// refreshes the burn rate before computing the freedom-day impact.
func (s *Service) applyExpense(ctx context.Context, tx Store, fund *SharedFund, cmd *voice.ParsedCommand, installments int) (*Outcome, error) {
	items, err := tx.ListItems(ctx, fund.ID)
	if err != nil {
		return nil, err
	}

	sync := ""
	category := "General"
	budgetChanged := false

	if match := FindItem(items, cmd.Name); match != nil {
		if err := tx.UpdateItemAmount(ctx, match.ID, cmd.Amount); err != nil {
			return nil, err
		}
		category = string(match.Type)
		sync = fmt.Sprintf("Presupuesto de %s actualizado", match.Name)
		budgetChanged = true
	} else if itemType, ok := inferRecurringType(cmd); ok {
		item := &BudgetItem{
			FundID:             fund.ID,
			Name:               cmd.Name,
			Amount:             cmd.Amount,
			Type:               itemType,
			IsAutomated:        itemType == ItemVariableService,
			Installments:       1,
			CurrentInstallment: 1,
		}
		if err := tx.CreateItem(ctx, item); err != nil {
			return nil, err
		}
		metrics.ItemsProvisioned.WithLabelValues("auto_discovery").Inc()
		sync = fmt.Sprintf("Aprendido como %s", typeLabel(itemType))
		budgetChanged = true
	}

	if err := tx.AdjustBalance(ctx, fund.ID, -cmd.Amount); err != nil {
		return nil, err
	}

	m := &Movement{
		FundID:       fund.ID,
		Type:         MovementExpense,
		Description:  cmd.Name,
		Amount:       cmd.Amount,
		Installments: installments,
		Category:     category,
		Date:         s.now(),
	}
	if err := tx.CreateMovement(ctx, m); err != nil {
		return nil, err
	}

	burn := fund.MonthlyBurnRate
	if budgetChanged {
		if burn, err = s.refreshBurn(ctx, tx, fund); err != nil {
			return nil, err
		}
	}

	return &Outcome{
		Kind:            OutcomeExpense,
		Command:         cmd,
		MovementID:      m.ID,
		ImpactDays:      impactDays(cmd.Amount, burn),
		SyncMessage:     sync,
		MonthlyBurnRate: burn,
	}, nil
}

// impactDays converts an expense into lost freedom days at the daily burn
// rate. A zero burn rate counts every unit as a whole day, which makes
// new funds dramatic on purpose.
func impactDays(amount, monthlyBurn int64) int64 {
	if monthlyBurn <= 0 {
		return amount
	}
	return amount * 30 / monthlyBurn
}

func inferRecurringType(cmd *voice.ParsedCommand) (ItemType, bool) {
	name := strings.ToLower(cmd.Name)
	recurring := false
	for _, kw := range recurringKeywords {
		if strings.Contains(name, kw) {
			recurring = true
			break
		}
	}
	if !recurring {
		return "", false
	}
	for _, kw := range learnSubscriptionWords {
		if strings.Contains(name, kw) {
			return ItemSubscription, true
		}
	}
	for _, kw := range learnUtilityWords {
		if strings.Contains(name, kw) {
			return ItemVariableService, true
		}
	}
	return ItemFixedPago, true
}

func typeLabel(t ItemType) string {
	switch t {
	case ItemVariableService:
		return "Servicio Variable"
	case ItemSubscription:
		return "Suscripción"
	default:
		return "Gasto Fijo"
	}
}

// DeleteMovement removes a movement and reverses its balance impact:
// deleted expenses refund the fund, deleted contributions take the money
// back out.
func (s *Service) DeleteMovement(ctx context.Context, movementID uuid.UUID) error {
	return s.store.InTx(ctx, func(tx Store) error {
		m, err := tx.GetMovement(ctx, movementID)
		if err != nil {
			return err
		}

		delta := m.Amount
		if m.Type != MovementExpense {
			delta = -m.Amount
		}
		if err := tx.AdjustBalance(ctx, m.FundID, delta); err != nil {
			return err
		}
		return tx.DeleteMovement(ctx, movementID)
	})
}

// RefreshAverages runs the maintenance pass for one fund: advance
// installment counters, auto-provision standard services, recompute
// variable-service averages from recent history and store the resulting
// burn rate. It is idempotent; running it twice with no new movements
// writes nothing the second time.
func (s *Service) RefreshAverages(ctx context.Context, fundID uuid.UUID) error {
	now := s.now()
	return s.store.InTx(ctx, func(tx Store) error {
		fund, err := tx.GetFund(ctx, fundID)
		if err != nil {
			return err
		}
		items, err := tx.ListItems(ctx, fundID)
		if err != nil {
			return err
		}
		movements, err := tx.ListMovementsSince(ctx, fundID, now.Add(-s.historyWindow))
		if err != nil {
			return err
		}

		for id, current := range AdvanceInstallments(items, now) {
			if err := tx.SetCurrentInstallment(ctx, id, current); err != nil {
				return err
			}
			for i := range items {
				if items[i].ID == id {
					items[i].CurrentInstallment = current
				}
			}
		}

		for _, item := range ProvisionStandard(fundID, items, movements, now, s.hotWindow) {
			created := item
			if err := tx.CreateItem(ctx, &created); err != nil {
				return err
			}
			items = append(items, created)
			metrics.ItemsProvisioned.WithLabelValues("standard_service").Inc()
			s.logger.Info("standard service provisioned",
				slog.String("fund_id", fundID.String()), slog.String("name", created.Name))
		}

		for id, amount := range RecomputeAverages(items, movements) {
			if err := tx.UpdateItemAmount(ctx, id, amount); err != nil {
				return err
			}
			for i := range items {
				if items[i].ID == id {
					items[i].Amount = amount
				}
			}
		}

		if burn := BurnRate(items); burn != fund.MonthlyBurnRate {
			if err := tx.SetBurnRate(ctx, fundID, burn); err != nil {
				return err
			}
		}
		return nil
	})
}

// RefreshAllFunds runs RefreshAverages over every fund, logging failures
// and moving on. Used by the nightly job.
func (s *Service) RefreshAllFunds(ctx context.Context) error {
	ids, err := s.store.ListFundIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.RefreshAverages(ctx, id); err != nil {
			metrics.RefreshRuns.WithLabelValues("error").Inc()
			s.logger.Error("refresh failed", slog.String("fund_id", id.String()), slog.Any("error", err))
			continue
		}
		metrics.RefreshRuns.WithLabelValues("ok").Inc()
	}
	return nil
}
