package budget

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiazg46-design/app-finanza-Facil/internal/domain/voice"
	"github.com/pdiazg46-design/app-finanza-Facil/pkg/metrics"
	"github.com/pdiazg46-design/app-finanza-Facil/pkg/money"
)

// Settings-style utterances are checked before the expense/contribution
// dispatch: they reconfigure the fund instead of recording a movement.
var (
	partnerVerbs     = []string{"aporta", "puso"}
	calibrateVerbs   = []string{"calibra", "setea", "actualiza", "pon"}
	amountUpdateVerb = []string{"sube", "actualiza", "cambia"}
	budgetIntent     = []string{"agrega", "gasto fijo", "suscripción", "suscripcion", "recurrente", "mensual", "concepto"}

	upsertSubscriptionWords = []string{"netflix", "spotify", "disney", "amazon", "hbo", "suscripcion", "internet", "celular"}

	conceptNoiseRe = regexp.MustCompile(`\b(?:agrega|gasto|fijo|concepto|suscripci[oó]n|recurrente|mensual|pesos?)\b`)
)

// applyConfig handles the configuration flows: partner contribution, fund
// calibration, budget amount updates and budget concept upserts. It
// returns handled=false when the utterance is a plain transaction.
func (s *Service) applyConfig(ctx context.Context, fund *SharedFund, input string, cmd *voice.ParsedCommand, installments int) (*Outcome, bool, error) {
	if strings.Contains(input, "pareja") && containsAny(input, partnerVerbs) {
		out, err := s.setPartnerContribution(ctx, fund, cmd)
		return out, true, err
	}

	if strings.Contains(input, "fondo") && containsAny(input, calibrateVerbs) {
		out, err := s.calibrateFund(ctx, fund, cmd)
		return out, true, err
	}

	if containsAny(input, amountUpdateVerb) {
		out, err := s.updateBudgetAmount(ctx, fund, input, cmd)
		if err != nil {
			return nil, true, err
		}
		if out != nil {
			return out, true, nil
		}
		// No budget item matched the utterance, fall through.
	}

	if containsAny(input, budgetIntent) {
		out, err := s.upsertBudgetConcept(ctx, fund, input, cmd, installments)
		return out, true, err
	}

	return nil, false, nil
}

func (s *Service) setPartnerContribution(ctx context.Context, fund *SharedFund, cmd *voice.ParsedCommand) (*Outcome, error) {
	name := fund.PartnerName
	if name == "" {
		name = "Pareja"
	}
	if err := s.store.SetPartnerInfo(ctx, fund.ID, name, cmd.Amount); err != nil {
		return nil, err
	}
	return &Outcome{
		Kind:            OutcomeConfig,
		Command:         cmd,
		MonthlyBurnRate: fund.MonthlyBurnRate,
		Message:         "Aporte de pareja actualizado",
	}, nil
}

func (s *Service) calibrateFund(ctx context.Context, fund *SharedFund, cmd *voice.ParsedCommand) (*Outcome, error) {
	if err := s.store.SetBalance(ctx, fund.ID, cmd.Amount); err != nil {
		return nil, err
	}
	return &Outcome{
		Kind:            OutcomeConfig,
		Command:         cmd,
		MonthlyBurnRate: fund.MonthlyBurnRate,
		Message:         fmt.Sprintf("Fondo calibrado a %s", money.Format(cmd.Amount, fund.Currency)),
	}, nil
}

// updateBudgetAmount resets the amount of the first item named in the
// utterance. Only words of three or more characters count as a name
// reference, short articles match too many item names. Returns nil when
// nothing matched so the caller can treat the utterance as an expense.
func (s *Service) updateBudgetAmount(ctx context.Context, fund *SharedFund, input string, cmd *voice.ParsedCommand) (*Outcome, error) {
	items, err := s.store.ListItems(ctx, fund.ID)
	if err != nil {
		return nil, err
	}

	words := strings.Fields(input)
	var match *BudgetItem
	for i := range items {
		name := strings.ToLower(items[i].Name)
		for _, w := range words {
			if utf8.RuneCountInString(w) >= 3 && strings.Contains(name, w) {
				match = &items[i]
				break
			}
		}
		if match != nil {
			break
		}
	}
	if match == nil {
		return nil, nil
	}

	var burn int64
	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.UpdateItemAmount(ctx, match.ID, cmd.Amount); err != nil {
			return err
		}
		burn, err = s.refreshBurn(ctx, tx, fund)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Kind:            OutcomeConfig,
		Command:         cmd,
		MonthlyBurnRate: burn,
		Message:         fmt.Sprintf("%s actualizado", match.Name),
	}, nil
}

// upsertBudgetConcept creates or updates a budget item from an "agrega
// gasto fijo ..." style utterance. This is the only voice path that can
// introduce multi-installment items.
func (s *Service) upsertBudgetConcept(ctx context.Context, fund *SharedFund, input string, cmd *voice.ParsedCommand, installments int) (*Outcome, error) {
	concept := conceptFrom(input)
	if installments > 1 {
		concept = fmt.Sprintf("%s (%d cuotas)", concept, installments)
	}

	itemType := ItemFixedPago
	if containsAny(strings.ToLower(concept), upsertSubscriptionWords) {
		itemType = ItemSubscription
	}

	var out *Outcome
	err := s.store.InTx(ctx, func(tx Store) error {
		items, err := tx.ListItems(ctx, fund.ID)
		if err != nil {
			return err
		}

		var existing *BudgetItem
		for i := range items {
			if Match(items[i].Name, concept, false) {
				existing = &items[i]
				break
			}
		}

		if existing != nil {
			start := existing.InstallmentStart
			if installments > 1 && start == nil {
				now := s.now()
				start = &now
			}
			if err := tx.UpdateItem(ctx, existing.ID, concept, cmd.Amount, itemType, installments, start); err != nil {
				return err
			}
			out = &Outcome{
				Kind:    OutcomeConfig,
				Command: cmd,
				Message: fmt.Sprintf("Actualizado: %q ahora es de %s", existing.Name, money.Format(cmd.Amount, fund.Currency)),
			}
		} else {
			item := &BudgetItem{
				FundID:             fund.ID,
				Name:               concept,
				Amount:             cmd.Amount,
				Type:               itemType,
				IsAutomated:        itemType == ItemVariableService,
				Installments:       installments,
				CurrentInstallment: 1,
			}
			if installments > 1 {
				now := s.now()
				item.InstallmentStart = &now
			}
			if err := tx.CreateItem(ctx, item); err != nil {
				return err
			}
			metrics.ItemsProvisioned.WithLabelValues("voice_config").Inc()
			out = &Outcome{
				Kind:    OutcomeConfig,
				Command: cmd,
				Message: fmt.Sprintf("Concepto %q agregado como %s", concept, upsertLabel(itemType)),
			}
		}

		out.MonthlyBurnRate, err = s.refreshBurn(ctx, tx, fund)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// conceptFrom strips amounts, installment phrasing and intent keywords
// from the utterance, leaving the concept name.
func conceptFrom(input string) string {
	concept := strings.ToLower(voice.ExtractName(input))
	concept = conceptNoiseRe.ReplaceAllString(concept, "")
	concept = strings.TrimSpace(strings.Join(strings.Fields(concept), " "))
	if utf8.RuneCountInString(concept) < 2 {
		return "Nuevo Concepto"
	}
	r, size := utf8.DecodeRuneInString(concept)
	return string(unicode.ToUpper(r)) + concept[size:]
}

func upsertLabel(t ItemType) string {
	if t == ItemSubscription {
		return "Suscripción"
	}
	return "Pago Fijo"
}

// refreshBurn recomputes the burn rate from the current items, persisting
// it when it changed.
func (s *Service) refreshBurn(ctx context.Context, tx Store, fund *SharedFund) (int64, error) {
	items, err := tx.ListItems(ctx, fund.ID)
	if err != nil {
		return 0, err
	}
	burn := BurnRate(items)
	if burn != fund.MonthlyBurnRate {
		if err := tx.SetBurnRate(ctx, fund.ID, burn); err != nil {
			return 0, err
		}
	}
	return burn, nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
