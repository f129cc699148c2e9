// Package budget reconciles parsed transactions against a fund's budget:
// fuzzy name matching, auto-provisioning of standard utility categories and
// rolling-average maintenance for automated variable services.
package budget

import (
	"time"

	"github.com/google/uuid"
)

// ItemType classifies a budget category. CONTRIBUTION exists only on
// commands and movements, never on budget items.
type ItemType string

const (
	ItemSubscription    ItemType = "SUBSCRIPTION"
	ItemFixedPago       ItemType = "FIXED_PAGO"
	ItemVariableService ItemType = "VARIABLE_SERVICE"
)

// MovementType distinguishes money leaving the fund from money entering it.
type MovementType string

const (
	MovementExpense      MovementType = "EXPENSE"
	MovementContribution MovementType = "CONTRIBUTION"
)

// SharedFund is the household fund all budget items and movements hang off.
type SharedFund struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Balance             int64     `json:"balance"`
	MonthlyBurnRate     int64     `json:"monthly_burn_rate"`
	TotalSavings        int64     `json:"total_savings"`
	PartnerName         string    `json:"partner_name"`
	PartnerContribution int64     `json:"partner_contribution"`
	Currency            string    `json:"currency"`
	CreatedAt           time.Time `json:"created_at"`
}

// BudgetItem is one recurring budget category.
//
// For FIXED_PAGO plans with more than one installment, CurrentInstallment
// advances monotonically from InstallmentStart; once it exceeds
// Installments the item is fully paid and excluded from the burn rate.
type BudgetItem struct {
	ID                 uuid.UUID  `json:"id"`
	FundID             uuid.UUID  `json:"fund_id"`
	Name               string     `json:"name"`
	Amount             int64      `json:"amount"`
	Type               ItemType   `json:"type"`
	IsAutomated        bool       `json:"is_automated"`
	Installments       int        `json:"installments"`
	CurrentInstallment int        `json:"current_installment"`
	InstallmentStart   *time.Time `json:"installment_start,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Expired reports whether a fixed installment plan is fully paid.
func (b BudgetItem) Expired() bool {
	return b.Type == ItemFixedPago && b.Installments > 1 &&
		b.CurrentInstallment > b.Installments
}

// RemainingDebt is the money still owed on an installment plan.
func (b BudgetItem) RemainingDebt() int64 {
	if b.Type != ItemFixedPago || b.Installments <= 1 {
		return 0
	}
	remaining := b.Installments - (b.CurrentInstallment - 1)
	if remaining < 0 {
		remaining = 0
	}
	return b.Amount * int64(remaining)
}

// Movement is an immutable record of a single transaction. Deleting one
// reverses its balance impact; the record itself is never edited.
type Movement struct {
	ID           uuid.UUID    `json:"id"`
	FundID       uuid.UUID    `json:"fund_id"`
	Type         MovementType `json:"type"`
	Description  string       `json:"description"`
	Amount       int64        `json:"amount"`
	Installments int          `json:"installments"`
	Category     string       `json:"category"`
	Date         time.Time    `json:"date"`
}
