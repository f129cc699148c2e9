package voice

import (
	"fmt"

	"github.com/pdiazg46-design/app-finanza-Facil/pkg/money"
)

// ConfirmationMessage renders the Spanish confirmation prompt shown to the
// user before a parsed command is persisted.
func ConfirmationMessage(cmd *ParsedCommand, currency string) string {
	formatted := money.Format(cmd.Amount, currency)

	if cmd.Installments > 1 {
		return fmt.Sprintf("¿Agregar %s en %d cuotas de %s?", cmd.Name, cmd.Installments, formatted)
	}

	var label string
	switch cmd.Type {
	case TypeSubscription:
		label = "suscripción"
	case TypeVariableService:
		label = "servicio variable"
	case TypeContribution:
		label = "aporte"
	default:
		label = "gasto fijo"
	}

	return fmt.Sprintf("¿Agregar %s (%s) por %s?", cmd.Name, label, formatted)
}
