// Package handler exposes the voice command endpoints.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pdiazg46-design/app-finanza-Facil/internal/api/middleware"
	"github.com/pdiazg46-design/app-finanza-Facil/internal/domain/budget"
	"github.com/pdiazg46-design/app-finanza-Facil/internal/domain/fund"
	"github.com/pdiazg46-design/app-finanza-Facil/internal/domain/voice"
)

// commandProcessor is what the handler needs from the budget service.
type commandProcessor interface {
	ProcessCommand(ctx context.Context, fundID uuid.UUID, text string) (*budget.Outcome, error)
}

// VoiceHandler serves voice command processing and dry-run parsing.
type VoiceHandler struct {
	svc             commandProcessor
	parser          *voice.Parser
	defaultCurrency string
}

// NewVoiceHandler creates a new voice handler.
func NewVoiceHandler(svc *budget.Service, parser *voice.Parser, defaultCurrency string) *VoiceHandler {
	return &VoiceHandler{svc: svc, parser: parser, defaultCurrency: defaultCurrency}
}

type processRequest struct {
	FundID uuid.UUID `json:"fund_id"`
	Text   string    `json:"text"`
}

type processResponse struct {
	*budget.Outcome
	// ImpactDaysExact carries the fractional freedom-day cost of an
	// expense, the integer ImpactDays rounds it for display.
	ImpactDaysExact decimal.Decimal `json:"impact_days_exact"`
}

// ProcessCommand interprets an utterance and applies it to the fund.
func (h *VoiceHandler) ProcessCommand(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FundID == uuid.Nil || req.Text == "" {
		middleware.WriteError(w, http.StatusBadRequest, "fund_id and text are required")
		return
	}

	out, err := h.svc.ProcessCommand(r.Context(), req.FundID, req.Text)
	switch {
	case errors.Is(err, budget.ErrUnparsable):
		middleware.WriteError(w, http.StatusUnprocessableEntity, unparsableMessage(req.Text))
	case errors.Is(err, budget.ErrNothingToDelete):
		middleware.WriteError(w, http.StatusUnprocessableEntity, "no hay movimientos para borrar")
	case errors.Is(err, budget.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "fund not found")
	case err != nil:
		middleware.WriteError(w, http.StatusInternalServerError, "could not process command")
	default:
		resp := processResponse{Outcome: out}
		if out.Kind == budget.OutcomeExpense && out.Command != nil {
			resp.ImpactDaysExact = fund.ExpenseImpact(out.Command.Amount, out.MonthlyBurnRate)
		}
		middleware.WriteJSON(w, http.StatusOK, resp)
	}
}

func unparsableMessage(text string) string {
	return fmt.Sprintf("No logré entender el monto en %q.", text)
}

type parseRequest struct {
	Text     string `json:"text"`
	Currency string `json:"currency"`
}

type parseResponse struct {
	Command *voice.ParsedCommand `json:"command"`
	Message string               `json:"message"`
}

// Parse runs the interpreter without touching any fund, for client-side
// previews.
func (h *VoiceHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Currency == "" {
		req.Currency = h.defaultCurrency
	}

	cmd := h.parser.Parse(req.Text, req.Currency)
	if cmd == nil {
		middleware.WriteError(w, http.StatusUnprocessableEntity, unparsableMessage(req.Text))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, parseResponse{
		Command: cmd,
		Message: voice.ConfirmationMessage(cmd, req.Currency),
	})
}
