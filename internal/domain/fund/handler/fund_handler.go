// Package handler exposes the fund metrics endpoint.
package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pdiazg46-design/app-finanza-Facil/internal/api/middleware"
	"github.com/pdiazg46-design/app-finanza-Facil/internal/domain/budget"
	"github.com/pdiazg46-design/app-finanza-Facil/internal/domain/fund"
)

// FundHandler serves the freedom metrics snapshot.
type FundHandler struct {
	svc *fund.Service
}

// NewFundHandler creates a new fund handler.
func NewFundHandler(svc *fund.Service) *FundHandler {
	return &FundHandler{svc: svc}
}

// Metrics refreshes the fund's budget and returns the freedom snapshot.
func (h *FundHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	fundID, err := uuid.Parse(r.PathValue("fundID"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid fundID")
		return
	}

	m, err := h.svc.Metrics(r.Context(), fundID)
	if err != nil {
		if errors.Is(err, budget.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "fund not found")
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, "could not compute metrics")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, m)
}
