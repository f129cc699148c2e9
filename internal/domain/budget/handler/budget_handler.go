// Package handler exposes the budget and movement endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/pdiazg46-design/app-finanza-Facil/internal/api/middleware"
	"github.com/pdiazg46-design/app-finanza-Facil/internal/domain/budget"
)

// BudgetHandler serves budget items and the movement lifecycle.
type BudgetHandler struct {
	svc  *budget.Service
	repo budget.Store
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(svc *budget.Service, repo budget.Store) *BudgetHandler {
	return &BudgetHandler{svc: svc, repo: repo}
}

// ListItems returns a fund's budget items.
func (h *BudgetHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathUUID(w, r, "fundID")
	if !ok {
		return
	}

	items, err := h.repo.ListItems(r.Context(), fundID)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "could not list budget items")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Candidates ranks budget items against a free-form query, for
// "did you mean" suggestions in the client.
func (h *BudgetHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathUUID(w, r, "fundID")
	if !ok {
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		middleware.WriteError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	items, err := h.repo.ListItems(r.Context(), fundID)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "could not list budget items")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"candidates": budget.RankCandidates(items, query, limit),
	})
}

// Refresh runs the maintenance pass for one fund on demand.
func (h *BudgetHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	fundID, ok := pathUUID(w, r, "fundID")
	if !ok {
		return
	}

	if err := h.svc.RefreshAverages(r.Context(), fundID); err != nil {
		if errors.Is(err, budget.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "fund not found")
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMovement removes a movement and reverses its balance impact.
func (h *BudgetHandler) DeleteMovement(w http.ResponseWriter, r *http.Request) {
	movementID, ok := pathUUID(w, r, "movementID")
	if !ok {
		return
	}

	if err := h.svc.DeleteMovement(r.Context(), movementID); err != nil {
		if errors.Is(err, budget.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "movement not found")
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, "could not delete movement")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
