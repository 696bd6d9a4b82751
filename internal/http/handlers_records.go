package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gigledger/internal/core"
	"gigledger/internal/ledger"
	"gigledger/internal/log"
)

// OverrideRequest is the body of PUT /api/overrides.
type OverrideRequest struct {
	ExpenseID string      `json:"expenseId"`
	Month     string      `json:"month"`
	Amount    json.Number `json:"amount"`
	Notes     string      `json:"notes,omitempty"`
}

func (s *Server) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	var req OverrideRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		writeError(w, r, log.OpOverride, err)
		return
	}
	month, err := core.ParseMonthKey(strings.TrimSpace(req.Month))
	if err != nil {
		writeError(w, r, log.OpOverride, fmt.Errorf("parse month: %w", err))
		return
	}
	if req.Amount == "" {
		writeError(w, r, log.OpOverride, fmt.Errorf("%w: amount is required", ErrInvalidBody))
		return
	}
	cents, err := core.ParseDecimalToCents(string(req.Amount))
	if err != nil {
		writeError(w, r, log.OpOverride, fmt.Errorf("parse amount: %w", err))
		return
	}

	plan, err := s.ledger.SetOverride(r.Context(), sanitizeInput(req.ExpenseID), month, core.Money{Cents: cents}, sanitizeInput(req.Notes))
	if err != nil {
		writeError(w, r, log.OpOverride, err)
		return
	}
	writeJSON(w, http.StatusOK, overrideView{
		Action:   plan.Action.String(),
		Instance: ledger.FromInstance(plan.Instance),
	})
}

func (s *Server) handleClearOverride(w http.ResponseWriter, r *http.Request) {
	expenseID := sanitizeInput(r.URL.Query().Get("expenseId"))
	month, err := ParseMonthParam(r, "month", "")
	if err != nil {
		writeError(w, r, log.OpOverride, err)
		return
	}
	if expenseID == "" || month == "" {
		writeError(w, r, log.OpOverride, fmt.Errorf("%w: expenseId and month are required", ErrInvalidBody))
		return
	}
	if err := s.ledger.ClearOverride(r.Context(), expenseID, month); err != nil {
		writeError(w, r, log.OpOverride, err)
		return
	}
	_ = NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleSaveExpense(w http.ResponseWriter, r *http.Request) {
	var rec ledger.ExpenseRecord
	if err := DecodeJSONBody(w, r, &rec); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	rec.Name, rec.Category, rec.Notes = sanitizeInput(rec.Name), sanitizeInput(rec.Category), sanitizeInput(rec.Notes)
	e, err := rec.Expense()
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	saved, err := s.ledger.SaveExpense(r.Context(), e)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, savedStatus(rec.ID), ledger.FromExpense(saved))
}

func (s *Server) handleSaveGig(w http.ResponseWriter, r *http.Request) {
	var rec ledger.GigRecord
	if err := DecodeJSONBody(w, r, &rec); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	rec.Name, rec.SupplierName, rec.Notes = sanitizeInput(rec.Name), sanitizeInput(rec.SupplierName), sanitizeInput(rec.Notes)
	g, err := rec.Gig()
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	saved, err := s.ledger.SaveGig(r.Context(), g)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, savedStatus(rec.ID), ledger.FromGig(saved))
}

func (s *Server) handleSavePackage(w http.ResponseWriter, r *http.Request) {
	var rec ledger.PackageRecord
	if err := DecodeJSONBody(w, r, &rec); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	rec.Name, rec.ClientName, rec.Notes = sanitizeInput(rec.Name), sanitizeInput(rec.ClientName), sanitizeInput(rec.Notes)
	p, err := rec.Package()
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	saved, err := s.ledger.SavePackage(r.Context(), p)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, savedStatus(rec.ID), ledger.FromPackage(saved))
}

// savedStatus is 201 for new records and 200 for updates.
func savedStatus(id string) int {
	if id == "" {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(r.PathValue("id"))
	var err error
	switch kind := r.PathValue("kind"); kind {
	case "expenses":
		err = s.ledger.DeleteExpense(r.Context(), id)
	case "gigs":
		err = s.ledger.DeleteGig(r.Context(), id)
	case "packages":
		err = s.ledger.DeletePackage(r.Context(), id)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	_ = NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
