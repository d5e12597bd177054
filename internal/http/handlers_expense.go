package http

import (
	"net/http"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses := s.ledger.Expenses()
	out := make([]expensePayload, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpensePayload(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var p expensePayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.ledger.Add(r.Context(), p.toCore())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpensePayload(created))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var p expensePayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.ledger.Edit(r.Context(), r.PathValue("id"), p.toCore())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpensePayload(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListRecurringBills(w http.ResponseWriter, r *http.Request) {
	bills := s.ledger.RecurringBills()
	out := make([]recurringBillPayload, 0, len(bills))
	for _, b := range bills {
		out = append(out, toRecurringBillPayload(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListSavingGoals(w http.ResponseWriter, r *http.Request) {
	goals := s.ledger.SavingGoals()
	out := make([]savingGoalPayload, 0, len(goals))
	for _, g := range goals {
		out = append(out, toSavingGoalPayload(g))
	}
	writeJSON(w, http.StatusOK, out)
}
