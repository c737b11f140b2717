package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tallyup-dev/tallyup/internal/budget"
	"github.com/tallyup-dev/tallyup/internal/model"
	"github.com/tallyup-dev/tallyup/internal/store"
)

type setBudgetRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) listBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.deps.Store.Budgets(r.Context(), s.userID(r))
	if err != nil {
		storeError(w, r, err)
		return
	}
	out := []budgetJSON{}
	for _, l := range budget.SortedLimits(budgets) {
		out = append(out, budgetJSON{Category: string(l.Category), Amount: l.Amount.StringFixed(2)})
	}
	writeJSON(w, http.StatusOK, out)
}

func pathCategory(w http.ResponseWriter, r *http.Request) (model.Category, bool) {
	c, ok := model.ParseCategory(mux.Vars(r)["category"])
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown category")
	}
	return c, ok
}

func (s *Server) setBudget(w http.ResponseWriter, r *http.Request) {
	c, ok := pathCategory(w, r)
	if !ok {
		return
	}
	var req setBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}
	if err := s.deps.Store.SetBudget(r.Context(), s.userID(r), c, amount); err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgetJSON{Category: string(c), Amount: amount.StringFixed(2)})
}

func (s *Server) deleteBudget(w http.ResponseWriter, r *http.Request) {
	c, ok := pathCategory(w, r)
	if !ok {
		return
	}
	if err := s.deps.Store.DeleteBudget(r.Context(), s.userID(r), c); err != nil {
		storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) budgetReport(w http.ResponseWriter, r *http.Request) {
	month := s.deps.Now()
	if m := r.URL.Query().Get("month"); m != "" {
		t, err := time.Parse(monthLayout, m)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		month = t
	}

	user := s.userID(r)
	txs, err := s.deps.Store.ListTransactions(r.Context(), user, store.MonthFilter(month))
	if err != nil {
		storeError(w, r, err)
		return
	}
	budgets, err := s.deps.Store.Budgets(r.Context(), user)
	if err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportJSON(budget.Build(txs, budgets, month)))
}
