package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tallyup-dev/tallyup/internal/id"
	"github.com/tallyup-dev/tallyup/internal/ledger"
	"github.com/tallyup-dev/tallyup/internal/model"
	"github.com/tallyup-dev/tallyup/internal/store"
)

func validationDetails(verrs ledger.ValidationErrors) []string {
	out := make([]string, len(verrs))
	for i, e := range verrs {
		out[i] = e.Error()
	}
	return out
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := req.draft(s.deps.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := ledger.Commit(r.Context(), s.deps.Store, s.userID(r), d, ledger.Edits{})
	var verrs ledger.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusUnprocessableEntity, "validation failed", validationDetails(verrs)...)
	case errors.Is(err, ledger.ErrAmountRequired):
		writeError(w, http.StatusUnprocessableEntity, "amount is required")
	case err != nil:
		storeError(w, r, err)
	default:
		writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	var f store.Filter
	q := r.URL.Query()
	if m := q.Get("month"); m != "" {
		t, err := time.Parse(monthLayout, m)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		f = store.MonthFilter(t)
	}
	f.Type = model.Direction(q.Get("type"))
	f.Category = model.Category(q.Get("category"))

	txs, err := s.deps.Store.ListTransactions(r.Context(), s.userID(r), f)
	if err != nil {
		storeError(w, r, err)
		return
	}
	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionJSON(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

// pathID returns the {id} route variable, writing 400 when malformed.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	txID := mux.Vars(r)["id"]
	if !id.Valid(txID) {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return "", false
	}
	return txID, true
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	txID, ok := pathID(w, r)
	if !ok {
		return
	}
	tx, err := s.deps.Store.GetTransaction(r.Context(), s.userID(r), txID)
	if err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	txID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user := s.userID(r)
	tx, err := s.deps.Store.GetTransaction(r.Context(), user, txID)
	if err != nil {
		storeError(w, r, err)
		return
	}
	tx, err = req.apply(tx)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if verrs := ledger.ValidateTransaction(tx); len(verrs) > 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation failed", validationDetails(verrs)...)
		return
	}
	if err := s.deps.Store.UpdateTransaction(r.Context(), user, tx); err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	txID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Store.DeleteTransaction(r.Context(), s.userID(r), txID); err != nil {
		storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
