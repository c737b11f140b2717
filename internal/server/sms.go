package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tallyup-dev/tallyup/internal/ledger"
	"github.com/tallyup-dev/tallyup/internal/model"
	"github.com/tallyup-dev/tallyup/internal/smsimport"
)

func (s *Server) importSMS(w http.ResponseWriter, r *http.Request) {
	var req smsImportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msgs := make([]model.RawMessage, 0, len(req.Messages))
	for i, m := range req.Messages {
		if m.ID == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("messages[%d]: id is required", i))
			return
		}
		date := s.deps.Now()
		if m.Date != "" {
			t, err := time.Parse(time.RFC3339, m.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("messages[%d]: invalid date %q", i, m.Date))
				return
			}
			date = t
		}
		msgs = append(msgs, model.RawMessage{ID: m.ID, Body: m.Body, Date: date})
	}
	msgs = smsimport.Limit(msgs, s.deps.MaxMessages)

	drafts, stats := s.deps.SMS.Run(msgs)
	resp := smsImportResponse{Drafts: toDraftsJSON(drafts), Stats: stats}

	if req.Save {
		res, err := ledger.CommitAll(r.Context(), s.deps.Store, s.userID(r), drafts)
		if err != nil {
			storeError(w, r, err)
			return
		}
		for _, tx := range res.Committed {
			resp.Committed = append(resp.Committed, toTransactionJSON(tx))
		}
		resp.Duplicates = res.Duplicates
	}
	writeJSON(w, http.StatusOK, resp)
}
