package http

import (
	"net/http"

	"budget/internal/core"
	"budget/internal/log"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	parser := NewRequestBodyParser(w, r)
	if resp := ParseBodyOrFail(parser); resp != nil {
		resp.Write(w)
		return
	}

	tx, err := s.budget.AddTransaction(r.Context(), parser.NewTransaction())
	if err != nil {
		writeServiceError(w, r, log.OpCreate, err)
		return
	}
	s.invalidate()

	MessageResponse(http.StatusCreated, "success", "Transaction added: "+tx.Description).
		TriggerTransactionCreated(string(tx.ID)).
		TriggerFormReset().
		TriggerSuccessNotification("Transaction added").
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	parser := NewRequestBodyParser(w, r)
	if resp := ParseBodyOrFail(parser); resp != nil {
		resp.Write(w)
		return
	}

	id := parser.Get("id")
	if id == "" {
		BadRequestError("Missing transaction id").Write(w)
		return
	}

	removed, err := s.budget.RemoveTransaction(r.Context(), core.TransactionID(id))
	if err != nil {
		writeServiceError(w, r, log.OpDelete, err)
		return
	}

	resp := NewHTMXResponse().TriggerTransactionDeleted(id)
	if removed {
		s.invalidate()
		resp.TriggerSuccessNotification("Transaction deleted")
	} else {
		resp.TriggerInfoNotification("Transaction was already deleted")
	}
	resp.Write(w)
}
