package http

import (
	"fmt"
	"net/http"

	"budget/internal/core"
	"budget/internal/log"
)

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	parser := NewRequestBodyParser(w, r)
	if resp := ParseBodyOrFail(parser); resp != nil {
		resp.Write(w)
		return
	}

	name, err := s.budget.AddCategory(r.Context(), parser.Get("name"))
	if err != nil {
		writeServiceError(w, r, log.OpCreate, err)
		return
	}
	s.invalidate()

	MessageResponse(http.StatusCreated, "success", "Category added: "+name).
		TriggerCategoryChanged(name, 0).
		TriggerFormReset().
		TriggerSuccessNotification("Category added").
		Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	parser := NewRequestBodyParser(w, r)
	if resp := ParseBodyOrFail(parser); resp != nil {
		resp.Write(w)
		return
	}

	name := parser.Get("name")
	if name == "" {
		BadRequestError("Missing category name").Write(w)
		return
	}

	removed, moved, err := s.budget.DeleteCategory(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, log.OpDelete, err)
		return
	}
	if !removed {
		NewHTMXResponse().
			TriggerInfoNotification("Category was already deleted").
			Write(w)
		return
	}
	s.invalidate()

	msg := "Category deleted"
	if moved > 0 {
		msg = fmt.Sprintf("Category deleted, %d transaction(s) moved to %s", moved, core.FallbackCategory)
	}
	NewHTMXResponse().
		TriggerCategoryChanged(name, moved).
		TriggerSuccessNotification(msg).
		Write(w)
}
