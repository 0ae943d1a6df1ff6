package http

import (
	"net/http"

	"github.com/GusDawn123/aura-budget/internal/core"
)

type paymentRequest struct {
	TemplateID string `json:"templateId"`
	DueDate    string `json:"dueDate"`
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	due, err := core.ParseDate(req.DueDate)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid dueDate, want yyyy-MM-dd")
		return
	}

	rec, err := s.payments.MarkPaid(r.Context(), req.TemplateID, due)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{
		"id":         rec.ID,
		"templateId": rec.TemplateID,
		"dueDate":    core.FormatDate(rec.DueDate),
	})
}

func (s *Server) handleMarkUnpaid(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	due, err := core.ParseDate(req.DueDate)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid dueDate, want yyyy-MM-dd")
		return
	}

	if err := s.payments.MarkUnpaid(r.Context(), req.TemplateID, due); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
