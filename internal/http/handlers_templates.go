package http

import (
	"net/http"

	"github.com/GusDawn123/aura-budget/internal/core"
)

type templateRequest struct {
	Name           string `json:"name"`
	Amount         string `json:"amount"`
	FirstDueDate   string `json:"firstDueDate"`
	ScheduleType   string `json:"scheduleType"`
	Frequency      string `json:"frequency"`
	PlanCountTotal int    `json:"planCountTotal"`
	IsActive       *bool  `json:"isActive"`
	AlreadyPaid    bool   `json:"alreadyPaid"`
}

func (req templateRequest) toDomain() (core.ScheduleTemplate, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.ScheduleTemplate{}, err
	}

	tpl := core.ScheduleTemplate{
		Name:           sanitizeInput(req.Name),
		Amount:         core.Money{Cents: cents},
		ScheduleType:   core.ScheduleType(req.ScheduleType),
		Frequency:      core.Frequency(req.Frequency),
		PlanCountTotal: req.PlanCountTotal,
		IsActive:       true,
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}
	if tpl.ScheduleType == core.PaymentPlan {
		tpl.PlanCountRemaining = req.PlanCountTotal
	}
	if req.FirstDueDate != "" {
		due, err := core.ParseDate(req.FirstDueDate)
		if err != nil {
			return core.ScheduleTemplate{}, err
		}
		tpl.FirstDueDate = due
	}
	return tpl, nil
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	tpls, err := s.templates.ListTemplates(r.Context(), activeOnly)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTemplateViews(tpls))
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := req.toDomain()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.templates.CreateTemplate(r.Context(), tpl, req.AlreadyPaid)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTemplateView(created))
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.templates.GetTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTemplateView(tpl))
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := s.templates.GetTemplate(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := req.toDomain()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	tpl.ID = id
	tpl.PlanCountRemaining = existing.PlanCountRemaining
	if tpl.ScheduleType == core.PaymentPlan && existing.ScheduleType != core.PaymentPlan {
		tpl.PlanCountRemaining = tpl.PlanCountTotal
	}

	if err := s.templates.UpdateTemplate(r.Context(), tpl); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTemplateView(tpl))
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.templates.DeleteTemplate(r.Context(), r.PathValue("id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
