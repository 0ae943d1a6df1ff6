package http

import (
	"net/http"
	"time"

	"github.com/GusDawn123/aura-budget/internal/core"
	"github.com/GusDawn123/aura-budget/internal/schedule"
)

// handleOccurrences lists the concrete due dates of one template for a month.
func (s *Server) handleOccurrences(w http.ResponseWriter, r *http.Request) {
	m, err := monthParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid month, want yyyy-MM")
		return
	}

	tpl, err := s.templates.GetTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	dates, err := schedule.OccurrencesInMonth(tpl, m)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, core.FormatDate(d))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"month":       m.String(),
		"occurrences": out,
	})
}

// handleNextDue reports the next unpaid occurrence of one template.
func (s *Server) handleNextDue(w http.ResponseWriter, r *http.Request) {
	next, ok, err := s.budget.NextDue(r.Context(), r.PathValue("id"), time.Now())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !ok {
		respondJSON(w, http.StatusOK, map[string]any{"nextDue": nil})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"nextDue": core.FormatDate(next)})
}

// handleMonthItems returns all scheduled occurrences for a month with
// paid state and totals.
func (s *Server) handleMonthItems(w http.ResponseWriter, r *http.Request) {
	m, err := monthParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid month, want yyyy-MM")
		return
	}

	items, err := s.budget.MonthItems(r.Context(), m)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	totals, err := s.budget.MonthTotals(r.Context(), m)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"month":  m.String(),
		"items":  toScheduledItemViews(items),
		"totals": totals,
	})
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	view, err := s.budget.Upcoming(r.Context(), time.Now(), 7*24*time.Hour)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"dueSoon": toScheduledItemViews(view.DueSoon),
		"later":   toScheduledItemViews(view.Later),
	})
}
