package http

import (
	"net/http"
	"strings"

	"github.com/GusDawn123/aura-budget/internal/core"
)

type billRequest struct {
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	DueDay   int    `json:"dueDay"`
	Category string `json:"category"`
}

func (req billRequest) toDomain() (core.Bill, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Bill{}, err
	}
	return core.Bill{
		Name:     sanitizeInput(req.Name),
		Amount:   core.Money{Cents: cents},
		DueDay:   req.DueDay,
		Category: sanitizeInput(req.Category),
	}, nil
}

// handleListBills returns all bills; with ?month=2006-01 each bill is
// annotated with its paid state and totals are included.
func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	monthKey := strings.TrimSpace(r.URL.Query().Get("month"))
	if monthKey == "" {
		bills, err := s.bills.ListBills(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		out := make([]billView, 0, len(bills))
		for _, b := range bills {
			out = append(out, toBillView(b))
		}
		respondJSON(w, http.StatusOK, out)
		return
	}

	view, err := s.bills.BillsForMonth(r.Context(), monthKey)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	out := make([]billView, 0, len(view.Bills))
	for _, b := range view.Bills {
		bv := toBillView(b.Bill)
		paid := b.Paid
		bv.Paid = &paid
		out = append(out, bv)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"month":       monthKey,
		"bills":       out,
		"totalCents":  view.TotalCents,
		"paidCents":   view.PaidCents,
		"unpaidCents": view.UnpaidCents,
	})
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	bill, err := req.toDomain()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.bills.CreateBill(r.Context(), bill)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBillView(created))
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := s.bills.GetBill(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var req billRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	bill, err := req.toDomain()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	bill.ID = id
	bill.PaidMonths = existing.PaidMonths

	if err := s.bills.UpdateBill(r.Context(), bill); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBillView(bill))
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := s.bills.DeleteBill(r.Context(), r.PathValue("id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type toggleBillRequest struct {
	Month string `json:"month"`
}

func (s *Server) handleToggleBillPaid(w http.ResponseWriter, r *http.Request) {
	var req toggleBillRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := core.ParseDate(req.Month + "-01"); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid month, want yyyy-MM")
		return
	}

	bill, err := s.bills.TogglePaidMonth(r.Context(), r.PathValue("id"), req.Month)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBillView(bill))
}
