package http

import (
	"log/slog"
	"net/http"

	"github.com/GusDawn123/aura-budget/internal/core"
)

type transactionRequest struct {
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Place    string `json:"place"`
	Note     string `json:"note"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	m, err := monthParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid month, want yyyy-MM")
		return
	}

	txs, err := s.transactions.ListTransactions(r.Context(), m.Year, int(m.Month))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	out := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionView(tx))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid date, want yyyy-MM-dd")
		return
	}

	tx := core.Transaction{
		Type:     core.TransactionType(req.Type),
		Amount:   core.Money{Cents: cents},
		Date:     date,
		Category: sanitizeInput(req.Category),
		Place:    sanitizeInput(req.Place),
		Note:     sanitizeInput(req.Note),
	}

	created, err := s.transactions.CreateTransaction(r.Context(), tx)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.invalidateSummary(date.Year(), int(date.Month()))
	respondJSON(w, http.StatusCreated, toTransactionView(created))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	// The deleted row's month is unknown here; drop nothing and let the
	// short TTL age the stale summary out.
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	m, err := monthParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid month, want yyyy-MM")
		return
	}

	key := s.summaryCacheKey(m.Year, int(m.Month))
	if summary, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "month", m.String())
		respondJSON(w, http.StatusOK, toSummaryView(summary))
		return
	}

	summary, err := s.transactions.MonthSummary(r.Context(), m.Year, int(m.Month))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.summaryCache.Set(key, summary)
	respondJSON(w, http.StatusOK, toSummaryView(summary))
}
