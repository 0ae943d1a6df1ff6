package http

import (
	"fmt"
	"log/slog"
	"net/http"
)

// handleExport streams the month ledger as csv (default) or xlsx.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	m, err := monthParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid month, want yyyy-MM")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	filename := fmt.Sprintf("transactions-%s.%s", m.String(), format)

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		err = s.export.WriteCSV(r.Context(), w, m.Year, int(m.Month))
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		err = s.export.WriteXLSX(r.Context(), w, m.Year, int(m.Month))
	default:
		respondError(w, http.StatusBadRequest, "unknown format, want csv or xlsx")
		return
	}
	if err != nil {
		// Headers are already out; the truncated body is all we can signal.
		slog.ErrorContext(r.Context(), "Export failed", "error", err, "format", format, "month", m.String())
	}
}
