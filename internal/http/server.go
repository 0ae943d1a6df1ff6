package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/GusDawn123/aura-budget/internal/cache"
	"github.com/GusDawn123/aura-budget/internal/core"
	"github.com/GusDawn123/aura-budget/internal/services"
)

type Server struct {
	http.Server
	templates    *services.TemplateService
	payments     *services.PaymentService
	budget       *services.BudgetService
	transactions *services.TransactionService
	bills        *services.BillService
	export       *services.ExportService
	rateLimiter  *rateLimiter

	// Month summaries are the most expensive read, so they get a small
	// LRU in front of the ledger. Writes invalidate by month key.
	summaryCache cache.Cache[core.MonthSummary]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// Deps bundles the service layer for NewServer.
type Deps struct {
	Templates    *services.TemplateService
	Payments     *services.PaymentService
	Budget       *services.BudgetService
	Transactions *services.TransactionService
	Bills        *services.BillService
	Export       *services.ExportService
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, deps Deps, summaryCache cache.Cache[core.MonthSummary]) *Server {
	mux := http.NewServeMux()

	if summaryCache == nil {
		summaryCache = cache.NewLRUCache[core.MonthSummary](100, 5*time.Minute)
	}

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		templates:    deps.Templates,
		payments:     deps.Payments,
		budget:       deps.Budget,
		transactions: deps.Transactions,
		bills:        deps.Bills,
		export:       deps.Export,
		rateLimiter:  newRateLimiter(),
		summaryCache: summaryCache,
		cacheManager: cache.NewManager(),
	}

	if cleaner, ok := summaryCache.(cache.Cleaner); ok {
		s.cacheManager.Register(cleaner)
	}
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/templates", s.withMiddleware(s.handleListTemplates))
	mux.HandleFunc("POST /api/templates", s.withMiddleware(s.handleCreateTemplate))
	mux.HandleFunc("GET /api/templates/{id}", s.withMiddleware(s.handleGetTemplate))
	mux.HandleFunc("PUT /api/templates/{id}", s.withMiddleware(s.handleUpdateTemplate))
	mux.HandleFunc("DELETE /api/templates/{id}", s.withMiddleware(s.handleDeleteTemplate))
	mux.HandleFunc("GET /api/templates/{id}/occurrences", s.withMiddleware(s.handleOccurrences))
	mux.HandleFunc("GET /api/templates/{id}/next-due", s.withMiddleware(s.handleNextDue))

	mux.HandleFunc("POST /api/payments", s.withMiddleware(s.handleMarkPaid))
	mux.HandleFunc("DELETE /api/payments", s.withMiddleware(s.handleMarkUnpaid))

	mux.HandleFunc("GET /api/month", s.withMiddleware(s.handleMonthItems))
	mux.HandleFunc("GET /api/upcoming", s.withMiddleware(s.handleUpcoming))

	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))
	mux.HandleFunc("GET /api/summary", s.withMiddleware(s.handleMonthSummary))

	mux.HandleFunc("GET /api/bills", s.withMiddleware(s.handleListBills))
	mux.HandleFunc("POST /api/bills", s.withMiddleware(s.handleCreateBill))
	mux.HandleFunc("PUT /api/bills/{id}", s.withMiddleware(s.handleUpdateBill))
	mux.HandleFunc("DELETE /api/bills/{id}", s.withMiddleware(s.handleDeleteBill))
	mux.HandleFunc("POST /api/bills/{id}/toggle-paid", s.withMiddleware(s.handleToggleBillPaid))

	mux.HandleFunc("GET /api/export", s.withMiddleware(s.handleExport))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Rate limit mutating requests only.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) summaryCacheKey(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

func (s *Server) invalidateSummary(year, month int) {
	s.summaryCache.Delete(s.summaryCacheKey(year, month))
}
