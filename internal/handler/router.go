package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pandastrade/papertrade/internal/service"
)

// NewRouter creates a chi router with all routes registered, request
// logging, and Content-Type validation middleware.
func NewRouter(
	accountSvc *service.AccountService,
	quoteSvc *service.QuoteService,
	authSvc *service.AuthService,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	accountH := NewAccountHandler(accountSvc)
	valuationH := NewValuationHandler(accountSvc)
	quoteH := NewQuoteHandler(quoteSvc)
	authH := NewAuthHandler(authSvc)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Account routes.
	r.Get("/account", accountH.Get)
	r.Post("/account/buy", accountH.Buy)
	r.Post("/account/sell", accountH.Sell)
	r.Post("/account/reset", accountH.Reset)

	// Watchlist.
	r.Post("/watchlist/{symbol}", accountH.ToggleWatchlist)

	// Valuation.
	r.Get("/valuation", valuationH.Get)

	// Quote routes.
	r.Get("/quotes", quoteH.List)
	r.Get("/quotes/{symbol}", quoteH.Get)
	r.Get("/quotes/{symbol}/history", quoteH.History)

	// Admin override for scenario seeding; not part of the trading flow.
	r.Put("/admin/holdings/{symbol}", accountH.SetHoldingShares)

	// Access gate.
	r.Post("/auth/verify", authH.Verify)

	return r
}

// requestLogging returns middleware that logs each request's method,
// path, status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type on POST,
// PUT, and PATCH requests carrying a body before the handler runs.
// Bodyless POSTs (reset, watchlist toggle) pass through.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasBody := r.ContentLength != 0
		if hasBody && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
