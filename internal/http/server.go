package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"winner/internal/app"
	"winner/internal/ledger"
	"winner/internal/log"
	"winner/internal/mortgage"
	"winner/internal/settings"
	"winner/internal/stocks"
	"winner/internal/tracker"
)

// Server exposes the derivation engine and its collections as a JSON API.
type Server struct {
	http.Server

	app      *app.App
	ledger   *ledger.Ledger
	tracker  *tracker.Tracker
	settings *settings.Service
	stocks   *stocks.Service
	mortgage *mortgage.Service

	logger       *log.Logger
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, a *app.App, ldg *ledger.Ledger, trk *tracker.Tracker, set *settings.Service, stk *stocks.Service, mtg *mortgage.Service, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		app:         a,
		ledger:      ldg,
		tracker:     trk,
		settings:    set,
		stocks:      stk,
		mortgage:    mtg,
		logger:      logger.WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/dashboard", s.wrap(s.handleDashboard))

	mux.HandleFunc("GET /api/expenses", s.wrap(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.wrap(s.handleCreateExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.wrap(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.wrap(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/recurring-bills", s.wrap(s.handleListRecurringBills))
	mux.HandleFunc("GET /api/saving-goals", s.wrap(s.handleListSavingGoals))

	mux.HandleFunc("GET /api/sessions", s.wrap(s.handleListSessions))
	mux.HandleFunc("POST /api/sessions/start", s.wrap(s.handleStartSession))
	mux.HandleFunc("POST /api/sessions/pause", s.wrap(s.handlePauseSession))
	mux.HandleFunc("POST /api/sessions/resume", s.wrap(s.handleResumeSession))
	mux.HandleFunc("POST /api/sessions/stop", s.wrap(s.handleStopSession))
	mux.HandleFunc("PUT /api/sessions/{id}", s.wrap(s.handleEditSession))
	mux.HandleFunc("DELETE /api/sessions/{id}", s.wrap(s.handleDeleteSession))

	mux.HandleFunc("GET /api/settings", s.wrap(s.handleGetSettings))
	mux.HandleFunc("PUT /api/settings", s.wrap(s.handleSaveSettings))

	mux.HandleFunc("GET /api/stocks", s.wrap(s.handleListHoldings))
	mux.HandleFunc("POST /api/stocks", s.wrap(s.handleAddHolding))
	mux.HandleFunc("DELETE /api/stocks/{id}", s.wrap(s.handleDeleteHolding))
	mux.HandleFunc("GET /api/stocks/valuations", s.wrap(s.handleValuations))
	mux.HandleFunc("GET /api/quotes/{symbol}", s.wrap(s.handleQuote))

	mux.HandleFunc("GET /api/mortgages", s.wrap(s.handleListMortgages))
	mux.HandleFunc("POST /api/mortgages", s.wrap(s.handleAddMortgage))
	mux.HandleFunc("PUT /api/mortgages/{id}", s.wrap(s.handleUpdateMortgage))
	mux.HandleFunc("DELETE /api/mortgages/{id}", s.wrap(s.handleDeleteMortgage))

	// Every request carries a context logger tagged with its request id.
	s.Server.Handler = log.Middleware(s.logger)(log.RequestIDMiddleware(requestID)(mux))

	return s
}

// requestID honors a caller-supplied X-Request-ID so traces can span
// services, generating one otherwise.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return generateRequestID()
}

// wrap adds request tracing, logging and mutation rate limiting around a
// handler.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		clientIP := clientAddr(r)
		trace := log.NewStructuredLogger(log.FromContext(ctx))

		trace.LogHTTPStart(ctx, r, clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			log.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeErrorStatus(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		trace.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// Shutdown stops the rate limiter cleanup goroutine before draining the
// HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func clientAddr(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
