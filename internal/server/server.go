// Package server exposes the extraction pipelines and the ledger over a
// JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tallyup-dev/tallyup/internal/logger"
	"github.com/tallyup-dev/tallyup/internal/ocr"
	"github.com/tallyup-dev/tallyup/internal/pipeline"
	"github.com/tallyup-dev/tallyup/internal/store"
)

// UserHeader carries the authenticated user ID.
const UserHeader = "X-User-ID"

const (
	maxImageBytes = 10 << 20
	maxJSONBytes  = 2 << 20
	monthLayout   = "2006-01"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Store       store.Store
	Receipts    *pipeline.ReceiptPipeline
	SMS         *pipeline.SMSPipeline
	OCR         ocr.Extractor
	DefaultUser string
	MaxMessages int
	OCRTimeout  time.Duration
	Log         zerolog.Logger
	Now         func() time.Time
}

// Server handles API requests.
type Server struct {
	deps   Deps
	router *mux.Router
}

// New creates a Server and registers its routes.
func New(deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.OCR == nil {
		deps.OCR = ocr.Disabled{}
	}
	s := &Server{deps: deps, router: mux.NewRouter().StrictSlash(true)}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/receipts/analyze", s.analyzeReceipt).Methods("POST")
	api.HandleFunc("/receipts/scan", s.scanReceipt).Methods("POST")
	api.HandleFunc("/sms/import", s.importSMS).Methods("POST")

	api.HandleFunc("/transactions", s.listTransactions).Methods("GET")
	api.HandleFunc("/transactions", s.createTransaction).Methods("POST")
	api.HandleFunc("/transactions/{id}", s.getTransaction).Methods("GET")
	api.HandleFunc("/transactions/{id}", s.updateTransaction).Methods("PUT")
	api.HandleFunc("/transactions/{id}", s.deleteTransaction).Methods("DELETE")

	api.HandleFunc("/budgets", s.listBudgets).Methods("GET")
	api.HandleFunc("/budgets/report", s.budgetReport).Methods("GET")
	api.HandleFunc("/budgets/{category}", s.setBudget).Methods("PUT")
	api.HandleFunc("/budgets/{category}", s.deleteBudget).Methods("DELETE")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.deps.Log.Info().Str("addr", addr).Msg("server listening")
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests attaches a request-scoped logger and logs each response.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		l := s.deps.Log.With().Str("request_id", requestID).Logger()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context(), l)))

		l.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) userID(r *http.Request) string {
	if u := r.Header.Get(UserHeader); u != "" {
		return u
	}
	return s.deps.DefaultUser
}

type errorJSON struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	writeJSON(w, status, errorJSON{Error: msg, Details: details})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// storeError maps persistence failures onto HTTP statuses.
func storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicateSourceRef):
		writeError(w, http.StatusConflict, "message already imported")
	default:
		l := logger.FromContext(r.Context())
		l.Error().Err(err).Msg("store failure")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
