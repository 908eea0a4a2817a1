// Package api implements the HTTP API server for clauseguard.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sprite-ai/clauseguard/internal/analysis"
	"github.com/sprite-ai/clauseguard/internal/apperr"
	"github.com/sprite-ai/clauseguard/internal/catalog"
	"github.com/sprite-ai/clauseguard/internal/metrics"
	"github.com/sprite-ai/clauseguard/internal/model"
	"github.com/sprite-ai/clauseguard/internal/review"
)

// AnalysisRecorder is notified of every successful analysis.
type AnalysisRecorder interface {
	RecordAnalysis(ctx context.Context, r *model.AnalysisResult)
}

// Options wires the server's collaborators. Catalog is required; everything
// else has a usable default.
type Options struct {
	Catalog  *catalog.Catalog
	Analyzer *analysis.Analyzer
	Metrics  *metrics.Collector
	Logger   *slog.Logger

	// Recorder receives review events and, when it also implements
	// AnalysisRecorder, analysis summaries.
	Recorder review.Recorder

	// RateLimit is requests per second per client; zero disables limiting.
	RateLimit float64
	Burst     int

	// SessionTTL discards REST review sessions idle for longer than this;
	// zero uses 30 minutes.
	SessionTTL time.Duration
}

// Server is the clauseguard HTTP API server.
type Server struct {
	addr     string
	mux      *http.ServeMux
	server   *http.Server
	handler  http.Handler
	catalog  *catalog.Catalog
	analyzer *analysis.Analyzer
	metrics  *metrics.Collector
	recorder review.Recorder
	logger   *slog.Logger
	store    *store
}

// New creates a new API server.
func New(addr string, opts Options) *Server {
	s := &Server{
		addr:     addr,
		catalog:  opts.Catalog,
		analyzer: opts.Analyzer,
		metrics:  opts.Metrics,
		recorder: opts.Recorder,
		logger:   opts.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.analyzer == nil {
		s.analyzer = analysis.New(s.catalog, analysis.WithLogger(s.logger))
	}
	s.store = newStore(defaultMaxResults, opts.SessionTTL, s.metrics)

	s.mux = http.NewServeMux()
	s.registerRoutes()

	var h http.Handler = s.mux
	if opts.RateLimit > 0 {
		h = newLimiter(opts.RateLimit, opts.Burst, time.Now).middleware(h, s.metrics)
	}
	s.handler = instrument(h, s.metrics)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /api/results/{id}", s.handleGetResult)
	s.mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	s.mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	s.mux.HandleFunc("POST /api/sessions/{id}/clauses/{clause}/{action}", s.handleClauseAction)
	s.mux.HandleFunc("POST /api/sessions/{id}/finalize", s.handleFinalize)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

// ListenAndServe starts the HTTP server and shuts it down when ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("clauseguard API server listening", "addr", s.addr)

	errCh := make(chan error, 1)
	go func() { errCh <- s.server.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down API server")
		return s.server.Shutdown(shutdownCtx)
	}
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// statusFor maps an error kind to the HTTP status the API reports it with.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput, apperr.KindInputIncomplete:
		return http.StatusBadRequest
	case apperr.KindLookupMiss, apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidTransition:
		return http.StatusConflict
	case apperr.KindAnalysisFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeAppError writes err with the status its kind maps to.
func writeAppError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	resp := errorResponse{Error: err.Error()}
	if kind != apperr.KindUnknown {
		resp.Kind = kind.String()
	}
	writeJSON(w, statusFor(err), resp)
}

// readJSON decodes a JSON request body into v.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

const maxBodyBytes = 1 << 20
