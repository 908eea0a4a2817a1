package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sprite-ai/clauseguard/internal/apperr"
	"github.com/sprite-ai/clauseguard/internal/jurisdiction"
	"github.com/sprite-ai/clauseguard/internal/model"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Analyze ---

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var p model.ProjectInput
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := s.analyze(r.Context(), p)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// analyze runs the analyzer and stores, measures and audits the result.
func (s *Server) analyze(ctx context.Context, p model.ProjectInput) (*model.AnalysisResult, error) {
	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, p)
	s.metrics.ObserveAnalysis(result, err, time.Since(start))
	if err != nil {
		s.logger.Warn("analysis failed", "error", err)
		return nil, err
	}
	s.store.putResult(result)
	if ar, ok := s.recorder.(AnalysisRecorder); ok {
		ar.RecordAnalysis(ctx, result)
	}
	return result, nil
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.store.result(r.PathValue("id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- Catalog ---

type catalogResponse struct {
	Version       string                        `json:"version"`
	Jurisdiction  string                        `json:"jurisdiction,omitempty"`
	Jurisdictions []string                      `json:"jurisdictions"`
	Clauses       []model.DefenseClause         `json:"clauses"`
	Requirements  []model.ComplianceRequirement `json:"requirements,omitempty"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("jurisdiction")))
	if code != "" && code != jurisdiction.Generic && !jurisdiction.Known(code) {
		writeAppError(w, apperr.New(apperr.KindInvalidInput, "api.catalog", "unknown jurisdiction "+code))
		return
	}

	clauses, err := s.catalog.Clauses(r.Context())
	if err != nil {
		writeAppError(w, apperr.Wrap(apperr.KindAnalysisFailure, "api.catalog", "reading catalog", err))
		return
	}

	resp := catalogResponse{
		Version:       s.catalog.Version,
		Jurisdiction:  code,
		Jurisdictions: s.catalog.Jurisdictions(),
		Clauses:       []model.DefenseClause{},
	}
	for _, c := range clauses {
		if code == "" || c.Applicability.AppliesIn(code) {
			resp.Clauses = append(resp.Clauses, c)
		}
	}
	if code != "" {
		resp.Requirements, err = s.catalog.Requirements(r.Context(), code)
		if err != nil {
			writeAppError(w, apperr.Wrap(apperr.KindAnalysisFailure, "api.catalog", "reading requirements", err))
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
