package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/sprite-ai/clauseguard/internal/apperr"
	"github.com/sprite-ai/clauseguard/internal/model"
	"github.com/sprite-ai/clauseguard/internal/review"
)

type createSessionRequest struct {
	ResultID string `json:"resultId"`
}

// actionRequest is the optional body of a clause action.
type actionRequest struct {
	Fields  map[string]string `json:"fields,omitempty"`
	Notes   *string           `json:"notes,omitempty"`
	Version string            `json:"version,omitempty"`
}

type clauseView struct {
	review.ClauseState
	Category string   `json:"category"`
	Text     string   `json:"text"`
	Fields   []string `json:"fields,omitempty"`
}

type sessionResponse struct {
	ID           string          `json:"id"`
	ResultID     string          `json:"resultId"`
	Jurisdiction string          `json:"jurisdiction"`
	Progress     review.Progress `json:"progress"`
	Blocking     []string        `json:"blocking"`
	Clauses      []clauseView    `json:"clauses"`
}

func sessionView(s *review.Session) sessionResponse {
	resp := sessionResponse{
		ID:           s.ID(),
		ResultID:     s.Result().ID,
		Jurisdiction: s.Result().Jurisdiction,
		Progress:     s.Progress(),
		Blocking:     s.Blocking(),
		Clauses:      make([]clauseView, 0, s.Len()),
	}
	if resp.Blocking == nil {
		resp.Blocking = []string{}
	}
	for _, st := range s.States() {
		c, _ := s.Clause(st.ClauseID)
		resp.Clauses = append(resp.Clauses, clauseView{
			ClauseState: st,
			Category:    c.Category,
			Text:        c.TextFor(st.SelectedVersion),
			Fields:      c.CustomizationOptions.VariableFields,
		})
	}
	return resp
}

// newSession opens a review session on a result and registers it. Pinned
// sessions belong to a WebSocket connection and do not expire.
func (s *Server) newSession(result *model.AnalysisResult, pinned bool) *sessionEntry {
	recorders := review.Recorders{s.metrics}
	if s.recorder != nil {
		recorders = append(recorders, s.recorder)
	}
	sess := review.New(result, review.WithRecorder(recorders))
	s.logger.Debug("review session opened", "session_id", sess.ID(), "result_id", result.ID, "clauses", sess.Len())
	return s.store.putSession(sess, pinned)
}

// applyAction dispatches one named action to a clause.
func applyAction(ctx context.Context, sess *review.Session, clauseID, action string, req actionRequest) error {
	switch action {
	case "toggle":
		return sess.Toggle(ctx, clauseID)
	case "reject":
		return sess.Reject(ctx, clauseID)
	case "reset":
		return sess.Reset(ctx, clauseID)
	case "customize":
		if err := sess.Customize(ctx, clauseID, req.Fields); err != nil {
			return err
		}
		if req.Notes != nil {
			return sess.SetNotes(ctx, clauseID, *req.Notes)
		}
		return nil
	case "notes":
		notes := ""
		if req.Notes != nil {
			notes = *req.Notes
		}
		return sess.SetNotes(ctx, clauseID, notes)
	case "version":
		v, err := model.ParseVersion(req.Version)
		if err != nil {
			return apperr.Wrap(apperr.KindInvalidInput, "api.version", "invalid version", err)
		}
		return sess.SelectVersion(ctx, clauseID, v)
	default:
		return apperr.New(apperr.KindInvalidInput, "api.action", "unknown action "+action)
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.ResultID == "" {
		writeError(w, http.StatusBadRequest, "resultId is required")
		return
	}

	result, err := s.store.result(req.ResultID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	e := s.newSession(result, false)
	e.mu.Lock()
	defer e.mu.Unlock()
	writeJSON(w, http.StatusCreated, sessionView(e.session))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.session(r.PathValue("id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	writeJSON(w, http.StatusOK, sessionView(e.session))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.store.deleteSession(r.PathValue("id")) {
		writeAppError(w, apperr.New(apperr.KindNotFound, "api.session", "review session "+r.PathValue("id")+" not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClauseAction(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.session(r.PathValue("id"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	// The body is optional for toggle, reject and reset.
	var req actionRequest
	if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := applyAction(r.Context(), e.session, r.PathValue("clause"), r.PathValue("action"), req); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(e.session))
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := s.store.session(id)
	if err != nil {
		writeAppError(w, err)
		return
	}

	e.mu.Lock()
	contract, err := e.session.Finalize(r.Context())
	e.mu.Unlock()
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.store.deleteSession(id)
	s.logger.Info("review finalized", "session_id", id, "clauses", len(contract.Clauses))
	writeJSON(w, http.StatusOK, contract)
}
