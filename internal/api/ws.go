package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/sprite-ai/clauseguard/internal/apperr"
	"github.com/sprite-ai/clauseguard/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev; restrict in production
	},
}

// WebSocket message types from client.
const (
	wsMsgAnalyze   = "analyze"
	wsMsgToggle    = "toggle"
	wsMsgReject    = "reject"
	wsMsgCustomize = "customize"
	wsMsgReset     = "reset"
	wsMsgVersion   = "version"
	wsMsgNotes     = "notes"
	wsMsgFinish    = "finish"
)

// WebSocket message types to client.
const (
	wsMsgAnalysis = "analysis"
	wsMsgState    = "state"
	wsMsgContract = "contract"
	wsMsgError    = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsClauseMsg is the payload of every clause action.
type wsClauseMsg struct {
	ClauseID string `json:"clauseId"`
	actionRequest
}

type wsErrorResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// wsConn carries the connection and the review session it drives. Each
// connection reviews at most one analysis at a time; a new "analyze" replaces
// the previous session.
type wsConn struct {
	srv       *Server
	conn      *websocket.Conn
	sessionID string
	logger    *slog.Logger
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	c := &wsConn{srv: s, conn: conn, logger: s.logger.With("remote", r.RemoteAddr)}
	defer c.closeSession()

	ctx := r.Context()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read", "error", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("invalid message format", apperr.KindInvalidInput)
			continue
		}

		switch msg.Type {
		case wsMsgAnalyze:
			c.handleAnalyze(ctx, msg.Data)
		case wsMsgToggle, wsMsgReject, wsMsgCustomize, wsMsgReset, wsMsgVersion, wsMsgNotes:
			c.handleClauseAction(ctx, msg.Type, msg.Data)
		case wsMsgFinish:
			c.handleFinish(ctx)
		default:
			c.sendError("unknown message type: "+msg.Type, apperr.KindInvalidInput)
		}
	}
}

func (c *wsConn) handleAnalyze(ctx context.Context, data json.RawMessage) {
	var p model.ProjectInput
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendError("invalid analyze data", apperr.KindInvalidInput)
		return
	}

	result, err := c.srv.analyze(ctx, p)
	if err != nil {
		c.sendAppError(err)
		return
	}

	c.closeSession()
	e := c.srv.newSession(result, true)
	c.sessionID = e.session.ID()

	c.send(wsMsgAnalysis, result)
	e.mu.Lock()
	view := sessionView(e.session)
	e.mu.Unlock()
	c.send(wsMsgState, view)
}

func (c *wsConn) handleClauseAction(ctx context.Context, action string, data json.RawMessage) {
	e, ok := c.entry()
	if !ok {
		return
	}

	var req wsClauseMsg
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("invalid "+action+" data", apperr.KindInvalidInput)
		return
	}

	e.mu.Lock()
	err := applyAction(ctx, e.session, req.ClauseID, action, req.actionRequest)
	view := sessionView(e.session)
	e.mu.Unlock()
	if err != nil {
		c.sendAppError(err)
		return
	}
	c.send(wsMsgState, view)
}

func (c *wsConn) handleFinish(ctx context.Context) {
	e, ok := c.entry()
	if !ok {
		return
	}

	e.mu.Lock()
	contract, err := e.session.Finalize(ctx)
	e.mu.Unlock()
	if err != nil {
		c.sendAppError(err)
		return
	}
	c.closeSession()
	c.send(wsMsgContract, contract)
}

func (c *wsConn) entry() (*sessionEntry, bool) {
	if c.sessionID == "" {
		c.sendError("no analysis loaded", apperr.KindInvalidTransition)
		return nil, false
	}
	e, err := c.srv.store.session(c.sessionID)
	if err != nil {
		c.sessionID = ""
		c.sendAppError(err)
		return nil, false
	}
	return e, true
}

func (c *wsConn) closeSession() {
	if c.sessionID != "" {
		c.srv.store.deleteSession(c.sessionID)
		c.sessionID = ""
	}
}

func (c *wsConn) send(msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		c.logger.Error("ws marshal", "error", err)
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := c.conn.WriteJSON(msg); err != nil {
		c.logger.Warn("ws write", "error", err)
	}
}

func (c *wsConn) sendError(msg string, kind apperr.Kind) {
	c.send(wsMsgError, wsErrorResponse{Message: msg, Kind: kind.String()})
}

func (c *wsConn) sendAppError(err error) {
	resp := wsErrorResponse{Message: err.Error()}
	if k := apperr.KindOf(err); k != apperr.KindUnknown {
		resp.Kind = k.String()
	}
	c.send(wsMsgError, resp)
}
