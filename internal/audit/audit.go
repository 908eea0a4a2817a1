// Package audit persists review session activity to a SQLite audit trail.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sprite-ai/clauseguard/internal/model"
	"github.com/sprite-ai/clauseguard/internal/review"
)

const schema = `CREATE TABLE IF NOT EXISTS review_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	result_id TEXT NOT NULL,
	clause_id TEXT,
	action TEXT NOT NULL,
	from_status TEXT,
	to_status TEXT,
	error TEXT,
	timestamp DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS review_log_session ON review_log (session_id, id);
CREATE TABLE IF NOT EXISTS analysis_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	result_id TEXT NOT NULL,
	jurisdiction TEXT NOT NULL,
	max_risk TEXT NOT NULL,
	risk_score INTEGER NOT NULL,
	compliance_score INTEGER NOT NULL,
	clauses INTEGER NOT NULL,
	timestamp DATETIME NOT NULL
);`

// Auditor writes review events and analysis summaries. It implements
// review.Recorder; write failures are logged, never returned to the session.
type Auditor struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Entry is one recorded review action.
type Entry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	ResultID  string    `json:"result_id"`
	ClauseID  string    `json:"clause_id,omitempty"`
	Action    string    `json:"action"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Open opens (creating if needed) the audit database at path.
func Open(path string, logger *slog.Logger) (*Auditor, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening audit db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating audit tables: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{db: db, logger: logger, now: time.Now}, nil
}

// Record implements review.Recorder.
func (a *Auditor) Record(ctx context.Context, e review.Event) {
	var errStr, from, to string
	if e.Err != nil {
		errStr = e.Err.Error()
	}
	if e.ClauseID != "" {
		from, to = e.From.String(), e.To.String()
	}
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO review_log (session_id, result_id, clause_id, action, from_status, to_status, error, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		e.SessionID, e.ResultID, e.ClauseID, e.Action, from, to, errStr, a.now().UTC(),
	)
	if err != nil {
		a.logger.Warn("failed to write audit log", "session_id", e.SessionID, "error", err)
	}
}

// RecordAnalysis stores a summary of an analysis result.
func (a *Auditor) RecordAnalysis(ctx context.Context, r *model.AnalysisResult) {
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO analysis_log (result_id, jurisdiction, max_risk, risk_score, compliance_score, clauses, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.Jurisdiction, r.MaxRisk().String(), r.TotalRiskScore, r.ComplianceScore, len(r.RecommendedClauses), a.now().UTC(),
	)
	if err != nil {
		a.logger.Warn("failed to write analysis audit", "result_id", r.ID, "error", err)
	}
}

// Session returns the recorded actions of one session, oldest first.
func (a *Auditor) Session(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT id, session_id, result_id, clause_id, action, from_status, to_status, error, timestamp FROM review_log WHERE session_id = ? ORDER BY id",
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Recent returns the latest recorded actions across sessions, newest first.
func (a *Auditor) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT id, session_id, result_id, clause_id, action, from_status, to_status, error, timestamp FROM review_log ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var clause, from, to, errStr sql.NullString
		if err := rows.Scan(&e.ID, &e.SessionID, &e.ResultID, &clause, &e.Action, &from, &to, &errStr, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning audit row: %w", err)
		}
		e.ClauseID, e.From, e.To, e.Error = clause.String, from.String, to.String, errStr.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (a *Auditor) Close() error {
	return a.db.Close()
}
