package api

import (
	"sync"
	"time"

	"github.com/sprite-ai/clauseguard/internal/apperr"
	"github.com/sprite-ai/clauseguard/internal/metrics"
	"github.com/sprite-ai/clauseguard/internal/model"
	"github.com/sprite-ai/clauseguard/internal/review"
)

const (
	defaultMaxResults = 256
	defaultSessionTTL = 30 * time.Minute
)

// sessionEntry serializes access to one review session; review.Session is not
// safe for concurrent use.
type sessionEntry struct {
	mu      sync.Mutex
	session *review.Session

	// Guarded by store.mu.
	lastSeen time.Time
	pinned   bool // owned by a WebSocket connection, never expires
}

// store keeps analysis results and open review sessions in memory. Results are
// evicted oldest first once max is reached. Sessions live until deleted or
// finalized; REST sessions untouched for ttl are discarded.
type store struct {
	mu       sync.Mutex
	max      int
	results  map[string]*model.AnalysisResult
	order    []string
	sessions map[string]*sessionEntry
	metrics  *metrics.Collector

	ttl   time.Duration
	now   func() time.Time
	swept time.Time
}

func newStore(max int, ttl time.Duration, m *metrics.Collector) *store {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &store{
		max:      max,
		results:  make(map[string]*model.AnalysisResult),
		sessions: make(map[string]*sessionEntry),
		metrics:  m,
		ttl:      ttl,
		now:      time.Now,
	}
}

// sweep drops idle sessions at most once per ttl. Callers hold st.mu and
// report the returned count to metrics after unlocking.
func (st *store) sweep(now time.Time) int {
	if now.Sub(st.swept) <= st.ttl {
		return 0
	}
	st.swept = now
	expired := 0
	for id, e := range st.sessions {
		if !e.pinned && now.Sub(e.lastSeen) > st.ttl {
			delete(st.sessions, id)
			expired++
		}
	}
	return expired
}

func (st *store) closed(n int) {
	for range n {
		st.metrics.SessionClosed()
	}
}

func (st *store) putResult(r *model.AnalysisResult) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.results[r.ID]; !ok {
		st.order = append(st.order, r.ID)
	}
	st.results[r.ID] = r
	for len(st.order) > st.max {
		delete(st.results, st.order[0])
		st.order = st.order[1:]
	}
}

func (st *store) result(id string) (*model.AnalysisResult, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	r, ok := st.results[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "api.result", "analysis result "+id+" not found")
	}
	return r, nil
}

// putSession registers s. Pinned sessions are removed only by deleteSession.
func (st *store) putSession(s *review.Session, pinned bool) *sessionEntry {
	st.mu.Lock()
	now := st.now()
	expired := st.sweep(now)
	e := &sessionEntry{session: s, lastSeen: now, pinned: pinned}
	st.sessions[s.ID()] = e
	st.mu.Unlock()
	st.closed(expired)
	st.metrics.SessionOpened()
	return e
}

func (st *store) session(id string) (*sessionEntry, error) {
	st.mu.Lock()
	now := st.now()
	expired := st.sweep(now)
	e, ok := st.sessions[id]
	if ok {
		e.lastSeen = now
	}
	st.mu.Unlock()
	st.closed(expired)
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "api.session", "review session "+id+" not found")
	}
	return e, nil
}

func (st *store) deleteSession(id string) bool {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		st.metrics.SessionClosed()
	}
	return ok
}
