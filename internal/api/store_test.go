package api

import (
	"testing"
	"time"

	"github.com/sprite-ai/clauseguard/internal/metrics"
	"github.com/sprite-ai/clauseguard/internal/model"
	"github.com/sprite-ai/clauseguard/internal/review"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func testSession(id string) *review.Session {
	return review.New(&model.AnalysisResult{ID: "ar_" + id}, review.WithID(id))
}

func TestStoreDiscardsIdleSessions(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	st := newStore(4, time.Minute, metrics.New())
	st.now = clock.now

	st.putSession(testSession("idle"), false)
	st.putSession(testSession("busy"), false)
	st.putSession(testSession("ws"), true)

	clock.t = clock.t.Add(40 * time.Second)
	if _, err := st.session("busy"); err != nil {
		t.Fatalf("busy session: %v", err)
	}

	clock.t = clock.t.Add(40 * time.Second)
	if _, err := st.session("idle"); err == nil {
		t.Error("expected idle session to be discarded")
	}
	if _, err := st.session("busy"); err != nil {
		t.Errorf("recently used session was discarded: %v", err)
	}
	if _, err := st.session("ws"); err != nil {
		t.Errorf("pinned session was discarded: %v", err)
	}

	clock.t = clock.t.Add(10 * time.Minute)
	st.putSession(testSession("fresh"), false)
	if _, err := st.session("busy"); err == nil {
		t.Error("expected busy session to expire once idle")
	}
	if _, err := st.session("fresh"); err != nil {
		t.Errorf("new session: %v", err)
	}
	if _, err := st.session("ws"); err != nil {
		t.Errorf("pinned session was discarded: %v", err)
	}
	if !st.deleteSession("ws") {
		t.Error("expected pinned session to be deletable")
	}
}

func TestStoreDefaultSessionTTL(t *testing.T) {
	st := newStore(1, 0, metrics.New())
	if st.ttl != defaultSessionTTL {
		t.Errorf("ttl = %s, want %s", st.ttl, defaultSessionTTL)
	}
}

func TestStoreEvictsOldestResult(t *testing.T) {
	st := newStore(2, time.Minute, metrics.New())
	for _, id := range []string{"a", "b", "c"} {
		st.putResult(&model.AnalysisResult{ID: id})
	}
	if _, err := st.result("a"); err == nil {
		t.Error("expected oldest result to be evicted")
	}
	for _, id := range []string{"b", "c"} {
		if _, err := st.result(id); err != nil {
			t.Errorf("result %s: %v", id, err)
		}
	}
}
