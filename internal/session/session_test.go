package session

import (
	"testing"
	"time"
)

// fixedClock returns a func() time.Time that always returns t.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestGet_CreatesOnFirstUse(t *testing.T) {
	st := New(30 * time.Minute)

	sess := st.Get("s-1")
	if sess == nil {
		t.Fatal("Get: expected session, got nil")
	}
	if sess.EditIndex != -1 {
		t.Errorf("EditIndex: got %d, want -1", sess.EditIndex)
	}
	if st.Count() != 1 {
		t.Errorf("Count: got %d, want 1", st.Count())
	}
}

func TestGet_ReturnsSameSession(t *testing.T) {
	st := New(30 * time.Minute)

	a := st.Get("s-1")
	a.LastSignature = "abc"

	b := st.Get("s-1")
	if b.LastSignature != "abc" {
		t.Errorf("second Get lost state: got %q, want abc", b.LastSignature)
	}
}

func TestLookup_Missing(t *testing.T) {
	st := New(30 * time.Minute)
	if _, ok := st.Lookup("unknown"); ok {
		t.Fatal("Lookup on empty store: expected false")
	}
}

func TestEvict_RemovesIdle(t *testing.T) {
	base := time.Now()
	st := New(30 * time.Minute)

	st.now = fixedClock(base.Add(-time.Hour)) // idle
	st.Get("old")

	st.now = fixedClock(base) // live
	st.Get("new")

	if n := st.Evict(base); n != 1 {
		t.Fatalf("Evict: got %d removed, want 1", n)
	}
	if _, ok := st.Lookup("old"); ok {
		t.Error("idle session still present after Evict")
	}
	if _, ok := st.Lookup("new"); !ok {
		t.Error("live session evicted")
	}
}

func TestLookup_RefreshesIdleTimer(t *testing.T) {
	base := time.Now()
	st := New(30 * time.Minute)

	st.now = fixedClock(base.Add(-time.Hour))
	st.Get("s")

	// A read-only hit (the live-stream path) must also keep the session alive.
	st.now = fixedClock(base)
	if _, ok := st.Lookup("s"); !ok {
		t.Fatal("Lookup: expected existing session")
	}

	if n := st.Evict(base); n != 0 {
		t.Errorf("Evict after Lookup: got %d removed, want 0", n)
	}
}

func TestGet_RefreshesIdleTimer(t *testing.T) {
	base := time.Now()
	st := New(30 * time.Minute)

	st.now = fixedClock(base.Add(-time.Hour))
	st.Get("s")

	// Touch again recently — must survive eviction.
	st.now = fixedClock(base)
	st.Get("s")

	if n := st.Evict(base); n != 0 {
		t.Errorf("Evict after refresh: got %d removed, want 0", n)
	}
}
