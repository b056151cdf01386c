package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	wsHub "github.com/execpartners/bpsim/internal/ws"
)

const testInterval = 20 * time.Millisecond

// --- helpers ----------------------------------------------------------------

// stateMap is a concurrency-safe session → state fixture.
type stateMap struct {
	mu sync.Mutex
	m  map[string]any
}

func newStateMap() *stateMap {
	return &stateMap{m: make(map[string]any)}
}

func (s *stateMap) set(id string, v any) {
	s.mu.Lock()
	s.m[id] = v
	s.mu.Unlock()
}

func (s *stateMap) snapshot(id string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[id]
	return v, ok
}

// startHub starts a test HTTP server with the hub as its handler.
// The hub's Run loop is started with a cancellable context.
func startHub(t *testing.T, states *stateMap) (wsURL string, hub *wsHub.Hub, cancel func()) {
	t.Helper()

	hub = wsHub.New(states.snapshot, testInterval)
	ctx, cancelFn := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http"), hub, cancelFn
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wsHub.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	var msg wsHub.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal message: %v (raw: %s)", err, data)
	}
	return msg
}

// --- tests ------------------------------------------------------------------

func TestHub_ImmediateSnapshotOnConnect(t *testing.T) {
	states := newStateMap()
	states.set("alice", map[string]any{"score": 9})
	url, _, cancel := startHub(t, states)
	defer cancel()

	conn := dial(t, url+"?session=alice")
	msg := readMessage(t, conn)

	if msg.Event != "evaluation" {
		t.Errorf("event: got %q, want evaluation", msg.Event)
	}
	if msg.Session != "alice" {
		t.Errorf("session: got %q, want alice", msg.Session)
	}
	data, ok := msg.Data.(map[string]any)
	if !ok || data["score"].(float64) != 9 {
		t.Errorf("data: got %v", msg.Data)
	}
}

func TestHub_PushesUpdates(t *testing.T) {
	states := newStateMap()
	states.set("alice", map[string]any{"score": 4})
	url, _, cancel := startHub(t, states)
	defer cancel()

	conn := dial(t, url+"?session=alice")
	readMessage(t, conn) // initial snapshot

	states.set("alice", map[string]any{"score": 10})

	// Within a few ticks the new score must arrive.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		msg := readMessage(t, conn)
		if data, ok := msg.Data.(map[string]any); ok && data["score"].(float64) == 10 {
			return
		}
	}
	t.Fatal("updated score never pushed")
}

func TestHub_UnknownSessionConnectsSilently(t *testing.T) {
	states := newStateMap()
	url, hub, cancel := startHub(t, states)
	defer cancel()

	conn := dial(t, url+"?session=ghost")

	// No state → no push; the connection must stay registered regardless.
	conn.SetReadDeadline(time.Now().Add(3 * testInterval))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected no message for an unknown session")
	}
	if hub.Count() != 1 {
		t.Errorf("client count: got %d, want 1", hub.Count())
	}
}

func TestHub_DefaultSession(t *testing.T) {
	states := newStateMap()
	states.set("default", map[string]any{"score": 1})
	url, _, cancel := startHub(t, states)
	defer cancel()

	conn := dial(t, url)
	msg := readMessage(t, conn)
	if msg.Session != "default" {
		t.Errorf("session: got %q, want default", msg.Session)
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	states := newStateMap()
	states.set("alice", map[string]any{"score": 5})
	url, hub, cancel := startHub(t, states)

	conn := dial(t, url+"?session=alice")
	readMessage(t, conn)

	cancel()

	// The server closes the connection; subsequent reads must fail.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	if hub.Count() != 0 {
		t.Errorf("client count after shutdown: got %d, want 0", hub.Count())
	}
}
