package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// testServer accepts any number of consecutive connections and exposes
// the inbound frames and the live server-side connections.
type testServer struct {
	srv    *httptest.Server
	frames chan Event
	conns  chan *websocket.Conn
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		frames: make(chan Event, 32),
		conns:  make(chan *websocket.Conn, 4),
	}
	ts.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ts.conns <- conn
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var ev Event
			if json.Unmarshal(raw, &ev) == nil {
				ts.frames <- ev
			}
		}
	}))
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) url() string {
	return "ws" + strings.TrimPrefix(ts.srv.URL, "http")
}

func (ts *testServer) waitFrame(t *testing.T, event string) Event {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-ts.frames:
			if ev.Event == event {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q frame", event)
		}
	}
}

func (ts *testServer) waitConn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-ts.conns:
		return conn
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for connection")
		return nil
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConn_JoinsOnConnect(t *testing.T) {
	ts := newTestServer(t)

	c := New(ts.url(), "", JoinPayload{UserID: "u1", ClientID: "cl1"}, 3, 20*time.Millisecond, discard())
	go c.Run()
	defer c.Close()

	ts.waitConn(t)
	frame := ts.waitFrame(t, EventJoin)

	var join JoinPayload
	require.NoError(t, json.Unmarshal(frame.Data, &join))
	assert.Equal(t, "u1", join.UserID)
	assert.Equal(t, "cl1", join.ClientID)
	assert.Eventually(t, c.IsConnected, time.Second, 10*time.Millisecond)
}

func TestConn_DispatchesInboundEvents(t *testing.T) {
	ts := newTestServer(t)

	c := New(ts.url(), "", JoinPayload{UserID: "u1"}, 3, 20*time.Millisecond, discard())
	received := make(chan json.RawMessage, 1)
	c.On(EventReceiveMessage, func(data json.RawMessage) {
		received <- data
	})
	go c.Run()
	defer c.Close()

	server := ts.waitConn(t)
	ts.waitFrame(t, EventJoin)

	payload, _ := json.Marshal(map[string]string{"_id": "m1"})
	frame, _ := json.Marshal(Event{Event: EventReceiveMessage, Data: payload})
	require.NoError(t, server.WriteMessage(websocket.TextMessage, frame))

	select {
	case data := <-received:
		var msg map[string]string
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "m1", msg["_id"])
	case <-time.After(3 * time.Second):
		t.Fatal("inbound event not dispatched")
	}
}

func TestConn_ReconnectReplaysJoin(t *testing.T) {
	ts := newTestServer(t)

	c := New(ts.url(), "", JoinPayload{UserID: "u1"}, 5, 20*time.Millisecond, discard())
	connects := make(chan struct{}, 4)
	c.OnConnect(func() { connects <- struct{}{} })
	go c.Run()
	defer c.Close()

	first := ts.waitConn(t)
	ts.waitFrame(t, EventJoin)
	<-connects

	// Drop the connection server-side; the client must redial and
	// repeat the handshake.
	first.Close()

	ts.waitConn(t)
	ts.waitFrame(t, EventJoin)
	select {
	case <-connects:
	case <-time.After(3 * time.Second):
		t.Fatal("reconnect hook not fired")
	}
}

func TestConn_EmitWhileDisconnectedDrops(t *testing.T) {
	c := New("ws://127.0.0.1:0", "", JoinPayload{UserID: "u1"}, 1, time.Millisecond, discard())
	// Never ran: emitting must be a safe no-op.
	c.Emit(EventSeenMessage, SeenPayload{MessageID: "m1"})
	assert.False(t, c.IsConnected())
}

func TestConn_OnIsIdempotent(t *testing.T) {
	c := New("ws://127.0.0.1:0", "", JoinPayload{}, 1, time.Millisecond, discard())

	calls := 0
	c.On(EventReceiveSeen, func(json.RawMessage) { calls++ })
	c.On(EventReceiveSeen, func(json.RawMessage) { calls += 10 })

	c.mu.RLock()
	h := c.handlers[EventReceiveSeen]
	c.mu.RUnlock()
	h(nil)
	assert.Equal(t, 10, calls, "last registration wins")

	c.Off(EventReceiveSeen)
	c.mu.RLock()
	_, ok := c.handlers[EventReceiveSeen]
	c.mu.RUnlock()
	assert.False(t, ok)
}
