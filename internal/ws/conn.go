package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"CampusChat/internal/lib/sl"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

// Handler processes the payload of a single inbound event.
type Handler func(data json.RawMessage)

// Event is the wire envelope for both directions of the stream.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Conn owns the session's single realtime connection. It dials the chat
// backend, keeps the connection alive, dispatches inbound events to
// registered handlers and replays the join handshake on every reconnect.
type Conn struct {
	url      string
	token    string
	join     JoinPayload
	attempts int
	delay    time.Duration
	log      *slog.Logger

	mu        sync.RWMutex
	conn      *websocket.Conn
	send      chan []byte
	connected bool
	handlers  map[string]Handler
	onConnect []func()

	done      chan struct{}
	closeOnce sync.Once
}

// New creates an unconnected Conn. Call Run to establish the stream.
func New(url, token string, join JoinPayload, attempts int, delay time.Duration, log *slog.Logger) *Conn {
	if attempts < 1 {
		attempts = 1
	}
	return &Conn{
		url:      url,
		token:    token,
		join:     join,
		attempts: attempts,
		delay:    delay,
		log:      log.With(sl.Module("ws.conn")),
		handlers: make(map[string]Handler),
		done:     make(chan struct{}),
	}
}

// On registers the handler for an event. Re-registration is idempotent:
// the last handler wins, registering the same wiring twice is safe.
func (c *Conn) On(event string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = h
}

// Off removes the handler for an event.
func (c *Conn) Off(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, event)
}

// OnConnect registers a hook fired after every successful (re)connect,
// after the join handshake has been sent.
func (c *Conn) OnConnect(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConnect = append(c.onConnect, fn)
}

// IsConnected reports whether the stream is currently live.
func (c *Conn) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Emit sends an event to the server. When the stream is down the event is
// dropped with a warning; join state is replayed by the reconnect hooks.
func (c *Conn) Emit(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.log.With(sl.Err(err), slog.String("event", event)).Error("marshal outbound event")
		return
	}
	frame, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		c.log.With(sl.Err(err), slog.String("event", event)).Error("marshal event envelope")
		return
	}

	c.mu.RLock()
	connected, send := c.connected, c.send
	c.mu.RUnlock()

	if !connected {
		c.log.With(slog.String("event", event)).Warn("emit while disconnected, dropping")
		return
	}
	select {
	case send <- frame:
	default:
		c.log.With(slog.String("event", event)).Warn("send buffer full, dropping")
	}
}

// Run connects and services the stream until Close is called. Each outage
// gets a fresh budget of dial attempts with a fixed delay between them;
// when the budget is exhausted Run gives up and returns.
func (c *Conn) Run() {
	for {
		conn := c.dial()
		if conn == nil {
			return
		}
		c.attach(conn)

		c.Emit(EventJoin, c.join)
		for _, fn := range c.connectHooks() {
			fn()
		}

		c.readPump(conn)

		c.detach(conn)
		select {
		case <-c.done:
			return
		default:
			c.log.Warn("socket connection lost, reconnecting")
		}
	}
}

// Close tears the connection down and releases all handlers.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
		}
		c.connected = false
		c.handlers = make(map[string]Handler)
		c.onConnect = nil
		c.mu.Unlock()
	})
}

func (c *Conn) dial() *websocket.Conn {
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	for attempt := 1; attempt <= c.attempts; attempt++ {
		select {
		case <-c.done:
			return nil
		default:
		}

		conn, resp, err := websocket.DefaultDialer.Dial(c.url, header)
		if err == nil {
			if resp != nil && resp.Body != nil {
				resp.Body.Close()
			}
			c.log.With(slog.Int("attempt", attempt)).Info("socket connected")
			return conn
		}
		c.log.With(
			sl.Err(err),
			slog.Int("attempt", attempt),
		).Warn("socket dial failed")
		time.Sleep(c.delay)
	}

	c.log.Error("socket reconnect budget exhausted, giving up")
	return nil
}

func (c *Conn) attach(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.send = make(chan []byte, 256)
	c.connected = true
	c.mu.Unlock()

	go c.writePump(conn, c.send)
}

func (c *Conn) detach(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.connected = false
		c.conn = nil
	}
	c.mu.Unlock()
	// The send channel is left open on purpose: a concurrent Emit may
	// still hold it. The write pump exits on its next failed write.
	conn.Close()
}

func (c *Conn) connectHooks() []func() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hooks := make([]func(), len(c.onConnect))
	copy(hooks, c.onConnect)
	return hooks
}

// readPump pumps inbound events to their handlers until the connection
// breaks. It handles the pong side of keepalive.
func (c *Conn) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			c.log.With(sl.Err(err)).Debug("malformed inbound frame")
			continue
		}

		c.mu.RLock()
		h := c.handlers[ev.Event]
		c.mu.RUnlock()

		if h == nil {
			continue
		}
		h(ev.Data)
	}
}

// writePump pumps queued frames to the connection and keeps it alive
// with periodic pings.
func (c *Conn) writePump(conn *websocket.Conn, send chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
