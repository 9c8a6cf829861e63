package chat

import (
	"context"
	"encoding/json"
	"sync"

	"CampusChat/entity"
	"CampusChat/internal/service/backend"
	"CampusChat/internal/ws"
)

type emitted struct {
	event   string
	payload any
}

// fakeConn records emitted events and lets tests drive the inbound side.
type fakeConn struct {
	mu        sync.Mutex
	connected bool
	events    []emitted
	handlers  map[string]ws.Handler
	hooks     []func()
}

func newFakeConn(connected bool) *fakeConn {
	return &fakeConn{
		connected: connected,
		handlers:  make(map[string]ws.Handler),
	}
}

func (c *fakeConn) Emit(event string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, emitted{event: event, payload: payload})
}

func (c *fakeConn) On(event string, h ws.Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = h
}

func (c *fakeConn) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeConn) OnConnect(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// reconnect simulates the connection coming back up.
func (c *fakeConn) reconnect() {
	c.mu.Lock()
	c.connected = true
	hooks := append([]func(){}, c.hooks...)
	c.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// dispatch delivers an inbound event to the registered handler.
func (c *fakeConn) dispatch(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	c.mu.Lock()
	h := c.handlers[event]
	c.mu.Unlock()
	if h != nil {
		h(data)
	}
}

// sent returns the payloads emitted under the given event name.
func (c *fakeConn) sent(event string) []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []any
	for _, e := range c.events {
		if e.event == event {
			out = append(out, e.payload)
		}
	}
	return out
}

// fakeBackend is a canned REST collaborator.
type fakeBackend struct {
	mu         sync.Mutex
	chats      []entity.Chat
	chatsErr   error
	history    map[string][]entity.Message
	historyErr error
	sendResult backend.SendResult
	sendErr    error
	sendCalls  int
}

func (f *fakeBackend) Chats(context.Context) ([]entity.Chat, error) {
	return f.chats, f.chatsErr
}

func (f *fakeBackend) History(_ context.Context, chatID string) ([]entity.Message, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history[chatID], nil
}

func (f *fakeBackend) SendMessage(_ context.Context, body string, recipients []string, chatID string) (backend.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls++
	return f.sendResult, f.sendErr
}

func (f *fakeBackend) sends() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sendCalls
}
