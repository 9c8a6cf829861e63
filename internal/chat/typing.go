package chat

import (
	"strings"
	"sync"
	"time"

	"CampusChat/entity"
	"CampusChat/internal/ws"
)

// TypingTracker is the composing state machine for one open conversation.
//
// Local side: the first non-empty keystroke after idle emits a single
// typing-start and arms one expiry timer. The timer is not re-armed while
// composing, so continuous typing past the expiry window goes quiet until
// the next compose session. That matches the shipped behavior and is kept
// deliberately.
//
// Remote side: inbound start/stop signals are filtered by conversation
// and by self before they reach the tracker; each remote entry expires on
// its own timer when no stop arrives.
type TypingTracker struct {
	mu     sync.Mutex
	chatID string
	selfID string
	emit   Emitter
	expiry time.Duration

	composing bool
	timer     *time.Timer

	remote map[string]*time.Timer
}

func NewTypingTracker(chatID, selfID string, emit Emitter, expiry time.Duration) *TypingTracker {
	return &TypingTracker{
		chatID: chatID,
		selfID: selfID,
		emit:   emit,
		expiry: expiry,
		remote: make(map[string]*time.Timer),
	}
}

// Input feeds the current content of the compose box into the machine.
func (t *TypingTracker) Input(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		t.stopLocked()
		return
	}

	if t.composing {
		return
	}
	t.composing = true
	t.emit.Emit(ws.EventTypingStart, ws.TypingPayload{ChatID: t.chatID, UserID: t.selfID})
	t.timer = time.AfterFunc(t.expiry, t.expire)
}

// MessageSent ends the compose session after a successful send.
func (t *TypingTracker) MessageSent() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Stop ends the compose session and silences remote timers. Called when
// the conversation panel closes.
func (t *TypingTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	for id, timer := range t.remote {
		timer.Stop()
		delete(t.remote, id)
	}
}

func (t *TypingTracker) expire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.composing {
		return
	}
	t.composing = false
	t.timer = nil
	t.emit.Emit(ws.EventTypingStop, ws.TypingPayload{ChatID: t.chatID, UserID: t.selfID})
}

// stopLocked cancels the timer before emitting so an in-flight expiry
// cannot fire a stray stop after a new compose session begins.
func (t *TypingTracker) stopLocked() {
	if !t.composing {
		return
	}
	t.composing = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.emit.Emit(ws.EventTypingStop, ws.TypingPayload{ChatID: t.chatID, UserID: t.selfID})
}

// RemoteStart records a remote participant composing. Signals for other
// conversations or for the local user are ignored.
func (t *TypingTracker) RemoteStart(chatID, userID string) {
	if chatID != t.chatID || userID == t.selfID {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.remote[userID]; ok {
		timer.Stop()
	}
	t.remote[userID] = time.AfterFunc(t.expiry, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.remote, userID)
	})
}

// RemoteStop clears a remote participant's composing state.
func (t *TypingTracker) RemoteStop(chatID, userID string) {
	if chatID != t.chatID || userID == t.selfID {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.remote[userID]; ok {
		timer.Stop()
		delete(t.remote, userID)
	}
}

// Composing reports whether the local user is in a compose session.
func (t *TypingTracker) Composing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.composing
}

// Typists returns the ids of remote participants currently composing.
func (t *TypingTracker) Typists() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.remote))
	for id := range t.remote {
		ids = append(ids, id)
	}
	return ids
}

// Banner renders the presence line for display: one typist reads
// "X is typing...", several read "X, Y are typing...".
func (t *TypingTracker) Banner(participants []entity.User) string {
	ids := t.Typists()
	if len(ids) == 0 {
		return ""
	}

	names := make([]string, 0, len(ids))
	for _, p := range participants {
		for _, id := range ids {
			if p.ID == id {
				names = append(names, p.Name)
				break
			}
		}
	}
	if len(names) == 0 {
		return ""
	}
	if len(names) == 1 {
		return names[0] + " is typing..."
	}
	return strings.Join(names, ", ") + " are typing..."
}
