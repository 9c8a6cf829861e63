package chat

import (
	"sync"

	"CampusChat/entity"
	"CampusChat/internal/ws"
)

// ReceiptEngine turns first-time message visibility into seen
// acknowledgements. Each message gets a one-shot watcher: the first time
// it is reported visible the engine checks the local user against SeenBy,
// decrements the owning conversation's unread counter and emits the
// acknowledgement, then never again for that message. The server's echo
// (receive_seen) is the authoritative mutation path for SeenBy; the
// engine does not touch it, which keeps simultaneously-visible messages
// from double-counting.
type ReceiptEngine struct {
	mu     sync.Mutex
	selfID string
	emit   Emitter
	unread UnreadSink
	acked  map[string]struct{}
}

func NewReceiptEngine(selfID string, emit Emitter, unread UnreadSink) *ReceiptEngine {
	return &ReceiptEngine{
		selfID: selfID,
		emit:   emit,
		unread: unread,
		acked:  make(map[string]struct{}),
	}
}

// MarkVisible reports that a message is fully in view. It returns whether
// an acknowledgement was emitted; repeats and already-seen messages are
// no-ops.
func (e *ReceiptEngine) MarkVisible(chatID string, msg entity.Message) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, done := e.acked[msg.ID]; done {
		return false
	}
	// Retire the watcher either way: a message already carrying our
	// receipt must never be acknowledged again.
	e.acked[msg.ID] = struct{}{}

	if msg.SeenByUser(e.selfID) {
		return false
	}

	e.unread.DecrementUnread(chatID)
	e.emit.Emit(ws.EventSeenMessage, ws.SeenPayload{
		MessageID: msg.ID,
		ChatID:    chatID,
		UserID:    e.selfID,
	})
	return true
}
