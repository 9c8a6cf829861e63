package chat

import (
	"sort"
	"sync"

	"CampusChat/entity"
)

// HistoryStore holds the ordered message history of one open
// conversation. History is kept sorted ascending by creation time and is
// re-sorted after every insertion: delivery order over the stream is not
// guaranteed to match time order.
type HistoryStore struct {
	mu       sync.RWMutex
	messages []entity.Message
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Replace swaps the whole history for a fetch result.
func (h *HistoryStore) Replace(messages []entity.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = make([]entity.Message, len(messages))
	copy(h.messages, messages)
	h.sortLocked()
}

// Add appends a live message and re-establishes time order. A message
// already present (stream echo racing the send response) is replaced in
// place instead of duplicated.
func (h *HistoryStore) Add(msg entity.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.messages {
		if h.messages[i].ID == msg.ID {
			h.messages[i] = msg
			h.sortLocked()
			return
		}
	}
	h.messages = append(h.messages, msg)
	h.sortLocked()
}

// ApplySeen replaces the stored message sharing the id with the
// server-confirmed version. This is the only path that mutates SeenBy:
// the receipt engine never touches it locally.
func (h *HistoryStore) ApplySeen(msg entity.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.messages {
		if h.messages[i].ID == msg.ID {
			h.messages[i] = msg
			return
		}
	}
}

// Messages returns a snapshot of the ordered history.
func (h *HistoryStore) Messages() []entity.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]entity.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Get looks a message up by id.
func (h *HistoryStore) Get(messageID string) (entity.Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, m := range h.messages {
		if m.ID == messageID {
			return m, true
		}
	}
	return entity.Message{}, false
}

// Roster partitions the conversation's participants for one message into
// those who have seen it (with timestamps, in receipt order) and those
// who have not.
type Roster struct {
	Seen   []entity.Receipt `json:"seen"`
	Unseen []entity.User    `json:"unseen"`
}

func (h *HistoryStore) Roster(messageID string, participants []entity.User) (Roster, bool) {
	msg, ok := h.Get(messageID)
	if !ok {
		return Roster{}, false
	}

	roster := Roster{
		Seen:   make([]entity.Receipt, len(msg.SeenBy)),
		Unseen: make([]entity.User, 0, len(participants)),
	}
	copy(roster.Seen, msg.SeenBy)

	for _, p := range participants {
		if !msg.SeenByUser(p.ID) {
			roster.Unseen = append(roster.Unseen, p)
		}
	}
	return roster, true
}

func (h *HistoryStore) sortLocked() {
	sort.SliceStable(h.messages, func(i, j int) bool {
		return h.messages[i].CreatedAt.Before(h.messages[j].CreatedAt)
	})
}
