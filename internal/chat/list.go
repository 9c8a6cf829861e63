package chat

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"CampusChat/entity"
	"CampusChat/internal/lib/sl"
	"CampusChat/internal/ws"
)

// ListSync maintains the session's set of joined conversations: it loads
// the list once, keeps it sorted by last activity, replays the batched
// join on every reconnect and applies incremental list-level updates.
type ListSync struct {
	mu     sync.RWMutex
	selfID string
	conn   Connection
	log    *slog.Logger
	chats  []entity.Chat
}

func NewListSync(selfID string, conn Connection, log *slog.Logger) *ListSync {
	s := &ListSync{
		selfID: selfID,
		conn:   conn,
		log:    log.With(sl.Module("chat.list")),
	}
	// Join state must survive outages: replay the full set on every
	// (re)connect. The server treats repeated joins as no-ops.
	conn.OnConnect(s.JoinAll)
	return s
}

// Load fetches the full conversation list and, when the stream is
// already live, issues one batched join for all of it.
func (s *ListSync) Load(ctx context.Context, api Backend) error {
	chats, err := api.Chats(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.chats = chats
	s.sortLocked()
	s.mu.Unlock()

	if s.conn.IsConnected() {
		s.JoinAll()
	}
	return nil
}

// JoinAll subscribes the connection to every known conversation in a
// single batched request.
func (s *ListSync) JoinAll() {
	ids := s.IDs()
	if len(ids) == 0 {
		return
	}
	s.conn.Emit(ws.EventJoinChats, ws.JoinChatsPayload{ChatIDs: ids})
	s.log.With(slog.Int("chats", len(ids))).Debug("joined conversations")
}

// HandleUpdate applies a list-level chat update: refresh the preview and
// bump the unread counter when someone else sent the message.
func (s *ListSync) HandleUpdate(update entity.ChatUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.chats {
		if s.chats[i].ID != update.Chat.ID {
			continue
		}
		msg := update.Message
		s.chats[i].LastMessage = &msg
		if msg.Sender.ID != s.selfID {
			s.chats[i].UnreadTotal++
		}
		s.sortLocked()
		return
	}
	s.log.With(slog.String("chat_id", update.Chat.ID)).Debug("update for unknown chat, ignored")
}

// HandleNewChat prepends a conversation that just appeared server-side
// and joins it individually.
func (s *ListSync) HandleNewChat(chat entity.Chat) {
	s.mu.Lock()
	exists := false
	for i := range s.chats {
		if s.chats[i].ID == chat.ID {
			exists = true
			break
		}
	}
	if !exists {
		s.chats = append([]entity.Chat{chat}, s.chats...)
	}
	s.mu.Unlock()

	if exists {
		return
	}
	s.conn.Emit(ws.EventJoinChats, ws.JoinChatsPayload{ChatIDs: []string{chat.ID}})
}

// DecrementUnread is the receipt engine's feedback path. The counter
// never goes negative.
func (s *ListSync) DecrementUnread(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.chats {
		if s.chats[i].ID == chatID {
			if s.chats[i].UnreadTotal > 0 {
				s.chats[i].UnreadTotal--
			}
			return
		}
	}
}

// Chats returns a snapshot of the list, most recently active first.
func (s *ListSync) Chats() []entity.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Chat, len(s.chats))
	copy(out, s.chats)
	return out
}

// Get looks a conversation up by id.
func (s *ListSync) Get(chatID string) (entity.Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.chats {
		if c.ID == chatID {
			return c, true
		}
	}
	return entity.Chat{}, false
}

// IDs returns the ids of all known conversations.
func (s *ListSync) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.chats))
	for _, c := range s.chats {
		ids = append(ids, c.ID)
	}
	return ids
}

func (s *ListSync) sortLocked() {
	lastActivity := func(c *entity.Chat) time.Time {
		if c.LastMessage != nil {
			return c.LastMessage.CreatedAt
		}
		return time.Time{}
	}
	sort.SliceStable(s.chats, func(i, j int) bool {
		return lastActivity(&s.chats[i]).After(lastActivity(&s.chats[j]))
	})
}
