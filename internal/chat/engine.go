package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"CampusChat/entity"
	"CampusChat/internal/lib/sl"
	"CampusChat/internal/session"
	"CampusChat/internal/ws"
)

// Engine ties the chat state machines to the realtime connection and the
// REST backend. All inbound stream handlers are registered once at
// construction and filter by conversation id themselves: the stream is a
// single shared resource and is not partitioned by subscription.
type Engine struct {
	sess     *session.Session
	conn     Connection
	api      Backend
	list     *ListSync
	receipts *ReceiptEngine
	log      *slog.Logger

	typingExpiry time.Duration

	mu     sync.RWMutex
	panels *PanelSet
	open   map[string]*openChat
}

// openChat is the per-panel state: the conversation snapshot, its
// ordered history and its typing machine.
type openChat struct {
	chat    entity.Chat
	history *HistoryStore
	typing  *TypingTracker
}

func NewEngine(sess *session.Session, conn Connection, api Backend, list *ListSync, panelCapacity int, typingExpiry time.Duration, log *slog.Logger) *Engine {
	e := &Engine{
		sess:         sess,
		conn:         conn,
		api:          api,
		list:         list,
		log:          log.With(sl.Module("chat.engine")),
		typingExpiry: typingExpiry,
		panels:       NewPanelSet(panelCapacity),
		open:         make(map[string]*openChat),
	}
	e.receipts = NewReceiptEngine(sess.User.ID, conn, list)
	e.bind()
	return e
}

// Start loads the conversation list. A failed load degrades to an empty
// list, it is not fatal to the client.
func (e *Engine) Start(ctx context.Context) {
	if err := e.list.Load(ctx, e.api); err != nil {
		e.log.With(sl.Err(err)).Error("loading conversation list")
	}
}

// OpenChat admits a conversation panel and populates its history. The
// panel set is capacity-bounded; the eviction victim is closed first.
// A failed history fetch leaves the panel open and empty.
func (e *Engine) OpenChat(ctx context.Context, chatID string) error {
	chat, ok := e.list.Get(chatID)
	if !ok {
		return fmt.Errorf("unknown chat %q", chatID)
	}

	oc, admitted := e.admit(chat)
	if !admitted {
		return nil
	}

	messages, err := e.api.History(ctx, chat.ID)
	if err != nil {
		e.log.With(sl.Err(err), slog.String("chat_id", chat.ID)).Error("fetching history")
		return nil
	}
	oc.history.Replace(messages)
	return nil
}

// OpenDraft opens a panel for a conversation that does not exist
// server-side yet. It gets its concrete id on the first send.
func (e *Engine) OpenDraft(participants []entity.User) {
	draft := entity.Chat{
		ID:           entity.DraftChatID,
		Participants: participants,
	}
	e.admit(draft)
}

// CloseChat closes a panel and stops its typing timers.
func (e *Engine) CloseChat(chatID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeLocked(chatID)
}

// SendMessage validates and sends. Empty or whitespace-only text is
// rejected locally with no network call. When the server reports a newly
// created conversation, the draft panel is re-keyed to the concrete id
// and the conversation joins the list.
func (e *Engine) SendMessage(ctx context.Context, chatID, text string, recipients []string) (entity.Chat, error) {
	if strings.TrimSpace(text) == "" {
		return entity.Chat{}, nil
	}

	if oc := e.openChat(chatID); oc != nil {
		oc.typing.MessageSent()
	}

	res, err := e.api.SendMessage(ctx, text, recipients, chatID)
	if err != nil {
		e.log.With(sl.Err(err), slog.String("chat_id", chatID)).Error("sending message")
		return entity.Chat{}, err
	}

	if res.Created {
		e.promoteDraft(chatID, res.Chat)
		e.list.HandleNewChat(res.Chat)
	}

	if oc := e.openChat(res.Chat.ID); oc != nil && res.Message.ID != "" {
		oc.history.Add(res.Message)
	}
	e.list.HandleUpdate(entity.ChatUpdate{Chat: res.Chat, Message: res.Message})

	return res.Chat, nil
}

// Input feeds compose-box content into the conversation's typing machine.
func (e *Engine) Input(chatID, text string) {
	if oc := e.openChat(chatID); oc != nil {
		oc.typing.Input(text)
	}
}

// MarkVisible reports that a rendered message scrolled fully into view.
func (e *Engine) MarkVisible(chatID, messageID string) {
	oc := e.openChat(chatID)
	if oc == nil {
		return
	}
	msg, ok := oc.history.Get(messageID)
	if !ok {
		return
	}
	e.receipts.MarkVisible(chatID, msg)
}

// History returns the ordered history snapshot of an open panel.
func (e *Engine) History(chatID string) ([]entity.Message, bool) {
	oc := e.openChat(chatID)
	if oc == nil {
		return nil, false
	}
	return oc.history.Messages(), true
}

// Roster partitions participants into seen and not-yet-seen for one
// message of an open panel.
func (e *Engine) Roster(chatID, messageID string) (Roster, bool) {
	oc := e.openChat(chatID)
	if oc == nil {
		return Roster{}, false
	}
	return oc.history.Roster(messageID, oc.chat.Participants)
}

// TypingBanner renders the presence line for an open panel.
func (e *Engine) TypingBanner(chatID string) string {
	oc := e.openChat(chatID)
	if oc == nil {
		return ""
	}
	return oc.typing.Banner(oc.chat.Participants)
}

// OpenPanels returns the open panel ids in opening order.
func (e *Engine) OpenPanels() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.panels.IDs()
}

// Chats returns the conversation list, most recently active first.
func (e *Engine) Chats() []entity.Chat {
	return e.list.Chats()
}

func (e *Engine) admit(chat entity.Chat) (*openChat, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if oc, ok := e.open[chat.ID]; ok {
		return oc, false
	}

	evicted, _ := e.panels.Open(chat.ID)
	if evicted != "" {
		e.closeLocked(evicted)
	}

	oc := &openChat{
		chat:    chat,
		history: NewHistoryStore(),
		typing:  NewTypingTracker(chat.ID, e.sess.User.ID, e.conn, e.typingExpiry),
	}
	e.open[chat.ID] = oc
	return oc, true
}

func (e *Engine) closeLocked(chatID string) {
	oc, ok := e.open[chatID]
	if !ok {
		e.panels.Close(chatID)
		return
	}
	oc.typing.Stop()
	delete(e.open, chatID)
	e.panels.Close(chatID)
}

// promoteDraft re-keys the draft panel to the server-assigned id.
func (e *Engine) promoteDraft(draftID string, chat entity.Chat) {
	e.mu.Lock()
	defer e.mu.Unlock()

	oc, ok := e.open[draftID]
	if !ok {
		return
	}
	delete(e.open, draftID)
	oc.typing.Stop()
	oc.chat = chat
	oc.typing = NewTypingTracker(chat.ID, e.sess.User.ID, e.conn, e.typingExpiry)
	e.open[chat.ID] = oc
	e.panels.Replace(draftID, chat.ID)
}

func (e *Engine) openChat(chatID string) *openChat {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.open[chatID]
}

// bind registers the inbound stream handlers. Registration is idempotent
// on the connection side, so reconnects cannot double-wire events.
func (e *Engine) bind() {
	e.conn.On(ws.EventReceiveMessage, e.onReceiveMessage)
	e.conn.On(ws.EventReceiveSeen, e.onReceiveSeen)
	e.conn.On(ws.EventTypingStarted, e.onTypingStarted)
	e.conn.On(ws.EventTypingStopped, e.onTypingStopped)
	e.conn.On(ws.EventReceiveChat, e.onReceiveChat)
	e.conn.On(ws.EventReceiveNewChat, e.onReceiveNewChat)
}

func (e *Engine) onReceiveMessage(data json.RawMessage) {
	var msg entity.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		e.log.With(sl.Err(err)).Debug("malformed receive_message")
		return
	}
	if oc := e.openChat(msg.ChatID); oc != nil {
		oc.history.Add(msg)
	}
}

func (e *Engine) onReceiveSeen(data json.RawMessage) {
	var msg entity.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		e.log.With(sl.Err(err)).Debug("malformed receive_seen")
		return
	}
	if oc := e.openChat(msg.ChatID); oc != nil {
		oc.history.ApplySeen(msg)
	}
}

func (e *Engine) onTypingStarted(data json.RawMessage) {
	var p ws.TypingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if oc := e.openChat(p.ChatID); oc != nil {
		oc.typing.RemoteStart(p.ChatID, p.UserID)
	}
}

func (e *Engine) onTypingStopped(data json.RawMessage) {
	var p ws.TypingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if oc := e.openChat(p.ChatID); oc != nil {
		oc.typing.RemoteStop(p.ChatID, p.UserID)
	}
}

func (e *Engine) onReceiveChat(data json.RawMessage) {
	var update entity.ChatUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		e.log.With(sl.Err(err)).Debug("malformed receive_chat")
		return
	}
	e.list.HandleUpdate(update)
}

func (e *Engine) onReceiveNewChat(data json.RawMessage) {
	var chat entity.Chat
	if err := json.Unmarshal(data, &chat); err != nil {
		e.log.With(sl.Err(err)).Debug("malformed receive_new_chat")
		return
	}
	e.list.HandleNewChat(chat)
}
