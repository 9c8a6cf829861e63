package chat

import (
	"context"

	"CampusChat/entity"
	"CampusChat/internal/service/backend"
	"CampusChat/internal/ws"
)

// Emitter sends events over the realtime stream.
type Emitter interface {
	Emit(event string, payload any)
}

// Connection is the slice of the realtime connection the chat state
// machines need: outbound events plus the reconnect lifecycle.
type Connection interface {
	Emitter

	// On registers the handler for an inbound event. Re-registration
	// must be idempotent.
	On(event string, h ws.Handler)

	// IsConnected reports whether the stream is currently live.
	IsConnected() bool

	// OnConnect registers a hook fired after every (re)connect.
	OnConnect(fn func())
}

// Backend is the REST collaborator consumed by the engine.
type Backend interface {
	History(ctx context.Context, chatID string) ([]entity.Message, error)
	SendMessage(ctx context.Context, body string, recipients []string, chatID string) (backend.SendResult, error)
	Chats(ctx context.Context) ([]entity.Chat, error)
}

// UnreadSink receives local read acknowledgements so the conversation
// list can keep its unread counters in step with the receipt engine.
type UnreadSink interface {
	DecrementUnread(chatID string)
}
