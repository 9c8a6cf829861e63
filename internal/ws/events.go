package ws

// Outbound event names. The typing pair keeps its historical
// space-separated spelling, the server matches on it verbatim.
const (
	EventJoin        = "join"
	EventJoinChats   = "join_chats"
	EventSeenMessage = "seen_message"
	EventTypingStart = "typing start"
	EventTypingStop  = "typing stop"
)

// Inbound event names.
const (
	EventReceiveMessage = "receive_message"
	EventReceiveSeen    = "receive_seen"
	EventTypingStarted  = "typing_start"
	EventTypingStopped  = "typing_stop"
	EventReceiveChat    = "receive_chat"
	EventReceiveNewChat = "receive_new_chat"
)

// JoinPayload registers this connection for user-targeted events.
type JoinPayload struct {
	UserID   string `json:"userId"`
	ClientID string `json:"clientId"`
}

// JoinChatsPayload subscribes the connection to conversation-scoped events.
type JoinChatsPayload struct {
	ChatIDs []string `json:"chatIds"`
}

// SeenPayload requests a receipt record for a viewed message.
type SeenPayload struct {
	MessageID string `json:"messageId"`
	ChatID    string `json:"chatId"`
	UserID    string `json:"userId"`
}

// TypingPayload signals composing state for a conversation.
type TypingPayload struct {
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
}
