package chats

import (
	"context"

	"CampusChat/entity"
	"CampusChat/internal/chat"
)

// Core is what the chat handlers need from the application core.
type Core interface {
	Chats() []entity.Chat
	OpenChat(ctx context.Context, chatID string) error
	OpenDraft(participants []entity.User)
	CloseChat(chatID string)
	OpenPanels() []string
	History(chatID string) ([]entity.Message, bool)
	SendMessage(ctx context.Context, chatID, text string, recipients []string) (entity.Chat, error)
	Input(chatID, text string)
	MarkVisible(chatID, messageID string)
	TypingBanner(chatID string) string
	Roster(chatID, messageID string) (chat.Roster, bool)
}
