package core

import (
	"context"

	"CampusChat/entity"
	"CampusChat/internal/chat"
)

func (c *Core) Chats() []entity.Chat {
	return c.engine.Chats()
}

func (c *Core) OpenChat(ctx context.Context, chatID string) error {
	return c.engine.OpenChat(ctx, chatID)
}

func (c *Core) OpenDraft(participants []entity.User) {
	c.engine.OpenDraft(participants)
}

func (c *Core) CloseChat(chatID string) {
	c.engine.CloseChat(chatID)
}

func (c *Core) OpenPanels() []string {
	return c.engine.OpenPanels()
}

func (c *Core) History(chatID string) ([]entity.Message, bool) {
	return c.engine.History(chatID)
}

func (c *Core) SendMessage(ctx context.Context, chatID, text string, recipients []string) (entity.Chat, error) {
	return c.engine.SendMessage(ctx, chatID, text, recipients)
}

func (c *Core) Input(chatID, text string) {
	c.engine.Input(chatID, text)
}

func (c *Core) MarkVisible(chatID, messageID string) {
	c.engine.MarkVisible(chatID, messageID)
}

func (c *Core) TypingBanner(chatID string) string {
	return c.engine.TypingBanner(chatID)
}

func (c *Core) Roster(chatID, messageID string) (chat.Roster, bool) {
	return c.engine.Roster(chatID, messageID)
}
