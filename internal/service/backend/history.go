package backend

import (
	"context"
	"fmt"

	"CampusChat/entity"
)

// History fetches the full ordered message history of a conversation.
func (s *Service) History(ctx context.Context, chatID string) ([]entity.Message, error) {
	var messages []entity.Message

	resp, err := s.http.R().
		SetContext(ctx).
		SetPathParam("chatId", chatID).
		SetResult(&messages).
		Get("/api/messages/{chatId}")
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching history: status %d", resp.StatusCode())
	}

	return messages, nil
}
