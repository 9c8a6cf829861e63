package backend

import (
	"context"
	"fmt"

	"CampusChat/entity"
)

// Chats fetches the session's full conversation list.
func (s *Service) Chats(ctx context.Context) ([]entity.Chat, error) {
	var chats []entity.Chat
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&chats).
		Get("/api/chats")
	if err != nil {
		return nil, fmt.Errorf("fetching chats: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching chats: status %d", resp.StatusCode())
	}
	return chats, nil
}
