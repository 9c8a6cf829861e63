package backend

import (
	"context"
	"fmt"

	"CampusChat/entity"
)

type sendRequest struct {
	Body       string   `json:"body"`
	Recipients []string `json:"recipients"`
	ChatID     string   `json:"chatId,omitempty"`
}

// SendResult reports the conversation the message landed in and whether
// the server had to create it. Created drives the draft-to-concrete
// transition in the engine.
type SendResult struct {
	Chat    entity.Chat    `json:"chat"`
	Message entity.Message `json:"message"`
	Created bool           `json:"created"`
}

// SendMessage posts a message. For draft conversations ChatID is omitted
// and the server creates the conversation from the recipient set.
func (s *Service) SendMessage(ctx context.Context, body string, recipients []string, chatID string) (SendResult, error) {
	req := sendRequest{
		Body:       body,
		Recipients: recipients,
	}
	if chatID != "" && chatID != entity.DraftChatID {
		req.ChatID = chatID
	}

	var result SendResult
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/api/messages")
	if err != nil {
		return result, fmt.Errorf("sending message: %w", err)
	}
	if resp.IsError() {
		return result, fmt.Errorf("sending message: status %d", resp.StatusCode())
	}

	return result, nil
}
