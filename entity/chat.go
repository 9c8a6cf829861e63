package entity

import "strings"

// DraftChatID marks a conversation that has not been created server-side
// yet. It is replaced by the real id once the first message is sent.
const DraftChatID = "new"

// Chat is a conversation: a stable-ordered set of participants sharing a
// message history. LastMessage is a denormalized preview for the chat list.
type Chat struct {
	ID           string   `json:"_id"`
	Participants []User   `json:"participants"`
	ChatName     string   `json:"chatName,omitempty"`
	LastMessage  *Message `json:"lastMessage,omitempty"`
	UnreadTotal  int      `json:"unreadTotal"`
}

// ChatUpdate is the payload of a list-level chat update: the conversation
// together with the message that caused the update.
type ChatUpdate struct {
	Chat    Chat    `json:"chat"`
	Message Message `json:"message"`
}

// IsDraft reports whether the conversation exists server-side yet.
func (c *Chat) IsDraft() bool {
	return c.ID == "" || c.ID == DraftChatID
}

// HasParticipant reports whether userID is part of the conversation.
func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// DisplayName resolves the list title: the explicit group name when set,
// otherwise the other participants' names joined in display order.
func (c *Chat) DisplayName(selfID string) string {
	if c.ChatName != "" {
		return c.ChatName
	}
	names := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		if p.ID == selfID {
			continue
		}
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}
