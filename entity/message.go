package entity

import (
	"time"
)

// Receipt records that a participant has viewed a message.
type Receipt struct {
	User User      `json:"user"`
	At   time.Time `json:"at"`
}

// Message is a single chat message. SeenBy grows append-only from the
// client's perspective until every participant has viewed the message;
// the server is the only writer, the client replaces messages wholesale
// on receipt confirmations.
type Message struct {
	ID        string    `json:"_id"`
	ChatID    string    `json:"chat"`
	Sender    User      `json:"sender"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	SeenBy    []Receipt `json:"seenBy"`
}

// SeenByUser reports whether the given user already has a receipt on m.
func (m *Message) SeenByUser(userID string) bool {
	for _, r := range m.SeenBy {
		if r.User.ID == userID {
			return true
		}
	}
	return false
}

// FullySeen reports whether every participant of the conversation has a
// receipt. The count includes the sender: their own client acknowledges
// the message like any other viewer.
func (m *Message) FullySeen(participantCount int) bool {
	return participantCount > 0 && len(m.SeenBy) >= participantCount
}
