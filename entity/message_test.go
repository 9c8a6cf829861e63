package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessage_SeenByUser(t *testing.T) {
	m := Message{SeenBy: []Receipt{
		{User: User{ID: "b"}, At: time.Now()},
	}}

	assert.True(t, m.SeenByUser("b"))
	assert.False(t, m.SeenByUser("a"))

	empty := Message{}
	assert.False(t, empty.SeenByUser("b"))
}

func TestMessage_FullySeen(t *testing.T) {
	m := Message{}
	assert.False(t, m.FullySeen(3))
	assert.False(t, m.FullySeen(0))

	m.SeenBy = []Receipt{{User: User{ID: "b"}}}
	assert.False(t, m.FullySeen(3))

	m.SeenBy = append(m.SeenBy, Receipt{User: User{ID: "c"}})
	assert.False(t, m.FullySeen(3))

	m.SeenBy = append(m.SeenBy, Receipt{User: User{ID: "a"}})
	assert.True(t, m.FullySeen(3))
}

func TestChat_DisplayName(t *testing.T) {
	c := Chat{Participants: []User{
		{ID: "me", Name: "Me"},
		{ID: "u2", Name: "Olena"},
		{ID: "u3", Name: "Taras"},
	}}

	assert.Equal(t, "Olena, Taras", c.DisplayName("me"))

	c.ChatName = "Diploma project"
	assert.Equal(t, "Diploma project", c.DisplayName("me"))
}

func TestChat_IsDraft(t *testing.T) {
	assert.True(t, (&Chat{}).IsDraft())
	assert.True(t, (&Chat{ID: DraftChatID}).IsDraft())
	assert.False(t, (&Chat{ID: "c1"}).IsDraft())
}
