package chat

import (
	"context"
	"testing"
	"time"

	"CampusChat/entity"
	"CampusChat/internal/service/backend"
	"CampusChat/internal/session"
	"CampusChat/internal/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, conn *fakeConn, api *fakeBackend, capacity int) *Engine {
	t.Helper()
	sess := session.New(entity.User{ID: "me", Name: "Me"})
	list := NewListSync(sess.User.ID, conn, discard())
	e := NewEngine(sess, conn, api, list, capacity, time.Minute, discard())
	e.Start(context.Background())
	return e
}

func TestEngine_SendRejectsBlankText(t *testing.T) {
	conn := newFakeConn(true)
	api := &fakeBackend{}
	e := newTestEngine(t, conn, api, 2)

	_, err := e.SendMessage(context.Background(), "c1", "", nil)
	require.NoError(t, err)
	_, err = e.SendMessage(context.Background(), "c1", "   ", nil)
	require.NoError(t, err)
	_, err = e.SendMessage(context.Background(), "c1", "\n\t ", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, api.sends())
}

func TestEngine_OpenChatFetchesHistory(t *testing.T) {
	conn := newFakeConn(true)
	base := time.Now()
	api := &fakeBackend{
		chats: []entity.Chat{{ID: "c1"}},
		history: map[string][]entity.Message{
			"c1": {
				{ID: "m2", ChatID: "c1", CreatedAt: base.Add(time.Second)},
				{ID: "m1", ChatID: "c1", CreatedAt: base},
			},
		},
	}
	e := newTestEngine(t, conn, api, 2)

	require.NoError(t, e.OpenChat(context.Background(), "c1"))

	got, ok := e.History("c1")
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)

	assert.Error(t, e.OpenChat(context.Background(), "nope"))
}

func TestEngine_OpenChatSurvivesFetchFailure(t *testing.T) {
	conn := newFakeConn(true)
	api := &fakeBackend{
		chats:      []entity.Chat{{ID: "c1"}},
		historyErr: context.DeadlineExceeded,
	}
	e := newTestEngine(t, conn, api, 2)

	require.NoError(t, e.OpenChat(context.Background(), "c1"))

	got, ok := e.History("c1")
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestEngine_PanelCapacityEvictsOldest(t *testing.T) {
	conn := newFakeConn(true)
	api := &fakeBackend{chats: []entity.Chat{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}}
	e := newTestEngine(t, conn, api, 2)

	require.NoError(t, e.OpenChat(context.Background(), "c1"))
	require.NoError(t, e.OpenChat(context.Background(), "c2"))
	require.NoError(t, e.OpenChat(context.Background(), "c3"))

	assert.Equal(t, []string{"c2", "c3"}, e.OpenPanels())
	_, ok := e.History("c1")
	assert.False(t, ok)
}

func TestEngine_DraftPromotedOnFirstSend(t *testing.T) {
	conn := newFakeConn(true)
	olena := entity.User{ID: "u2", Name: "Olena"}
	created := entity.Chat{ID: "c9", Participants: []entity.User{{ID: "me"}, olena}}
	api := &fakeBackend{
		sendResult: backend.SendResult{
			Chat:    created,
			Message: entity.Message{ID: "m1", ChatID: "c9", Sender: entity.User{ID: "me"}, CreatedAt: time.Now()},
			Created: true,
		},
	}
	e := newTestEngine(t, conn, api, 2)

	e.OpenDraft([]entity.User{{ID: "me"}, olena})
	chat, err := e.SendMessage(context.Background(), entity.DraftChatID, "hello", []string{"u2"})
	require.NoError(t, err)
	assert.Equal(t, "c9", chat.ID)

	// The panel now lives under the concrete id and keeps its history.
	assert.Equal(t, []string{"c9"}, e.OpenPanels())
	got, ok := e.History("c9")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)

	// The new conversation joined the list and the stream.
	ids := e.Chats()
	require.Len(t, ids, 1)
	assert.Equal(t, "c9", ids[0].ID)
	joins := conn.sent(ws.EventJoinChats)
	require.Len(t, joins, 1)
	assert.Equal(t, []string{"c9"}, joins[0].(ws.JoinChatsPayload).ChatIDs)
}

func TestEngine_InboundMessageRoutedToOpenChat(t *testing.T) {
	conn := newFakeConn(true)
	api := &fakeBackend{chats: []entity.Chat{{ID: "c1"}}}
	e := newTestEngine(t, conn, api, 2)
	require.NoError(t, e.OpenChat(context.Background(), "c1"))

	conn.dispatch(ws.EventReceiveMessage, entity.Message{ID: "m1", ChatID: "c1", CreatedAt: time.Now()})
	conn.dispatch(ws.EventReceiveMessage, entity.Message{ID: "mx", ChatID: "other", CreatedAt: time.Now()})

	got, _ := e.History("c1")
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)
}

func TestEngine_SeenEchoIsAuthoritative(t *testing.T) {
	me := entity.User{ID: "me", Name: "Me"}
	bob := entity.User{ID: "b", Name: "Bob"}
	carol := entity.User{ID: "c", Name: "Carol"}

	conn := newFakeConn(true)
	api := &fakeBackend{chats: []entity.Chat{
		{ID: "c1", Participants: []entity.User{me, bob, carol}},
	}}
	e := newTestEngine(t, conn, api, 2)
	require.NoError(t, e.OpenChat(context.Background(), "c1"))

	sent := entity.Message{ID: "m1", ChatID: "c1", Sender: me, CreatedAt: time.Now()}
	conn.dispatch(ws.EventReceiveMessage, sent)

	// Receipts arrive one viewer at a time.
	sent.SeenBy = []entity.Receipt{{User: bob, At: time.Now()}}
	conn.dispatch(ws.EventReceiveSeen, sent)
	got, _ := e.History("c1")
	require.Len(t, got[0].SeenBy, 1)
	assert.False(t, got[0].FullySeen(3))

	sent.SeenBy = append(sent.SeenBy, entity.Receipt{User: carol, At: time.Now()})
	conn.dispatch(ws.EventReceiveSeen, sent)
	got, _ = e.History("c1")
	require.Len(t, got[0].SeenBy, 2)
	assert.False(t, got[0].FullySeen(3))

	// The sender's own client acknowledges too; only then is the
	// message fully seen under the total-participant definition.
	sent.SeenBy = append(sent.SeenBy, entity.Receipt{User: me, At: time.Now()})
	conn.dispatch(ws.EventReceiveSeen, sent)
	got, _ = e.History("c1")
	assert.True(t, got[0].FullySeen(3))
}

func TestEngine_MarkVisibleAcksAndDecrements(t *testing.T) {
	conn := newFakeConn(true)
	api := &fakeBackend{chats: []entity.Chat{{ID: "c1", UnreadTotal: 1}}}
	e := newTestEngine(t, conn, api, 2)
	require.NoError(t, e.OpenChat(context.Background(), "c1"))

	conn.dispatch(ws.EventReceiveMessage, entity.Message{
		ID: "m1", ChatID: "c1", Sender: entity.User{ID: "u2"}, CreatedAt: time.Now(),
	})

	e.MarkVisible("c1", "m1")
	e.MarkVisible("c1", "m1")

	acks := conn.sent(ws.EventSeenMessage)
	require.Len(t, acks, 1)
	assert.Equal(t, ws.SeenPayload{MessageID: "m1", ChatID: "c1", UserID: "me"}, acks[0])

	chats := e.Chats()
	require.Len(t, chats, 1)
	assert.Equal(t, 0, chats[0].UnreadTotal)
}

func TestEngine_RemoteTypingScopedToChat(t *testing.T) {
	conn := newFakeConn(true)
	olena := entity.User{ID: "u2", Name: "Olena"}
	api := &fakeBackend{chats: []entity.Chat{
		{ID: "c1", Participants: []entity.User{{ID: "me", Name: "Me"}, olena}},
	}}
	e := newTestEngine(t, conn, api, 2)
	require.NoError(t, e.OpenChat(context.Background(), "c1"))

	conn.dispatch(ws.EventTypingStarted, ws.TypingPayload{ChatID: "c1", UserID: "u2"})
	assert.Equal(t, "Olena is typing...", e.TypingBanner("c1"))

	conn.dispatch(ws.EventTypingStopped, ws.TypingPayload{ChatID: "c1", UserID: "u2"})
	assert.Equal(t, "", e.TypingBanner("c1"))
}
