package chats

import (
	"log/slog"
	"net/http"

	"CampusChat/internal/lib/api/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// History returns the ordered message history of an open panel.
func History(_ *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, ok := core.History(chi.URLParam(r, "chatId"))
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Chat is not open"))
			return
		}
		render.JSON(w, r, messages)
	}
}

// Roster partitions participants into seen / not yet seen for a message.
func Roster(_ *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatId")
		messageID := chi.URLParam(r, "messageId")

		roster, ok := core.Roster(chatID, messageID)
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Message not found"))
			return
		}
		render.JSON(w, r, roster)
	}
}
