package chats

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"CampusChat/entity"
	"CampusChat/internal/lib/api/response"
	"CampusChat/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Open admits a conversation panel and fetches its history.
func Open(log *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatId")

		if err := core.OpenChat(r.Context(), chatID); err != nil {
			log.With(sl.Err(err)).Warn("open chat")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Chat not found"))
			return
		}
		render.JSON(w, r, response.OK())
	}
}

type draftRequest struct {
	Participants []entity.User `json:"participants"`
}

// OpenDraft opens a panel for a not-yet-created conversation.
func OpenDraft(_ *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req draftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		core.OpenDraft(req.Participants)
		render.JSON(w, r, response.OK())
	}
}

// Close removes a conversation panel.
func Close(_ *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		core.CloseChat(chi.URLParam(r, "chatId"))
		render.JSON(w, r, response.OK())
	}
}

// Panels lists the open panel ids in opening order.
func Panels(_ *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, core.OpenPanels())
	}
}
