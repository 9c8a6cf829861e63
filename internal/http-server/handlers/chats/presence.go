package chats

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"CampusChat/internal/lib/api/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type inputRequest struct {
	Text string `json:"text"`
}

// Input feeds the compose box content into the typing state machine.
func Input(_ *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req inputRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		core.Input(chi.URLParam(r, "chatId"), req.Text)
		render.JSON(w, r, response.OK())
	}
}

type typingResponse struct {
	Banner string `json:"banner"`
}

// Typing returns the presence line for an open panel.
func Typing(_ *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, typingResponse{Banner: core.TypingBanner(chi.URLParam(r, "chatId"))})
	}
}

type seenRequest struct {
	MessageID string `json:"messageId"`
}

// Seen reports that a message scrolled fully into view. The receipt
// engine guarantees at most one acknowledgement per message.
func Seen(_ *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req seenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		core.MarkVisible(chi.URLParam(r, "chatId"), req.MessageID)
		render.JSON(w, r, response.OK())
	}
}
