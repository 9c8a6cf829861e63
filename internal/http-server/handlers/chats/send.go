package chats

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"CampusChat/internal/lib/api/response"
	"CampusChat/internal/lib/sl"

	"github.com/go-chi/render"
)

type sendRequest struct {
	ChatID     string   `json:"chatId"`
	Text       string   `json:"text"`
	Recipients []string `json:"recipients"`
}

type sendResponse struct {
	response.Response
	ChatID string `json:"chatId,omitempty"`
}

// Send posts a message. Empty or whitespace-only text is a silent no-op,
// mirroring the compose box. The response carries the conversation id so
// a draft panel can transition to its concrete id.
func Send(log *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		chat, err := core.SendMessage(r.Context(), req.ChatID, req.Text, req.Recipients)
		if err != nil {
			log.With(sl.Err(err)).Error("send message")
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("Failed to send message"))
			return
		}

		render.JSON(w, r, sendResponse{Response: response.OK(), ChatID: chat.ID})
	}
}
