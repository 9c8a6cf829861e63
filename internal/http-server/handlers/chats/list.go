package chats

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

func List(_ *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, core.Chats())
	}
}
