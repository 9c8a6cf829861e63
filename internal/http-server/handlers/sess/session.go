package sess

import (
	"log/slog"
	"net/http"

	"CampusChat/entity"
	"CampusChat/internal/lib/api/response"
	"CampusChat/internal/lib/sl"

	"github.com/go-chi/render"
)

// Core is what the session handlers need from the application core.
type Core interface {
	CurrentUser() entity.User
	Logout() error
}

// Current returns the signed-in user snapshot.
func Current(_ *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, core.CurrentUser())
	}
}

// Logout clears the persisted session snapshot.
func Logout(log *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := core.Logout(); err != nil {
			log.With(sl.Err(err)).Error("logout")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to clear session"))
			return
		}
		render.JSON(w, r, response.OK())
	}
}
