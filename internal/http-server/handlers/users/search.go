package users

import (
	"context"
	"log/slog"
	"net/http"

	"CampusChat/entity"
	"CampusChat/internal/lib/api/response"
	"CampusChat/internal/lib/sl"

	"github.com/go-chi/render"
)

// Core is what the user handlers need from the application core.
type Core interface {
	SearchUsers(ctx context.Context, query string) ([]entity.User, error)
}

// Search looks up users by partial name. Queries the backend client
// rejects locally come back as an empty list, not an error.
func Search(log *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("search")

		found, err := core.SearchUsers(r.Context(), query)
		if err != nil {
			log.With(sl.Err(err)).Error("search users")
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("Failed to search users"))
			return
		}
		if found == nil {
			found = []entity.User{}
		}
		render.JSON(w, r, found)
	}
}
