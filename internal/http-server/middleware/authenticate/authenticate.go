package authenticate

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"CampusChat/internal/lib/api/response"
	"CampusChat/internal/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Authenticate validates the shell's bearer token.
type Authenticate interface {
	AuthenticateToken(token string) error
}

func New(log *slog.Logger, auth Authenticate) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.authenticate")
	log.With(mod).Info("authenticate middleware initialized")

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id := middleware.GetReqID(r.Context())
			logger := log.With(
				mod,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("request_id", id),
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t1 := time.Now()
			defer func() {
				logger.With(
					slog.Int("status", ww.Status()),
					slog.Float64("duration", time.Since(t1).Seconds()),
				).Info("incoming request")
			}()

			header := r.Header.Get("Authorization")
			if header == "" {
				authFailed(ww, r, "Authorization header not found")
				return
			}
			token := ""
			if strings.Contains(header, "Bearer") {
				token = strings.Split(header, " ")[1]
			}
			if token == "" {
				authFailed(ww, r, "Token not found")
				return
			}

			if err := auth.AuthenticateToken(token); err != nil {
				logger.With(sl.Err(fmt.Errorf("authenticate: %w", err))).Warn("rejected request")
				authFailed(ww, r, "Unauthorized")
				return
			}

			ww.Header().Set("X-Request-ID", id)
			next.ServeHTTP(ww, r)
		}

		return http.HandlerFunc(fn)
	}
}

func authFailed(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(message))
}
