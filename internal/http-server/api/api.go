package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"CampusChat/internal/config"
	"CampusChat/internal/http-server/handlers/chats"
	"CampusChat/internal/http-server/handlers/errors"
	"CampusChat/internal/http-server/handlers/sess"
	"CampusChat/internal/http-server/handlers/users"
	"CampusChat/internal/http-server/middleware/authenticate"
	"CampusChat/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

// Handler is everything the control API needs from the application core.
type Handler interface {
	authenticate.Authenticate
	chats.Core
	users.Core
	sess.Core
}

// New builds and serves the local control API. It blocks until the
// listener fails or the server is shut down.
func New(conf *config.Config, log *slog.Logger, handler Handler) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))
	router.Use(authenticate.New(log, handler))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/chats", func(r chi.Router) {
			r.Get("/", chats.List(log, handler))
			r.Get("/panels", chats.Panels(log, handler))
			r.Post("/draft", chats.OpenDraft(log, handler))
			r.Post("/send", chats.Send(log, handler))
			r.Route("/{chatId}", func(r chi.Router) {
				r.Post("/open", chats.Open(log, handler))
				r.Post("/close", chats.Close(log, handler))
				r.Get("/messages", chats.History(log, handler))
				r.Get("/messages/{messageId}/roster", chats.Roster(log, handler))
				r.Post("/input", chats.Input(log, handler))
				r.Get("/typing", chats.Typing(log, handler))
				r.Post("/seen", chats.Seen(log, handler))
			})
		})
		v1.Route("/users", func(r chi.Router) {
			r.Get("/search", users.Search(log, handler))
		})
		v1.Route("/session", func(r chi.Router) {
			r.Get("/", sess.Current(log, handler))
			r.Post("/logout", sess.Logout(log, handler))
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
