package core

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"CampusChat/entity"
	"CampusChat/internal/chat"
	"CampusChat/internal/lib/sl"
	"CampusChat/internal/session"
)

// UserService is the slice of the backend the control API needs directly.
type UserService interface {
	SearchUsers(ctx context.Context, query string) ([]entity.User, error)
}

// Core glues the chat engine, the backend and the session together and
// backs every handler of the local control API.
type Core struct {
	log     *slog.Logger
	sess    *session.Session
	storage session.Storage
	engine  *chat.Engine
	users   UserService
	apiKey  string
}

func New(sess *session.Session, storage session.Storage, engine *chat.Engine, users UserService, apiKey string, log *slog.Logger) *Core {
	return &Core{
		log:     log.With(sl.Module("core")),
		sess:    sess,
		storage: storage,
		engine:  engine,
		users:   users,
		apiKey:  apiKey,
	}
}

// AuthenticateToken checks the shell's bearer token against the
// configured API key.
func (c *Core) AuthenticateToken(token string) error {
	if c.apiKey == "" {
		return fmt.Errorf("api key not configured")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(c.apiKey)) != 1 {
		return fmt.Errorf("invalid api key")
	}
	return nil
}
