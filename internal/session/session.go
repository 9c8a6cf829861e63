package session

import (
	"CampusChat/entity"

	"github.com/google/uuid"
)

// Session is the identity of the signed-in user for the lifetime of the
// process. It is constructed once at startup and passed by reference to
// every component that needs it.
type Session struct {
	User     entity.User
	ClientID string
}

// New builds a session for the given user with a fresh client instance id.
func New(user entity.User) *Session {
	return &Session{
		User:     user,
		ClientID: uuid.NewString(),
	}
}

// Storage persists the signed-in user snapshot between runs.
type Storage interface {
	Load() (entity.User, error)
	Save(user entity.User) error
	Clear() error
}
