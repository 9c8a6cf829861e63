package core

import (
	"context"

	"CampusChat/entity"
)

func (c *Core) SearchUsers(ctx context.Context, query string) ([]entity.User, error) {
	return c.users.SearchUsers(ctx, query)
}

// CurrentUser returns the signed-in user snapshot.
func (c *Core) CurrentUser() entity.User {
	return c.sess.User
}

// Logout clears the persisted user snapshot. The running process keeps
// its session until it exits.
func (c *Core) Logout() error {
	c.log.Info("clearing persisted session")
	return c.storage.Clear()
}
