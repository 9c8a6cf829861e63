package backend

import (
	"context"
	"fmt"
	"log/slog"

	"CampusChat/entity"
)

type searchQuery struct {
	Query string `validate:"required,min=3,lettersspace"`
}

// SearchUsers looks up users by partial name. Queries shorter than three
// runes or containing anything but letters and whitespace are rejected
// locally: no request is issued and no error is surfaced.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]entity.User, error) {
	if err := s.validate.Struct(searchQuery{Query: query}); err != nil {
		s.log.With(slog.String("query", query)).Debug("search query rejected")
		return nil, nil
	}

	var users []entity.User
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("search", query).
		SetResult(&users).
		Get("/api/users")
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("searching users: status %d", resp.StatusCode())
	}

	return users, nil
}

// CurrentUser fetches the signed-in user for the bearer token.
func (s *Service) CurrentUser(ctx context.Context) (entity.User, error) {
	var user entity.User
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&user).
		Get("/api/users/me")
	if err != nil {
		return user, fmt.Errorf("fetching current user: %w", err)
	}
	if resp.IsError() {
		return user, fmt.Errorf("fetching current user: status %d", resp.StatusCode())
	}
	return user, nil
}
