package session

import (
	"encoding/json"
	"fmt"
	"os"

	"CampusChat/entity"
)

// FileStorage keeps the user snapshot in a JSON file next to the client.
type FileStorage struct {
	path string
}

// NewFileStorage creates a file-backed session storage at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Load() (entity.User, error) {
	var user entity.User

	data, err := os.ReadFile(s.path)
	if err != nil {
		return user, fmt.Errorf("reading session file: %w", err)
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return user, fmt.Errorf("decoding session file: %w", err)
	}
	if user.ID == "" {
		return user, fmt.Errorf("session file has no user id")
	}
	return user, nil
}

func (s *FileStorage) Save(user entity.User) error {
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// Clear removes the stored snapshot. Used on logout.
func (s *FileStorage) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
