package entity

// User is a read-only participant snapshot copied from the backend.
type User struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
