package models

// User represents a custodian of assets.
// Name is the natural key used by the importer; Email is optional.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	CreatedAt int64  `json:"created_at"`
}
