package domain

import (
	"time"
)

// Client is a cooperative member. Identity is the external client number
// carried by the source spreadsheets, not a generated surrogate key.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewClient creates a client from its external identifier and display name.
func NewClient(id int64, name string) Client {
	now := time.Now()
	return Client{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
