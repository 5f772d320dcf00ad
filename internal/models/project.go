package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a tenant account. Every user, session and wishlist item
// belongs to exactly one project; the API key is the public identifier
// embedded widgets use to address it. API keys are unique and immutable
// after creation.
type Project struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Domain    string    `json:"domain" db:"domain"`
	APIKey    string    `json:"api_key" db:"api_key"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
