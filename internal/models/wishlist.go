package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// WishlistItem links a user to an external item. ItemID is the id the
// embedding site uses for the item; ItemData is opaque display metadata
// stored as-is and never interpreted server-side.
type WishlistItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	ItemID    string          `json:"item_id" db:"item_id"`
	ItemData  json.RawMessage `json:"item_data,omitempty" db:"item_data"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
