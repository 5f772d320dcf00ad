package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Analytics event types recorded by the core flows.
const (
	EventRegister       = "register"
	EventLogin          = "login"
	EventWishlistAdd    = "wishlist_add"
	EventWishlistRemove = "wishlist_remove"
)

// AnalyticsEvent is an append-only usage record. Events are telemetry:
// they are never read back by auth or wishlist logic.
type AnalyticsEvent struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ProjectID uuid.UUID       `json:"project_id" db:"project_id"`
	EventType string          `json:"event_type" db:"event_type"`
	UserID    *uuid.UUID      `json:"user_id,omitempty" db:"user_id"`
	Metadata  json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// ProjectStats aggregates per-project usage for the dashboard.
type ProjectStats struct {
	TotalUsers     int `json:"totalUsers"`
	TotalWishlists int `json:"totalWishlists"`
	TotalEvents    int `json:"totalEvents"`
	RecentLogins   int `json:"recentLogins"`
}
