package analytics

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"wishbase/internal/models"
	"wishbase/internal/repositories"

	"github.com/google/uuid"
)

// Recorder is the event sink the core services emit into. Recording is
// best-effort telemetry: implementations must never fail the caller.
type Recorder interface {
	Record(projectID uuid.UUID, eventType string, userID *uuid.UUID, metadata map[string]string)
}

// Service persists usage events and aggregates per-project stats.
type Service struct {
	events   repositories.AnalyticsRepository
	users    repositories.UserRepository
	wishlist repositories.WishlistRepository
	timeout  time.Duration
}

func NewService(stores *repositories.Stores) *Service {
	return &Service{
		events:   stores.Analytics,
		users:    stores.Users,
		wishlist: stores.Wishlist,
		timeout:  5 * time.Second,
	}
}

// Record writes the event on its own goroutine with its own deadline,
// detached from the request that triggered it. Failures are logged and
// dropped; the triggering operation has already succeeded.
func (s *Service) Record(projectID uuid.UUID, eventType string, userID *uuid.UUID, metadata map[string]string) {
	event := &models.AnalyticsEvent{
		ID:        uuid.New(),
		ProjectID: projectID,
		EventType: eventType,
		UserID:    userID,
	}
	if len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			log.Printf("analytics: dropping metadata for %s event: %v", eventType, err)
		} else {
			event.Metadata = data
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.events.Insert(ctx, event); err != nil {
			log.Printf("analytics: failed to record %s event for project %s: %v", eventType, projectID, err)
		}
	}()
}

// ProjectStats aggregates the dashboard numbers. Recent logins cover
// the trailing 24 hours.
func (s *Service) ProjectStats(ctx context.Context, projectID uuid.UUID) (*models.ProjectStats, error) {
	totalUsers, err := s.users.CountByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	totalWishlists, err := s.wishlist.CountByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	totalEvents, err := s.events.CountByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	recentLogins, err := s.events.CountLoginsSince(ctx, projectID, time.Now().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	return &models.ProjectStats{
		TotalUsers:     totalUsers,
		TotalWishlists: totalWishlists,
		TotalEvents:    totalEvents,
		RecentLogins:   recentLogins,
	}, nil
}

// RecentEvents returns the newest events for a project, newest first.
func (s *Service) RecentEvents(ctx context.Context, projectID uuid.UUID, limit int) ([]*models.AnalyticsEvent, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.events.ListByProject(ctx, projectID, limit)
}
