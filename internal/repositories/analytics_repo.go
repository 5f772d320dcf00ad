package repositories

import (
	"context"
	"time"

	"wishbase/internal/models"

	"github.com/google/uuid"
)

type AnalyticsRepository interface {
	Insert(ctx context.Context, event *models.AnalyticsEvent) error
	ListByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*models.AnalyticsEvent, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)
	CountLoginsSince(ctx context.Context, projectID uuid.UUID, since time.Time) (int, error)
}

type analyticsRepo struct {
	db DB
}

func NewAnalyticsRepo(db DB) AnalyticsRepository {
	return &analyticsRepo{db: db}
}

func (r *analyticsRepo) Insert(ctx context.Context, event *models.AnalyticsEvent) error {
	query := `
		INSERT INTO analytics_events (id, project_id, event_type, user_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, event.ID, event.ProjectID, event.EventType, event.UserID, event.Metadata)
	return mapPgError(err)
}

func (r *analyticsRepo) ListByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*models.AnalyticsEvent, error) {
	query := `
		SELECT id, project_id, event_type, user_id, metadata, created_at
		FROM analytics_events
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var events []*models.AnalyticsEvent
	for rows.Next() {
		event := &models.AnalyticsEvent{}
		if err := rows.Scan(&event.ID, &event.ProjectID, &event.EventType, &event.UserID, &event.Metadata, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *analyticsRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM analytics_events WHERE project_id = $1`, projectID).Scan(&count)
	if err != nil {
		return 0, mapPgError(err)
	}
	return count, nil
}

func (r *analyticsRepo) CountLoginsSince(ctx context.Context, projectID uuid.UUID, since time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM analytics_events
		WHERE project_id = $1 AND event_type = $2 AND created_at > $3
	`
	err := r.db.QueryRow(ctx, query, projectID, models.EventLogin, since).Scan(&count)
	if err != nil {
		return 0, mapPgError(err)
	}
	return count, nil
}
