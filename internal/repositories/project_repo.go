package repositories

import (
	"context"

	"wishbase/internal/models"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*models.Project, error)
	List(ctx context.Context, limit, offset int) ([]*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type projectRepo struct {
	db DB
}

func NewProjectRepo(db DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, name, domain, api_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, project.ID, project.Name, project.Domain, project.APIKey)
	return mapPgError(err)
}

func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project := &models.Project{}
	query := `
		SELECT id, name, domain, api_key, created_at, updated_at
		FROM projects
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&project.ID, &project.Name, &project.Domain, &project.APIKey, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return project, nil
}

func (r *projectRepo) GetByAPIKey(ctx context.Context, apiKey string) (*models.Project, error) {
	project := &models.Project{}
	query := `
		SELECT id, name, domain, api_key, created_at, updated_at
		FROM projects
		WHERE api_key = $1
	`
	err := r.db.QueryRow(ctx, query, apiKey).Scan(&project.ID, &project.Name, &project.Domain, &project.APIKey, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return project, nil
}

func (r *projectRepo) List(ctx context.Context, limit, offset int) ([]*models.Project, error) {
	query := `
		SELECT id, name, domain, api_key, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		if err := rows.Scan(&project.ID, &project.Name, &project.Domain, &project.APIKey, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// Delete removes a project. Dependent users, sessions and wishlist
// items go with it via ON DELETE CASCADE in the schema.
func (r *projectRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, mapPgError(err)
	}
	return tag.RowsAffected() > 0, nil
}
