package repositories

import (
	"context"

	"wishbase/internal/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByProjectAndEmail(ctx context.Context, projectID uuid.UUID, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*models.User, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)
}

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new user. The unique index on (project_id, email)
// resolves concurrent duplicate registration; the loser gets
// ErrDuplicate.
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, project_id, email, password_hash, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.ProjectID, user.Email, user.PasswordHash, user.FirstName, user.LastName)
	return mapPgError(err)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, project_id, email, password_hash, first_name, last_name, created_at, updated_at, last_login_at
		FROM users
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.ProjectID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return user, nil
}

func (r *userRepo) GetByProjectAndEmail(ctx context.Context, projectID uuid.UUID, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, project_id, email, password_hash, first_name, last_name, created_at, updated_at, last_login_at
		FROM users
		WHERE project_id = $1 AND email = $2
	`
	err := r.db.QueryRow(ctx, query, projectID, email).Scan(&user.ID, &user.ProjectID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return user, nil
}

// Update writes the mutable fields only. Email, project and password
// hash are immutable through this path.
func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, last_login_at = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, user.FirstName, user.LastName, user.LastLoginAt, user.ID)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, mapPgError(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *userRepo) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT id, project_id, email, password_hash, first_name, last_name, created_at, updated_at, last_login_at
		FROM users
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, projectID, limit, offset)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.ProjectID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE project_id = $1`, projectID).Scan(&count)
	if err != nil {
		return 0, mapPgError(err)
	}
	return count, nil
}
