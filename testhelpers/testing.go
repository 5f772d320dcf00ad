package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"wishbase/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for integration tests.
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to the database named by TEST_DATABASE_URL. Tests
// that need a real database skip when it is unset.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Skipf("test database unreachable: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestProject inserts a project row and registers cleanup. The
// delete cascades to any users, sessions and wishlist items the test
// created underneath it.
func SetupTestProject(t *testing.T, db *TestDB) *models.Project {
	t.Helper()

	project := &models.Project{
		ID:     uuid.New(),
		Name:   "Test Project",
		Domain: "test.example.com",
		APIKey: "wb_test_" + uuid.NewString(),
	}
	query := `
		INSERT INTO projects (id, name, domain, api_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := db.Pool.Exec(context.Background(), query, project.ID, project.Name, project.Domain, project.APIKey)
	if err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}

	t.Cleanup(func() {
		_, _ = db.Pool.Exec(context.Background(), `DELETE FROM projects WHERE id = $1`, project.ID)
	})
	return project
}

// SetupTestUser inserts a user row under the given project.
func SetupTestUser(t *testing.T, db *TestDB, projectID uuid.UUID) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		ProjectID:    projectID,
		Email:        uuid.NewString() + "@test.example.com",
		PasswordHash: "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtes",
	}
	query := `
		INSERT INTO users (id, project_id, email, password_hash, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := db.Pool.Exec(context.Background(), query, user.ID, user.ProjectID, user.Email, user.PasswordHash, user.FirstName, user.LastName)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// SetupTestSession inserts a session row for the given user, valid for
// the given lifetime from now.
func SetupTestSession(t *testing.T, db *TestDB, userID uuid.UUID, lifetime time.Duration) *models.Session {
	t.Helper()

	session := &models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     "test-token-" + uuid.NewString(),
		ExpiresAt: time.Now().Add(lifetime),
	}
	query := `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := db.Pool.Exec(context.Background(), query, session.ID, session.UserID, session.Token, session.ExpiresAt)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return session
}
