package services

import (
	"context"
	"log"
	"strings"
	"time"

	"wishbase/internal/analytics"
	"wishbase/internal/caching"
	"wishbase/internal/models"
	"wishbase/internal/repositories"

	"github.com/google/uuid"
)

// sessionCacheTTL bounds how long a validated session may be served
// from cache. Logout and expiry purge the cache entry eagerly; the TTL
// only caps staleness if a purge is missed.
const sessionCacheTTL = 5 * time.Minute

// AuthService orchestrates registration, login, logout and session
// validation. Every identity lookup it performs is scoped to a project;
// once a session is resolved, the project is re-derived from the owning
// user record and never taken from the client.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, *models.Session, error)
	Login(ctx context.Context, projectID uuid.UUID, email, password string) (*models.User, *models.Session, error)
	Logout(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*models.Session, error)
	Authenticate(ctx context.Context, token string) (*models.User, *models.Session, error)
}

type RegisterRequest struct {
	ProjectID uuid.UUID
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type authService struct {
	projects   repositories.ProjectRepository
	users      repositories.UserRepository
	sessions   repositories.SessionRepository
	tokens     TokenService
	cache      caching.CacheService
	events     analytics.Recorder
	sessionTTL time.Duration
}

func NewAuthService(stores *repositories.Stores, tokens TokenService, cache caching.CacheService, events analytics.Recorder, sessionTTL time.Duration) AuthService {
	return &authService{
		projects:   stores.Projects,
		users:      stores.Users,
		sessions:   stores.Sessions,
		tokens:     tokens,
		cache:      cache,
		events:     events,
		sessionTTL: sessionTTL,
	}
}

// Register creates a user under the given project and logs it in. The
// duplicate check here is advisory; the store's unique constraint on
// (project, email) is what resolves concurrent registrations, and its
// violation surfaces as ErrUserExists too.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, *models.Session, error) {
	if _, err := s.projects.GetByID(ctx, req.ProjectID); err != nil {
		if isNotFound(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, storageErr("lookup project", err)
	}

	email := normalizeEmail(req.Email)
	if _, err := s.users.GetByProjectAndEmail(ctx, req.ProjectID, email); err == nil {
		return nil, nil, ErrUserExists
	} else if !isNotFound(err) {
		return nil, nil, storageErr("lookup user", err)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		ProjectID:    req.ProjectID,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if err == repositories.ErrDuplicate {
			return nil, nil, ErrUserExists
		}
		return nil, nil, storageErr("create user", err)
	}

	// The user row is durable from here on. If session creation fails,
	// the account stays valid and loginable.
	session, err := s.createSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.events.Record(user.ProjectID, models.EventRegister, &user.ID, nil)
	return user, session, nil
}

// Login authenticates a user by project-scoped email and password.
// Unknown email and wrong password produce the identical error.
func (s *authService) Login(ctx context.Context, projectID uuid.UUID, email, password string) (*models.User, *models.Session, error) {
	user, err := s.users.GetByProjectAndEmail(ctx, projectID, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, storageErr("lookup user", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, nil, storageErr("update last login", err)
	}

	session, err := s.createSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.events.Record(user.ProjectID, models.EventLogin, &user.ID, nil)
	return user, session, nil
}

// Logout revokes the session behind token. A token whose session is
// already gone is treated as logged out; logout is idempotent.
func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.cache.DeleteSession(ctx, token); err != nil {
		log.Printf("auth: failed to evict session from cache: %v", err)
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return storageErr("lookup session", err)
	}

	if _, err := s.sessions.Delete(ctx, session.ID); err != nil {
		return storageErr("delete session", err)
	}
	return nil
}

// ValidateSession resolves a bearer token to a live session. Expired
// sessions are deleted on first access and then behave exactly like
// unknown tokens.
func (s *authService) ValidateSession(ctx context.Context, token string) (*models.Session, error) {
	// Tampered or malformed tokens never reach the store.
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	if cached, err := s.cache.GetSession(ctx, token); err == nil && cached != nil && !cached.Expired(time.Now()) {
		return cached, nil
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSessionInvalid
		}
		return nil, storageErr("lookup session", err)
	}

	if session.Expired(time.Now()) {
		if _, err := s.sessions.Delete(ctx, session.ID); err != nil {
			log.Printf("auth: failed to purge expired session %s: %v", session.ID, err)
		}
		if err := s.cache.DeleteSession(ctx, token); err != nil {
			log.Printf("auth: failed to evict expired session from cache: %v", err)
		}
		return nil, ErrSessionInvalid
	}

	// A signed token and a stored session must agree on the user.
	if claims.UserID != session.UserID.String() {
		return nil, ErrSessionInvalid
	}

	if err := s.cache.SetSession(ctx, session, sessionCacheTTL); err != nil {
		log.Printf("auth: failed to cache session: %v", err)
	}
	return session, nil
}

// Authenticate validates the token and resolves the owning user. The
// returned user's ProjectID is authoritative for the request; any
// project value the client sent alongside the token is ignored.
func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, *models.Session, error) {
	session, err := s.ValidateSession(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if isNotFound(err) {
			// The account is gone; the session is dead weight.
			if _, err := s.sessions.Delete(ctx, session.ID); err != nil {
				log.Printf("auth: failed to purge orphaned session %s: %v", session.ID, err)
			}
			return nil, nil, ErrSessionInvalid
		}
		return nil, nil, storageErr("lookup user", err)
	}
	return user, session, nil
}

func (s *authService) createSession(ctx context.Context, user *models.User) (*models.Session, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.ProjectID)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, storageErr("create session", err)
	}

	if err := s.cache.SetSession(ctx, session, sessionCacheTTL); err != nil {
		log.Printf("auth: failed to cache session: %v", err)
	}
	return session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
