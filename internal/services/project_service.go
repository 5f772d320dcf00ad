package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"wishbase/internal/caching"
	"wishbase/internal/models"
	"wishbase/internal/repositories"

	"github.com/google/uuid"
)

const projectCacheTTL = 10 * time.Minute

// ProjectService manages tenant accounts and resolves the identifiers
// clients send, which may be a project UUID (dashboard) or a public API
// key (embedded widget).
type ProjectService interface {
	Create(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Resolve(ctx context.Context, identifier string) (*models.Project, error)
	List(ctx context.Context, limit, offset int) ([]*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateProjectRequest struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

type projectService struct {
	projects repositories.ProjectRepository
	cache    caching.CacheService
}

func NewProjectService(stores *repositories.Stores, cache caching.CacheService) ProjectService {
	return &projectService{projects: stores.Projects, cache: cache}
}

func (s *projectService) Create(ctx context.Context, req *CreateProjectRequest) (*models.Project, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Domain) == "" {
		return nil, errors.New("name and domain are required")
	}

	project := &models.Project{
		ID:     uuid.New(),
		Name:   strings.TrimSpace(req.Name),
		Domain: strings.TrimSpace(req.Domain),
		APIKey: generateAPIKey(),
	}
	if err := s.projects.Create(ctx, project); err != nil {
		if err == repositories.ErrDuplicate {
			// API key collision is a 1-in-2^128 event; retry once.
			project.APIKey = generateAPIKey()
			if err := s.projects.Create(ctx, project); err != nil {
				return nil, storageErr("create project", err)
			}
			return project, nil
		}
		return nil, storageErr("create project", err)
	}
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, storageErr("lookup project", err)
	}
	return project, nil
}

// Resolve accepts either form of project identifier. UUIDs go straight
// to the primary key; anything else is treated as an API key, served
// from cache when warm.
func (s *projectService) Resolve(ctx context.Context, identifier string) (*models.Project, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrNotFound
	}

	if id, err := uuid.Parse(identifier); err == nil {
		return s.GetByID(ctx, id)
	}

	if cached, err := s.cache.GetProjectByAPIKey(ctx, identifier); err == nil && cached != nil {
		return cached, nil
	}

	project, err := s.projects.GetByAPIKey(ctx, identifier)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, storageErr("lookup project by api key", err)
	}

	if err := s.cache.SetProjectByAPIKey(ctx, project, projectCacheTTL); err != nil {
		log.Printf("projects: failed to cache project %s: %v", project.ID, err)
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, limit, offset int) ([]*models.Project, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	projects, err := s.projects.List(ctx, limit, offset)
	if err != nil {
		return nil, storageErr("list projects", err)
	}
	return projects, nil
}

// Delete removes the project and, through the store's cascade, its
// users, their sessions and their wishlist items.
func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return storageErr("lookup project", err)
	}

	deleted, err := s.projects.Delete(ctx, id)
	if err != nil {
		return storageErr("delete project", err)
	}
	if !deleted {
		return ErrNotFound
	}

	if err := s.cache.DeleteProjectByAPIKey(ctx, project.APIKey); err != nil {
		log.Printf("projects: failed to evict project %s from cache: %v", project.ID, err)
	}
	return nil
}

// generateAPIKey produces the public widget key: a "wb_" prefix over
// 128 bits of hex.
func generateAPIKey() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return "wb_" + hex.EncodeToString(bytes)
}
