package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"wishbase/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService fronts the hot lookups: session-by-token on every
// authenticated request and project-by-api-key on every widget call.
// A cache miss returns (nil, nil); the cache is never authoritative and
// callers always fall through to the store on miss or error.
type CacheService interface {
	GetSession(ctx context.Context, token string) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, token string) error

	GetProjectByAPIKey(ctx context.Context, apiKey string) (*models.Project, error)
	SetProjectByAPIKey(ctx context.Context, project *models.Project, ttl time.Duration) error
	DeleteProjectByAPIKey(ctx context.Context, apiKey string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService connects to Redis. Startup does not fail on an
// unreachable Redis; every operation degrades to a store lookup.
func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", err, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func sessionKey(token string) string {
	return fmt.Sprintf("wishbase:session:%s", token)
}

func projectKey(apiKey string) string {
	return fmt.Sprintf("wishbase:project:%s", apiKey)
}

func (r *redisCacheService) GetSession(ctx context.Context, token string) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *redisCacheService) SetSession(ctx context.Context, session *models.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(session.Token), data, ttl).Err()
}

func (r *redisCacheService) DeleteSession(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKey(token)).Err()
}

func (r *redisCacheService) GetProjectByAPIKey(ctx context.Context, apiKey string) (*models.Project, error) {
	data, err := r.client.Get(ctx, projectKey(apiKey)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var project models.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *redisCacheService) SetProjectByAPIKey(ctx context.Context, project *models.Project, ttl time.Duration) error {
	data, err := json.Marshal(project)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, projectKey(project.APIKey), data, ttl).Err()
}

func (r *redisCacheService) DeleteProjectByAPIKey(ctx context.Context, apiKey string) error {
	return r.client.Del(ctx, projectKey(apiKey)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// noopCacheService is used when no Redis address is configured; every
// read is a miss and every write succeeds.
type noopCacheService struct{}

func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

func (noopCacheService) GetSession(context.Context, string) (*models.Session, error) {
	return nil, nil
}
func (noopCacheService) SetSession(context.Context, *models.Session, time.Duration) error {
	return nil
}
func (noopCacheService) DeleteSession(context.Context, string) error { return nil }
func (noopCacheService) GetProjectByAPIKey(context.Context, string) (*models.Project, error) {
	return nil, nil
}
func (noopCacheService) SetProjectByAPIKey(context.Context, *models.Project, time.Duration) error {
	return nil
}
func (noopCacheService) DeleteProjectByAPIKey(context.Context, string) error { return nil }
func (noopCacheService) Ping(context.Context) error                          { return nil }
