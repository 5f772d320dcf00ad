package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"wishbase/internal/models"

	"github.com/google/uuid"
)

// memoryStore backs the dev/test storage variant. One mutex guards all
// tables; operations are short map work, so contention is not a
// concern at this backend's scale. Cross-entity invariants (unique
// project+email, cascading deletes) hold under the same lock, which
// gives the check-and-insert atomicity the Postgres variant gets from
// its unique indexes.
type memoryStore struct {
	mu        sync.RWMutex
	projects  map[uuid.UUID]*models.Project
	users     map[uuid.UUID]*models.User
	sessions  map[uuid.UUID]*models.Session
	byToken   map[string]uuid.UUID
	wishlist  map[uuid.UUID]*models.WishlistItem
	analytics []*models.AnalyticsEvent
}

// NewMemoryStores builds the in-memory storage variant. All five
// repositories share one store instance.
func NewMemoryStores() *Stores {
	m := &memoryStore{
		projects: make(map[uuid.UUID]*models.Project),
		users:    make(map[uuid.UUID]*models.User),
		sessions: make(map[uuid.UUID]*models.Session),
		byToken:  make(map[string]uuid.UUID),
		wishlist: make(map[uuid.UUID]*models.WishlistItem),
	}
	return &Stores{
		Projects:  &memProjectRepo{s: m},
		Users:     &memUserRepo{s: m},
		Sessions:  &memSessionRepo{s: m},
		Wishlist:  &memWishlistRepo{s: m},
		Analytics: &memAnalyticsRepo{s: m},
	}
}

// The per-entity repo types are views over the shared store.
type (
	memProjectRepo   struct{ s *memoryStore }
	memUserRepo      struct{ s *memoryStore }
	memSessionRepo   struct{ s *memoryStore }
	memWishlistRepo  struct{ s *memoryStore }
	memAnalyticsRepo struct{ s *memoryStore }
)

func copyProject(p *models.Project) *models.Project { c := *p; return &c }
func copyUser(u *models.User) *models.User {
	c := *u
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}
func copySession(s *models.Session) *models.Session { c := *s; return &c }
func copyItem(i *models.WishlistItem) *models.WishlistItem {
	c := *i
	c.ItemData = append(c.ItemData[:0:0], i.ItemData...)
	return &c
}

// --- projects ---

func (r *memProjectRepo) Create(_ context.Context, project *models.Project) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.APIKey == project.APIKey {
			return ErrDuplicate
		}
	}
	if _, ok := s.projects[project.ID]; ok {
		return ErrDuplicate
	}
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	s.projects[project.ID] = copyProject(project)
	return nil
}

func (r *memProjectRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyProject(p), nil
}

func (r *memProjectRepo) GetByAPIKey(_ context.Context, apiKey string) (*models.Project, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.APIKey == apiKey {
			return copyProject(p), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memProjectRepo) List(_ context.Context, limit, offset int) ([]*models.Project, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		all = append(all, copyProject(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// Delete cascades to the project's users, their sessions and their
// wishlist items, mirroring the Postgres FK cascade.
func (r *memProjectRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return false, nil
	}
	delete(s.projects, id)
	for uid, u := range s.users {
		if u.ProjectID == id {
			s.deleteUserLocked(uid)
		}
	}
	return true, nil
}

// deleteUserLocked removes a user plus dependent sessions and wishlist
// items. Caller holds the write lock.
func (s *memoryStore) deleteUserLocked(userID uuid.UUID) {
	delete(s.users, userID)
	for sid, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.byToken, sess.Token)
			delete(s.sessions, sid)
		}
	}
	for iid, item := range s.wishlist {
		if item.UserID == userID {
			delete(s.wishlist, iid)
		}
	}
}

// --- users ---

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ProjectID == user.ProjectID && u.Email == user.Email {
			return ErrDuplicate
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = copyUser(user)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (r *memUserRepo) GetByProjectAndEmail(_ context.Context, projectID uuid.UUID, email string) (*models.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ProjectID == projectID && u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	if user.LastLoginAt != nil {
		t := *user.LastLoginAt
		existing.LastLoginAt = &t
	}
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	s.deleteUserLocked(id)
	return true, nil
}

func (r *memUserRepo) ListByProject(_ context.Context, projectID uuid.UUID, limit, offset int) ([]*models.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []*models.User
	for _, u := range s.users {
		if u.ProjectID == projectID {
			all = append(all, copyUser(u))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memUserRepo) CountByProject(_ context.Context, projectID uuid.UUID) (int, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, u := range s.users {
		if u.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

// --- sessions ---

func (r *memSessionRepo) Create(_ context.Context, session *models.Session) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; ok {
		return ErrDuplicate
	}
	if _, ok := s.byToken[session.Token]; ok {
		return ErrDuplicate
	}
	session.CreatedAt = time.Now()
	s.sessions[session.ID] = copySession(session)
	s.byToken[session.Token] = session.ID
	return nil
}

func (r *memSessionRepo) GetByToken(_ context.Context, token string) (*models.Session, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	return copySession(s.sessions[id]), nil
}

func (r *memSessionRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false, nil
	}
	delete(s.byToken, sess.Token)
	delete(s.sessions, id)
	return true, nil
}

func (r *memSessionRepo) DeleteByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.byToken, sess.Token)
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r *memSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.byToken, sess.Token)
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// --- wishlist ---

func (r *memWishlistRepo) Create(_ context.Context, item *models.WishlistItem) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.wishlist {
		if existing.UserID == item.UserID && existing.ItemID == item.ItemID {
			return ErrDuplicate
		}
	}
	item.CreatedAt = time.Now()
	s.wishlist[item.ID] = copyItem(item)
	return nil
}

func (r *memWishlistRepo) GetByID(_ context.Context, id uuid.UUID) (*models.WishlistItem, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.wishlist[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyItem(item), nil
}

func (r *memWishlistRepo) GetByUserAndItem(_ context.Context, userID uuid.UUID, itemID string) (*models.WishlistItem, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.wishlist {
		if item.UserID == userID && item.ItemID == itemID {
			return copyItem(item), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memWishlistRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.WishlistItem, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []*models.WishlistItem
	for _, item := range s.wishlist {
		if item.UserID == userID {
			items = append(items, copyItem(item))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *memWishlistRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wishlist[id]; !ok {
		return false, nil
	}
	delete(s.wishlist, id)
	return true, nil
}

func (r *memWishlistRepo) CountByProject(_ context.Context, projectID uuid.UUID) (int, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, item := range s.wishlist {
		if u, ok := s.users[item.UserID]; ok && u.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

// --- analytics ---

func (r *memAnalyticsRepo) Insert(_ context.Context, event *models.AnalyticsEvent) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	event.CreatedAt = time.Now()
	e := *event
	s.analytics = append(s.analytics, &e)
	return nil
}

func (r *memAnalyticsRepo) ListByProject(_ context.Context, projectID uuid.UUID, limit int) ([]*models.AnalyticsEvent, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	var events []*models.AnalyticsEvent
	for i := len(s.analytics) - 1; i >= 0 && (limit <= 0 || len(events) < limit); i-- {
		if s.analytics[i].ProjectID == projectID {
			e := *s.analytics[i]
			events = append(events, &e)
		}
	}
	return events, nil
}

func (r *memAnalyticsRepo) CountByProject(_ context.Context, projectID uuid.UUID) (int, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, e := range s.analytics {
		if e.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

func (r *memAnalyticsRepo) CountLoginsSince(_ context.Context, projectID uuid.UUID, since time.Time) (int, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, e := range s.analytics {
		if e.ProjectID == projectID && e.EventType == models.EventLogin && e.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}
