package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"wishbase/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T, stores *Stores) *models.Project {
	t.Helper()
	project := &models.Project{ID: uuid.New(), Name: "P", Domain: "example.com", APIKey: "wb_" + uuid.NewString()}
	require.NoError(t, stores.Projects.Create(context.Background(), project))
	return project
}

func TestMemoryUserCreateDuplicateEmail(t *testing.T) {
	stores := NewMemoryStores()
	ctx := context.Background()
	project := seedProject(t, stores)

	first := &models.User{ID: uuid.New(), ProjectID: project.ID, Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, stores.Users.Create(ctx, first))

	dup := &models.User{ID: uuid.New(), ProjectID: project.ID, Email: "a@x.com", PasswordHash: "h"}
	assert.ErrorIs(t, stores.Users.Create(ctx, dup), ErrDuplicate)

	// Same email under a different project is fine.
	other := seedProject(t, stores)
	assert.NoError(t, stores.Users.Create(ctx, &models.User{ID: uuid.New(), ProjectID: other.ID, Email: "a@x.com", PasswordHash: "h"}))
}

// Concurrent inserts for the same (project, email) must admit exactly
// one winner, matching the unique index on the Postgres side.
func TestMemoryUserCreateConcurrentSingleWinner(t *testing.T) {
	stores := NewMemoryStores()
	ctx := context.Background()
	project := seedProject(t, stores)

	const attempts = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := &models.User{ID: uuid.New(), ProjectID: project.ID, Email: "race@x.com", PasswordHash: "h"}
			if err := stores.Users.Create(ctx, u); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestMemorySessionLifecycle(t *testing.T) {
	stores := NewMemoryStores()
	ctx := context.Background()
	project := seedProject(t, stores)
	user := &models.User{ID: uuid.New(), ProjectID: project.ID, Email: "u@x.com", PasswordHash: "h"}
	require.NoError(t, stores.Users.Create(ctx, user))

	session := &models.Session{ID: uuid.New(), UserID: user.ID, Token: "tok-1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, stores.Sessions.Create(ctx, session))

	got, err := stores.Sessions.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	deleted, err := stores.Sessions.Delete(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = stores.Sessions.GetByToken(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again reports nothing removed, not an error.
	deleted, err = stores.Sessions.Delete(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemorySessionDeleteExpired(t *testing.T) {
	stores := NewMemoryStores()
	ctx := context.Background()
	project := seedProject(t, stores)
	user := &models.User{ID: uuid.New(), ProjectID: project.ID, Email: "u@x.com", PasswordHash: "h"}
	require.NoError(t, stores.Users.Create(ctx, user))

	now := time.Now()
	expired := &models.Session{ID: uuid.New(), UserID: user.ID, Token: "old", ExpiresAt: now.Add(-time.Minute)}
	live := &models.Session{ID: uuid.New(), UserID: user.ID, Token: "new", ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, stores.Sessions.Create(ctx, expired))
	require.NoError(t, stores.Sessions.Create(ctx, live))

	n, err := stores.Sessions.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = stores.Sessions.GetByToken(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = stores.Sessions.GetByToken(ctx, "new")
	assert.NoError(t, err)
}

func TestMemoryUserDeleteCascades(t *testing.T) {
	stores := NewMemoryStores()
	ctx := context.Background()
	project := seedProject(t, stores)
	user := &models.User{ID: uuid.New(), ProjectID: project.ID, Email: "u@x.com", PasswordHash: "h"}
	require.NoError(t, stores.Users.Create(ctx, user))

	session := &models.Session{ID: uuid.New(), UserID: user.ID, Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, stores.Sessions.Create(ctx, session))
	item := &models.WishlistItem{ID: uuid.New(), UserID: user.ID, ItemID: "sku-1"}
	require.NoError(t, stores.Wishlist.Create(ctx, item))

	deleted, err := stores.Users.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = stores.Sessions.GetByToken(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = stores.Wishlist.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryWishlistCountByProject(t *testing.T) {
	stores := NewMemoryStores()
	ctx := context.Background()
	project := seedProject(t, stores)
	other := seedProject(t, stores)

	u1 := &models.User{ID: uuid.New(), ProjectID: project.ID, Email: "a@x.com", PasswordHash: "h"}
	u2 := &models.User{ID: uuid.New(), ProjectID: other.ID, Email: "b@x.com", PasswordHash: "h"}
	require.NoError(t, stores.Users.Create(ctx, u1))
	require.NoError(t, stores.Users.Create(ctx, u2))

	require.NoError(t, stores.Wishlist.Create(ctx, &models.WishlistItem{ID: uuid.New(), UserID: u1.ID, ItemID: "sku-1"}))
	require.NoError(t, stores.Wishlist.Create(ctx, &models.WishlistItem{ID: uuid.New(), UserID: u1.ID, ItemID: "sku-2"}))
	require.NoError(t, stores.Wishlist.Create(ctx, &models.WishlistItem{ID: uuid.New(), UserID: u2.ID, ItemID: "sku-1"}))

	count, err := stores.Wishlist.CountByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryReturnsCopies(t *testing.T) {
	stores := NewMemoryStores()
	ctx := context.Background()
	project := seedProject(t, stores)

	got, err := stores.Projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := stores.Projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "P", again.Name)
}
