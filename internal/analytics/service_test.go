package analytics

import (
	"context"
	"testing"
	"time"

	"wishbase/internal/models"
	"wishbase/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPersistsEventually(t *testing.T) {
	stores := repositories.NewMemoryStores()
	service := NewService(stores)
	ctx := context.Background()

	projectID := uuid.New()
	userID := uuid.New()
	service.Record(projectID, models.EventLogin, &userID, map[string]string{"source": "widget"})

	// Insertion happens on a detached goroutine.
	assert.Eventually(t, func() bool {
		count, err := stores.Analytics.CountByProject(ctx, projectID)
		return err == nil && count == 1
	}, 2*time.Second, 10*time.Millisecond)

	events, err := stores.Analytics.ListByProject(ctx, projectID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventLogin, events[0].EventType)
	require.NotNil(t, events[0].UserID)
	assert.Equal(t, userID, *events[0].UserID)
	assert.JSONEq(t, `{"source":"widget"}`, string(events[0].Metadata))
}

func TestRecordWithoutMetadata(t *testing.T) {
	stores := repositories.NewMemoryStores()
	service := NewService(stores)
	ctx := context.Background()

	projectID := uuid.New()
	service.Record(projectID, models.EventRegister, nil, nil)

	assert.Eventually(t, func() bool {
		count, err := stores.Analytics.CountByProject(ctx, projectID)
		return err == nil && count == 1
	}, 2*time.Second, 10*time.Millisecond)

	events, err := stores.Analytics.ListByProject(ctx, projectID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].UserID)
	assert.Empty(t, events[0].Metadata)
}

func TestProjectStats(t *testing.T) {
	stores := repositories.NewMemoryStores()
	service := NewService(stores)
	ctx := context.Background()

	project := &models.Project{ID: uuid.New(), Name: "P", Domain: "example.com", APIKey: "wb_k"}
	require.NoError(t, stores.Projects.Create(ctx, project))
	user := &models.User{ID: uuid.New(), ProjectID: project.ID, Email: "u@x.com", PasswordHash: "h"}
	require.NoError(t, stores.Users.Create(ctx, user))
	require.NoError(t, stores.Wishlist.Create(ctx, &models.WishlistItem{ID: uuid.New(), UserID: user.ID, ItemID: "sku-1"}))

	require.NoError(t, stores.Analytics.Insert(ctx, &models.AnalyticsEvent{ID: uuid.New(), ProjectID: project.ID, EventType: models.EventLogin, UserID: &user.ID}))
	require.NoError(t, stores.Analytics.Insert(ctx, &models.AnalyticsEvent{ID: uuid.New(), ProjectID: project.ID, EventType: models.EventWishlistAdd, UserID: &user.ID}))

	stats, err := service.ProjectStats(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalWishlists)
	assert.Equal(t, 2, stats.TotalEvents)
	assert.Equal(t, 1, stats.RecentLogins)
}

func TestProjectStatsIsolatedPerProject(t *testing.T) {
	stores := repositories.NewMemoryStores()
	service := NewService(stores)
	ctx := context.Background()

	projectID := uuid.New()
	otherID := uuid.New()
	require.NoError(t, stores.Analytics.Insert(ctx, &models.AnalyticsEvent{ID: uuid.New(), ProjectID: otherID, EventType: models.EventLogin}))

	stats, err := service.ProjectStats(ctx, projectID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEvents)
	assert.Zero(t, stats.RecentLogins)
}

func TestRecentEvents(t *testing.T) {
	stores := repositories.NewMemoryStores()
	service := NewService(stores)
	ctx := context.Background()

	projectID := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, stores.Analytics.Insert(ctx, &models.AnalyticsEvent{ID: uuid.New(), ProjectID: projectID, EventType: models.EventRegister}))
	}

	events, err := service.RecentEvents(ctx, projectID, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
