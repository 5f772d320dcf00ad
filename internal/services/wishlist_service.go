package services

import (
	"context"
	"encoding/json"

	"wishbase/internal/analytics"
	"wishbase/internal/models"
	"wishbase/internal/repositories"

	"github.com/google/uuid"
)

// WishlistService manages per-user item collections. Callers pass the
// user identity resolved from a validated session, never one supplied
// by the client.
type WishlistService interface {
	Add(ctx context.Context, user *models.User, itemID string, itemData json.RawMessage) (*models.WishlistItem, error)
	Remove(ctx context.Context, user *models.User, id uuid.UUID) error
	List(ctx context.Context, user *models.User) ([]*models.WishlistItem, error)
}

type wishlistService struct {
	items  repositories.WishlistRepository
	events analytics.Recorder
}

func NewWishlistService(stores *repositories.Stores, events analytics.Recorder) WishlistService {
	return &wishlistService{items: stores.Wishlist, events: events}
}

// Add inserts the item for the user. Duplicates are rejected, not
// merged; the store's unique (user, item) constraint backs the check.
func (s *wishlistService) Add(ctx context.Context, user *models.User, itemID string, itemData json.RawMessage) (*models.WishlistItem, error) {
	if _, err := s.items.GetByUserAndItem(ctx, user.ID, itemID); err == nil {
		return nil, ErrItemExists
	} else if !isNotFound(err) {
		return nil, storageErr("lookup wishlist item", err)
	}

	item := &models.WishlistItem{
		ID:       uuid.New(),
		UserID:   user.ID,
		ItemID:   itemID,
		ItemData: itemData,
	}
	if err := s.items.Create(ctx, item); err != nil {
		if err == repositories.ErrDuplicate {
			return nil, ErrItemExists
		}
		return nil, storageErr("create wishlist item", err)
	}

	s.events.Record(user.ProjectID, models.EventWishlistAdd, &user.ID, map[string]string{"itemId": itemID})
	return item, nil
}

// Remove deletes the item by its internal id. The ownership check runs
// against the validated identity; a mismatch is Forbidden, not NotFound,
// since the row does exist.
func (s *wishlistService) Remove(ctx context.Context, user *models.User, id uuid.UUID) error {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return storageErr("lookup wishlist item", err)
	}

	if item.UserID != user.ID {
		return ErrForbidden
	}

	if _, err := s.items.Delete(ctx, id); err != nil {
		return storageErr("delete wishlist item", err)
	}

	s.events.Record(user.ProjectID, models.EventWishlistRemove, &user.ID, map[string]string{"itemId": item.ItemID})
	return nil
}

func (s *wishlistService) List(ctx context.Context, user *models.User) ([]*models.WishlistItem, error) {
	items, err := s.items.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, storageErr("list wishlist items", err)
	}
	return items, nil
}
