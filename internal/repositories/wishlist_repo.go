package repositories

import (
	"context"

	"wishbase/internal/models"

	"github.com/google/uuid"
)

type WishlistRepository interface {
	Create(ctx context.Context, item *models.WishlistItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WishlistItem, error)
	GetByUserAndItem(ctx context.Context, userID uuid.UUID, itemID string) (*models.WishlistItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.WishlistItem, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)
}

type wishlistRepo struct {
	db DB
}

func NewWishlistRepo(db DB) WishlistRepository {
	return &wishlistRepo{db: db}
}

// Create inserts a wishlist item. The unique index on
// (user_id, item_id) rejects duplicates with ErrDuplicate.
func (r *wishlistRepo) Create(ctx context.Context, item *models.WishlistItem) error {
	query := `
		INSERT INTO wishlist_items (id, user_id, item_id, item_data, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.UserID, item.ItemID, item.ItemData)
	return mapPgError(err)
}

func (r *wishlistRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.WishlistItem, error) {
	item := &models.WishlistItem{}
	query := `
		SELECT id, user_id, item_id, item_data, created_at
		FROM wishlist_items
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.UserID, &item.ItemID, &item.ItemData, &item.CreatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return item, nil
}

func (r *wishlistRepo) GetByUserAndItem(ctx context.Context, userID uuid.UUID, itemID string) (*models.WishlistItem, error) {
	item := &models.WishlistItem{}
	query := `
		SELECT id, user_id, item_id, item_data, created_at
		FROM wishlist_items
		WHERE user_id = $1 AND item_id = $2
	`
	err := r.db.QueryRow(ctx, query, userID, itemID).Scan(&item.ID, &item.UserID, &item.ItemID, &item.ItemData, &item.CreatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return item, nil
}

func (r *wishlistRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.WishlistItem, error) {
	query := `
		SELECT id, user_id, item_id, item_data, created_at
		FROM wishlist_items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var items []*models.WishlistItem
	for rows.Next() {
		item := &models.WishlistItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.ItemID, &item.ItemData, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *wishlistRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM wishlist_items WHERE id = $1`, id)
	if err != nil {
		return false, mapPgError(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *wishlistRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM wishlist_items w
		JOIN users u ON u.id = w.user_id
		WHERE u.project_id = $1
	`
	err := r.db.QueryRow(ctx, query, projectID).Scan(&count)
	if err != nil {
		return 0, mapPgError(err)
	}
	return count, nil
}
