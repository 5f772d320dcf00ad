package handlers

import (
	"encoding/json"
	"net/http"

	"wishbase/internal/common"
	"wishbase/internal/metrics"
	"wishbase/internal/models"
	"wishbase/internal/repositories"
	"wishbase/internal/services"

	"github.com/labstack/echo/v4"
)

// WishlistHandlers handles wishlist HTTP requests. All routes sit
// behind the session middleware; the acting user comes from the request
// context, never from the payload.
type WishlistHandlers struct {
	wishlistSvc services.WishlistService
	users       repositories.UserRepository
}

func NewWishlistHandlers(wishlistSvc services.WishlistService, stores *repositories.Stores) *WishlistHandlers {
	return &WishlistHandlers{
		wishlistSvc: wishlistSvc,
		users:       stores.Users,
	}
}

// itemView is the client-facing item shape.
type itemView struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"itemId"`
	ItemData  json.RawMessage `json:"itemData,omitempty"`
	CreatedAt string          `json:"createdAt"`
}

func toItemView(item *models.WishlistItem) itemView {
	return itemView{
		ID:        item.ID.String(),
		ItemID:    item.ItemID,
		ItemData:  item.ItemData,
		CreatedAt: item.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *WishlistHandlers) actingUser(c echo.Context) (*models.User, error) {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return nil, services.ErrSessionInvalid
	}
	return h.users.GetByID(c.Request().Context(), userID)
}

// List returns the authenticated user's wishlist.
func (h *WishlistHandlers) List(c echo.Context) error {
	user, err := h.actingUser(c)
	if err != nil {
		return common.SendError(c, http.StatusUnauthorized, common.CodeSessionInvalid, "Not authenticated")
	}

	items, err := h.wishlistSvc.List(c.Request().Context(), user)
	if err != nil {
		return respondServiceError(c, err)
	}

	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, toItemView(item))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"items":   views,
	})
}

// AddRequest is the add-to-wishlist payload.
type AddRequest struct {
	ItemID   string          `json:"itemId"`
	ItemData json.RawMessage `json:"itemData,omitempty"`
}

// Add puts an item on the authenticated user's wishlist.
func (h *WishlistHandlers) Add(c echo.Context) error {
	user, err := h.actingUser(c)
	if err != nil {
		return common.SendError(c, http.StatusUnauthorized, common.CodeSessionInvalid, "Not authenticated")
	}

	var req AddRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, common.CodeValidation, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.ItemID, "itemId"); err != nil {
		return common.SendValidationError(c, "itemId", err.Error())
	}

	item, err := h.wishlistSvc.Add(c.Request().Context(), user, req.ItemID, req.ItemData)
	metrics.ObserveWishlist("add", err)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"item":    toItemView(item),
	})
}

// Remove deletes one of the authenticated user's wishlist items by its
// internal id.
func (h *WishlistHandlers) Remove(c echo.Context) error {
	user, err := h.actingUser(c)
	if err != nil {
		return common.SendError(c, http.StatusUnauthorized, common.CodeSessionInvalid, "Not authenticated")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	err = h.wishlistSvc.Remove(c.Request().Context(), user, id)
	metrics.ObserveWishlist("remove", err)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
