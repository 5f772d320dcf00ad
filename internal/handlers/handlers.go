package handlers

import (
	"errors"
	"net/http"

	"wishbase/internal/common"
	"wishbase/internal/services"

	"github.com/labstack/echo/v4"
)

// respondServiceError maps typed service errors onto the response
// envelope. Unknown errors become opaque 500s; service error text never
// carries secrets, but there is no reason to leak internals either.
func respondServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrUserExists):
		return common.SendError(c, http.StatusConflict, common.CodeDuplicateUser, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		return common.SendError(c, http.StatusUnauthorized, common.CodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, services.ErrSessionInvalid):
		return common.SendError(c, http.StatusUnauthorized, common.CodeSessionInvalid, "Invalid or expired session")
	case errors.Is(err, services.ErrItemExists):
		return common.SendError(c, http.StatusConflict, common.CodeDuplicateItem, "Item already in wishlist")
	case errors.Is(err, services.ErrForbidden):
		return common.SendError(c, http.StatusForbidden, common.CodeForbidden, "Forbidden")
	case errors.Is(err, services.ErrNotFound):
		return common.SendError(c, http.StatusNotFound, common.CodeNotFound, "Not found")
	case errors.Is(err, services.ErrStorageUnavailable):
		return common.SendError(c, http.StatusServiceUnavailable, common.CodeStorageUnavailable, "Storage unavailable")
	default:
		return common.SendServerError(c, "Internal error")
	}
}
