package middleware

import (
	"errors"
	"net/http"

	"wishbase/internal/common"
	"wishbase/internal/services"

	"github.com/labstack/echo/v4"
)

// SessionMiddleware authenticates the bearer token on every request it
// wraps. The user and project IDs placed into the context come from the
// session's owning user record; a project identifier supplied by the
// client is never trusted once a token is present.
func SessionMiddleware(authSvc services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := common.BearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse(common.CodeMissingToken, "Missing bearer token", nil))
			}

			user, session, err := authSvc.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, services.ErrSessionInvalid) {
					return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse(common.CodeSessionInvalid, "Invalid or expired session", nil))
				}
				if errors.Is(err, services.ErrStorageUnavailable) {
					return c.JSON(http.StatusServiceUnavailable, common.CreateErrorResponse(common.CodeStorageUnavailable, "Storage unavailable", nil))
				}
				return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse(common.CodeSessionInvalid, "Invalid or expired session", nil))
			}

			ctx := common.WithIdentity(c.Request().Context(), user.ID, user.ProjectID, session.ID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
