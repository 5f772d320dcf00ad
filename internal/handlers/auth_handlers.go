package handlers

import (
	"net/http"

	"wishbase/internal/common"
	"wishbase/internal/metrics"
	"wishbase/internal/models"
	"wishbase/internal/repositories"
	"wishbase/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authSvc    services.AuthService
	projectSvc services.ProjectService
	users      repositories.UserRepository
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authSvc services.AuthService, projectSvc services.ProjectService, stores *repositories.Stores) *AuthHandlers {
	return &AuthHandlers{
		authSvc:    authSvc,
		projectSvc: projectSvc,
		users:      stores.Users,
	}
}

// RegisterRequest is the registration payload. ProjectID accepts either
// the project UUID or its public API key; the embedded widget only
// knows the latter.
type RegisterRequest struct {
	ProjectID string `json:"projectId"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// AuthResponse carries the identity summary and the bearer token.
type AuthResponse struct {
	Success bool                `json:"success"`
	User    *models.UserSummary `json:"user"`
	Token   string              `json:"token"`
}

// Register handles user registration for a project.
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, common.CodeValidation, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.ProjectID, "projectId"); err != nil {
		return common.SendValidationError(c, "projectId", err.Error())
	}
	if err := common.ValidateEmail(req.Email); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}
	if err := common.ValidateRequiredString(req.Password, "password"); err != nil {
		return common.SendValidationError(c, "password", err.Error())
	}

	project, err := h.projectSvc.Resolve(ctx, req.ProjectID)
	if err != nil {
		return respondServiceError(c, err)
	}

	user, session, err := h.authSvc.Register(ctx, &services.RegisterRequest{
		ProjectID: project.ID,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	metrics.ObserveAuth("register", err)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Success: true,
		User:    user.Summary(),
		Token:   session.Token,
	})
}

// LoginRequest is the login payload; ProjectID follows the same
// UUID-or-API-key rule as registration.
type LoginRequest struct {
	ProjectID string `json:"projectId"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Login handles user login with project-scoped email and password.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, common.CodeValidation, "Invalid request format")
	}

	if req.ProjectID == "" || req.Email == "" || req.Password == "" {
		return common.SendError(c, http.StatusBadRequest, common.CodeValidation, "projectId, email and password are required")
	}

	project, err := h.projectSvc.Resolve(ctx, req.ProjectID)
	if err != nil {
		// An unknown project gets the credentials error, not a project
		// lookup error: the identifier is attacker-controlled input.
		if err == services.ErrNotFound {
			return common.SendError(c, http.StatusUnauthorized, common.CodeInvalidCredentials, "Invalid credentials")
		}
		return respondServiceError(c, err)
	}

	user, session, err := h.authSvc.Login(ctx, project.ID, req.Email, req.Password)
	metrics.ObserveAuth("login", err)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		User:    user.Summary(),
		Token:   session.Token,
	})
}

// Logout revokes the presented session. Runs outside the session
// middleware so that an already-dead session still logs out cleanly.
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	token, ok := common.BearerToken(c)
	if !ok {
		return common.SendError(c, http.StatusBadRequest, common.CodeMissingToken, "Missing bearer token")
	}

	err := h.authSvc.Logout(ctx, token)
	metrics.ObserveAuth("logout", err)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Me returns the profile of the authenticated user.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, common.CodeSessionInvalid, "Not authenticated")
	}

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return common.SendNotFoundError(c, "User")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user.Summary(),
	})
}
