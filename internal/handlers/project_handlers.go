package handlers

import (
	"net/http"
	"strconv"

	"wishbase/internal/analytics"
	"wishbase/internal/common"
	"wishbase/internal/models"
	"wishbase/internal/services"

	"github.com/labstack/echo/v4"
)

// ProjectHandlers serves the dashboard's project management surface.
type ProjectHandlers struct {
	projectSvc   services.ProjectService
	analyticsSvc *analytics.Service
}

func NewProjectHandlers(projectSvc services.ProjectService, analyticsSvc *analytics.Service) *ProjectHandlers {
	return &ProjectHandlers{
		projectSvc:   projectSvc,
		analyticsSvc: analyticsSvc,
	}
}

type projectView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	APIKey    string `json:"apiKey"`
	CreatedAt string `json:"createdAt"`
}

func toProjectView(p *models.Project) projectView {
	return projectView{
		ID:        p.ID.String(),
		Name:      p.Name,
		Domain:    p.Domain,
		APIKey:    p.APIKey,
		CreatedAt: p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Create provisions a new project with a server-generated API key.
func (h *ProjectHandlers) Create(c echo.Context) error {
	var req services.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, common.CodeValidation, "Invalid request format")
	}
	if req.Name == "" || req.Domain == "" {
		return common.SendError(c, http.StatusBadRequest, common.CodeValidation, "name and domain are required")
	}

	project, err := h.projectSvc.Create(c.Request().Context(), &req)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"project": toProjectView(project),
	})
}

// List returns all projects, newest first.
func (h *ProjectHandlers) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	projects, err := h.projectSvc.List(c.Request().Context(), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, toProjectView(p))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"projects": views,
	})
}

// Get returns one project by id.
func (h *ProjectHandlers) Get(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	project, err := h.projectSvc.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"project": toProjectView(project),
	})
}

// Delete removes a project and everything under it.
func (h *ProjectHandlers) Delete(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.projectSvc.Delete(c.Request().Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Stats returns the project's usage aggregates.
func (h *ProjectHandlers) Stats(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	// 404 on unknown projects rather than returning empty stats.
	if _, err := h.projectSvc.GetByID(c.Request().Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	stats, err := h.analyticsSvc.ProjectStats(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}
