package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"video-forge-backend/internal/models"
	"video-forge-backend/internal/store"
)

type ProjectsHandler struct {
	store ProjectStore
	files FileStore
}

func NewProjectsHandler(store ProjectStore, files FileStore) *ProjectsHandler {
	return &ProjectsHandler{
		store: store,
		files: files,
	}
}

func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	project, err := h.store.CreateProject(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create project",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projects, err := h.store.ListProjects(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list projects",
			Message: err.Error(),
		})
		return
	}

	summaries := make([]models.ProjectSummary, len(projects))
	for i, p := range projects {
		summaries[i] = models.ProjectSummary{
			ID:        p.ID.String(),
			Status:    p.Status,
			Progress:  p.Progress,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
	}

	c.JSON(http.StatusOK, models.ProjectListResponse{Projects: summaries})
}

func (h *ProjectsHandler) GetProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	project, err := h.store.GetProject(c.Request.Context(), projectID, userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get project",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	// Stored files go first; a failure here should not keep the row
	// around forever.
	if err := h.files.DeleteProjectFiles(userID, projectID); err != nil {
		log.Printf("Failed to delete files for project %s: %v", projectID, err)
	}

	removed, err := h.store.DeleteProject(c.Request.Context(), projectID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete project",
			Message: err.Error(),
		})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "project deleted successfully"})
}
