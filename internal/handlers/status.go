package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"video-forge-backend/internal/models"
	"video-forge-backend/internal/store"
)

type StatusHandler struct {
	store ProjectStore
}

func NewStatusHandler(store ProjectStore) *StatusHandler {
	return &StatusHandler{store: store}
}

func (h *StatusHandler) GetStatus(c *gin.Context) {
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

	response := models.StatusResponse{
		ProjectID:              project.ID.String(),
		Status:                 project.Status,
		Progress:               project.Progress,
		EstimatedTimeRemaining: project.EstimatedTimeRemaining,
		UpdatedAt:              project.UpdatedAt,
	}
	if project.ErrorMessage.Valid {
		response.ErrorMessage = project.ErrorMessage.String
	}

	c.JSON(http.StatusOK, response)
}
