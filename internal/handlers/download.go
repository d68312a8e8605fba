package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"video-forge-backend/internal/models"
	"video-forge-backend/internal/store"
)

type DownloadHandler struct {
	store ProjectStore
}

func NewDownloadHandler(store ProjectStore) *DownloadHandler {
	return &DownloadHandler{store: store}
}

// Download hands out the generated video URL and counts the download.
// Only completed projects with a generated video qualify.
func (h *DownloadHandler) Download(c *gin.Context) {
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

	if project.Status != models.StatusCompleted || !project.GeneratedVideoURL.Valid {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "video not ready for download"})
		return
	}

	if _, err := h.store.UpdateProject(c.Request.Context(), projectID, userID, store.ProjectUpdate{
		IncrementDownloads: true,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to record download",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.DownloadResponse{
		ProjectID:   projectID.String(),
		DownloadURL: project.GeneratedVideoURL.String,
		Filename:    fmt.Sprintf("video_%s.mp4", projectID.String()),
	})
}
