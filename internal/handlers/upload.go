package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"video-forge-backend/internal/models"
	"video-forge-backend/internal/store"
)

type UploadHandler struct {
	store ProjectStore
	files FileStore
}

func NewUploadHandler(store ProjectStore, files FileStore) *UploadHandler {
	return &UploadHandler{
		store: store,
		files: files,
	}
}

func (h *UploadHandler) UploadSampleVideo(c *gin.Context) {
	h.upload(c, "sample", "video/", func(path string) store.ProjectUpdate {
		return store.ProjectUpdate{SampleVideoPath: &path}
	})
}

func (h *UploadHandler) UploadCharacterImage(c *gin.Context) {
	h.upload(c, "character", "image/", func(path string) store.ProjectUpdate {
		return store.ProjectUpdate{CharacterImagePath: &path}
	})
}

func (h *UploadHandler) UploadAudio(c *gin.Context) {
	h.upload(c, "audio", "audio/", func(path string) store.ProjectUpdate {
		return store.ProjectUpdate{AudioPath: &path}
	})
}

// upload stores one multipart file under the project's folder and
// records its storage path. The content type must match the slot the
// file is uploaded into.
func (h *UploadHandler) upload(c *gin.Context, folder, typePrefix string, buildUpdate func(path string) store.ProjectUpdate) {
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
	if project.Status.IsTerminal() {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "project is in a terminal state"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no file uploaded",
			Message: "please provide a file with field name 'file'",
		})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, typePrefix) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "unsupported content type",
			Message: "expected " + typePrefix + "* but got " + contentType,
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to open file",
			Message: err.Error(),
		})
		return
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read file",
			Message: err.Error(),
		})
		return
	}

	storagePath, publicURL, err := h.files.UploadFile(userID, projectID, folder, file.Filename, contentType, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to upload file",
			Message: err.Error(),
		})
		return
	}

	rows, err := h.store.UpdateProject(c.Request.Context(), projectID, userID, buildUpdate(storagePath))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "upload succeeded but failed to save path",
			Message: err.Error(),
		})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "project not found"})
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		ProjectID: projectID.String(),
		Filename:  file.Filename,
		Size:      file.Size,
		URL:       publicURL,
	})
}
