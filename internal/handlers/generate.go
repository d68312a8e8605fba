package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"video-forge-backend/internal/generation"
	"video-forge-backend/internal/models"
	"video-forge-backend/internal/store"
)

type GenerateHandler struct {
	generator Generator
}

func NewGenerateHandler(generator Generator) *GenerateHandler {
	return &GenerateHandler{generator: generator}
}

func (h *GenerateHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Body is optional; an empty one means the default model.
		req.Model = ""
	}
	if req.Model == "" {
		req.Model = generation.ModelRunwayGen4
	}

	result, err := h.generator.StartGeneration(c.Request.Context(), projectID, userID, req.Model)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "project not found"})
		return
	case errors.Is(err, generation.ErrUnknownModel):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown generation model: " + req.Model})
		return
	case errors.Is(err, generation.ErrNoPlan):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no generation plan available, run analysis first"})
		return
	case errors.Is(err, generation.ErrProjectFinished):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "project is in a terminal state"})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "failed to start generation",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.GenerateResponse{
		ProjectID:     projectID.String(),
		Status:        models.StatusProcessing,
		GenerationID:  result.JobID,
		Model:         result.Model,
		EstimatedTime: result.EstimatedTime,
	})
}
