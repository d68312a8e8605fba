package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"video-forge-backend/internal/analysis"
	"video-forge-backend/internal/models"
	"video-forge-backend/internal/store"
)

type AnalyzeHandler struct {
	analyzer Analyzer
}

func NewAnalyzeHandler(analyzer Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	result, err := h.analyzer.AnalyzeProject(c.Request.Context(), projectID, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "project not found"})
		return
	case errors.Is(err, analysis.ErrNoSampleVideo):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no sample video uploaded"})
		return
	case errors.Is(err, analysis.ErrProjectFinished):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "project is in a terminal state"})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "analysis failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.AnalyzeResponse{
		ProjectID: projectID.String(),
		Analysis:  result.Analysis,
		Plan:      result.Plan,
	})
}
