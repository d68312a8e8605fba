package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"video-forge-backend/internal/analysis"
	"video-forge-backend/internal/chat"
	"video-forge-backend/internal/generation"
	"video-forge-backend/internal/middleware"
	"video-forge-backend/internal/models"
	"video-forge-backend/internal/store"
)

// ProjectStore is the slice of the store the HTTP layer needs.
type ProjectStore interface {
	CreateProject(ctx context.Context, userID uuid.UUID) (*models.Project, error)
	GetProject(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]models.Project, error)
	UpdateProject(ctx context.Context, projectID, userID uuid.UUID, update store.ProjectUpdate) (int64, error)
	DeleteProject(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, email string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
}

type FileStore interface {
	UploadFile(userID, projectID uuid.UUID, folder, filename, contentType string, data []byte) (string, string, error)
	GetPublicURL(storagePath string) string
	DeleteProjectFiles(userID, projectID uuid.UUID) error
}

type Analyzer interface {
	AnalyzeProject(ctx context.Context, projectID, userID uuid.UUID) (*analysis.Result, error)
}

type ChatService interface {
	SendMessage(ctx context.Context, projectID, userID uuid.UUID, message string) (*chat.Result, error)
}

type Generator interface {
	StartGeneration(ctx context.Context, projectID, userID uuid.UUID, modelTag string) (*generation.StartResult, error)
}

// currentUserID pulls the authenticated user out of the gin context. It
// writes the error response itself; callers return on false.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}

func projectIDParam(c *gin.Context) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return uuid.Nil, false
	}
	return projectID, true
}

func toProjectResponse(p *models.Project) models.ProjectResponse {
	response := models.ProjectResponse{
		ID:             p.ID.String(),
		Status:         p.Status,
		Progress:       p.Progress,
		VideoAnalysis:  p.VideoAnalysis,
		GenerationPlan: p.GenerationPlan,
		ChatHistory:    p.ChatHistory,
		DownloadCount:  p.DownloadCount,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		ExpiresAt:      p.ExpiresAt,
	}

	if p.SampleVideoPath.Valid {
		response.SampleVideoPath = p.SampleVideoPath.String
	}
	if p.CharacterImagePath.Valid {
		response.CharacterImagePath = p.CharacterImagePath.String
	}
	if p.AudioPath.Valid {
		response.AudioPath = p.AudioPath.String
	}
	if p.SelectedModel.Valid {
		response.SelectedModel = p.SelectedModel.String
	}
	if p.GeneratedVideoURL.Valid {
		response.GeneratedVideoURL = p.GeneratedVideoURL.String
	}
	if p.ErrorMessage.Valid {
		response.ErrorMessage = p.ErrorMessage.String
	}

	return response
}
