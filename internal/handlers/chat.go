package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"video-forge-backend/internal/models"
	"video-forge-backend/internal/store"
)

type ChatHandler struct {
	chat ChatService
}

func NewChatHandler(chat ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	result, err := h.chat.SendMessage(c.Request.Context(), projectID, userID, req.Message)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "chat failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{
		Response:    result.Response,
		UpdatedPlan: result.UpdatedPlan,
	})
}
