package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"video-forge-backend/internal/models"
	"video-forge-backend/internal/store"
)

const tokenLifetime = 7 * 24 * time.Hour

type AuthHandler struct {
	users     UserStore
	jwtSecret string
}

func NewAuthHandler(users UserStore, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// Register creates the user if the email is new, otherwise signs in the
// existing one. Either way the caller gets a token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		user, err = h.users.CreateUser(c.Request.Context(), req.Email)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to register user",
			Message: err.Error(),
		})
		return
	}

	h.respondWithToken(c, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to log in",
			Message: err.Error(),
		})
		return
	}

	h.respondWithToken(c, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, user *models.User) {
	if err := h.users.TouchLastLogin(c.Request.Context(), user.ID); err != nil {
		log.Printf("Failed to update last login for user %s: %v", user.ID, err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenLifetime).Unix(),
	})

	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to sign token",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Token:  signed,
		UserID: user.ID.String(),
		Email:  user.Email,
	})
}
