package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"video-forge-backend/internal/handlers"
	"video-forge-backend/internal/models"
	"video-forge-backend/internal/store"
)

type fakeUserStore struct {
	byEmail     map[string]*models.User
	lastLogins  int
	createCalls int
	touchErr    error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{byEmail: make(map[string]*models.User)}
	for _, u := range users {
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeUserStore) CreateUser(_ context.Context, email string) (*models.User, error) {
	f.createCalls++
	u := &models.User{
		ID:                 uuid.New(),
		Email:              email,
		SubscriptionStatus: "free",
		CreatedAt:          time.Now(),
	}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) TouchLastLogin(_ context.Context, _ uuid.UUID) error {
	f.lastLogins++
	return f.touchErr
}

func TestRegister_NewUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := newFakeUserStore()

	h := handlers.NewAuthHandler(users, "test-secret")
	router := gin.New()
	router.POST("/auth/register", h.Register)

	req, _ := http.NewRequest("POST", "/auth/register",
		bytes.NewBufferString(`{"email":"new@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")
	assert.Contains(t, w.Body.String(), "new@example.com")
	assert.Equal(t, 1, users.createCalls)
	assert.Equal(t, 1, users.lastLogins)
}

func TestRegister_ExistingUserSignsIn(t *testing.T) {
	gin.SetMode(gin.TestMode)
	existing := &models.User{ID: uuid.New(), Email: "old@example.com"}
	users := newFakeUserStore(existing)

	h := handlers.NewAuthHandler(users, "test-secret")
	router := gin.New()
	router.POST("/auth/register", h.Register)

	req, _ := http.NewRequest("POST", "/auth/register",
		bytes.NewBufferString(`{"email":"old@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), existing.ID.String())
	assert.Zero(t, users.createCalls)
}

func TestLogin_UnknownUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := newFakeUserStore()

	h := handlers.NewAuthHandler(users, "test-secret")
	router := gin.New()
	router.POST("/auth/login", h.Login)

	req, _ := http.NewRequest("POST", "/auth/login",
		bytes.NewBufferString(`{"email":"nobody@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_LastLoginFailureIsNonFatal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	existing := &models.User{ID: uuid.New(), Email: "old@example.com"}
	users := newFakeUserStore(existing)
	users.touchErr = errors.New("connection reset")

	h := handlers.NewAuthHandler(users, "test-secret")
	router := gin.New()
	router.POST("/auth/login", h.Login)

	req, _ := http.NewRequest("POST", "/auth/login",
		bytes.NewBufferString(`{"email":"old@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")
}

func TestRegister_InvalidEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := newFakeUserStore()

	h := handlers.NewAuthHandler(users, "test-secret")
	router := gin.New()
	router.POST("/auth/register", h.Register)

	req, _ := http.NewRequest("POST", "/auth/register",
		bytes.NewBufferString(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, users.createCalls)
}
