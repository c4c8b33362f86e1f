package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iconnectlink/backend/internal/middleware"
	"github.com/iconnectlink/backend/internal/models"
	"github.com/iconnectlink/backend/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore implements Store for handler tests.
type fakeStore struct {
	user        *models.User
	updatedHash string
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeStore) UpdatePassword(_ context.Context, _ uuid.UUID, passwordHash string) error {
	s.updatedHash = passwordHash
	return nil
}

func changePassword(t *testing.T, store Store, callerID uuid.UUID, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(store, nil)
	r := gin.New()
	r.POST("/api/users/change-password",
		func(c *gin.Context) { c.Set(middleware.ContextUserID, callerID) },
		h.ChangePassword,
	)
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/users/change-password", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChangePassword(t *testing.T) {
	oldHash, err := utils.HashPassword("old-secret")
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "asha@college.edu", Password: oldHash, Role: models.RoleStudent}

	t.Run("success rotates the stored hash", func(t *testing.T) {
		store := &fakeStore{user: user}
		w := changePassword(t, store, user.ID, map[string]any{
			"oldPassword": "old-secret", "newPassword": "new-secret",
		})
		require.Equal(t, http.StatusOK, w.Code)
		require.NotEmpty(t, store.updatedHash)
		assert.True(t, utils.CheckPassword("new-secret", store.updatedHash))
		assert.False(t, utils.CheckPassword("old-secret", store.updatedHash))
	})

	t.Run("wrong old password leaves hash untouched", func(t *testing.T) {
		store := &fakeStore{user: user}
		w := changePassword(t, store, user.ID, map[string]any{
			"oldPassword": "not-it", "newPassword": "new-secret",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, store.updatedHash)
	})

	t.Run("short new password rejected", func(t *testing.T) {
		store := &fakeStore{user: user}
		w := changePassword(t, store, user.ID, map[string]any{
			"oldPassword": "old-secret", "newPassword": "tiny",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, store.updatedHash)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		store := &fakeStore{user: user}
		w := changePassword(t, store, user.ID, map[string]any{"newPassword": "new-secret"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("vanished user", func(t *testing.T) {
		store := &fakeStore{user: user}
		w := changePassword(t, store, uuid.New(), map[string]any{
			"oldPassword": "old-secret", "newPassword": "new-secret",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
