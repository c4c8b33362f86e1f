package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iconnectlink/backend/internal/models"
	"github.com/iconnectlink/backend/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUserStore implements UserStore for handler tests.
type fakeUserStore struct {
	users     map[string]*models.User // keyed by email
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeUserStore) Create(_ context.Context, name, email, passwordHash string, role models.Role, collegeID *string) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, ok := s.users[email]; ok {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	u := &models.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		Role:      role,
		CollegeID: collegeID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.users[email] = u
	return u, nil
}

func newAuthRouter(store UserStore, jwtSvc *JWTService) *gin.Engine {
	h := NewHandler(store, jwtSvc, nil)
	r := gin.New()
	r.POST("/api/auth/signup", h.Signup)
	r.POST("/api/auth/login", h.Login)
	return r
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{
			name: "club signup succeeds",
			body: map[string]any{
				"name": "Robotics Club", "email": "robotics@college.edu",
				"password": "secret123", "role": "club",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "student signup succeeds with college id",
			body: map[string]any{
				"name": "Asha", "email": "asha@college.edu",
				"password": "secret123", "role": "student", "collegeId": "CSE-042",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing role",
			body:       map[string]any{"name": "Asha", "email": "a@college.edu", "password": "secret123"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown role",
			body: map[string]any{
				"name": "Asha", "email": "a@college.edu", "password": "secret123", "role": "admin",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "student without college id",
			body: map[string]any{
				"name": "Asha", "email": "a@college.edu", "password": "secret123", "role": "student",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing email",
			body:       map[string]any{"name": "Asha", "password": "secret123", "role": "club"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(newFakeUserStore(), NewJWTService("test-secret", 1))
			w, envelope := doJSON(t, router, http.MethodPost, "/api/auth/signup", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, true, envelope["success"])
				user := envelope["user"].(map[string]any)
				assert.Equal(t, tt.body["email"], user["email"])
				assert.NotContains(t, user, "password")
			} else {
				assert.Equal(t, false, envelope["success"])
			}
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	router := newAuthRouter(store, NewJWTService("test-secret", 1))
	body := map[string]any{
		"name": "Robotics Club", "email": "robotics@college.edu",
		"password": "secret123", "role": "club",
	}

	w, _ := doJSON(t, router, http.MethodPost, "/api/auth/signup", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w, envelope := doJSON(t, router, http.MethodPost, "/api/auth/signup", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_taken", envelope["code"])
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	_, err = store.Create(context.Background(), "Asha", "asha@college.edu", hash, models.RoleStudent, nil)
	require.NoError(t, err)

	jwtSvc := NewJWTService("test-secret", 1)
	router := newAuthRouter(store, jwtSvc)

	t.Run("unknown email", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]any{
			"email": "nobody@college.edu", "password": "secret123",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]any{
			"email": "asha@college.edu", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("success issues a valid token", func(t *testing.T) {
		w, envelope := doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]any{
			"email": "asha@college.edu", "password": "secret123",
		})
		require.Equal(t, http.StatusOK, w.Code)

		token, ok := envelope["token"].(string)
		require.True(t, ok)
		claims, err := jwtSvc.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "student", claims.Role)

		user := envelope["user"].(map[string]any)
		assert.Equal(t, "asha@college.edu", user["email"])
		assert.NotContains(t, user, "password")
	})
}
