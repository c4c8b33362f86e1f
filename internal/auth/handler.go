package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iconnectlink/backend/internal/models"
	"github.com/iconnectlink/backend/pkg/database"
	"github.com/iconnectlink/backend/pkg/response"
	"github.com/iconnectlink/backend/pkg/utils"
)

// UserStore is the persistence surface the auth handlers need.
// *Repository implements it.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, name, email, passwordHash string, role models.Role, collegeID *string) (*models.User, error)
}

var _ UserStore = (*Repository)(nil)

// SignupRequest is the body for POST /api/auth/signup.
type SignupRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role"`
	CollegeID string `json:"collegeId"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	store  UserStore
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(store UserStore, jwt *JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, jwt: jwt, logger: logger}
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if req.Role == "" {
		response.BadRequest(c, "Role is required")
		return
	}
	if !models.ValidRole(req.Role) {
		response.BadRequest(c, "Role must be either student or club")
		return
	}
	role := models.Role(req.Role)

	var collegeID *string
	if role == models.RoleStudent {
		if req.CollegeID == "" {
			response.BadRequest(c, "College ID is required for students")
			return
		}
		collegeID = &req.CollegeID
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.store.Create(c.Request.Context(), req.Name, req.Email, hash, role, collegeID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			response.Conflict(c, response.CodeEmailTaken, "User already exists")
			return
		}
		h.logger.Error("create user failed", zap.Error(err))
		response.Internal(c, "Signup failed")
		return
	}

	response.Created(c, "Signup successful", gin.H{"user": user.ToPublic()})
}

// Login handles POST /api/auth/login. Issues a time-limited token carrying
// the user's id and role.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.store.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if database.IsNotFound(err) {
			response.NotFound(c, "User not found")
			return
		}
		h.logger.Error("get user failed", zap.Error(err))
		response.Internal(c, "Login failed")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "Invalid credentials")
		return
	}

	token, err := h.jwt.Generate(user.ID, string(user.Role))
	if err != nil {
		h.logger.Error("generate token failed", zap.Error(err), zap.String("user_id", user.ID.String()))
		response.Internal(c, "failed to generate token")
		return
	}

	response.OK(c, "Login successful", gin.H{"token": token, "user": user.ToPublic()})
}
