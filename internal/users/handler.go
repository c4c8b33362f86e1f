package users

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iconnectlink/backend/internal/auth"
	"github.com/iconnectlink/backend/internal/middleware"
	"github.com/iconnectlink/backend/internal/models"
	"github.com/iconnectlink/backend/pkg/database"
	"github.com/iconnectlink/backend/pkg/response"
	"github.com/iconnectlink/backend/pkg/utils"
)

// Store is the persistence surface the user handlers need.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

var _ Store = (*auth.Repository)(nil)

// ChangePasswordRequest is the body for POST /api/users/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Handler handles user HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// ChangePassword handles POST /api/users/change-password. The caller's
// identity comes from the token; the old password must verify before the
// stored hash is replaced.
func (h *Handler) ChangePassword(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		response.BadRequest(c, "Please provide old and new passwords.")
		return
	}
	if len(req.NewPassword) < utils.MinPasswordLength {
		response.BadRequest(c, "New password must be at least 6 characters long.")
		return
	}

	user, err := h.store.GetByID(c.Request.Context(), userID)
	if err != nil {
		if database.IsNotFound(err) {
			response.NotFound(c, "User not found.")
			return
		}
		h.logger.Error("get user failed", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "Internal Server Error")
		return
	}

	if !utils.CheckPassword(req.OldPassword, user.Password) {
		response.Unauthorized(c, "Incorrect old password.")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		response.Internal(c, "Internal Server Error")
		return
	}
	if err := h.store.UpdatePassword(c.Request.Context(), userID, hash); err != nil {
		h.logger.Error("update password failed", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "Internal Server Error")
		return
	}

	response.OK(c, "Password changed successfully.", nil)
}
