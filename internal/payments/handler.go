package payments

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iconnectlink/backend/internal/middleware"
	"github.com/iconnectlink/backend/internal/models"
	"github.com/iconnectlink/backend/pkg/database"
	"github.com/iconnectlink/backend/pkg/response"
)

// EventGetter resolves events so intents carry the right amount.
// events.Repository implements it.
type EventGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// CreateIntentRequest is the body for POST /api/payments/intents.
type CreateIntentRequest struct {
	Event string `json:"event" binding:"required"`
}

// Handler handles demo payment-intent endpoints.
type Handler struct {
	store  *Store
	events EventGetter
	logger *zap.Logger
}

// NewHandler creates a payments handler.
func NewHandler(store *Store, events EventGetter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, events: events, logger: logger}
}

// CreateIntent handles POST /api/payments/intents. The amount is the event's
// fee; free events need no intent.
func (h *Handler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	eventID, err := uuid.Parse(req.Event)
	if err != nil {
		response.BadRequest(c, "Invalid Event ID")
		return
	}
	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil {
		if database.IsNotFound(err) {
			response.NotFound(c, "Event not found")
			return
		}
		h.logger.Error("get event failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to create payment intent")
		return
	}
	if event.Fee == 0 {
		response.BadRequest(c, "This event is free; no payment is required")
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	intent, err := h.store.Create(c.Request.Context(), eventID, userID, event.Fee)
	if err != nil {
		h.logger.Error("create intent failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to create payment intent")
		return
	}
	response.Created(c, "Payment intent created", gin.H{"intent": intent})
}

// ConfirmIntent handles POST /api/payments/intents/:id/confirm. Demo only:
// flips the intent to paid, settles nothing.
func (h *Handler) ConfirmIntent(c *gin.Context) {
	intent, ok := h.loadOwnedIntent(c)
	if !ok {
		return
	}
	confirmed, err := h.store.Confirm(c.Request.Context(), intent.ID)
	if err != nil {
		if errors.Is(err, ErrIntentNotFound) {
			response.NotFound(c, "Payment intent not found or expired")
			return
		}
		h.logger.Error("confirm intent failed", zap.Error(err), zap.String("intent_id", intent.ID.String()))
		response.Internal(c, "failed to confirm payment")
		return
	}
	response.OK(c, "Payment confirmed", gin.H{"intent": confirmed})
}

// GetIntent handles GET /api/payments/intents/:id.
func (h *Handler) GetIntent(c *gin.Context) {
	intent, ok := h.loadOwnedIntent(c)
	if !ok {
		return
	}
	response.OK(c, "Payment intent fetched", gin.H{"intent": intent})
}

func (h *Handler) loadOwnedIntent(c *gin.Context) (*models.PaymentIntent, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid intent ID")
		return nil, false
	}
	intent, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrIntentNotFound) {
			response.NotFound(c, "Payment intent not found or expired")
			return nil, false
		}
		h.logger.Error("get intent failed", zap.Error(err), zap.String("intent_id", id.String()))
		response.Internal(c, "failed to fetch payment intent")
		return nil, false
	}
	if intent.UserID != c.MustGet(middleware.ContextUserID).(uuid.UUID) {
		response.Forbidden(c, "Not your payment intent")
		return nil, false
	}
	return intent, true
}
