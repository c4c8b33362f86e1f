package registrations

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iconnectlink/backend/internal/middleware"
	"github.com/iconnectlink/backend/internal/models"
	"github.com/iconnectlink/backend/internal/payments"
	"github.com/iconnectlink/backend/pkg/database"
	"github.com/iconnectlink/backend/pkg/response"
)

// Store is the persistence surface the registration handlers need.
// *Repository implements it.
type Store interface {
	Create(ctx context.Context, reg *models.Registration) error
	ListAll(ctx context.Context) ([]models.RegistrationDetail, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.RegistrationDetail, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.RegistrationDetail, error)
}

var _ Store = (*Repository)(nil)

// EventGetter resolves the event being booked. events.Repository implements it.
type EventGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// CreateRequest is the body for POST /api/registrations. The user is always
// the caller; only the event comes from the body.
type CreateRequest struct {
	Event string `json:"event" binding:"required"`
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	store    Store
	events   EventGetter
	verifier payments.Verifier
	logger   *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(store Store, events EventGetter, verifier payments.Verifier, logger *zap.Logger) *Handler {
	if verifier == nil {
		verifier = payments.DemoVerifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, events: events, verifier: verifier, logger: logger}
}

// Create handles POST /api/registrations. Books a ticket for the caller.
// Duplicates come back as 409 with a machine-readable code so the client can
// render "you're already registered" instead of an error banner.
func (h *Handler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "User and Event ID are required")
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
		response.Internal(c, "Internal Server Error")
		return
	}

	if event.Fee > 0 {
		paid, err := h.verifier.Verify(c.Request.Context(), eventID, userID)
		if err != nil {
			h.logger.Error("payment verification failed", zap.Error(err), zap.String("event_id", eventID.String()))
			response.Internal(c, "Internal Server Error")
			return
		}
		if !paid {
			response.Forbidden(c, "This is a paid event and requires payment.")
			return
		}
	}

	reg := &models.Registration{EventID: eventID, UserID: userID}
	if err := h.store.Create(c.Request.Context(), reg); err != nil {
		if errors.Is(err, ErrAlreadyBooked) {
			response.Conflict(c, response.CodeAlreadyBooked, "You have already booked a ticket for this event.")
			return
		}
		h.logger.Error("create registration failed", zap.Error(err),
			zap.String("event_id", eventID.String()), zap.String("user_id", userID.String()))
		response.Internal(c, "Internal Server Error")
		return
	}

	response.Created(c, "Ticket booked successfully!", gin.H{"registration": reg})
}

// ListAll handles GET /api/registrations. Open to anyone, as in the original
// admin convenience listing.
func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err))
		response.Internal(c, "Failed to fetch registrations")
		return
	}
	response.OK(c, "Registrations fetched successfully", gin.H{"registrations": list})
}

// ListMine handles GET /api/registrations/my-bookings. The caller's identity
// from the token is the only filter; no client-supplied user ID is accepted.
func (h *Handler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.store.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list user registrations failed", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "Failed to fetch user registrations")
		return
	}
	response.OK(c, "User registrations fetched successfully", gin.H{"registrations": list})
}

// ListByEvent handles GET /api/registrations/event/:id.
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid Event ID")
		return
	}
	list, err := h.store.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("list event registrations failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "Failed to fetch event registrations")
		return
	}
	response.OK(c, "Event registrations fetched successfully", gin.H{"registrations": list})
}
