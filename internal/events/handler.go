package events

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iconnectlink/backend/internal/middleware"
	"github.com/iconnectlink/backend/internal/models"
	"github.com/iconnectlink/backend/pkg/database"
	"github.com/iconnectlink/backend/pkg/response"
	"github.com/iconnectlink/backend/pkg/storage"
)

// Store is the persistence surface the event handlers need.
// *Repository implements it.
type Store interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	ListByOrganizer(ctx context.Context, organizer uuid.UUID) ([]models.EventWithBookings, error)
	Update(ctx context.Context, e *models.Event) error
	SetPosterURL(ctx context.Context, id uuid.UUID, url string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ Store = (*Repository)(nil)

// PosterStorage uploads poster images. *storage.S3 implements it; a nil
// value disables the poster endpoint.
type PosterStorage interface {
	UploadPoster(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error)
}

// CreateRequest is the body for POST /api/events. Fee is raw JSON so that
// absent or non-numeric values coerce to zero instead of failing the bind.
type CreateRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Venue       string          `json:"venue"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Fee         json.RawMessage `json:"fee"`
	PosterURL   string          `json:"posterUrl"`
}

// UpdateRequest is the body for PUT /api/events/:id; absent fields keep
// their stored values.
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Venue       *string `json:"venue"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Fee         *int    `json:"fee"`
	PosterURL   *string `json:"posterUrl"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	store  Store
	s3     PosterStorage
	logger *zap.Logger
}

// NewHandler creates an event handler. s3 may be nil.
func NewHandler(store Store, s3 PosterStorage, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, s3: s3, logger: logger}
}

// Create handles POST /api/events (club role only; enforced by route middleware).
// The organizer is always the caller, never taken from the body.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	var missing []string
	for _, f := range []struct{ name, val string }{
		{"title", req.Title},
		{"description", req.Description},
		{"venue", req.Venue},
		{"date", req.Date},
		{"time", req.Time},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		response.ValidationFailed(c, "Validation failed", missing)
		return
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		response.ValidationFailed(c, "Validation failed", []string{"date"})
		return
	}
	if _, err := time.Parse(models.TimeLayout, req.Time); err != nil {
		response.ValidationFailed(c, "Validation failed", []string{"time"})
		return
	}
	fee := coerceFee(req.Fee)
	if fee < 0 {
		response.ValidationFailed(c, "Validation failed", []string{"fee"})
		return
	}

	posterURL := req.PosterURL
	if posterURL == "" {
		posterURL = models.DefaultPosterURL
	}

	e := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		Date:        req.Date,
		Time:        req.Time,
		Fee:         fee,
		PosterURL:   posterURL,
		Organizer:   c.MustGet(middleware.ContextUserID).(uuid.UUID),
	}
	if err := h.store.Create(c.Request.Context(), e); err != nil {
		h.logger.Error("create event failed", zap.Error(err))
		response.Internal(c, "Event creation failed")
		return
	}
	response.Created(c, "Event created successfully", gin.H{"event": e})
}

// List handles GET /api/events (public). Soonest events first.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		response.Internal(c, "Fetching events failed")
		return
	}
	response.OK(c, "Events fetched successfully", gin.H{"events": list})
}

// ListMine handles GET /api/events/my-events. Returns the caller's events
// with booking counts, newest first.
func (h *Handler) ListMine(c *gin.Context) {
	organizer := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.store.ListByOrganizer(c.Request.Context(), organizer)
	if err != nil {
		h.logger.Error("list organizer events failed", zap.Error(err), zap.String("organizer", organizer.String()))
		response.Internal(c, "Fetching club events failed")
		return
	}
	response.OK(c, "Club events with booking counts fetched successfully", gin.H{"events": list})
}

// GetByID handles GET /api/events/:id (public).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid Event ID")
		return
	}
	e, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			response.NotFound(c, "Event not found")
			return
		}
		h.logger.Error("get event failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "Fetching event failed")
		return
	}
	response.OK(c, "Event fetched successfully", gin.H{"event": e})
}

// Update handles PUT /api/events/:id (owner only). Applies a partial merge.
func (h *Handler) Update(c *gin.Context) {
	e, ok := h.loadOwnedEvent(c, "Only the event creator can update this")
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Venue != nil {
		e.Venue = *req.Venue
	}
	if req.Date != nil {
		if _, err := time.Parse(models.DateLayout, *req.Date); err != nil {
			response.ValidationFailed(c, "Validation failed", []string{"date"})
			return
		}
		e.Date = *req.Date
	}
	if req.Time != nil {
		if _, err := time.Parse(models.TimeLayout, *req.Time); err != nil {
			response.ValidationFailed(c, "Validation failed", []string{"time"})
			return
		}
		e.Time = *req.Time
	}
	if req.Fee != nil {
		if *req.Fee < 0 {
			response.ValidationFailed(c, "Validation failed", []string{"fee"})
			return
		}
		e.Fee = *req.Fee
	}
	if req.PosterURL != nil {
		e.PosterURL = *req.PosterURL
	}

	if err := h.store.Update(c.Request.Context(), e); err != nil {
		h.logger.Error("update event failed", zap.Error(err), zap.String("event_id", e.ID.String()))
		response.Internal(c, "Updating event failed")
		return
	}
	response.OK(c, "Event updated successfully", gin.H{"event": e})
}

// Delete handles DELETE /api/events/:id (owner only).
func (h *Handler) Delete(c *gin.Context) {
	e, ok := h.loadOwnedEvent(c, "Only the event creator can delete this")
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), e.ID); err != nil {
		h.logger.Error("delete event failed", zap.Error(err), zap.String("event_id", e.ID.String()))
		response.Internal(c, "Deleting event failed")
		return
	}
	response.OK(c, "Event deleted successfully", nil)
}

// UploadPoster handles POST /api/events/:id/poster (owner only). Stores the
// image in S3 and replaces the event's poster reference.
func (h *Handler) UploadPoster(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "poster storage not configured")
		return
	}
	e, ok := h.loadOwnedEvent(c, "Only the event creator can change the poster")
	if !ok {
		return
	}

	file, err := c.FormFile("poster")
	if err != nil {
		response.BadRequest(c, "missing file (form field: poster)")
		return
	}
	if file.Size > storage.MaxPosterFileSize {
		response.BadRequest(c, "file size exceeds 5MB limit")
		return
	}
	if !storage.ValidatePosterFileType(file.Header.Get("Content-Type"), file.Filename) {
		response.BadRequest(c, "invalid file type: only jpg, png and webp images allowed")
		return
	}

	contentType := storage.ContentTypeForFilename(file.Filename)
	if ct := file.Header.Get("Content-Type"); ct != "" {
		if _, ok := storage.AllowedPosterTypes[ct]; ok {
			contentType = ct
		}
	}

	rc, err := file.Open()
	if err != nil {
		h.logger.Error("open uploaded file failed", zap.Error(err))
		response.Internal(c, "failed to read file")
		return
	}
	defer rc.Close()

	key := storage.PosterKey(e.ID.String(), file.Filename)
	url, err := h.s3.UploadPoster(c.Request.Context(), key, contentType, rc, file.Size)
	if err != nil {
		h.logger.Error("poster upload failed", zap.Error(err), zap.String("event_id", e.ID.String()), zap.String("key", key))
		response.Internal(c, "failed to upload poster")
		return
	}
	if err := h.store.SetPosterURL(c.Request.Context(), e.ID, url); err != nil {
		h.logger.Error("set poster url failed", zap.Error(err), zap.String("event_id", e.ID.String()))
		response.Internal(c, "failed to save poster")
		return
	}
	e.PosterURL = url
	response.OK(c, "Poster updated successfully", gin.H{"event": e})
}

// loadOwnedEvent parses :id, loads the event and enforces that the caller is
// its organizer; it writes the error response itself when that fails.
func (h *Handler) loadOwnedEvent(c *gin.Context, forbiddenMsg string) (*models.Event, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid Event ID")
		return nil, false
	}
	e, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			response.NotFound(c, "Event not found")
			return nil, false
		}
		h.logger.Error("get event failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "Fetching event failed")
		return nil, false
	}
	if e.Organizer != c.MustGet(middleware.ContextUserID).(uuid.UUID) {
		response.Forbidden(c, forbiddenMsg)
		return nil, false
	}
	return e, true
}

// coerceFee mirrors the permissive fee handling of the booking form: absent
// or non-numeric values become 0, numeric strings are accepted.
func coerceFee(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return 0
}
