package events

import (
	"context"

	"github.com/google/uuid"

	"github.com/iconnectlink/backend/internal/models"
	"github.com/iconnectlink/backend/pkg/database"
)

// Repository handles event persistence.
type Repository struct {
	db database.Querier
}

// NewRepository creates an event repository.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

const eventColumns = `id, title, description, venue, date, time, fee, poster_url, organizer, created_at, updated_at`

// Create inserts a new event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (title, description, venue, date, time, fee, poster_url, organizer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, q, e.Title, e.Description, e.Venue, e.Date, e.Time, e.Fee, e.PosterURL, e.Organizer).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an event by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	var e models.Event
	err := r.db.QueryRow(ctx, q, id).
		Scan(&e.ID, &e.Title, &e.Description, &e.Venue, &e.Date, &e.Time, &e.Fee, &e.PosterURL, &e.Organizer, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns all events, soonest first.
func (r *Repository) List(ctx context.Context) ([]models.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC, time ASC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Venue, &e.Date, &e.Time, &e.Fee, &e.PosterURL, &e.Organizer, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// ListByOrganizer returns the organizer's events with live registration
// counts, most recent first. The count is computed on every call.
func (r *Repository) ListByOrganizer(ctx context.Context, organizer uuid.UUID) ([]models.EventWithBookings, error) {
	const q = `SELECT e.id, e.title, e.description, e.venue, e.date, e.time, e.fee, e.poster_url, e.organizer, e.created_at, e.updated_at,
			COUNT(r.id) AS bookings
		FROM events e
		LEFT JOIN registrations r ON r.event_id = e.id
		WHERE e.organizer = $1
		GROUP BY e.id
		ORDER BY e.date DESC, e.time DESC`
	rows, err := r.db.Query(ctx, q, organizer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.EventWithBookings
	for rows.Next() {
		var e models.EventWithBookings
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Venue, &e.Date, &e.Time, &e.Fee, &e.PosterURL, &e.Organizer, &e.CreatedAt, &e.UpdatedAt, &e.Bookings); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Update persists the merged field values of an event.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	const q = `UPDATE events SET title = $1, description = $2, venue = $3, date = $4, time = $5, fee = $6, poster_url = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`
	return r.db.QueryRow(ctx, q, e.Title, e.Description, e.Venue, e.Date, e.Time, e.Fee, e.PosterURL, e.ID).
		Scan(&e.UpdatedAt)
}

// SetPosterURL updates only the poster reference.
func (r *Repository) SetPosterURL(ctx context.Context, id uuid.UUID, url string) error {
	const q = `UPDATE events SET poster_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, q, url, id)
	return err
}

// Delete removes an event. Its registrations go with it (cascade).
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM events WHERE id = $1`
	_, err := r.db.Exec(ctx, q, id)
	return err
}
