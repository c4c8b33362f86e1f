package registrations

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iconnectlink/backend/internal/models"
	"github.com/iconnectlink/backend/pkg/database"
)

// ErrAlreadyBooked means a registration for the same (event, user) pair
// already exists.
var ErrAlreadyBooked = errors.New("already booked")

// Repository handles registration persistence.
type Repository struct {
	db database.Querier
}

// NewRepository creates a registrations repository.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// Create inserts a registration. The unique index on (event_id, user_id) is
// the duplicate guard: there is no prior existence check, so concurrent
// duplicate submissions cannot race past it. A conflict comes back as
// ErrAlreadyBooked.
func (r *Repository) Create(ctx context.Context, reg *models.Registration) error {
	const q = `INSERT INTO registrations (event_id, user_id)
		VALUES ($1, $2)
		RETURNING id, registered_at`
	err := r.db.QueryRow(ctx, q, reg.EventID, reg.UserID).Scan(&reg.ID, &reg.RegisteredAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyBooked
		}
		return err
	}
	return nil
}

// ListAll returns every registration with user (name, email) and event
// (title, date, venue, poster, fee) resolved.
func (r *Repository) ListAll(ctx context.Context) ([]models.RegistrationDetail, error) {
	const q = `SELECT r.id, r.registered_at, u.name, u.email, e.title, e.date, e.venue, e.poster_url, e.fee
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		JOIN events e ON e.id = r.event_id
		ORDER BY r.registered_at DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.RegistrationDetail
	for rows.Next() {
		var (
			d models.RegistrationDetail
			u models.RegistrationUser
			e models.RegistrationEvent
		)
		if err := rows.Scan(&d.ID, &d.RegisteredAt, &u.Name, &u.Email, &e.Title, &e.Date, &e.Venue, &e.PosterURL, &e.Fee); err != nil {
			return nil, err
		}
		d.User, d.Event = &u, &e
		list = append(list, d)
	}
	return list, rows.Err()
}

// ListByUser returns the user's registrations with the event resolved.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.RegistrationDetail, error) {
	const q = `SELECT r.id, r.registered_at, e.title, e.date, e.time, e.venue, e.poster_url, e.fee
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1
		ORDER BY r.registered_at DESC`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.RegistrationDetail
	for rows.Next() {
		var (
			d models.RegistrationDetail
			e models.RegistrationEvent
		)
		if err := rows.Scan(&d.ID, &d.RegisteredAt, &e.Title, &e.Date, &e.Time, &e.Venue, &e.PosterURL, &e.Fee); err != nil {
			return nil, err
		}
		d.Event = &e
		list = append(list, d)
	}
	return list, rows.Err()
}

// ListByEvent returns the event's registrations with the user resolved
// (name, email, college ID).
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.RegistrationDetail, error) {
	const q = `SELECT r.id, r.registered_at, u.name, u.email, u.college_id
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.registered_at ASC`
	rows, err := r.db.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.RegistrationDetail
	for rows.Next() {
		var (
			d models.RegistrationDetail
			u models.RegistrationUser
		)
		if err := rows.Scan(&d.ID, &d.RegisteredAt, &u.Name, &u.Email, &u.CollegeID); err != nil {
			return nil, err
		}
		d.User = &u
		list = append(list, d)
	}
	return list, rows.Err()
}
