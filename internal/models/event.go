package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPosterURL is used when an event is created without a poster.
const DefaultPosterURL = "https://images.pexels.com/photos/2747449/pexels-photo-2747449.jpeg"

// Date and time wire formats. Zero-padded so string ordering matches
// chronological ordering.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Event is an activity open for booking, owned by a club-role user.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Fee         int       `json:"fee"`
	PosterURL   string    `json:"posterUrl"`
	Organizer   uuid.UUID `json:"organizer"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EventWithBookings is an Event plus its live registration count, for the
// organizer dashboard.
type EventWithBookings struct {
	Event
	Bookings int `json:"bookings"`
}
