package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration is a booking of one user into one event. At most one exists
// per (event, user) pair; the storage layer enforces this.
type Registration struct {
	ID           uuid.UUID `json:"id"`
	EventID      uuid.UUID `json:"event"`
	UserID       uuid.UUID `json:"user"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// RegistrationUser is the user projection embedded in registration listings.
type RegistrationUser struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	CollegeID *string `json:"collegeId,omitempty"`
}

// RegistrationEvent is the event projection embedded in registration listings.
type RegistrationEvent struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	Time      string `json:"time,omitempty"`
	Venue     string `json:"venue"`
	PosterURL string `json:"posterUrl"`
	Fee       int    `json:"fee"`
}

// RegistrationDetail is a registration with its references resolved. Which of
// User/Event is populated depends on the listing.
type RegistrationDetail struct {
	ID           uuid.UUID          `json:"id"`
	RegisteredAt time.Time          `json:"registeredAt"`
	User         *RegistrationUser  `json:"user,omitempty"`
	Event        *RegistrationEvent `json:"event,omitempty"`
}
